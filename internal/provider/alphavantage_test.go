package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const avPayload = `{
  "Meta Data": {"2. Symbol": "MSFT"},
  "Time Series (Daily)": {
    "2024-01-05": {"1. open": "370.0", "2. high": "374.0", "3. low": "369.0", "4. close": "373.0", "5. adjusted close": "372.1", "6. volume": "21000000"},
    "2024-01-03": {"1. open": "368.0", "2. high": "371.0", "3. low": "367.0", "4. close": "370.5", "5. adjusted close": "369.6", "6. volume": "23000000"},
    "2023-12-29": {"1. open": "375.0", "2. high": "377.0", "3. low": "374.0", "4. close": "376.0", "5. adjusted close": "375.1", "6. volume": "19000000"}
  }
}`

func TestAlphaVantage_RequiresKey(t *testing.T) {
	if _, err := NewAlphaVantage(Options{}); err == nil {
		t.Fatal("expected missing-key error")
	}
}

func TestAlphaVantage_DailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "TIME_SERIES_DAILY_ADJUSTED" {
			t.Errorf("unexpected function param %q", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "demo" {
			t.Errorf("unexpected apikey param %q", got)
		}
		w.Write([]byte(avPayload))
	}))
	defer srv.Close()

	av, err := NewAlphaVantage(Options{APIKey: "demo", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	bars, err := av.DailyBars(context.Background(), "MSFT", day("2024-01-01"), day("2024-01-31"))
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars inside range, got %d", len(bars))
	}
	if !bars[0].Date.Equal(day("2024-01-03")) {
		t.Errorf("bars not ascending, first = %v", bars[0].Date)
	}
	if bars[1].AdjClose != 372.1 {
		t.Errorf("adj close = %v, want 372.1", bars[1].AdjClose)
	}
}

func TestAlphaVantage_ThrottleNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	}))
	defer srv.Close()

	av, _ := NewAlphaVantage(Options{APIKey: "demo", BaseURL: srv.URL})
	_, err := av.DailyBars(context.Background(), "MSFT", day("2024-01-01"), day("2024-01-31"))
	var rerr *RetrievalError
	if !errors.As(err, &rerr) || rerr.Kind != KindRateLimited {
		t.Fatalf("expected rate_limited, got %v", err)
	}
}

func TestAlphaVantage_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call. Please retry or visit the documentation."}`))
	}))
	defer srv.Close()

	av, _ := NewAlphaVantage(Options{APIKey: "demo", BaseURL: srv.URL})
	_, err := av.DailyBars(context.Background(), "NOSUCH", day("2024-01-01"), day("2024-01-31"))
	var rerr *RetrievalError
	if !errors.As(err, &rerr) || rerr.Kind != KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestNew_SelectsVariant(t *testing.T) {
	p, err := New(Options{Name: ""})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "stooq" {
		t.Errorf("default provider = %s, want stooq", p.Name())
	}
	if _, err := New(Options{Name: "bloomberg"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
