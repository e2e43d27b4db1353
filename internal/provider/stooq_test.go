package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const stooqCSV = `Date,Open,High,Low,Close,Volume
2024-01-02,185.00,186.50,184.00,186.00,50000000
2024-01-03,186.10,187.00,185.20,185.50,42000000
2024-01-04,bad,row,,,
2024-01-05,185.40,188.00,185.30,187.90,47000000
`

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStooq_DailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("s"); got != "aapl.us" {
			t.Errorf("unexpected symbol param %q", got)
		}
		if got := r.URL.Query().Get("d1"); got != "20240101" {
			t.Errorf("unexpected d1 param %q", got)
		}
		w.Write([]byte(stooqCSV))
	}))
	defer srv.Close()

	s := NewStooq(Options{BaseURL: srv.URL})
	sym, err := s.Symbol("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	bars, err := s.DailyBars(context.Background(), sym, day("2024-01-01"), day("2024-01-31"))
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars (malformed row skipped), got %d", len(bars))
	}
	if !bars[0].Date.Equal(day("2024-01-02")) || !bars[2].Date.Equal(day("2024-01-05")) {
		t.Errorf("bars not ascending: %v .. %v", bars[0].Date, bars[2].Date)
	}
	if bars[0].Close != 186.00 {
		t.Errorf("close = %v, want 186.00", bars[0].Close)
	}
	// No Adj Close column: Close stands in.
	if bars[0].AdjClose != bars[0].Close {
		t.Errorf("adj close = %v, want %v", bars[0].AdjClose, bars[0].Close)
	}
}

func TestStooq_UnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("No data"))
	}))
	defer srv.Close()

	s := NewStooq(Options{BaseURL: srv.URL})
	_, err := s.DailyBars(context.Background(), "nosuch.us", day("2024-01-01"), day("2024-01-31"))
	var rerr *RetrievalError
	if !errors.As(err, &rerr) || rerr.Kind != KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestStooq_EmptyRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Date,Open,High,Low,Close,Volume\n"))
	}))
	defer srv.Close()

	s := NewStooq(Options{BaseURL: srv.URL})
	_, err := s.DailyBars(context.Background(), "aapl.us", day("2024-01-06"), day("2024-01-07"))
	var rerr *RetrievalError
	if !errors.As(err, &rerr) || rerr.Kind != KindEmptyRange {
		t.Fatalf("expected empty_range, got %v", err)
	}
}

func TestStooq_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewStooq(Options{BaseURL: srv.URL})
	_, err := s.DailyBars(context.Background(), "aapl.us", day("2024-01-01"), day("2024-01-31"))
	var rerr *RetrievalError
	if !errors.As(err, &rerr) || rerr.Kind != KindRateLimited {
		t.Fatalf("expected rate_limited, got %v", err)
	}
}

func TestStooq_RetriesOnceOnTransportError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// Drop the connection mid-request to force a client transport error.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatal(err)
			}
			conn.Close()
			return
		}
		w.Write([]byte(stooqCSV))
	}))
	defer srv.Close()

	s := NewStooq(Options{BaseURL: srv.URL})
	bars, err := s.DailyBars(context.Background(), "aapl.us", day("2024-01-01"), day("2024-01-31"))
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", calls)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
}
