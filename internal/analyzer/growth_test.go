package analyzer

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"GrowthLens/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// janSeries covers the first two trading weeks of 2024 (Jan 1 was a holiday).
func janSeries() []model.PricePoint {
	dates := []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"}
	points := make([]model.PricePoint, len(dates))
	for i, d := range dates {
		price := 100 + float64(i)
		points[i] = model.PricePoint{Date: day(d), Open: price - 0.5, Close: price, AdjClose: price - 0.1}
	}
	return points
}

func TestCompute_EmptySeries(t *testing.T) {
	_, err := Compute(nil, day("2024-01-01"), day("2024-01-31"), model.FieldClose)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestCompute_ExactEndpoints(t *testing.T) {
	g, err := Compute(janSeries(), day("2024-01-02"), day("2024-01-12"), model.FieldClose)
	if err != nil {
		t.Fatal(err)
	}
	if g.Warning != "" {
		t.Errorf("unexpected warning: %s", g.Warning)
	}
	if !g.StartDate.Equal(day("2024-01-02")) || !g.EndDate.Equal(day("2024-01-12")) {
		t.Errorf("effective dates %v..%v", g.StartDate, g.EndDate)
	}
	if g.StartPrice != 100 || g.EndPrice != 108 {
		t.Errorf("prices %v..%v", g.StartPrice, g.EndPrice)
	}
	if g.AbsoluteReturn != 8 {
		t.Errorf("absolute return = %v, want 8", g.AbsoluteReturn)
	}
	if math.Abs(g.GrowthPct-8.0) > 1e-9 {
		t.Errorf("growth = %v, want 8", g.GrowthPct)
	}
	if g.DataPoints != 9 {
		t.Errorf("data points = %d, want 9", g.DataPoints)
	}
}

func TestCompute_WeekendShift(t *testing.T) {
	// Jan 6-7 2024 is a weekend; Jan 1 a holiday.
	g, err := Compute(janSeries(), day("2024-01-01"), day("2024-01-07"), model.FieldClose)
	if err != nil {
		t.Fatal(err)
	}
	if !g.StartDate.Equal(day("2024-01-02")) {
		t.Errorf("effective start = %v, want 2024-01-02", g.StartDate)
	}
	if !g.EndDate.Equal(day("2024-01-05")) {
		t.Errorf("effective end = %v, want 2024-01-05", g.EndDate)
	}
	if g.Warning == "" || !strings.Contains(g.Warning, "shifted") {
		t.Errorf("expected shift warning, got %q", g.Warning)
	}
	if g.DataPoints != 4 {
		t.Errorf("data points = %d, want 4", g.DataPoints)
	}
}

func TestCompute_RangeOutsideSeries(t *testing.T) {
	for _, tt := range []struct{ start, end string }{
		{"2023-11-01", "2023-11-30"}, // entirely before
		{"2024-02-01", "2024-02-28"}, // entirely after
	} {
		_, err := Compute(janSeries(), day(tt.start), day(tt.end), model.FieldClose)
		if !errors.Is(err, ErrNoData) {
			t.Errorf("range %s..%s: expected ErrNoData, got %v", tt.start, tt.end, err)
		}
	}
}

func TestCompute_ZeroStartPrice(t *testing.T) {
	points := []model.PricePoint{
		{Date: day("2024-01-02"), Close: 0},
		{Date: day("2024-01-03"), Close: 5},
	}
	_, err := Compute(points, day("2024-01-01"), day("2024-01-31"), model.FieldClose)
	if !errors.Is(err, ErrZeroStartPrice) {
		t.Fatalf("expected ErrZeroStartPrice, got %v", err)
	}
}

func TestCompute_FlatSeriesZeroGrowth(t *testing.T) {
	points := []model.PricePoint{
		{Date: day("2024-01-02"), Close: 50},
		{Date: day("2024-01-03"), Close: 55},
		{Date: day("2024-01-04"), Close: 50},
	}
	g, err := Compute(points, day("2024-01-02"), day("2024-01-04"), model.FieldClose)
	if err != nil {
		t.Fatal(err)
	}
	if g.GrowthPct != 0 || g.AbsoluteReturn != 0 {
		t.Errorf("flat endpoints must yield zero growth, got %v / %v", g.GrowthPct, g.AbsoluteReturn)
	}
}

func TestCompute_PriceFieldSelection(t *testing.T) {
	series := janSeries()
	tests := []struct {
		field     model.PriceField
		wantStart float64
		wantEnd   float64
	}{
		{model.FieldClose, 100, 108},
		{model.FieldOpen, 99.5, 107.5},
		{model.FieldAdjClose, 99.9, 107.9},
	}
	for _, tt := range tests {
		g, err := Compute(series, day("2024-01-02"), day("2024-01-12"), tt.field)
		if err != nil {
			t.Fatalf("%s: %v", tt.field, err)
		}
		if g.StartPrice != tt.wantStart || g.EndPrice != tt.wantEnd {
			t.Errorf("%s: prices %v..%v, want %v..%v", tt.field, g.StartPrice, g.EndPrice, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestCompute_SinglePoint(t *testing.T) {
	points := []model.PricePoint{{Date: day("2024-01-03"), Close: 42}}
	g, err := Compute(points, day("2024-01-01"), day("2024-01-05"), model.FieldClose)
	if err != nil {
		t.Fatal(err)
	}
	if g.DataPoints != 1 || g.GrowthPct != 0 {
		t.Errorf("single point: %+v", g)
	}
}
