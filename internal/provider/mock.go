package provider

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"GrowthLens/internal/model"
)

// Mock returns controllable fixed data for development and testing. Symbols
// pass through uppercase unchanged; per-symbol errors take precedence over
// series data.
type Mock struct {
	Series map[string][]model.PricePoint
	Errs   map[string]error

	fetches atomic.Int64
}

func NewMock() *Mock {
	return &Mock{
		Series: make(map[string][]model.PricePoint),
		Errs:   make(map[string]error),
	}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Symbol(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", retrievalErr(KindNotFound, ticker, nil)
	}
	return t, nil
}

func (m *Mock) DailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	m.fetches.Add(1)
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	series, ok := m.Series[symbol]
	if !ok {
		return nil, retrievalErr(KindNotFound, symbol, nil)
	}
	var bars []model.PricePoint
	for _, p := range series {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		bars = append(bars, p)
	}
	if len(bars) == 0 {
		return nil, retrievalErr(KindEmptyRange, symbol, nil)
	}
	return bars, nil
}

// Fetches reports how many DailyBars calls were made.
func (m *Mock) Fetches() int64 { return m.fetches.Load() }
