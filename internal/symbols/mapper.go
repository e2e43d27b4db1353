package symbols

import (
	"errors"
	"strings"
)

// ErrEmptyTicker is returned when a ticker is blank after trimming.
var ErrEmptyTicker = errors.New("empty ticker")

// Mapper translates canonical tickers into provider-specific symbols. It is a
// pure rule table: unknown tickers are rewritten best-effort, never rejected —
// whether the symbol actually exists is the provider's call.
type Mapper struct {
	overrides map[string]string
	rewrite   func(ticker string) string
}

// NewStooqMapper maps US tickers the way Stooq expects them: lowercase with a
// ".us" suffix (AAPL -> aapl.us). Overrides take precedence and are matched on
// the canonical uppercase ticker, e.g. {"^SPX": "^spx"} for indices.
func NewStooqMapper(overrides map[string]string) *Mapper {
	return &Mapper{
		overrides: normalizeOverrides(overrides),
		rewrite: func(ticker string) string {
			return strings.ToLower(ticker) + ".us"
		},
	}
}

// NewAlphaVantageMapper passes tickers through uppercase, which is what the
// Alpha Vantage time-series endpoints expect for US equities.
func NewAlphaVantageMapper(overrides map[string]string) *Mapper {
	return &Mapper{
		overrides: normalizeOverrides(overrides),
		rewrite:   func(ticker string) string { return ticker },
	}
}

// Map returns the provider symbol for a canonical ticker.
func (m *Mapper) Map(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", ErrEmptyTicker
	}
	if mapped, ok := m.overrides[t]; ok {
		return mapped, nil
	}
	return m.rewrite(t), nil
}

func normalizeOverrides(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(overrides))
	for k, v := range overrides {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}
