package model

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day serialized as YYYY-MM-DD in request and response JSON.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("date must not be empty")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string { return d.Format(dateLayout) }

// Request describes one growth analysis batch. An empty Tickers list means
// "scan the named universe".
type Request struct {
	Tickers      []string `json:"tickers,omitempty"`
	StartDate    Date     `json:"start_date"`
	EndDate      Date     `json:"end_date"`
	MinGrowthPct *float64 `json:"min_growth_pct,omitempty"`
	MaxGrowthPct *float64 `json:"max_growth_pct,omitempty"`
	Limit        int      `json:"limit,omitempty"`
	PriceField   string   `json:"price_field,omitempty"`
	Universe     string   `json:"universe,omitempty"`
}

// GrowthResult is one ticker's computed outcome.
type GrowthResult struct {
	Ticker             string  `json:"ticker"`
	ProviderSymbol     string  `json:"provider_symbol"`
	StartDateEffective Date    `json:"start_date_effective"`
	EndDateEffective   Date    `json:"end_date_effective"`
	StartPrice         float64 `json:"start_price"`
	EndPrice           float64 `json:"end_price"`
	GrowthPct          float64 `json:"growth_pct"`
	AbsoluteReturn     float64 `json:"absolute_return"`
	DataPoints         int     `json:"data_points"`
	Warning            string  `json:"warning,omitempty"`
}

// Analysis is the batch outcome: ranked surviving results plus warnings for
// tickers that produced none.
type Analysis struct {
	Results  []GrowthResult `json:"results"`
	Warnings []string       `json:"warnings"`
}
