package model

import (
	"fmt"
	"time"
)

// PricePoint represents a single daily bar for one trading day.
type PricePoint struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// PriceField selects which price a growth calculation reads from each bar.
type PriceField string

const (
	FieldClose    PriceField = "close"
	FieldAdjClose PriceField = "adj_close"
	FieldOpen     PriceField = "open"
)

// ParsePriceField validates a price field name. Empty defaults to close.
func ParsePriceField(s string) (PriceField, error) {
	switch PriceField(s) {
	case "":
		return FieldClose, nil
	case FieldClose, FieldAdjClose, FieldOpen:
		return PriceField(s), nil
	default:
		return "", fmt.Errorf("unknown price field %q (want close, adj_close or open)", s)
	}
}

// Value extracts the selected field from a bar.
func (f PriceField) Value(p PricePoint) float64 {
	switch f {
	case FieldAdjClose:
		return p.AdjClose
	case FieldOpen:
		return p.Open
	default:
		return p.Close
	}
}

// PriceSeries holds the bars fetched for one ticker over one request range.
type PriceSeries struct {
	Ticker         string
	ProviderSymbol string
	Points         []PricePoint
	FetchedAt      time.Time
}
