package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"GrowthLens/internal/model"
)

var (
	// ErrNoData means the series has no usable point inside the range.
	ErrNoData = errors.New("no data points in range")
	// ErrZeroStartPrice means growth is undefined for this series.
	ErrZeroStartPrice = errors.New("start price is zero")
)

// Growth is the outcome of one growth computation over a price series.
type Growth struct {
	StartDate      time.Time
	EndDate        time.Time
	StartPrice     float64
	EndPrice       float64
	GrowthPct      float64
	AbsoluteReturn float64
	DataPoints     int
	// Warning is set when a requested boundary fell on a non-trading day and
	// the nearest available point was used instead. Non-fatal.
	Warning string
}

// Compute locates the effective trading-day endpoints of [start, end] within
// an ascending series and computes percent growth between them. It never
// touches a provider, so it can be tested with synthetic series.
func Compute(points []model.PricePoint, start, end time.Time, field model.PriceField) (Growth, error) {
	if len(points) == 0 {
		return Growth{}, ErrNoData
	}

	// Effective start: earliest point on or after the requested start.
	startIdx := -1
	for i, p := range points {
		if !p.Date.Before(start) {
			startIdx = i
			break
		}
	}
	// Effective end: latest point on or before the requested end.
	endIdx := -1
	for i := len(points) - 1; i >= 0; i-- {
		if !points[i].Date.After(end) {
			endIdx = i
			break
		}
	}
	if startIdx < 0 || endIdx < 0 || startIdx > endIdx {
		return Growth{}, ErrNoData
	}

	startPrice := field.Value(points[startIdx])
	endPrice := field.Value(points[endIdx])
	if startPrice == 0 {
		return Growth{}, ErrZeroStartPrice
	}

	g := Growth{
		StartDate:      points[startIdx].Date,
		EndDate:        points[endIdx].Date,
		StartPrice:     startPrice,
		EndPrice:       endPrice,
		AbsoluteReturn: endPrice - startPrice,
		GrowthPct:      (endPrice - startPrice) / startPrice * 100,
		DataPoints:     endIdx - startIdx + 1,
	}

	var shifts []string
	if !g.StartDate.Equal(start) {
		shifts = append(shifts, fmt.Sprintf("start shifted from %s to %s", start.Format("2006-01-02"), g.StartDate.Format("2006-01-02")))
	}
	if !g.EndDate.Equal(end) {
		shifts = append(shifts, fmt.Sprintf("end shifted from %s to %s", end.Format("2006-01-02"), g.EndDate.Format("2006-01-02")))
	}
	if len(shifts) > 0 {
		g.Warning = "nearest trading day used: " + strings.Join(shifts, "; ")
	}
	return g, nil
}
