package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"GrowthLens/internal/model"
	"GrowthLens/internal/symbols"
)

const defaultStooqBaseURL = "https://stooq.com/q/d/l/"

// Stooq fetches daily historical bars from Stooq's CSV download endpoint.
// No API key is required; US equities are addressed as lowercase symbols with
// a ".us" suffix. The CSV carries Date,Open,High,Low,Close,Volume and
// sometimes an Adj Close column; when absent, Close stands in for it.
type Stooq struct {
	BaseURL string
	Client  *http.Client
	mapper  *symbols.Mapper
}

// NewStooq creates the default, keyless provider.
func NewStooq(opts Options) *Stooq {
	base := opts.BaseURL
	if base == "" {
		base = defaultStooqBaseURL
	}
	return &Stooq{
		BaseURL: base,
		Client:  newHTTPClient(opts.Timeout, opts.Proxy),
		mapper:  symbols.NewStooqMapper(opts.SymbolOverrides),
	}
}

func (s *Stooq) Name() string { return "stooq" }

func (s *Stooq) Symbol(ticker string) (string, error) { return s.mapper.Map(ticker) }

func (s *Stooq) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	q := url.Values{}
	q.Set("s", symbol)
	q.Set("d1", start.Format("20060102"))
	q.Set("d2", end.Format("20060102"))
	q.Set("i", "d")
	reqURL := s.BaseURL + "?" + q.Encode()

	resp, err := doWithRetry(ctx, s.Client, reqURL)
	if err != nil {
		return nil, retrievalErr(KindProviderError, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retrievalErr(KindProviderError, symbol, fmt.Errorf("read body: %w", err))
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, retrievalErr(KindRateLimited, symbol, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, retrievalErr(KindProviderError, symbol, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 120)))
	}

	bars, err := parseStooqCSV(string(body), start, end)
	if err != nil {
		return nil, retrievalErr(KindNotFound, symbol, err)
	}
	if len(bars) == 0 {
		return nil, retrievalErr(KindEmptyRange, symbol, fmt.Errorf("no trading days between %s and %s", start.Format("2006-01-02"), end.Format("2006-01-02")))
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// parseStooqCSV tolerates header-case variants and skips malformed rows.
// Stooq answers unknown symbols with a plain "No data" body instead of an
// HTTP error, which surfaces here as a missing Date header.
func parseStooqCSV(text string, start, end time.Time) ([]model.PricePoint, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("empty response")
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateIdx, ok := col["date"]
	if !ok {
		return nil, fmt.Errorf("no data returned: %s", truncate(text, 80))
	}
	adjIdx, hasAdj := col["adj close"]
	if !hasAdj {
		adjIdx, hasAdj = col["adj_close"]
	}

	field := func(row []string, name string) (float64, bool) {
		i, ok := col[name]
		if !ok || i >= len(row) || row[i] == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(row[i], ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	var bars []model.PricePoint
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		if dateIdx >= len(row) {
			continue
		}
		d, err := time.Parse("2006-01-02", strings.TrimSpace(row[dateIdx]))
		if err != nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		c, okClose := field(row, "close")
		if !okClose {
			continue
		}
		o, _ := field(row, "open")
		h, _ := field(row, "high")
		l, _ := field(row, "low")
		v, _ := field(row, "volume")
		adj := c
		if hasAdj && adjIdx < len(row) && row[adjIdx] != "" {
			if a, err := strconv.ParseFloat(row[adjIdx], 64); err == nil {
				adj = a
			}
		}
		bars = append(bars, model.PricePoint{
			Date: d, Open: o, High: h, Low: l, Close: c, AdjClose: adj, Volume: v,
		})
	}
	return bars, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
