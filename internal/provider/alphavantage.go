package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"GrowthLens/internal/model"
	"GrowthLens/internal/symbols"
)

const defaultAlphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantage fetches adjusted daily bars from the Alpha Vantage JSON API.
// Unlike Stooq, it requires an API key and returns the full history in one
// payload; the date range is filtered client-side.
type AlphaVantage struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	mapper  *symbols.Mapper
}

// NewAlphaVantage creates the keyed provider. A missing key is a startup
// error, not a per-request one.
func NewAlphaVantage(opts Options) (*AlphaVantage, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("alpha_vantage provider requires an API key")
	}
	base := opts.BaseURL
	if base == "" {
		base = defaultAlphaVantageBaseURL
	}
	return &AlphaVantage{
		BaseURL: base,
		APIKey:  opts.APIKey,
		Client:  newHTTPClient(opts.Timeout, opts.Proxy),
		mapper:  symbols.NewAlphaVantageMapper(opts.SymbolOverrides),
	}, nil
}

func (a *AlphaVantage) Name() string { return "alpha_vantage" }

func (a *AlphaVantage) Symbol(ticker string) (string, error) { return a.mapper.Map(ticker) }

// avDailyBar mirrors the numbered keys of TIME_SERIES_DAILY_ADJUSTED.
type avDailyBar struct {
	Open     string `json:"1. open"`
	High     string `json:"2. high"`
	Low      string `json:"3. low"`
	Close    string `json:"4. close"`
	AdjClose string `json:"5. adjusted close"`
	Volume   string `json:"6. volume"`
}

type avResponse struct {
	TimeSeries map[string]avDailyBar `json:"Time Series (Daily)"`
	Note       string                `json:"Note"`
	ErrMessage string                `json:"Error Message"`
	Info       string                `json:"Information"`
}

func (a *AlphaVantage) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	q.Set("apikey", a.APIKey)
	reqURL := a.BaseURL + "?" + q.Encode()

	resp, err := doWithRetry(ctx, a.Client, reqURL)
	if err != nil {
		return nil, retrievalErr(KindProviderError, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retrievalErr(KindProviderError, symbol, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, retrievalErr(KindProviderError, symbol, fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload avResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, retrievalErr(KindProviderError, symbol, fmt.Errorf("decode: %w", err))
	}
	// Alpha Vantage signals throttling in-band with a 200 and a Note or
	// Information field instead of the time series.
	if payload.Note != "" || payload.Info != "" {
		return nil, retrievalErr(KindRateLimited, symbol, fmt.Errorf("%s%s", payload.Note, payload.Info))
	}
	if payload.ErrMessage != "" {
		return nil, retrievalErr(KindNotFound, symbol, fmt.Errorf("%s", payload.ErrMessage))
	}
	if len(payload.TimeSeries) == 0 {
		return nil, retrievalErr(KindNotFound, symbol, fmt.Errorf("no time series in response"))
	}

	bars := make([]model.PricePoint, 0, len(payload.TimeSeries))
	for dateStr, bar := range payload.TimeSeries {
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		c, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			continue
		}
		p := model.PricePoint{Date: d, Close: c, AdjClose: c}
		if v, err := strconv.ParseFloat(bar.Open, 64); err == nil {
			p.Open = v
		}
		if v, err := strconv.ParseFloat(bar.High, 64); err == nil {
			p.High = v
		}
		if v, err := strconv.ParseFloat(bar.Low, 64); err == nil {
			p.Low = v
		}
		if v, err := strconv.ParseFloat(bar.AdjClose, 64); err == nil {
			p.AdjClose = v
		}
		if v, err := strconv.ParseFloat(bar.Volume, 64); err == nil {
			p.Volume = v
		}
		bars = append(bars, p)
	}
	if len(bars) == 0 {
		return nil, retrievalErr(KindEmptyRange, symbol, fmt.Errorf("no trading days between %s and %s", start.Format("2006-01-02"), end.Format("2006-01-02")))
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
