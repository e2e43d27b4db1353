package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"GrowthLens/internal/model"
)

// FailKind classifies a retrieval failure so the aggregation layer can report
// it per ticker without inspecting provider internals.
type FailKind string

const (
	KindNotFound      FailKind = "not_found"
	KindEmptyRange    FailKind = "empty_range"
	KindProviderError FailKind = "provider_error"
	KindRateLimited   FailKind = "rate_limited"
)

// RetrievalError is the typed failure every provider variant returns.
type RetrievalError struct {
	Kind   FailKind
	Symbol string
	Err    error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Symbol, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Kind, e.Symbol)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

func retrievalErr(kind FailKind, symbol string, err error) *RetrievalError {
	return &RetrievalError{Kind: kind, Symbol: symbol, Err: err}
}

// Provider fetches historical daily bars for one symbol from one market-data
// source. Exactly one variant is active per process, selected from
// configuration at startup.
type Provider interface {
	Name() string
	// Symbol maps a canonical ticker to this provider's symbol spelling.
	Symbol(ticker string) (string, error)
	// DailyBars returns bars for actual trading days in [start, end],
	// ascending by date, or a *RetrievalError.
	DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)
}

// Options carries the process-wide provider configuration.
type Options struct {
	Name            string
	APIKey          string
	BaseURL         string
	Proxy           string
	Timeout         time.Duration
	SymbolOverrides map[string]string
}

// New selects and constructs the active provider variant.
func New(opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Name)) {
	case "", "stooq":
		return NewStooq(opts), nil
	case "alpha_vantage", "alphavantage":
		return NewAlphaVantage(opts)
	default:
		return nil, fmt.Errorf("unknown provider %q (want stooq or alpha_vantage)", opts.Name)
	}
}

func newHTTPClient(timeout time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

const retryBackoff = 500 * time.Millisecond

// doWithRetry issues a GET and retries exactly once after a short fixed
// backoff when the transport fails. HTTP-level errors are not retried here;
// each variant interprets status codes itself.
func doWithRetry(ctx context.Context, client *http.Client, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err == nil {
		return resp, nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryBackoff):
	}

	retry, rerr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if rerr != nil {
		return nil, err
	}
	retry.Header.Set("User-Agent", "Mozilla/5.0")
	resp, rerr = client.Do(retry)
	if rerr != nil {
		return nil, fmt.Errorf("request failed after retry: %w", rerr)
	}
	return resp, nil
}
