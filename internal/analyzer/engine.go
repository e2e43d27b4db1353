package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"GrowthLens/internal/cache"
	"GrowthLens/internal/model"
	"GrowthLens/internal/provider"
	"GrowthLens/internal/universe"
)

// DefaultWorkers bounds the per-batch fetch fan-out. Kept small so a full
// universe scan stays under typical provider rate limits.
const DefaultWorkers = 5

const defaultLimit = 10

// ValidationError marks a malformed request. It is the only error class that
// escalates past the engine; everything else degrades into warnings.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Engine runs growth analysis batches: resolve tickers, fan out
// fetch-and-compute per ticker, fan in, filter, rank, truncate.
type Engine struct {
	Provider        provider.Provider
	Registry        *universe.Registry
	Cache           cache.Cache
	Workers         int
	DefaultUniverse string
}

// NewEngine wires the engine. workers <= 0 selects DefaultWorkers.
func NewEngine(p provider.Provider, reg *universe.Registry, c cache.Cache, workers int, defaultUniverse string) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if c == nil {
		c = cache.NewNoop()
	}
	if defaultUniverse == "" {
		defaultUniverse = "NASDAQ"
	}
	return &Engine{Provider: p, Registry: reg, Cache: c, Workers: workers, DefaultUniverse: defaultUniverse}
}

// tickerOutcome is the fan-in unit: exactly one of result/warning per ticker,
// or a result plus its own non-fatal warning.
type tickerOutcome struct {
	result  *model.GrowthResult
	warning string
}

// Analyze validates the request, resolves the ticker set and runs the batch.
// Individual ticker failures never abort the batch; they surface as warnings.
func (e *Engine) Analyze(ctx context.Context, req model.Request) (*model.Analysis, error) {
	field, limit, err := e.validate(req)
	if err != nil {
		return nil, err
	}

	tickers := normalizeTickers(req.Tickers)
	if len(tickers) == 0 {
		key := req.Universe
		if key == "" {
			key = e.DefaultUniverse
		}
		tickers, err = e.Registry.Resolve(key)
		if err != nil {
			return nil, validationErrf("%v", err)
		}
	}

	outcomes := e.fanOut(ctx, tickers, req, field)

	analysis := &model.Analysis{Results: []model.GrowthResult{}, Warnings: []string{}}
	for _, out := range outcomes {
		if out.warning != "" && out.result == nil {
			analysis.Warnings = append(analysis.Warnings, out.warning)
			continue
		}
		if out.result == nil {
			continue
		}
		if req.MinGrowthPct != nil && out.result.GrowthPct < *req.MinGrowthPct {
			continue
		}
		if req.MaxGrowthPct != nil && out.result.GrowthPct > *req.MaxGrowthPct {
			continue
		}
		analysis.Results = append(analysis.Results, *out.result)
	}

	// Growth descending, ticker ascending on ties, so batch output is
	// deterministic regardless of fetch completion order.
	sort.Slice(analysis.Results, func(i, j int) bool {
		a, b := analysis.Results[i], analysis.Results[j]
		if a.GrowthPct != b.GrowthPct {
			return a.GrowthPct > b.GrowthPct
		}
		return a.Ticker < b.Ticker
	})
	if len(analysis.Results) > limit {
		analysis.Results = analysis.Results[:limit]
	}
	sort.Strings(analysis.Warnings)
	return analysis, nil
}

func (e *Engine) validate(req model.Request) (model.PriceField, int, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return "", 0, validationErrf("start_date and end_date are required")
	}
	if req.StartDate.After(req.EndDate.Time) {
		return "", 0, validationErrf("start_date %s must not be after end_date %s", req.StartDate, req.EndDate)
	}
	if req.Limit < 0 {
		return "", 0, validationErrf("limit must be a positive integer")
	}
	if req.MinGrowthPct != nil && req.MaxGrowthPct != nil && *req.MinGrowthPct > *req.MaxGrowthPct {
		return "", 0, validationErrf("min_growth_pct must not exceed max_growth_pct")
	}
	field, err := model.ParsePriceField(req.PriceField)
	if err != nil {
		return "", 0, validationErrf("%v", err)
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	return field, limit, nil
}

// fanOut runs the per-ticker pipeline on a bounded worker pool. There is no
// shared mutable state between tickers; the only join point is the outcome
// channel drain.
func (e *Engine) fanOut(ctx context.Context, tickers []string, req model.Request, field model.PriceField) []tickerOutcome {
	workers := e.Workers
	if workers > len(tickers) {
		workers = len(tickers)
	}

	jobs := make(chan string)
	results := make(chan tickerOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				results <- e.processTicker(ctx, ticker, req, field)
			}
		}()
	}
	go func() {
		for _, t := range tickers {
			jobs <- t
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	outcomes := make([]tickerOutcome, 0, len(tickers))
	for out := range results {
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func (e *Engine) processTicker(ctx context.Context, ticker string, req model.Request, field model.PriceField) tickerOutcome {
	symbol, err := e.Provider.Symbol(ticker)
	if err != nil {
		return tickerOutcome{warning: fmt.Sprintf("%s: unmappable symbol", ticker)}
	}

	start, end := req.StartDate.Time, req.EndDate.Time
	bars, hit := e.Cache.Get(e.Provider.Name(), symbol, start, end)
	if !hit {
		bars, err = e.Provider.DailyBars(ctx, symbol, start, end)
		if err != nil {
			var rerr *provider.RetrievalError
			if errors.As(err, &rerr) {
				return tickerOutcome{warning: fmt.Sprintf("%s: %s", ticker, rerr.Kind)}
			}
			return tickerOutcome{warning: fmt.Sprintf("%s: %s", ticker, provider.KindProviderError)}
		}
		e.Cache.Put(e.Provider.Name(), symbol, start, end, bars)
	}

	g, err := Compute(bars, start, end, field)
	switch {
	case errors.Is(err, ErrZeroStartPrice):
		return tickerOutcome{warning: fmt.Sprintf("%s: divide_by_zero", ticker)}
	case errors.Is(err, ErrNoData):
		return tickerOutcome{warning: fmt.Sprintf("%s: no_data_in_range", ticker)}
	case err != nil:
		return tickerOutcome{warning: fmt.Sprintf("%s: %v", ticker, err)}
	}

	return tickerOutcome{result: &model.GrowthResult{
		Ticker:             ticker,
		ProviderSymbol:     symbol,
		StartDateEffective: model.Date{Time: g.StartDate},
		EndDateEffective:   model.Date{Time: g.EndDate},
		StartPrice:         g.StartPrice,
		EndPrice:           g.EndPrice,
		GrowthPct:          g.GrowthPct,
		AbsoluteReturn:     g.AbsoluteReturn,
		DataPoints:         g.DataPoints,
		Warning:            g.Warning,
	}}
}

func normalizeTickers(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
