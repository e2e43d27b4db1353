package universe

import (
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownUniverse is wrapped into the error returned for unregistered keys.
var ErrUnknownUniverse = fmt.Errorf("unknown universe")

// Registry holds the curated ticker lists that universe scans draw from.
// It is populated once at startup and read-only afterwards, so it is safe to
// share across concurrent requests without locking.
type Registry struct {
	universes map[string][]string
}

// NewRegistry builds a registry from the built-in curated lists merged with
// any extra lists from configuration. Extra lists with a key matching a
// built-in replace it. Keys are case-insensitive; each list is de-duplicated
// preserving first-seen order.
func NewRegistry(extra map[string][]string) *Registry {
	r := &Registry{universes: make(map[string][]string)}
	r.add("NASDAQ", nasdaq100)
	r.add("SP500", sp500)
	for key, tickers := range extra {
		r.add(key, tickers)
	}
	return r
}

func (r *Registry) add(key string, tickers []string) {
	seen := make(map[string]bool, len(tickers))
	ordered := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || strings.HasPrefix(t, "#") || seen[t] {
			continue
		}
		seen[t] = true
		ordered = append(ordered, t)
	}
	r.universes[strings.ToUpper(strings.TrimSpace(key))] = ordered
}

// Resolve returns the ticker list for a universe key.
func (r *Registry) Resolve(key string) ([]string, error) {
	tickers, ok := r.universes[strings.ToUpper(strings.TrimSpace(key))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUniverse, key)
	}
	return tickers, nil
}

// Keys returns the registered universe names, sorted for stable output.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.universes))
	for k := range r.universes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
