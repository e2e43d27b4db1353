package cache

import (
	"time"

	"GrowthLens/internal/model"
)

// Cache stores previously fetched price series so repeated scans of the same
// range do not hammer the provider. A miss is never an error: callers fall
// through to a live fetch.
type Cache interface {
	// Get returns the cached bars for a symbol when a fresh enough earlier
	// fetch fully covers [start, end].
	Get(provider, symbol string, start, end time.Time) ([]model.PricePoint, bool)
	// Put records a completed fetch and its bars.
	Put(provider, symbol string, start, end time.Time, bars []model.PricePoint)
	Close() error
}

// Noop is used when no cache path is configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Get(_, _ string, _, _ time.Time) ([]model.PricePoint, bool) { return nil, false }
func (n *Noop) Put(_, _ string, _, _ time.Time, _ []model.PricePoint)      {}
func (n *Noop) Close() error                                               { return nil }
