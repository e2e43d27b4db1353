package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"GrowthLens/internal/analyzer"
	"GrowthLens/internal/model"
)

// Warmer periodically scans the configured universe so the series cache is
// already populated when interactive requests arrive. It runs the regular
// analysis pipeline; the engine's cache writes are the warm-up.
type Warmer struct {
	Cron     *cron.Cron
	Engine   *analyzer.Engine
	Universe string
	Days     int
	Ctx      context.Context
}

// NewWarmer creates a warmer covering the trailing days window.
func NewWarmer(ctx context.Context, eng *analyzer.Engine, universeKey string, days int) *Warmer {
	if days <= 0 {
		days = 90
	}
	return &Warmer{
		Cron:     cron.New(cron.WithSeconds()),
		Engine:   eng,
		Universe: universeKey,
		Days:     days,
		Ctx:      ctx,
	}
}

// Register schedules the warm-up run.
func (w *Warmer) Register(cronExpr string) error {
	if _, err := w.Cron.AddFunc(cronExpr, w.warm); err != nil {
		return fmt.Errorf("register warmup task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (w *Warmer) Start() {
	w.Cron.Start()
	log.Printf("[INFO] cache warmer started (universe %s, %d days)", w.Universe, w.Days)
}

// Stop stops the cron scheduler gracefully.
func (w *Warmer) Stop() {
	w.Cron.Stop()
	log.Println("[INFO] cache warmer stopped")
}

// WarmNow executes the warm-up immediately (for manual trigger / RUN_ON_START).
func (w *Warmer) WarmNow() {
	w.warm()
}

func (w *Warmer) warm() {
	now := time.Now().UTC()
	req := model.Request{
		StartDate: model.Date{Time: now.AddDate(0, 0, -w.Days)},
		EndDate:   model.Date{Time: now},
		Universe:  w.Universe,
		Limit:     1, // ranking output is discarded; the fetches are the point
	}
	started := time.Now()
	analysis, err := w.Engine.Analyze(w.Ctx, req)
	if err != nil {
		log.Printf("[WARN] cache warm-up failed: %v", err)
		return
	}
	log.Printf("[INFO] cache warm-up done in %s (%d warnings)", time.Since(started).Round(time.Second), len(analysis.Warnings))
}
