// Package scheduler drives the reminder due-check on a fixed cadence.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/hermod/internal/clock"
	"github.com/starford/hermod/internal/dispatch"
)

// Ticker is the due-check entry point, normally *reminder.Service.
type Ticker interface {
	Tick(ctx context.Context, now time.Time) ([]dispatch.Report, error)
}

// Run polls t on the given interval until ctx is cancelled. Ticks are
// serialized: a new tick never starts before the previous batch has
// finished.
func Run(ctx context.Context, t Ticker, clk clock.Clock, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Minute
	}
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("scheduler: started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler: stopped")
			return
		case <-ticker.C:
			runTick(ctx, t, clk.Now(), logger)
		}
	}
}

func runTick(ctx context.Context, t Ticker, now time.Time, logger *slog.Logger) {
	reports, err := t.Tick(ctx, now)
	if err != nil {
		logger.Error("scheduler: tick failed", slog.String("error", err.Error()))
		return
	}
	if len(reports) == 0 {
		return
	}

	var delivered, deduped, failed int
	for _, rep := range reports {
		switch rep.Outcome {
		case dispatch.OutcomeDelivered:
			delivered++
		case dispatch.OutcomeDeduped:
			deduped++
		case dispatch.OutcomeFailed:
			failed++
		}
	}
	logger.Info("scheduler: tick complete",
		slog.Int("due", len(reports)),
		slog.Int("delivered", delivered),
		slog.Int("deduped", deduped),
		slog.Int("failed", failed))
}
