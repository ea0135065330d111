package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/starford/hermod/internal/clock"
	"github.com/starford/hermod/internal/dispatch"
)

type countingTicker struct {
	mu    sync.Mutex
	ticks []time.Time
}

func (c *countingTicker) Tick(_ context.Context, now time.Time) ([]dispatch.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = append(c.ticks, now)
	return nil, nil
}

func (c *countingTicker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ticks)
}

func TestRunTicksOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ct := &countingTicker{}
	clk := &clock.Fixed{T: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	done := make(chan struct{})
	go func() {
		Run(ctx, ct, clk, 20*time.Millisecond, logger)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for ct.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d ticks before deadline", ct.count())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}

	// Every tick used the injected clock.
	ct.mu.Lock()
	defer ct.mu.Unlock()
	for _, ts := range ct.ticks {
		if !ts.Equal(clk.T) {
			t.Errorf("tick time = %v, want %v", ts, clk.T)
		}
	}
}

func TestRunStopsImmediatelyOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ct := &countingTicker{}
	done := make(chan struct{})
	go func() {
		Run(ctx, ct, clock.System{}, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not exit on pre-cancelled context")
	}
	if ct.count() != 0 {
		t.Errorf("ticks = %d, want 0", ct.count())
	}
}
