package internal

import "github.com/starford/hermod/internal/clock"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	clk    clock.Clock
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(a *application) {
		a.clk = c
	}
}
