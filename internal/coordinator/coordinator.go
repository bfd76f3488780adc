package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stocktracker/internal/display"
	"stocktracker/internal/tracker"
)

// TableBuilder produces the ranked rows for one cycle.
type TableBuilder interface {
	BuildTable(ctx context.Context, tickers []string) []tracker.Row
}

// Renderer shows one cycle's frame.
type Renderer interface {
	Render(f display.Frame) error
}

// Publisher receives each cycle's rows after they are rendered.
type Publisher interface {
	Publish(ctx context.Context, rows []tracker.Row) error
}

// Coordinator drives the polling loop: build, render, publish, wait.
type Coordinator struct {
	builder   TableBuilder
	renderer  Renderer
	publisher Publisher
	tickers   []string
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPublisher mirrors every rendered table to p.
func WithPublisher(p Publisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

// WithLogger sets the logger used for non-fatal cycle problems.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithClock overrides the timestamp source shown in each frame.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New creates a Coordinator polling tickers every interval.
func New(builder TableBuilder, renderer Renderer, tickers []string, interval time.Duration, opts ...Option) *Coordinator {
	c := &Coordinator{
		builder:  builder,
		renderer: renderer,
		tickers:  tickers,
		interval: interval,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunOnce builds, renders and publishes a single table. A cycle interrupted
// by cancellation is not rendered.
func (c *Coordinator) RunOnce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := c.builder.BuildTable(ctx, c.tickers)
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.renderer.Render(display.Frame{
		UpdatedAt: c.now(),
		Interval:  c.interval,
		Rows:      rows,
	}); err != nil {
		return err
	}

	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, rows); err != nil {
			c.logger.Warn("failed to publish price table", "error", err)
		}
	}
	return nil
}

// Run repeats RunOnce every interval until ctx is cancelled, then returns nil.
// Only a rendering failure ends the loop with an error.
func (c *Coordinator) Run(ctx context.Context) error {
	if len(c.tickers) == 0 {
		return errors.New("no tickers configured")
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		if err := c.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		timer.Reset(c.interval)
	}
}
