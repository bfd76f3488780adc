package coordinator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktracker/internal/display"
	"stocktracker/internal/fetcher"
	"stocktracker/internal/testutil"
	"stocktracker/internal/tracker"
)

type recordingRenderer struct {
	mu     sync.Mutex
	frames []display.Frame
	err    error
	onCall func(n int)
}

func (r *recordingRenderer) Render(f display.Frame) error {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	n := len(r.frames)
	r.mu.Unlock()

	if r.onCall != nil {
		r.onCall(n)
	}
	return r.err
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

type recordingPublisher struct {
	rows [][]tracker.Row
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, rows []tracker.Row) error {
	p.rows = append(p.rows, rows)
	return p.err
}

func newBuilder() *tracker.Builder {
	return tracker.New(testutil.NewStaticMarketData(map[string]testutil.Canned{
		"NVDA": testutil.Quote(110, 100),
		"TSLA": testutil.Quote(95, 100),
		"AMD":  {SeriesErr: errors.New("boom")},
	}), nil)
}

func TestRunOnce_RendersAndPublishes(t *testing.T) {
	renderer := &recordingRenderer{}
	publisher := &recordingPublisher{}
	fixed := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	coord := New(newBuilder(), renderer, []string{"AMD", "TSLA", "NVDA"}, 10*time.Second,
		WithPublisher(publisher),
		WithClock(func() time.Time { return fixed }),
	)

	require.NoError(t, coord.RunOnce(context.Background()))

	require.Len(t, renderer.frames, 1)
	frame := renderer.frames[0]
	assert.Equal(t, fixed, frame.UpdatedAt)
	assert.Equal(t, 10*time.Second, frame.Interval)
	require.Len(t, frame.Rows, 3)
	assert.Equal(t, "NVDA", frame.Rows[0].Ticker)
	assert.Equal(t, "TSLA", frame.Rows[1].Ticker)
	assert.Equal(t, "AMD", frame.Rows[2].Ticker)
	assert.Equal(t, fetcher.KindFailed, frame.Rows[2].Kind)

	require.Len(t, publisher.rows, 1)
	assert.Equal(t, frame.Rows, publisher.rows[0])
}

func TestRunOnce_PublishErrorIsNotFatal(t *testing.T) {
	renderer := &recordingRenderer{}
	publisher := &recordingPublisher{err: errors.New("redis down")}

	coord := New(newBuilder(), renderer, []string{"NVDA"}, time.Second, WithPublisher(publisher))

	assert.NoError(t, coord.RunOnce(context.Background()))
	assert.Equal(t, 1, renderer.count())
}

func TestRunOnce_CancelledSkipsRender(t *testing.T) {
	renderer := &recordingRenderer{}
	coord := New(newBuilder(), renderer, []string{"NVDA"}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, coord.RunOnce(ctx), context.Canceled)
	assert.Zero(t, renderer.count())
}

func TestRun_NoTickers(t *testing.T) {
	coord := New(newBuilder(), &recordingRenderer{}, nil, time.Second)

	err := coord.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "no tickers configured", err.Error())
}

func TestRun_RepeatsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer := &recordingRenderer{
		onCall: func(n int) {
			if n == 3 {
				cancel()
			}
		},
	}
	coord := New(newBuilder(), renderer, []string{"NVDA", "TSLA"}, 5*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- coord.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
	assert.Equal(t, 3, renderer.count())
}

func TestRun_RenderErrorStopsLoop(t *testing.T) {
	renderErr := errors.New("stdout closed")
	coord := New(newBuilder(), &recordingRenderer{err: renderErr}, []string{"NVDA"}, time.Millisecond)

	assert.ErrorIs(t, coord.Run(context.Background()), renderErr)
}

func TestRun_WithConsoleRenderer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	console := display.New(&buf, false)
	renderer := &recordingRenderer{
		onCall: func(int) { cancel() },
	}

	coord := New(newBuilder(), rendererFunc(func(f display.Frame) error {
		if err := console.Render(f); err != nil {
			return err
		}
		return renderer.Render(f)
	}), []string{"NVDA", "AMD"}, time.Hour)

	require.NoError(t, coord.Run(ctx))

	out := buf.String()
	assert.Contains(t, out, "Update Interval: 3600 seconds")
	assert.Less(t, strings.Index(out, "| NVDA"), strings.Index(out, "| AMD"))
}

type rendererFunc func(display.Frame) error

func (f rendererFunc) Render(fr display.Frame) error { return f(fr) }
