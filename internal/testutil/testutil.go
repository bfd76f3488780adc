package testutil

import (
	"context"
	"sync"

	"stocktracker/internal/fetcher"
)

// MockMarketData is a mock implementation of fetcher.MarketData for testing.
// It records the tickers requested, in call order.
type MockMarketData struct {
	SeriesFunc   func(ctx context.Context, ticker string) ([]float64, error)
	SnapshotFunc func(ctx context.Context, ticker string) (fetcher.Snapshot, error)

	mu            sync.Mutex
	SeriesCalls   []string
	SnapshotCalls []string
}

// IntradaySeries implements fetcher.MarketData
func (m *MockMarketData) IntradaySeries(ctx context.Context, ticker string) ([]float64, error) {
	m.mu.Lock()
	m.SeriesCalls = append(m.SeriesCalls, ticker)
	m.mu.Unlock()

	if m.SeriesFunc != nil {
		return m.SeriesFunc(ctx, ticker)
	}
	return nil, nil
}

// Snapshot implements fetcher.MarketData
func (m *MockMarketData) Snapshot(ctx context.Context, ticker string) (fetcher.Snapshot, error) {
	m.mu.Lock()
	m.SnapshotCalls = append(m.SnapshotCalls, ticker)
	m.mu.Unlock()

	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx, ticker)
	}
	return fetcher.Snapshot{}, nil
}

// Canned describes what a StaticMarketData returns for one ticker.
type Canned struct {
	Series      []float64
	SeriesErr   error
	Snapshot    fetcher.Snapshot
	SnapshotErr error
}

// NewStaticMarketData creates a mock that answers from a fixed table. Tickers
// not in the table get an empty series and a zero snapshot.
func NewStaticMarketData(data map[string]Canned) *MockMarketData {
	return &MockMarketData{
		SeriesFunc: func(_ context.Context, ticker string) ([]float64, error) {
			c := data[ticker]
			return c.Series, c.SeriesErr
		},
		SnapshotFunc: func(_ context.Context, ticker string) (fetcher.Snapshot, error) {
			c := data[ticker]
			return c.Snapshot, c.SnapshotErr
		},
	}
}

// Quote returns a two-point series moving from reference to current.
func Quote(current, reference float64) Canned {
	return Canned{Series: []float64{reference, current}}
}
