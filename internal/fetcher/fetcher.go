package fetcher

import "context"

// MarketData is the external market-data source the tracker polls.
// Both operations are read-only and are issued once per ticker per cycle.
type MarketData interface {
	// IntradaySeries returns the current session's closing prices at minute
	// granularity, oldest first. Samples the source reports as missing are
	// dropped. An empty series (market closed, no trades yet) is not an error.
	IntradaySeries(ctx context.Context, ticker string) ([]float64, error)

	// Snapshot returns the last known regular-market figures for ticker.
	Snapshot(ctx context.Context, ticker string) (Snapshot, error)
}

// Snapshot holds the last regular-market figures reported for a ticker.
// A zero value in either field means the source did not report it.
type Snapshot struct {
	RegularMarketPrice         float64
	RegularMarketPreviousClose float64
}
