// Package tracker turns per-ticker market data into ranked display rows.
package tracker

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"

	"stocktracker/internal/fetcher"
)

// priceSource records which stage of the fallback chain produced the prices.
type priceSource int

const (
	sourceSeries priceSource = iota
	sourceSnapshot
)

func (s priceSource) String() string {
	if s == sourceSeries {
		return "intraday_series"
	}
	return "snapshot"
}

// Builder fetches quotes one ticker at a time and assembles the price table.
type Builder struct {
	source fetcher.MarketData
	logger *slog.Logger
}

// New creates a Builder reading from source. A nil logger uses slog.Default.
func New(source fetcher.MarketData, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		source: source,
		logger: logger,
	}
}

// FetchQuote resolves the current and reference price for ticker.
//
// The intraday series is tried first: its last close is the current price and
// its first close is the reference. When the series is empty the snapshot's
// regular-market price and previous close are used instead. Any error from the
// source yields a failed result; prices that are zero or not finite yield an
// unavailable result.
func (b *Builder) FetchQuote(ctx context.Context, ticker string) fetcher.Result {
	if strings.TrimSpace(ticker) == "" {
		return fetcher.Failed(ticker, fetcher.NewValidationError("empty ticker symbol"))
	}

	current, reference, src, err := b.resolvePrices(ctx, ticker)
	if err != nil {
		b.logger.Debug("quote fetch failed", "ticker", ticker, "error", err)
		return fetcher.Failed(ticker, err)
	}

	if !usable(current) || !usable(reference) {
		b.logger.Debug("quote unavailable", "ticker", ticker, "source", src.String())
		return fetcher.Unavailable(ticker)
	}

	return fetcher.Quote(ticker, current, reference)
}

func (b *Builder) resolvePrices(ctx context.Context, ticker string) (current, reference float64, src priceSource, err error) {
	closes, err := b.source.IntradaySeries(ctx, ticker)
	if err != nil {
		return 0, 0, sourceSeries, err
	}
	if len(closes) > 0 {
		return closes[len(closes)-1], closes[0], sourceSeries, nil
	}

	snap, err := b.source.Snapshot(ctx, ticker)
	if err != nil {
		return 0, 0, sourceSnapshot, err
	}
	return snap.RegularMarketPrice, snap.RegularMarketPreviousClose, sourceSnapshot, nil
}

func usable(v float64) bool {
	return v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ComputeChange returns the percentage move from previousReference to current.
// previousReference must be non-zero.
func ComputeChange(current, previousReference float64) float64 {
	return (current - previousReference) / previousReference * 100
}

// BuildTable fetches every ticker in order and returns exactly one row per
// ticker, ranked by daily change. Rows with no data follow every priced row
// and failed rows come last; ties keep their input order.
func (b *Builder) BuildTable(ctx context.Context, tickers []string) []Row {
	rows := make([]Row, 0, len(tickers))
	for _, ticker := range tickers {
		rows = append(rows, BuildRow(b.FetchQuote(ctx, ticker)))
	}

	slices.SortStableFunc(rows, compareRows)
	return rows
}

// compareRows orders priced rows by descending change, then unavailable rows,
// then failed rows.
func compareRows(a, b Row) int {
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}
	if a.Kind == fetcher.KindQuote {
		return cmp.Compare(b.Change, a.Change)
	}
	return 0
}
