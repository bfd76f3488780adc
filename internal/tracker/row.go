package tracker

import (
	"github.com/shopspring/decimal"

	"stocktracker/internal/fetcher"
)

const (
	notAvailableText = "N/A"
	errorText        = "Error"

	// Legacy numeric ranks for rows without a change value. Ordering uses Kind
	// directly; these only surface through SortKey.
	unavailableSortKey = -999.0
	failedSortKey      = -1000.0
)

// Row is one line of the rendered price table.
type Row struct {
	Ticker       string
	CurrentPrice string
	DailyChange  string

	Kind   fetcher.Kind
	Change float64
}

// SortKey returns the row's change, or -999 for unavailable and -1000 for
// failed rows.
func (r Row) SortKey() float64 {
	switch r.Kind {
	case fetcher.KindQuote:
		return r.Change
	case fetcher.KindUnavailable:
		return unavailableSortKey
	default:
		return failedSortKey
	}
}

// BuildRow formats a fetch result for display.
func BuildRow(res fetcher.Result) Row {
	switch res.Kind {
	case fetcher.KindQuote:
		change := ComputeChange(res.Current, res.PreviousReference)
		return Row{
			Ticker:       res.Ticker,
			CurrentPrice: FormatPrice(res.Current),
			DailyChange:  FormatChange(change),
			Kind:         fetcher.KindQuote,
			Change:       change,
		}
	case fetcher.KindUnavailable:
		return Row{
			Ticker:       res.Ticker,
			CurrentPrice: notAvailableText,
			DailyChange:  notAvailableText,
			Kind:         fetcher.KindUnavailable,
		}
	default:
		return Row{
			Ticker:       res.Ticker,
			CurrentPrice: errorText,
			DailyChange:  errorText,
			Kind:         fetcher.KindFailed,
		}
	}
}

// FormatPrice renders a USD price with two decimals, e.g. "$110.00".
func FormatPrice(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// FormatChange renders a percentage with two decimals, e.g. "10.00%".
func FormatChange(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}
