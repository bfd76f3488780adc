package fetcher

// Kind tags the outcome of fetching one ticker.
type Kind int

const (
	// KindQuote means both a current price and a reference price resolved.
	KindQuote Kind = iota
	// KindUnavailable means the source answered but had no usable price.
	KindUnavailable
	// KindFailed means a call to the source failed.
	KindFailed
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindQuote:
		return "quote"
	case KindUnavailable:
		return "unavailable"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result represents the outcome of fetching one ticker during a cycle.
// Only the fields matching Kind are meaningful.
type Result struct {
	Ticker string
	Kind   Kind

	// Current is the latest price and PreviousReference the price the change
	// is measured against. Set when Kind is KindQuote.
	Current           float64
	PreviousReference float64

	// Err is the failure that produced a KindFailed result.
	Err error
}

// Quote builds a KindQuote result.
func Quote(ticker string, current, previousReference float64) Result {
	return Result{
		Ticker:            ticker,
		Kind:              KindQuote,
		Current:           current,
		PreviousReference: previousReference,
	}
}

// Unavailable builds a KindUnavailable result.
func Unavailable(ticker string) Result {
	return Result{Ticker: ticker, Kind: KindUnavailable}
}

// Failed builds a KindFailed result carrying err.
func Failed(ticker string, err error) Result {
	return Result{Ticker: ticker, Kind: KindFailed, Err: err}
}
