// Package yahoo reads intraday prices and quote snapshots from the Yahoo
// Finance chart and quote endpoints.
package yahoo

import (
	"context"
	"fmt"
	"strings"

	"resty.dev/v3"

	"stocktracker/internal/fetcher"
	"stocktracker/internal/ratelimit"
)

const (
	chartPath = "/v8/finance/chart/{symbol}"
	quotePath = "/v7/finance/quote"

	intradayRange    = "1d"
	intradayInterval = "1m"
)

// ChartResponse represents the Yahoo chart API response
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"chart"`
}

// ChartResult is one symbol's series within a ChartResponse.
type ChartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		ChartPreviousClose float64 `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			// Close uses pointers because Yahoo reports minutes without trades as null.
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// QuoteResponse represents the Yahoo quote API response
type QuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
		} `json:"result"`
		Error *APIError `json:"error"`
	} `json:"quoteResponse"`
}

// APIError is the error object Yahoo embeds in its payloads.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Client implements fetcher.MarketData against Yahoo Finance.
type Client struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
}

var _ fetcher.MarketData = (*Client)(nil)

// NewClient creates a Yahoo client on top of an HTTP client built with
// fetcher.NewHTTPClient. limiter may be nil.
func NewClient(client *resty.Client, limiter *ratelimit.Limiter) *Client {
	return &Client{
		client:  client,
		limiter: limiter,
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx, ratelimit.APIYahoo); err != nil {
		return fetcher.ClassifyTransportError(err)
	}
	return nil
}

// IntradaySeries returns today's one-minute closes for ticker, oldest first.
func (c *Client) IntradaySeries(ctx context.Context, ticker string) ([]float64, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var result ChartResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", ticker).
		SetQueryParams(map[string]string{
			"range":    intradayRange,
			"interval": intradayInterval,
		}).
		SetResult(&result).
		Get(chartPath)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch intraday series for %s: %w", ticker, fetcher.ClassifyTransportError(err))
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("yahoo chart API for %s: %w", ticker, fetcher.ClassifyHTTPError(resp.StatusCode()))
	}

	if apiErr := result.Chart.Error; apiErr != nil {
		return nil, fetcher.NewValidationError(fmt.Sprintf("chart for %s: %s", ticker, apiErr))
	}

	if len(result.Chart.Result) == 0 {
		return nil, nil
	}

	quotes := result.Chart.Result[0].Indicators.Quote
	if len(quotes) == 0 {
		return nil, nil
	}

	closes := make([]float64, 0, len(quotes[0].Close))
	for _, v := range quotes[0].Close {
		if v != nil {
			closes = append(closes, *v)
		}
	}

	return closes, nil
}

// Snapshot returns the last regular-market price and previous close for ticker.
// A symbol missing from the response yields a zero Snapshot.
func (c *Client) Snapshot(ctx context.Context, ticker string) (fetcher.Snapshot, error) {
	if err := c.wait(ctx); err != nil {
		return fetcher.Snapshot{}, err
	}

	var result QuoteResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbols", ticker).
		SetResult(&result).
		Get(quotePath)

	if err != nil {
		return fetcher.Snapshot{}, fmt.Errorf("failed to fetch quote snapshot for %s: %w", ticker, fetcher.ClassifyTransportError(err))
	}

	if !resp.IsSuccess() {
		return fetcher.Snapshot{}, fmt.Errorf("yahoo quote API for %s: %w", ticker, fetcher.ClassifyHTTPError(resp.StatusCode()))
	}

	if apiErr := result.QuoteResponse.Error; apiErr != nil {
		return fetcher.Snapshot{}, fetcher.NewValidationError(fmt.Sprintf("quote for %s: %s", ticker, apiErr))
	}

	for _, q := range result.QuoteResponse.Result {
		if strings.EqualFold(q.Symbol, ticker) {
			return fetcher.Snapshot{
				RegularMarketPrice:         q.RegularMarketPrice,
				RegularMarketPreviousClose: q.RegularMarketPreviousClose,
			}, nil
		}
	}

	return fetcher.Snapshot{}, nil
}

func (e *APIError) String() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}
