package alphavantage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"resty.dev/v3"

	"stocktracker/internal/fetcher"
	"stocktracker/internal/ratelimit"
)

// GlobalQuoteResponse represents the AlphaVantage API response for stock quotes
type GlobalQuoteResponse struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
	apiMessages
}

// IntradayResponse represents the AlphaVantage TIME_SERIES_INTRADAY response
type IntradayResponse struct {
	MetaData struct {
		Symbol        string `json:"2. Symbol"`
		LastRefreshed string `json:"3. Last Refreshed"`
	} `json:"Meta Data"`
	TimeSeries map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (1min)"`
	apiMessages
}

// apiMessages are the fields AlphaVantage returns with HTTP 200 instead of data.
type apiMessages struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

func (m apiMessages) err(ticker string) error {
	switch {
	case m.ErrorMessage != "":
		return fetcher.NewValidationError(fmt.Sprintf("%s: %s", ticker, m.ErrorMessage))
	case m.Note != "", m.Information != "":
		// Throttling notices arrive as 200 responses.
		e := fetcher.NewRateLimitError(0)
		e.Message = strings.TrimSpace(m.Note + " " + m.Information)
		return e
	}
	return nil
}

// Client implements fetcher.MarketData against AlphaVantage.
type Client struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
}

var _ fetcher.MarketData = (*Client)(nil)

// NewClient creates an AlphaVantage market data client. limiter may be nil.
func NewClient(apiKey string, client *resty.Client, limiter *ratelimit.Limiter) *Client {
	return &Client{
		apiKey:  apiKey,
		client:  client,
		limiter: limiter,
	}
}

func (c *Client) get(ctx context.Context, params map[string]string, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
			return fetcher.ClassifyTransportError(err)
		}
	}

	params["apikey"] = c.apiKey

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(result).
		Get("")

	if err != nil {
		return fetcher.ClassifyTransportError(err)
	}

	if !resp.IsSuccess() {
		return fetcher.ClassifyHTTPError(resp.StatusCode())
	}
	return nil
}

// IntradaySeries returns the one-minute closes of the latest trading day in
// the response, oldest first.
func (c *Client) IntradaySeries(ctx context.Context, ticker string) ([]float64, error) {
	var result IntradayResponse

	err := c.get(ctx, map[string]string{
		"function":   "TIME_SERIES_INTRADAY",
		"symbol":     ticker,
		"interval":   "1min",
		"outputsize": "full",
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch intraday series for %s: %w", ticker, err)
	}

	if err := result.err(ticker); err != nil {
		return nil, err
	}

	// Timestamps are "YYYY-MM-DD HH:MM:SS", so lexical order is time order.
	day, _, _ := strings.Cut(result.MetaData.LastRefreshed, " ")
	stamps := make([]string, 0, len(result.TimeSeries))
	for ts := range result.TimeSeries {
		if day == "" || strings.HasPrefix(ts, day) {
			stamps = append(stamps, ts)
		}
	}
	sort.Strings(stamps)

	closes := make([]float64, 0, len(stamps))
	for _, ts := range stamps {
		v, err := strconv.ParseFloat(result.TimeSeries[ts].Close, 64)
		if err != nil {
			return nil, fetcher.NewValidationError(fmt.Sprintf("failed to parse close %q for %s at %s", result.TimeSeries[ts].Close, ticker, ts))
		}
		closes = append(closes, v)
	}

	return closes, nil
}

// Snapshot retrieves the latest price and previous close from GLOBAL_QUOTE.
// Missing fields are reported as zero.
func (c *Client) Snapshot(ctx context.Context, ticker string) (fetcher.Snapshot, error) {
	var result GlobalQuoteResponse

	err := c.get(ctx, map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   ticker,
	}, &result)
	if err != nil {
		return fetcher.Snapshot{}, fmt.Errorf("failed to fetch stock quote for %s: %w", ticker, err)
	}

	if err := result.err(ticker); err != nil {
		return fetcher.Snapshot{}, err
	}

	price, err := parseOptional(result.GlobalQuote.Price)
	if err != nil {
		return fetcher.Snapshot{}, fetcher.NewValidationError(fmt.Sprintf("failed to parse stock price for %s: %v", ticker, err))
	}

	prevClose, err := parseOptional(result.GlobalQuote.PreviousClose)
	if err != nil {
		return fetcher.Snapshot{}, fetcher.NewValidationError(fmt.Sprintf("failed to parse previous close for %s: %v", ticker, err))
	}

	return fetcher.Snapshot{
		RegularMarketPrice:         price,
		RegularMarketPreviousClose: prevClose,
	}, nil
}

func parseOptional(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
