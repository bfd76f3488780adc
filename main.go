package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"stocktracker/internal/alphavantage"
	"stocktracker/internal/config"
	"stocktracker/internal/coordinator"
	"stocktracker/internal/display"
	"stocktracker/internal/fetcher"
	"stocktracker/internal/publish"
	"stocktracker/internal/ratelimit"
	"stocktracker/internal/tracker"
	"stocktracker/internal/yahoo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		// A second interrupt falls through to the default handler and kills the process.
		signal.Stop(sigChan)
		cancel()
	}()

	source := newMarketData(cfg)

	renderer := display.New(os.Stdout, cfg.ClearScreen)
	opts := []coordinator.Option{coordinator.WithLogger(logger)}

	if cfg.RedisAddr != "" {
		sink := publish.NewRedisSink(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}), cfg.RedisTTL)
		defer sink.Close()

		if err := sink.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, tables will not be published until it recovers", "error", err)
		}
		opts = append(opts, coordinator.WithPublisher(sink))
	}

	coord := coordinator.New(tracker.New(source, logger), renderer, cfg.Tickers, cfg.Interval, opts...)

	if err := coord.Run(ctx); err != nil {
		log.Fatalf("Tracker failed: %v", err)
	}

	renderer.Farewell()
}

// newMarketData builds the configured market data client.
func newMarketData(cfg *config.Config) fetcher.MarketData {
	if cfg.Provider == config.ProviderAlphaVantage {
		limiter := ratelimit.New(map[ratelimit.API]float64{
			ratelimit.APIAlphaVantage: cfg.RequestsPerSecond,
		})
		return alphavantage.NewClient(
			cfg.AlphavantageAPIKey,
			fetcher.NewHTTPClient(cfg.AlphavantageBaseURL, cfg.RetryCount, cfg.RequestTimeout),
			limiter,
		)
	}

	limiter := ratelimit.New(map[ratelimit.API]float64{
		ratelimit.APIYahoo: cfg.RequestsPerSecond,
	})
	return yahoo.NewClient(
		fetcher.NewHTTPClient(cfg.YahooBaseURL, cfg.RetryCount, cfg.RequestTimeout),
		limiter,
	)
}
