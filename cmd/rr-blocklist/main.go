package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/haukened/rr-blocklist/internal/blocklist/common/clock"
	"github.com/haukened/rr-blocklist/internal/blocklist/common/log"
	"github.com/haukened/rr-blocklist/internal/blocklist/config"
	"github.com/haukened/rr-blocklist/internal/blocklist/gateways/retrieval"
	"github.com/haukened/rr-blocklist/internal/blocklist/infra/metrics"
	"github.com/haukened/rr-blocklist/internal/blocklist/repos/suffixindex/bloom"
	"github.com/haukened/rr-blocklist/internal/blocklist/services/aggregator"
	"github.com/haukened/rr-blocklist/internal/blocklist/services/generator"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "rr-blocklist"

	// Bloom prefilter target false-positive rate
	defaultFPRate = 0.01
)

// Application holds the wired components of one generation run
type Application struct {
	config    *config.AppConfig
	cache     *retrieval.CachingFetcher
	generator *generator.Generator
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one generation and returns the process exit status.
func run(args []string) int {
	// Load configuration from defaults, environment and flags
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		return 1
	}

	log.Info(map[string]any{
		"version":         version,
		"env":             cfg.Env,
		"log_level":       cfg.LogLevel,
		"config":          cfg.Config,
		"whitelist":       cfg.Whitelist,
		"time_restricted": cfg.TimeRestricted,
		"output":          cfg.Output,
		"timeout":         cfg.TimeoutDuration().String(),
		"concurrency":     cfg.Concurrency,
		"ignore_failures": cfg.IgnoreRetrievalFailure,
	}, "Starting "+appName)

	app, err := buildApplication(cfg)
	if err != nil {
		log.Error(map[string]any{"error": err.Error()}, "Failed to build application")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Abort in-flight retrievals on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info(map[string]any{"signal": sig.String()}, "Interrupt received, aborting")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Error(map[string]any{"error": err.Error()}, "Generation failed")
		return 1
	}
	return 0
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	clk := &clock.RealClock{}
	logger := log.GetLogger()

	// Build gateway layer
	fetcher := retrieval.NewFetcher(retrieval.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.TimeoutDuration(),
		Logger:    logger,
		Clock:     clk,
	})
	cache, err := retrieval.NewCachingFetcher(fetcher, cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create document cache: %w", err)
	}

	recorder := metrics.NewRecorder()

	// Build service layer
	agg := aggregator.NewAggregator(aggregator.AggregatorOptions{
		BloomFactory:           bloom.NewFactory(),
		Clock:                  clk,
		Concurrency:            cfg.Concurrency,
		Fetcher:                cache,
		FPRate:                 defaultFPRate,
		IgnoreRetrievalFailure: cfg.IgnoreRetrievalFailure,
		Logger:                 logger,
		Metrics:                recorder,
	})

	gen := generator.NewGenerator(generator.GeneratorOptions{
		Aggregator: agg,
		Clock:      clk,
		Logger:     logger,
		Metrics:    recorder,
	})

	return &Application{
		config:    cfg,
		cache:     cache,
		generator: gen,
	}, nil
}

// Run performs one generation
func (app *Application) Run(ctx context.Context) error {
	_, err := app.generator.Generate(ctx, generator.Plan{
		BlacklistConfig: app.config.Config,
		WhitelistConfig: app.config.Whitelist,
		TimeRestricted:  app.config.TimeRestricted,
		Output:          app.config.Output,
		WhitelistOutput: app.config.WhitelistOutput,
		MetricsFile:     app.config.MetricsFile,
	})

	stats := app.cache.Stats()
	log.Debug(map[string]any{
		"size":   stats.Size,
		"hits":   stats.Hits,
		"misses": stats.Misses,
	}, "Document cache stats")

	return err
}
