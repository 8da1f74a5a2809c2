package generator

import (
	"context"
	"fmt"

	"github.com/haukened/rr-blocklist/internal/blocklist/common/clock"
	"github.com/haukened/rr-blocklist/internal/blocklist/common/log"
	"github.com/haukened/rr-blocklist/internal/blocklist/config"
	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
	"github.com/haukened/rr-blocklist/internal/blocklist/gateways/report"
)

// Plan names the inputs and outputs of one run. Empty WhitelistConfig,
// TimeRestricted or MetricsFile disable the matching step.
type Plan struct {
	BlacklistConfig string
	WhitelistConfig string
	TimeRestricted  string
	Output          string
	WhitelistOutput string
	MetricsFile     string
}

// Summary describes a completed run.
type Summary struct {
	TimeRestricted int
	Whitelist      domain.AggregationResult
	Blacklist      domain.AggregationResult
}

// Generator runs the whitelist pass and then the blacklist pass, and
// writes both lists once every source has been processed.
type Generator struct {
	aggregator  ListAggregator
	clock       clock.Clock
	loadSources func(path string) ([]string, error)
	logger      log.Logger
	metrics     RunRecorder
	writeFile   func(path string, data []byte) error
}

type GeneratorOptions struct {
	Aggregator ListAggregator
	Clock      clock.Clock
	// LoadSources reads a source configuration file. Defaults to config.LoadSourceList.
	LoadSources func(path string) ([]string, error)
	Logger      log.Logger
	// Metrics is optional.
	Metrics RunRecorder
	// WriteFile replaces a file atomically. Defaults to report.WriteFile.
	WriteFile func(path string, data []byte) error
}

func NewGenerator(opts GeneratorOptions) *Generator {
	g := &Generator{
		aggregator:  opts.Aggregator,
		clock:       opts.Clock,
		loadSources: opts.LoadSources,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		writeFile:   opts.WriteFile,
	}
	if g.clock == nil {
		g.clock = clock.RealClock{}
	}
	if g.loadSources == nil {
		g.loadSources = config.LoadSourceList
	}
	if g.logger == nil {
		g.logger = log.NewNoopLogger()
	}
	if g.writeFile == nil {
		g.writeFile = report.WriteFile
	}
	return g
}

// Generate executes plan. Configuration files are read before anything is
// fetched, so a missing file aborts the run without network traffic. No
// output is written unless both passes succeed.
func (g *Generator) Generate(ctx context.Context, plan Plan) (Summary, error) {
	start := g.clock.Now()

	blacklistSources, err := g.loadSources(plan.BlacklistConfig)
	if err != nil {
		return Summary{}, err
	}
	var whitelistSources []string
	if plan.WhitelistConfig != "" {
		whitelistSources, err = g.loadSources(plan.WhitelistConfig)
		if err != nil {
			return Summary{}, err
		}
	}
	g.logger.Info(map[string]any{
		"blacklist_sources": len(blacklistSources),
		"whitelist_sources": len(whitelistSources),
	}, "sources_configured")

	timeRestricted := domain.NewNameSet()
	if plan.TimeRestricted != "" {
		timeRestricted, err = g.aggregator.LoadNames(ctx, domain.ListBlacklist, plan.TimeRestricted)
		if err != nil {
			return Summary{}, err
		}
		g.logger.Info(map[string]any{"source": plan.TimeRestricted, "names": timeRestricted.Len()}, "time_restricted_loaded")
	}

	summary := Summary{TimeRestricted: timeRestricted.Len()}

	// time-restricted names are whitelisted, or they would always be blocked
	if plan.WhitelistConfig != "" {
		summary.Whitelist, err = g.aggregator.Run(ctx, domain.ListWhitelist, whitelistSources, timeRestricted, true)
		if err != nil {
			return Summary{}, err
		}
	}

	whitelist := domain.Union(timeRestricted, summary.Whitelist.KeptNames())
	summary.Blacklist, err = g.aggregator.Run(ctx, domain.ListBlacklist, blacklistSources, whitelist, false)
	if err != nil {
		return Summary{}, err
	}

	if plan.WhitelistConfig != "" {
		if err := g.write(plan.WhitelistOutput, timeRestricted, summary.Whitelist); err != nil {
			return Summary{}, err
		}
	}
	if err := g.write(plan.Output, timeRestricted, summary.Blacklist); err != nil {
		return Summary{}, err
	}

	g.recordMetrics(plan.MetricsFile, summary)

	kept, ignored, whitelisted := summary.Blacklist.Totals()
	g.logger.Info(map[string]any{
		"output":      plan.Output,
		"kept":        kept,
		"ignored":     ignored,
		"whitelisted": whitelisted,
		"skipped":     len(summary.Whitelist.Skipped) + len(summary.Blacklist.Skipped),
		"duration":    clock.Since(g.clock, start).String(),
	}, "generation_complete")
	return summary, nil
}

func (g *Generator) write(path string, timeRestricted domain.NameSet, res domain.AggregationResult) error {
	if err := g.writeFile(path, report.Render(timeRestricted, res)); err != nil {
		return fmt.Errorf("write %s list: %w", res.Kind, err)
	}
	kept, _, _ := res.Totals()
	g.logger.Info(map[string]any{"path": path, "list": res.Kind.String(), "names": kept}, "list_written")
	return nil
}

// recordMetrics is best effort: a failing metrics file never fails a run
// whose lists were written.
func (g *Generator) recordMetrics(path string, s Summary) {
	if g.metrics == nil {
		return
	}
	if len(s.Whitelist.Sources) > 0 {
		g.metrics.RecordResult(s.Whitelist)
	}
	g.metrics.RecordResult(s.Blacklist)
	g.metrics.MarkRun(g.clock.Now())
	if path == "" {
		return
	}
	if err := g.metrics.WriteTextfile(path); err != nil {
		g.logger.Warn(map[string]any{"path": path, "error": err.Error()}, "metrics_write_failed")
	}
}
