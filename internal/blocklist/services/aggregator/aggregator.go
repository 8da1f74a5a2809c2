package aggregator

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/haukened/rr-blocklist/internal/blocklist/common/clock"
	"github.com/haukened/rr-blocklist/internal/blocklist/common/log"
	"github.com/haukened/rr-blocklist/internal/blocklist/common/utils"
	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
	"github.com/haukened/rr-blocklist/internal/blocklist/repos/parsers"
	"github.com/haukened/rr-blocklist/internal/blocklist/repos/suffixindex"
)

// DefaultConcurrency is the number of sources fetched at once when
// AggregatorOptions leaves it unset.
const DefaultConcurrency = 4

// Aggregator merges source lists into one deduplicated, whitelist-filtered
// result. Sources are fetched and parsed in parallel; the merge itself runs
// sequentially in declaration order because every decision depends on the
// sources before it.
type Aggregator struct {
	bloomFactory  suffixindex.BloomFactory
	clock         clock.Clock
	concurrency   int
	fetcher       Fetcher
	fpRate        float64
	ignoreFailure bool
	logger        log.Logger
	metrics       MetricsRecorder
}

type AggregatorOptions struct {
	// BloomFactory fronts the suffix indexes with Bloom filters; nil disables them.
	BloomFactory suffixindex.BloomFactory
	Clock        clock.Clock
	Concurrency  int
	Fetcher      Fetcher
	FPRate       float64
	// IgnoreRetrievalFailure skips sources that fail instead of aborting.
	IgnoreRetrievalFailure bool
	Logger                 log.Logger
	Metrics                MetricsRecorder
}

func NewAggregator(opts AggregatorOptions) *Aggregator {
	a := &Aggregator{
		bloomFactory:  opts.BloomFactory,
		clock:         opts.Clock,
		concurrency:   opts.Concurrency,
		fetcher:       opts.Fetcher,
		fpRate:        opts.FPRate,
		ignoreFailure: opts.IgnoreRetrievalFailure,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
	}
	if a.clock == nil {
		a.clock = clock.RealClock{}
	}
	if a.concurrency <= 0 {
		a.concurrency = DefaultConcurrency
	}
	if a.logger == nil {
		a.logger = log.NewNoopLogger()
	}
	if a.metrics == nil {
		a.metrics = nopMetrics{}
	}
	return a
}

// Run loads sources and aggregates them against whitelist. allowTrusted
// lets local sources use the permissive trusted syntax.
func (a *Aggregator) Run(ctx context.Context, kind domain.ListKind, sources []string, whitelist domain.NameSet, allowTrusted bool) (domain.AggregationResult, error) {
	lists, skipped, err := a.Load(ctx, kind, sources, allowTrusted)
	if err != nil {
		return domain.AggregationResult{}, err
	}
	res := a.Aggregate(kind, lists, whitelist)
	res.Skipped = skipped
	return res, nil
}

// Load fetches and parses sources with at most concurrency fetches in
// flight. Results keep declaration order. The first failure cancels the
// remaining fetches and is returned, unless ignore-failure mode is on, in
// which case failed sources are reported in skipped.
func (a *Aggregator) Load(ctx context.Context, kind domain.ListKind, sources []string, allowTrusted bool) ([]domain.SourceList, []string, error) {
	lists := make([]domain.SourceList, len(sources))
	failures := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			list, err := a.loadOne(gctx, kind, src, allowTrusted)
			if err != nil {
				if a.skippable(ctx, err) {
					failures[i] = err
					return nil
				}
				return err
			}
			lists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.Error(map[string]any{"list": kind.String(), "error": err.Error()}, "load_failed")
		return nil, nil, err
	}

	out := make([]domain.SourceList, 0, len(sources))
	var skipped []string
	for i, src := range sources {
		if failures[i] != nil {
			a.logger.Warn(map[string]any{"list": kind.String(), "source": src, "error": failures[i].Error()}, "source_skipped")
			a.metrics.ObserveSkipped(kind, src)
			skipped = append(skipped, src)
			continue
		}
		out = append(out, lists[i])
	}
	return out, skipped, nil
}

// LoadNames fetches a single source and parses it with the untrusted
// rules. It follows the same failure policy as Load: in ignore-failure
// mode a failing source yields an empty set.
func (a *Aggregator) LoadNames(ctx context.Context, kind domain.ListKind, source string) (domain.NameSet, error) {
	list, err := a.loadOne(ctx, kind, source, false)
	if err != nil {
		if a.skippable(ctx, err) {
			a.logger.Warn(map[string]any{"list": kind.String(), "source": source, "error": err.Error()}, "source_skipped")
			a.metrics.ObserveSkipped(kind, source)
			return domain.NewNameSet(), nil
		}
		return nil, err
	}
	return list.Names, nil
}

func (a *Aggregator) loadOne(ctx context.Context, kind domain.ListKind, source string, allowTrusted bool) (domain.SourceList, error) {
	start := a.clock.Now()
	doc, err := a.fetcher.Fetch(ctx, source)
	a.metrics.ObserveFetch(kind, clock.Since(a.clock, start), err)
	if err != nil {
		return domain.SourceList{}, err
	}

	trusted := allowTrusted && doc.Trusted
	names, err := parsers.ParseList(strings.NewReader(doc.Content), source, trusted, a.logger)
	if err != nil {
		return domain.SourceList{}, &domain.DecodingError{Source: source, Encoding: doc.Encoding, Err: err}
	}
	a.logger.Info(map[string]any{"list": kind.String(), "source": source, "names": names.Len(), "trusted": trusted}, "source_parsed")
	return domain.SourceList{Source: source, Trusted: trusted, Names: names}, nil
}

// skippable reports whether err may be downgraded to a skipped source. A
// cancelled parent context is never skippable.
func (a *Aggregator) skippable(ctx context.Context, err error) bool {
	return a.ignoreFailure && ctx.Err() == nil && domain.IsSourceFailure(err)
}

// Aggregate merges lists in order. For each source, a name is:
//   - ignored as a duplicate when an earlier source listed it, or when a
//     proper parent of it appears in this or any earlier source
//   - otherwise ignored when it or one of its parents is whitelisted
//   - otherwise kept
//
// The duplicate check always runs first, so a name is counted once.
// Decisions never revisit earlier sources. Kept names of each source are
// sorted by reversed labels.
func (a *Aggregator) Aggregate(kind domain.ListKind, lists []domain.SourceList, whitelist domain.NameSet) domain.AggregationResult {
	total := 0
	for _, l := range lists {
		total += l.Names.Len()
	}
	seen := suffixindex.New(nil, uint64(total), a.bloomFactory, a.fpRate)
	allowed := suffixindex.New(whitelist, uint64(whitelist.Len()), a.bloomFactory, a.fpRate)
	a.warnPublicSuffixes(kind, whitelist)

	res := domain.AggregationResult{Kind: kind, Sources: make([]domain.SourceResult, 0, len(lists))}
	for _, l := range lists {
		names := l.Names.Sorted()
		repeated := make([]bool, len(names))
		for i, name := range names {
			repeated[i] = seen.Contains(name)
		}
		for _, name := range names {
			seen.Add(name)
		}

		sr := domain.SourceResult{Source: l.Source}
		for i, name := range names {
			switch {
			case repeated[i] || seen.HasSuffix(name):
				sr.Ignored++
			case allowed.HasSuffixOrSelf(name):
				sr.Whitelisted++
			default:
				sr.Kept = append(sr.Kept, name)
			}
		}

		a.logger.Info(map[string]any{
			"list":        kind.String(),
			"source":      l.Source,
			"kept":        len(sr.Kept),
			"ignored":     sr.Ignored,
			"whitelisted": sr.Whitelisted,
		}, "source_aggregated")
		res.Sources = append(res.Sources, sr)
	}
	return res
}

// warnPublicSuffixes flags whitelist entries such as "com" or "co.uk" that
// suppress every name beneath them.
func (a *Aggregator) warnPublicSuffixes(kind domain.ListKind, whitelist domain.NameSet) {
	for _, name := range whitelist.Sorted() {
		if utils.IsPublicSuffix(name) {
			a.logger.Warn(map[string]any{"list": kind.String(), "name": name}, "whitelist_public_suffix")
		}
	}
}
