package generator

import (
	"context"
	"time"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

// ListAggregator produces one aggregation pass.
type ListAggregator interface {
	Run(ctx context.Context, kind domain.ListKind, sources []string, whitelist domain.NameSet, allowTrusted bool) (domain.AggregationResult, error)
	LoadNames(ctx context.Context, kind domain.ListKind, source string) (domain.NameSet, error)
}

// RunRecorder receives the results of a completed run.
type RunRecorder interface {
	RecordResult(res domain.AggregationResult)
	MarkRun(at time.Time)
	WriteTextfile(path string) error
}
