package aggregator

import (
	"context"
	"time"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

// Fetcher retrieves one source and decodes it to text.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (domain.Document, error)
}

// MetricsRecorder receives retrieval outcomes.
type MetricsRecorder interface {
	ObserveFetch(kind domain.ListKind, d time.Duration, err error)
	ObserveSkipped(kind domain.ListKind, source string)
}
