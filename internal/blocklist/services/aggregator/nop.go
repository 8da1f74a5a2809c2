package aggregator

import (
	"time"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

// nopMetrics discards every observation.
type nopMetrics struct{}

func (nopMetrics) ObserveFetch(domain.ListKind, time.Duration, error) {}
func (nopMetrics) ObserveSkipped(domain.ListKind, string)              {}
