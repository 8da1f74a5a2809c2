package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/haukened/rr-blocklist/internal/blocklist/common/utils"
	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

const namespace = "blocklist"

const (
	outcomeOK      = "ok"
	outcomeFailed  = "failed"
	outcomeSkipped = "skipped"
)

// Recorder collects the metrics of one run in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	fetchDuration *prometheus.HistogramVec
	fetchTotal    *prometheus.CounterVec
	sourceNames   *prometheus.GaugeVec
	listNames     *prometheus.GaugeVec
	apexDomains   *prometheus.GaugeVec
	lastRun       prometheus.Gauge
}

// NewRecorder returns a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Source retrieval duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"list"}),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Source retrievals by outcome.",
		}, []string{"list", "outcome"}),
		sourceNames: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_names",
			Help:      "Names per source by aggregation status.",
		}, []string{"list", "source", "status"}),
		listNames: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_names",
			Help:      "Names written to each generated list.",
		}, []string{"list"}),
		apexDomains: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_apex_domains",
			Help:      "Distinct registrable domains in each generated list.",
		}, []string{"list"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix timestamp of the last completed run.",
		}),
	}
	r.registry.MustRegister(r.fetchDuration, r.fetchTotal, r.sourceNames, r.listNames, r.apexDomains, r.lastRun)
	return r
}

// ObserveFetch records one retrieval attempt.
func (r *Recorder) ObserveFetch(kind domain.ListKind, d time.Duration, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeFailed
	}
	r.fetchDuration.WithLabelValues(kind.String()).Observe(d.Seconds())
	r.fetchTotal.WithLabelValues(kind.String(), outcome).Inc()
}

// ObserveSkipped records a source dropped under ignore-failure mode.
func (r *Recorder) ObserveSkipped(kind domain.ListKind, source string) {
	r.fetchTotal.WithLabelValues(kind.String(), outcomeSkipped).Inc()
}

// RecordResult records per-source counters and list totals for one pass.
func (r *Recorder) RecordResult(res domain.AggregationResult) {
	list := res.Kind.String()
	for _, src := range res.Sources {
		r.sourceNames.WithLabelValues(list, src.Source, "kept").Set(float64(len(src.Kept)))
		r.sourceNames.WithLabelValues(list, src.Source, "ignored").Set(float64(src.Ignored))
		r.sourceNames.WithLabelValues(list, src.Source, "whitelisted").Set(float64(src.Whitelisted))
	}

	kept := res.KeptNames()
	apex := make(map[string]struct{}, kept.Len())
	for name := range kept {
		apex[utils.GetApexDomain(name)] = struct{}{}
	}
	r.listNames.WithLabelValues(list).Set(float64(kept.Len()))
	r.apexDomains.WithLabelValues(list).Set(float64(len(apex)))
}

// MarkRun stamps the completion time of a run.
func (r *Recorder) MarkRun(at time.Time) {
	r.lastRun.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
