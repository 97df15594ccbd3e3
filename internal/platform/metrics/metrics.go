// Package metrics holds the prometheus collectors of the wallet services.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wallet"

// Metrics groups the reconciliation, cache and refresher collectors.
type Metrics struct {
	runsTotal          *prometheus.CounterVec
	duration           prometheus.Histogram
	malformedTotal     prometheus.Counter
	sourceDegraded     *prometheus.CounterVec
	staleDiscarded     prometheus.Counter
	cacheLookups       *prometheus.CounterVec
	refreshEventsTotal *prometheus.CounterVec
	summariesPublished prometheus.Counter
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// binaries and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconciliation",
				Name:      "runs_total",
				Help:      "Total reconciliation runs partitioned by result.",
			},
			[]string{"result"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "reconciliation",
				Name:      "duration_seconds",
				Help:      "Time spent loading a snapshot and reconciling it.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		malformedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconciliation",
				Name:      "malformed_records_total",
				Help:      "Total input records coerced to safe defaults.",
			},
		),
		sourceDegraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconciliation",
				Name:      "source_degraded_total",
				Help:      "Total source fetches that failed and were treated as empty.",
			},
			[]string{"source"},
		),
		staleDiscarded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconciliation",
				Name:      "stale_snapshots_discarded_total",
				Help:      "Total results not cached because newer inputs arrived meanwhile.",
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "view_cache",
				Name:      "lookups_total",
				Help:      "Total cached view lookups partitioned by result.",
			},
			[]string{"result"},
		),
		refreshEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "refresher",
				Name:      "events_total",
				Help:      "Total wallet events handled partitioned by result.",
			},
			[]string{"result"},
		),
		summariesPublished: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "refresher",
				Name:      "summaries_published_total",
				Help:      "Total wallet summaries published.",
			},
		),
	}
}

// ObserveReconciliation records one run. malformed is the run's coerced record count.
func (m *Metrics) ObserveReconciliation(started time.Time, malformed int, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(started).Seconds())
	if err != nil {
		m.runsTotal.WithLabelValues("error").Inc()
		return
	}
	m.runsTotal.WithLabelValues("success").Inc()
	if malformed > 0 {
		m.malformedTotal.Add(float64(malformed))
	}
}

func (m *Metrics) SourceDegraded(source string) {
	if m == nil {
		return
	}
	m.sourceDegraded.WithLabelValues(source).Inc()
}

func (m *Metrics) StaleDiscarded() {
	if m == nil {
		return
	}
	m.staleDiscarded.Inc()
}

// CacheLookup records a view cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// RefreshEvent records the outcome of one wallet event: processed, failed or dead_lettered.
func (m *Metrics) RefreshEvent(result string) {
	if m == nil {
		return
	}
	m.refreshEventsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) SummaryPublished() {
	if m == nil {
		return
	}
	m.summariesPublished.Inc()
}
