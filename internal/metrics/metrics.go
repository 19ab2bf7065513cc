// Package metrics exposes unification pipeline counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JonMunkholm/eligibility/internal/core"
)

// Metrics implements core.Recorder.
type Metrics struct {
	RowsRead    *prometheus.CounterVec
	RowsDropped *prometheus.CounterVec
	RowsEmitted *prometheus.CounterVec
	RunFailures *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

var _ core.Recorder = (*Metrics)(nil)

// New creates the pipeline metrics and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RowsRead: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_rows_read_total",
			Help: "Data rows read from partner sources",
		}, []string{"partner"}),
		RowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_rows_dropped_total",
			Help: "Rows dropped for an empty external_id",
		}, []string{"partner"}),
		RowsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_rows_emitted_total",
			Help: "Normalized rows emitted to the unified dataset",
		}, []string{"partner"}),
		RunFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_run_failures_total",
			Help: "Unification runs aborted, by error kind",
		}, []string{"kind"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eligibility_run_duration_seconds",
			Help:    "Duration of unification runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// ObservePartner records one partner's ingest.
func (m *Metrics) ObservePartner(stats core.PartnerStats) {
	m.RowsRead.WithLabelValues(stats.Partner).Add(float64(stats.Read))
	m.RowsDropped.WithLabelValues(stats.Partner).Add(float64(stats.Dropped))
	m.RowsEmitted.WithLabelValues(stats.Partner).Add(float64(stats.Emitted))
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	m.RunDuration.Observe(d.Seconds())
	if err != nil {
		m.RunFailures.WithLabelValues(core.KindOf(err)).Inc()
	}
}
