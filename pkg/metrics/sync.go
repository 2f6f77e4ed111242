package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records outcomes of analytics sync batches.
type SyncMetrics struct {
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewSyncMetrics registers the sync batch metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_duration_seconds",
		Help:    "Duration of analytics sync batches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_rows_total",
		Help: "Rows processed by analytics syncs, partitioned by outcome.",
	}, []string{"source", "outcome"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_success",
		Help: "Successful analytics sync batches.",
	}, []string{"source"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_failure",
		Help: "Failed analytics sync batches.",
	}, []string{"source"})
	reg.MustRegister(duration, rows, success, failure)
	return &SyncMetrics{
		duration: duration,
		rows:     rows,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the wall time of a sync batch for the named source.
func (s *SyncMetrics) ObserveDuration(source string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

// AddMatchedRows counts rows attributed to a known channel binding.
func (s *SyncMetrics) AddMatchedRows(source string, n int) {
	s.addRows(source, "matched", n)
}

// AddOrphanedRows counts rows skipped because no binding matched.
func (s *SyncMetrics) AddOrphanedRows(source string, n int) {
	s.addRows(source, "orphaned", n)
}

func (s *SyncMetrics) addRows(source, outcome string, n int) {
	if s == nil || s.rows == nil || n <= 0 {
		return
	}
	s.rows.WithLabelValues(normalizeLabel(source), outcome).Add(float64(n))
}

// IncSuccess increments the success counter for the named source.
func (s *SyncMetrics) IncSuccess(source string) {
	if s == nil || s.success == nil {
		return
	}
	s.success.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncFailure increments the failure counter for the named source.
func (s *SyncMetrics) IncFailure(source string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(source)).Inc()
}

func normalizeLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}
