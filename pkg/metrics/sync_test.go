package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSyncMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewSyncMetrics(reg)
	source := "csv-upload"
	metrics.ObserveDuration(source, 250*time.Millisecond)
	metrics.AddMatchedRows(source, 12)
	metrics.AddOrphanedRows(source, 3)
	metrics.IncSuccess(source)
	metrics.IncFailure(source)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "sync_success", "source", source); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "sync_failure", "source", source); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "sync_rows_total", "outcome", "matched"); err != nil {
		t.Fatalf("fetch matched rows: %v", err)
	} else if got != 12 {
		t.Fatalf("expected matched=12, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "sync_rows_total", "outcome", "orphaned"); err != nil {
		t.Fatalf("fetch orphaned rows: %v", err)
	} else if got != 3 {
		t.Fatalf("expected orphaned=3, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "sync_duration_seconds", "source", source); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestSyncMetricsNilSafe(t *testing.T) {
	var metrics *SyncMetrics
	metrics.ObserveDuration("x", time.Second)
	metrics.AddMatchedRows("x", 1)
	metrics.AddOrphanedRows("x", 1)
	metrics.IncSuccess("x")
	metrics.IncFailure("x")

	unregistered := NewSyncMetrics(nil)
	unregistered.AddMatchedRows("x", 5)
	unregistered.IncSuccess("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
