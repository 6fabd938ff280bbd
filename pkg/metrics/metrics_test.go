package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.RunsTotal == nil || r.EdgesTotal == nil || r.SurfacesTotal == nil {
		t.Error("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()
	r.RecordRun("INFO", 20*time.Millisecond)
	r.RecordRun("INFO", 30*time.Millisecond)
	r.RecordRun("ERROR", 10*time.Millisecond)

	if got := counterValue(t, r.RunsTotal.WithLabelValues("INFO")); got != 2 {
		t.Errorf("INFO runs = %v, want 2", got)
	}
	if got := counterValue(t, r.RunsTotal.WithLabelValues("ERROR")); got != 1 {
		t.Errorf("ERROR runs = %v, want 1", got)
	}

	var metric dto.Metric
	if err := r.RunDuration.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("run samples = %d, want 3", metric.Histogram.GetSampleCount())
	}
}

func TestRecordEdge(t *testing.T) {
	r := NewRegistry()
	r.RecordEdge("corner", 3, 0.9)
	r.RecordEdge("corner", 3, 0.9)
	r.RecordEdge("grade", 10, -0.5)

	if got := counterValue(t, r.EdgesTotal.WithLabelValues("corner")); got != 2 {
		t.Errorf("corner edges = %v, want 2", got)
	}
	if got := counterValue(t, r.EdgeLengthMeters.WithLabelValues("corner")); got != 6 {
		t.Errorf("corner length = %v, want 6", got)
	}
	if got := counterValue(t, r.EdgeHeatLoss.WithLabelValues("corner")); got < 1.79 || got > 1.81 {
		t.Errorf("corner heat loss = %v, want 1.8", got)
	}
	if got := counterValue(t, r.EdgeHeatLoss.WithLabelValues("grade")); got != 0 {
		t.Errorf("heat gains must not be tallied, got %v", got)
	}
}

func TestRecordSurface(t *testing.T) {
	r := NewRegistry()
	r.RecordSurface(true, -12.5, 1.8)
	r.RecordSurface(false, 0, 0)

	if got := counterValue(t, r.SurfacesTotal.WithLabelValues(OutcomeApplied)); got != 1 {
		t.Errorf("applied = %v, want 1", got)
	}
	if got := counterValue(t, r.SurfacesTotal.WithLabelValues(OutcomeSkipped)); got != 1 {
		t.Errorf("skipped = %v, want 1", got)
	}
	if got := counterValue(t, r.PointHeatLoss); got != 1.8 {
		t.Errorf("point heat loss = %v, want 1.8", got)
	}
}

func TestRecordLogEntries(t *testing.T) {
	r := NewRegistry()
	r.RecordLogEntries("WARN", 2)
	r.RecordLogEntries("ERROR", 0)

	if got := counterValue(t, r.LogEntriesTotal.WithLabelValues("WARN")); got != 2 {
		t.Errorf("WARN entries = %v, want 2", got)
	}
}

func TestMetricNames(t *testing.T) {
	r := NewRegistry()
	r.RecordRun("DEBUG", time.Millisecond)
	r.RecordStage("classify", time.Millisecond)
	r.RecordEdge("parapet", 10, 5)
	r.SetUnapportioned(0.4)

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Fatal("no metric families gathered")
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "tbd_") {
			t.Errorf("metric %q lacks the tbd_ prefix", mf.GetName())
		}
	}
}
