package metrics

import (
	"time"
)

// Surface outcomes.
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
)

// RecordRun records a completed run with its worst severity
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
	r.LastRunTimestamp.SetToCurrentTime()
}

// RecordStage records the duration of one pipeline stage
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordEdge records one classified edge
func (r *Registry) RecordEdge(edgeType string, length, heatLoss float64) {
	r.EdgesTotal.WithLabelValues(edgeType).Inc()
	r.EdgeLengthMeters.WithLabelValues(edgeType).Add(length)
	// Counters cannot go down; heat gains are not tallied.
	if heatLoss > 0 {
		r.EdgeHeatLoss.WithLabelValues(edgeType).Add(heatLoss)
	}
}

// RecordSurface records the derating outcome of one surface
func (r *Registry) RecordSurface(applied bool, ratio, pointHeatLoss float64) {
	if applied {
		r.SurfacesTotal.WithLabelValues(OutcomeApplied).Inc()
		r.DerateRatio.Observe(ratio)
	} else {
		r.SurfacesTotal.WithLabelValues(OutcomeSkipped).Inc()
	}
	if pointHeatLoss > 0 {
		r.PointHeatLoss.Add(pointHeatLoss)
	}
}

// RecordLogEntries adds n diagnostic entries of one severity
func (r *Registry) RecordLogEntries(level string, n int) {
	if n > 0 {
		r.LogEntriesTotal.WithLabelValues(level).Add(float64(n))
	}
}

// SetUnapportioned records the heat loss skipped edges left unassigned
func (r *Registry) SetUnapportioned(heatLoss float64) {
	r.UnapportionedHeatLoss.Set(heatLoss)
}
