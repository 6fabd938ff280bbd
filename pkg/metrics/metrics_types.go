package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics of derating runs
type Registry struct {
	// Run Metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	StageDuration    *prometheus.HistogramVec
	LastRunTimestamp prometheus.Gauge
	LogEntriesTotal  *prometheus.CounterVec

	// Edge Metrics
	EdgesTotal            *prometheus.CounterVec
	EdgeLengthMeters      *prometheus.CounterVec
	EdgeHeatLoss          *prometheus.CounterVec
	UnapportionedHeatLoss prometheus.Gauge

	// Surface Metrics
	SurfacesTotal *prometheus.CounterVec
	DerateRatio   prometheus.Histogram
	PointHeatLoss prometheus.Counter

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initRunMetrics()
	r.initEdgeMetrics()
	r.initSurfaceMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
