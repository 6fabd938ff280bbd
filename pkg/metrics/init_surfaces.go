package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSurfaceMetrics() {
	r.SurfacesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tbd_surfaces_total",
			Help: "Surfaces with heat loss by derating outcome",
		},
		[]string{"outcome"},
	)

	r.DerateRatio = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tbd_derate_ratio_percent",
			Help:    "Change in construction resistance of derated surfaces, in percent",
			Buckets: []float64{-75, -50, -25, -10, -5, -1, 0},
		},
	)

	r.PointHeatLoss = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "tbd_point_heat_loss_watts_per_kelvin_total",
			Help: "Heat loss from point thermal bridges",
		},
	)
}
