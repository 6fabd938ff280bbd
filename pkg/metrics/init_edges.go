package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEdgeMetrics() {
	r.EdgesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tbd_edges_total",
			Help: "Classified edges by base thermal bridge type",
		},
		[]string{"type"},
	)

	r.EdgeLengthMeters = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tbd_edge_length_meters_total",
			Help: "Classified edge length by base thermal bridge type",
		},
		[]string{"type"},
	)

	r.EdgeHeatLoss = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tbd_edge_heat_loss_watts_per_kelvin_total",
			Help: "Linear heat loss by base thermal bridge type",
		},
		[]string{"type"},
	)

	r.UnapportionedHeatLoss = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "tbd_unapportioned_heat_loss_watts_per_kelvin",
			Help: "Heat loss of skipped edges in the last run",
		},
	)
}
