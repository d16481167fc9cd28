package reactor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// instructionsTotal counts applied toggles.
	// Labels: "on", "off"
	instructionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reboot_reactor_instructions_total",
		Help: "Toggle instructions applied to the reactor by operation",
	}, []string{"op"})

	segmentsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reboot_reactor_segments",
		Help: "Disjoint cuboids currently held by the reactor",
	})

	fragmentsPerSubtract = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reboot_reactor_subtract_fragments",
		Help:    "Cuboids left after coalescing one member minus an instruction box",
		Buckets: []float64{0, 1, 2, 3, 4, 6, 10, 26},
	})
)
