package miner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics tracks the loop's iteration rate, per-phase advance counts,
// fatal errors, and the height currently being built.
type metrics struct {
	iterations      prometheus.Counter
	phaseAdvances   *prometheus.CounterVec
	fatalErrors     prometheus.Counter
	candidateHeight prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		iterations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "miner",
			Name:      "iterations_total",
			Help:      "Total number of mining loop iterations.",
		}),
		phaseAdvances: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "miner",
			Name:      "phase_advances_total",
			Help:      "Number of chain-advancing mutations, by phase.",
		}, []string{"phase"}),
		fatalErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "miner",
			Name:      "fatal_errors_total",
			Help:      "Total number of fatal persistence/codec errors that aborted the loop.",
		}),
		candidateHeight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "miner",
			Name:      "building_block_num",
			Help:      "Block number the mining loop is currently building.",
		}),
	}
}
