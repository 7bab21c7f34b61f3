package blockassembly

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBlockAssemblerGetMiningCandidate      prometheus.Counter
	prometheusBlockAssemblerSubmitMiningSolution    prometheus.Histogram
	prometheusBlockAssemblerBestBlockHeight         prometheus.Gauge
	prometheusBlockAssemblerCandidateTransactions   prometheus.Gauge
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusBlockAssemblerGetMiningCandidate = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nanonode",
			Subsystem: "blockassembly",
			Name:      "get_mining_candidate",
			Help:      "Number of mining candidates handed out",
		},
	)

	prometheusBlockAssemblerSubmitMiningSolution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nanonode",
			Subsystem: "blockassembly",
			Name:      "submit_mining_solution",
			Help:      "Duration of assembling a block from a mining solution",
		},
	)

	prometheusBlockAssemblerBestBlockHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nanonode",
			Subsystem: "blockassembly",
			Name:      "best_block_height",
			Help:      "Height of the chain tip as seen by the block assembler",
		},
	)

	prometheusBlockAssemblerCandidateTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nanonode",
			Subsystem: "blockassembly",
			Name:      "candidate_transactions",
			Help:      "Number of transactions in the last mining candidate",
		},
	)
}
