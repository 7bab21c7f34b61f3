package blockvalidation

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBlockValidationValidateBlock  prometheus.Histogram
	prometheusBlockValidationInvalidBlocks  prometheus.Counter
	prometheusBlockValidationBestHeight     prometheus.Gauge
	prometheusBlockValidationTxsPerBlock    prometheus.Histogram
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusBlockValidationValidateBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nanonode",
			Subsystem: "blockvalidation",
			Name:      "validate_block",
			Help:      "Duration of block validation in seconds",
		},
	)

	prometheusBlockValidationInvalidBlocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nanonode",
			Subsystem: "blockvalidation",
			Name:      "invalid_blocks",
			Help:      "Number of blocks rejected by validation",
		},
	)

	prometheusBlockValidationBestHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nanonode",
			Subsystem: "blockvalidation",
			Name:      "best_height",
			Help:      "Height of the last block accepted by validation",
		},
	)

	prometheusBlockValidationTxsPerBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nanonode",
			Subsystem: "blockvalidation",
			Name:      "txs_per_block",
			Help:      "Number of transactions per accepted block",
		},
	)
}
