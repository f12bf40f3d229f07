package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	SwapEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "swap_events_total", Help: "Committed swap events"},
	)
	SwapEventsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swap_events_skipped_total", Help: "Dropped swap events"},
		[]string{"reason"},
	)
	SwapErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swap_errors_total", Help: "Swap processing errors"},
		[]string{"stage"},
	)
	SwapHandleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "swap_handle_duration_seconds", Help: "Per-event handle duration", Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}},
	)
	IndexerLastBlock = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "indexer_last_block", Help: "Last processed block height"},
	)
	EthPriceUSD = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "eth_price_usd", Help: "Current bundle price of the wrapped native asset"},
	)

	lastBlock int64
)

func MustRegister() {
	prometheus.MustRegister(
		SwapEventsTotal,
		SwapEventsSkippedTotal,
		SwapErrorsTotal,
		SwapHandleDuration,
		IndexerLastBlock,
		EthPriceUSD,
	)
}

func IncProcessed()            { SwapEventsTotal.Inc() }
func IncSkipped(reason string) { SwapEventsSkippedTotal.WithLabelValues(reason).Inc() }
func IncError(stage string)    { SwapErrorsTotal.WithLabelValues(stage).Inc() }

func ObserveHandle(seconds float64) { SwapHandleDuration.Observe(seconds) }

func SetEthPrice(price float64) { EthPriceUSD.Set(price) }

func SetLastBlock(height int64) {
	atomic.StoreInt64(&lastBlock, height)
	IndexerLastBlock.Set(float64(height))
}

func LastBlock() int64 {
	return atomic.LoadInt64(&lastBlock)
}
