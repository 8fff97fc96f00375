// Package metrics exposes Prometheus metrics and the operational HTTP
// endpoints.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spotbot"

// Execution metrics.
var (
	AttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fok_attempts_total",
		Help:      "Fill-or-kill submission attempts by outcome.",
	}, []string{"symbol", "outcome"})

	ExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fok_executions_total",
		Help:      "Completed fill-or-kill executions by result.",
	}, []string{"symbol", "result"})

	DriftConsumedBps = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fok_drift_consumed_bps",
		Help:      "Price drift consumed per successful execution, in basis points.",
		Buckets:   []float64{0, 2, 4, 6, 8, 10, 15, 20, 30},
	})

	AttemptsPerExecution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fok_attempts_per_execution",
		Help:      "Submission attempts needed per successful execution.",
		Buckets:   []float64{1, 2, 3, 4, 5},
	})

	OrderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_latency_seconds",
		Help:      "Wall time of one full fill-or-kill execution.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Trading loop metrics.
var (
	SwitchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "switches_total",
		Help:      "Asset switches by direction.",
	}, []string{"symbol", "direction"})

	SignalsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signals_total",
		Help:      "Strategy evaluations by decision.",
	}, []string{"strategy", "decision"})

	StrategyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "strategy_latency_seconds",
		Help:      "Strategy evaluation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"strategy"})

	TickFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tick_failures_total",
		Help:      "Trading loop iterations that ended in an error.",
	})
)

// Portfolio metrics.
var (
	EquityValue = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "equity_value",
		Help:      "Portfolio value in quote units.",
	})

	AssetBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "asset_balance",
		Help:      "Total balance per asset.",
	}, []string{"asset"})

	LastPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_price",
		Help:      "Latest reference price of the traded symbol.",
	})
)

// Operational metrics.
var (
	SafeModeActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "safe_mode_active",
		Help:      "1 when the engine refuses to trade.",
	})

	ExchangeConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "exchange_connected",
		Help:      "1 when the last connectivity probe succeeded.",
	})

	HeartbeatTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "heartbeat_timestamp_seconds",
		Help:      "Unix time of the last completed trading loop iteration.",
	})

	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Errors by type.",
	}, []string{"type"})

	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build metadata, value is always 1.",
	}, []string{"version", "commit", "date"})
)

// SetBuildInfo records build metadata.
func SetBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
}
