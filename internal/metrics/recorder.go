package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recorder provides methods for recording metrics.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordAttempt records one fill-or-kill submission attempt.
func (r *Recorder) RecordAttempt(symbol, outcome string) {
	AttemptsTotal.WithLabelValues(symbol, outcome).Inc()
}

// RecordExecutionSuccess records a completed execution with its cost.
func (r *Recorder) RecordExecutionSuccess(symbol string, attempts int, driftBps decimal.Decimal) {
	ExecutionsTotal.WithLabelValues(symbol, "success").Inc()
	AttemptsPerExecution.Observe(float64(attempts))
	DriftConsumedBps.Observe(driftBps.InexactFloat64())
}

// RecordExecutionFailure records a failed execution.
func (r *Recorder) RecordExecutionFailure(symbol, reason string) {
	ExecutionsTotal.WithLabelValues(symbol, "failure").Inc()
	ErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordSwitch records a completed asset switch.
func (r *Recorder) RecordSwitch(symbol, direction string) {
	SwitchesTotal.WithLabelValues(symbol, direction).Inc()
}

// RecordSignal records a strategy decision.
func (r *Recorder) RecordSignal(strategy, decision string) {
	SignalsGenerated.WithLabelValues(strategy, decision).Inc()
}

// RecordEquity records the portfolio valuation.
func (r *Recorder) RecordEquity(total, price decimal.Decimal) {
	EquityValue.Set(total.InexactFloat64())
	LastPrice.Set(price.InexactFloat64())
}

// RecordBalance records one asset's total balance.
func (r *Recorder) RecordBalance(asset string, total decimal.Decimal) {
	AssetBalance.WithLabelValues(asset).Set(total.InexactFloat64())
}

// RecordSafeMode records safe mode status.
func (r *Recorder) RecordSafeMode(active bool) {
	if active {
		SafeModeActive.Set(1)
	} else {
		SafeModeActive.Set(0)
	}
}

// RecordExchangeStatus records exchange connectivity.
func (r *Recorder) RecordExchangeStatus(connected bool) {
	if connected {
		ExchangeConnected.Set(1)
	} else {
		ExchangeConnected.Set(0)
	}
}

// RecordHeartbeat records a completed loop iteration.
func (r *Recorder) RecordHeartbeat() {
	HeartbeatTimestamp.Set(float64(time.Now().Unix()))
}

// RecordTickFailure records a failed loop iteration.
func (r *Recorder) RecordTickFailure() {
	TickFailures.Inc()
}

// RecordError records an error.
func (r *Recorder) RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordOrderLatency records full execution latency.
func (r *Recorder) RecordOrderLatency(duration time.Duration) {
	OrderLatency.Observe(duration.Seconds())
}

// RecordStrategyLatency records strategy computation latency.
func (r *Recorder) RecordStrategyLatency(strategy string, duration time.Duration) {
	StrategyLatency.WithLabelValues(strategy).Observe(duration.Seconds())
}

// Timer is a helper for measuring latency.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed duration.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ObserveOrder observes the elapsed time as order latency.
func (t *Timer) ObserveOrder() {
	OrderLatency.Observe(t.Elapsed().Seconds())
}

// ObserveStrategy observes the elapsed time as strategy latency.
func (t *Timer) ObserveStrategy(strategy string) {
	StrategyLatency.WithLabelValues(strategy).Observe(t.Elapsed().Seconds())
}
