// Package engine provides the main trading loop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"spotbot/internal/alerting"
	"spotbot/internal/exchange"
	"spotbot/internal/fok"
	"spotbot/internal/metrics"
	"spotbot/internal/persistence"
	"spotbot/internal/safety"
	"spotbot/internal/strategy"
	"spotbot/internal/types"
)

// feeBuffer leaves headroom for trading fees and the retry price margin
// when sizing a buy from the full quote balance.
var feeBuffer = decimal.RequireFromString("0.999")

// Executor runs one all-or-nothing order execution.
type Executor interface {
	Execute(ctx context.Context, symbol string, side types.Side, qty decimal.Decimal) (*fok.Result, error)
}

// Config holds engine configuration.
type Config struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string

	CheckInterval       time.Duration
	HealthInterval      time.Duration
	SwitchCooldown      time.Duration
	KlineHistoryBars    int
	DataStaleness       time.Duration
	MaxConsecutiveFails int
}

// DefaultConfig returns default engine config.
func DefaultConfig() Config {
	return Config{
		Symbol:              "BTCUSDT",
		BaseAsset:           "BTC",
		QuoteAsset:          "USDT",
		CheckInterval:       time.Minute,
		HealthInterval:      5 * time.Minute,
		KlineHistoryBars:    100,
		DataStaleness:       5 * time.Minute,
		MaxConsecutiveFails: 5,
	}
}

// Status is the engine state snapshot served on /status.
type Status struct {
	Running          bool              `json:"running"`
	Symbol           string            `json:"symbol"`
	CurrentAsset     string            `json:"current_asset"`
	SafeMode         bool              `json:"safe_mode"`
	LastDecision     string            `json:"last_decision"`
	LastReason       string            `json:"last_reason"`
	Indicators       map[string]string `json:"indicators,omitempty"`
	LastTickAt       time.Time         `json:"last_tick_at"`
	LastSwitchAt     time.Time         `json:"last_switch_at"`
	TotalSwitches    int               `json:"total_switches"`
	ConsecutiveFails int               `json:"consecutive_fails"`
	Connected        bool              `json:"connected"`
}

// Engine coordinates strategy evaluation and asset switching.
type Engine struct {
	cfg       Config
	logger    *slog.Logger
	client    exchange.Client
	executor  Executor
	strategy  strategy.Strategy
	validator *safety.Validator
	repo      persistence.Repository
	alerter   alerting.Alerter
	recorder  *metrics.Recorder

	// State
	mu               sync.RWMutex
	running          bool
	currentAsset     string
	lastEval         strategy.Evaluation
	lastTickAt       time.Time
	lastSwitchAt     time.Time
	safeMode         bool
	consecutiveFails int
	totalSwitches    int
	connected        bool

	// Daily summary accounting, rolled at UTC midnight.
	dayStart      time.Time
	dayStartValue decimal.Decimal
	daySwitches   int
	dayFailures   int

	// Channels
	done chan struct{}
	wg   sync.WaitGroup
}

// NewEngine creates a new trading engine. The repository and alerter
// may be nil; persistence and alerting are then disabled.
func NewEngine(
	cfg Config,
	client exchange.Client,
	executor Executor,
	strat strategy.Strategy,
	validator *safety.Validator,
	repo persistence.Repository,
	alerter alerting.Alerter,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		executor:  executor,
		strategy:  strat,
		validator: validator,
		repo:      repo,
		alerter:   alerter,
		recorder:  metrics.NewRecorder(),
		connected: true,
		done:      make(chan struct{}),
	}
}

// Start restores state, runs the initial safety check and launches the
// trading and health loops.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("engine already running")
	}
	e.running = true
	e.mu.Unlock()

	if err := e.restoreState(ctx); err != nil {
		return fmt.Errorf("restore state: %w", err)
	}

	if e.validator != nil {
		if err := e.validator.Check(ctx); err != nil {
			e.alert(ctx, alerting.EventSafetyCheckFailed, "Safety check failed on startup", "error", err.Error())
			return err
		}
	}

	e.logger.Info("starting trading engine",
		"symbol", e.cfg.Symbol,
		"strategy", e.strategy.Name(),
		"current_asset", e.CurrentAsset(),
		"check_interval", e.cfg.CheckInterval,
	)

	e.wg.Add(1)
	go e.tradingLoop(ctx)

	if e.cfg.HealthInterval > 0 {
		e.wg.Add(1)
		go e.healthLoop(ctx)
	}

	e.alert(ctx, alerting.EventBotStarted, "Trading engine started",
		"symbol", e.cfg.Symbol,
		"strategy", e.strategy.Name(),
		"current_asset", e.CurrentAsset(),
	)

	return nil
}

// restoreState loads durable state, falling back to inferring the
// current asset from live balances on first run.
func (e *Engine) restoreState(ctx context.Context) error {
	if e.repo != nil {
		state, err := e.repo.GetState(ctx)
		switch {
		case err == nil:
			e.mu.Lock()
			e.currentAsset = state.CurrentAsset
			e.lastSwitchAt = state.LastSwitchAt
			e.safeMode = state.SafeModeActive
			e.consecutiveFails = state.ConsecutiveFails
			e.totalSwitches = state.TotalSwitches
			e.mu.Unlock()
			e.logger.Info("restored state",
				"current_asset", state.CurrentAsset,
				"total_switches", state.TotalSwitches,
				"safe_mode", state.SafeModeActive,
			)
			return nil
		case errors.Is(err, types.ErrStateNotFound):
			// First run, fall through to balance inference.
		default:
			return err
		}
	}

	asset, err := e.inferCurrentAsset(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.currentAsset = asset
	e.mu.Unlock()
	e.logger.Info("inferred current asset from balances", "current_asset", asset)
	return nil
}

// inferCurrentAsset picks whichever side of the pair holds more value.
func (e *Engine) inferCurrentAsset(ctx context.Context) (string, error) {
	balances, err := e.client.Balances(ctx, e.cfg.BaseAsset, e.cfg.QuoteAsset)
	if err != nil {
		return "", fmt.Errorf("fetch balances: %w", err)
	}
	price, err := e.client.LastPrice(ctx, e.cfg.Symbol)
	if err != nil {
		return "", fmt.Errorf("fetch price: %w", err)
	}

	baseValue := balances[e.cfg.BaseAsset].Total().Mul(price)
	quoteValue := balances[e.cfg.QuoteAsset].Total()

	if baseValue.GreaterThan(quoteValue) {
		return e.cfg.BaseAsset, nil
	}
	return e.cfg.QuoteAsset, nil
}

// tradingLoop evaluates the strategy on a fixed interval.
func (e *Engine) tradingLoop(ctx context.Context) {
	defer e.wg.Done()

	e.logger.Info("trading loop started")

	ticker := time.NewTicker(e.cfg.CheckInterval)
	defer ticker.Stop()

	// First evaluation without waiting a full interval.
	e.runTick(ctx)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("trading loop stopped: context cancelled")
			return
		case <-e.done:
			e.logger.Info("trading loop stopped: shutdown requested")
			return
		case <-ticker.C:
			e.runTick(ctx)
		}
	}
}

func (e *Engine) runTick(ctx context.Context) {
	if err := e.tick(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		e.logger.Error("tick failed", "err", err)
		e.recorder.RecordTickFailure()
	}
}

// tick runs one full evaluate-and-maybe-switch cycle.
func (e *Engine) tick(ctx context.Context) error {
	snap, err := e.fetchSnapshot(ctx)
	if err != nil {
		return err
	}

	timer := metrics.NewTimer()
	eval, err := e.strategy.Evaluate(ctx, snap)
	timer.ObserveStrategy(e.strategy.Name())
	if err != nil {
		return fmt.Errorf("evaluate strategy: %w", err)
	}

	e.recorder.RecordSignal(e.strategy.Name(), eval.Decision.String())

	e.mu.Lock()
	e.lastEval = eval
	e.lastTickAt = time.Now()
	e.mu.Unlock()

	e.logger.Debug("strategy evaluated",
		"strategy", e.strategy.Name(),
		"decision", eval.Decision,
		"reason", eval.Reason,
	)

	if target, ok := e.targetAsset(eval.Decision); ok && target != e.CurrentAsset() {
		e.maybeSwitch(ctx, target, eval.Reason)
	}

	if err := e.updateEquity(ctx); err != nil {
		e.logger.Warn("failed to update equity", "err", err)
	}

	e.recorder.RecordHeartbeat()
	e.persistState(ctx)
	return nil
}

// fetchSnapshot pulls kline history for every interval the strategy
// needs and rejects stale data.
func (e *Engine) fetchSnapshot(ctx context.Context) (strategy.Snapshot, error) {
	snap := strategy.Snapshot{
		Symbol: e.cfg.Symbol,
		Klines: make(map[string][]types.Kline),
		Now:    time.Now(),
	}

	for _, interval := range e.strategy.Intervals() {
		klines, err := e.client.Klines(ctx, e.cfg.Symbol, interval, e.cfg.KlineHistoryBars)
		if err != nil {
			return strategy.Snapshot{}, fmt.Errorf("fetch %s klines: %w", interval, err)
		}
		if len(klines) == 0 {
			return strategy.Snapshot{}, fmt.Errorf("%w: no %s klines", types.ErrInsufficientHistory, interval)
		}

		// The newest candle is still open; its close time sits at the end
		// of the current interval. Anything older than the staleness
		// window means the feed stopped.
		newest := klines[len(klines)-1]
		if e.cfg.DataStaleness > 0 && time.Since(newest.CloseTime) > e.cfg.DataStaleness {
			return strategy.Snapshot{}, fmt.Errorf("%w: newest %s candle closed %s ago",
				types.ErrStaleData, interval, time.Since(newest.CloseTime).Round(time.Second))
		}

		snap.Klines[interval] = klines
	}

	return snap, nil
}

func (e *Engine) targetAsset(d strategy.Decision) (string, bool) {
	switch d {
	case strategy.DecisionHoldBase:
		return e.cfg.BaseAsset, true
	case strategy.DecisionHoldQuote:
		return e.cfg.QuoteAsset, true
	default:
		return "", false
	}
}

// maybeSwitch applies the safe-mode and cooldown gates before running
// the switch.
func (e *Engine) maybeSwitch(ctx context.Context, target, reason string) {
	e.mu.RLock()
	safeMode := e.safeMode
	sinceSwitch := time.Since(e.lastSwitchAt)
	e.mu.RUnlock()

	if safeMode {
		e.logger.Warn("switch suppressed: safe mode active", "target", target)
		return
	}
	if e.cfg.SwitchCooldown > 0 && sinceSwitch < e.cfg.SwitchCooldown {
		e.logger.Info("switch suppressed: cooldown",
			"target", target,
			"since_last_switch", sinceSwitch.Round(time.Second),
		)
		return
	}

	if e.validator != nil {
		if err := e.validator.Check(ctx); err != nil {
			e.logger.Warn("switch suppressed: safety check failed", "err", err)
			e.recorder.RecordError("safety_check")
			return
		}
	}

	if err := e.switchTo(ctx, target, reason); err != nil {
		e.handleSwitchFailure(ctx, target, err)
		return
	}

	e.mu.Lock()
	e.consecutiveFails = 0
	e.mu.Unlock()
}

// switchTo moves the full free balance to the target asset with one
// fill-or-kill execution.
func (e *Engine) switchTo(ctx context.Context, target, reason string) error {
	side := types.SideSell
	if target == e.cfg.BaseAsset {
		side = types.SideBuy
	}

	qty, price, err := e.switchQuantity(ctx, side)
	if err != nil {
		return err
	}

	if e.validator != nil {
		if err := e.validator.CheckTradeAmount(qty.Mul(price)); err != nil {
			return err
		}
	}

	from := e.CurrentAsset()
	e.logger.Info("switching asset",
		"from", from,
		"to", target,
		"side", side,
		"qty", qty,
		"reason", reason,
	)

	timer := metrics.NewTimer()
	res, err := e.executor.Execute(ctx, e.cfg.Symbol, side, qty)
	timer.ObserveOrder()
	if err != nil {
		return err
	}

	now := time.Now()
	e.mu.Lock()
	e.currentAsset = target
	e.lastSwitchAt = now
	e.totalSwitches++
	e.daySwitches++
	e.mu.Unlock()

	direction := "to_quote"
	if side == types.SideBuy {
		direction = "to_base"
	}
	e.recorder.RecordSwitch(e.cfg.Symbol, direction)
	e.recorder.RecordExecutionSuccess(e.cfg.Symbol, res.Attempts, res.DriftConsumedBps)

	e.logger.Info("asset switch complete",
		"from", from,
		"to", target,
		"order_id", res.OrderID,
		"price", res.ExecutedPrice,
		"qty", res.ExecutedQty,
		"attempts", res.Attempts,
		"drift_bps", res.DriftConsumedBps,
	)

	if e.repo != nil {
		record := persistence.SwitchRecord{
			Timestamp: now,
			Symbol:    e.cfg.Symbol,
			Side:      side,
			FromAsset: from,
			ToAsset:   target,
			Price:     res.ExecutedPrice,
			Qty:       res.ExecutedQty,
			Attempts:  res.Attempts,
			DriftBps:  res.DriftConsumedBps,
			OrderID:   res.OrderID,
			Reason:    reason,
		}
		if err := e.repo.SaveSwitch(ctx, record); err != nil {
			e.logger.Warn("failed to persist switch", "err", err)
		}
	}

	e.alert(ctx, alerting.EventAssetSwitched, "Asset switched",
		"from", from,
		"to", target,
		"price", res.ExecutedPrice.String(),
		"qty", res.ExecutedQty.String(),
		"attempts", res.Attempts,
		"reason", reason,
	)

	return nil
}

// switchQuantity sizes the order from the free balance: the full base
// balance for a sell, the fee-buffered quote balance for a buy.
func (e *Engine) switchQuantity(ctx context.Context, side types.Side) (decimal.Decimal, decimal.Decimal, error) {
	balances, err := e.client.Balances(ctx, e.cfg.BaseAsset, e.cfg.QuoteAsset)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("fetch balances: %w", err)
	}
	price, err := e.client.LastPrice(ctx, e.cfg.Symbol)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("fetch price: %w", err)
	}
	if !price.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: non-positive price %s", types.ErrStaleData, price)
	}

	if side == types.SideSell {
		return balances[e.cfg.BaseAsset].Free, price, nil
	}
	return balances[e.cfg.QuoteAsset].Free.Mul(feeBuffer).Div(price), price, nil
}

// handleSwitchFailure records the failure and escalates to safe mode
// after repeated failures.
func (e *Engine) handleSwitchFailure(ctx context.Context, target string, err error) {
	reason := failureReason(err)
	e.recorder.RecordExecutionFailure(e.cfg.Symbol, reason)

	e.mu.Lock()
	e.consecutiveFails++
	e.dayFailures++
	fails := e.consecutiveFails
	e.mu.Unlock()

	e.logger.Error("asset switch failed",
		"target", target,
		"reason", reason,
		"consecutive_fails", fails,
		"err", err,
	)

	switch {
	case errors.Is(err, types.ErrDriftBudgetExceeded):
		e.alert(ctx, alerting.EventDriftBudgetExceeded, "Switch aborted: drift budget exceeded",
			"target", target, "error", err.Error())
	case errors.Is(err, types.ErrOrderRejected):
		e.alert(ctx, alerting.EventOrderRejected, "Switch aborted: order rejected",
			"target", target, "error", err.Error())
	case errors.Is(err, types.ErrRateLimited), errors.Is(err, types.ErrRetriesExhausted):
		e.alert(ctx, alerting.EventSwitchFailed, "Switch failed after retries",
			"target", target, "error", err.Error())
	default:
		e.alert(ctx, alerting.EventSwitchFailed, "Switch failed",
			"target", target, "error", err.Error())
	}

	if e.cfg.MaxConsecutiveFails > 0 && fails >= e.cfg.MaxConsecutiveFails {
		e.enterSafeMode(ctx, fmt.Sprintf("%d consecutive switch failures", fails))
	}
}

// enterSafeMode stops all trading until an operator intervenes.
func (e *Engine) enterSafeMode(ctx context.Context, reason string) {
	e.mu.Lock()
	if e.safeMode {
		e.mu.Unlock()
		return
	}
	e.safeMode = true
	e.mu.Unlock()

	e.logger.Error("entering safe mode", "reason", reason)
	e.recorder.RecordSafeMode(true)
	e.alert(ctx, alerting.EventSafeModeEntered, "Safe mode entered, trading suspended", "reason", reason)
	e.persistState(ctx)
}

// ExitSafeMode re-enables trading and resets the failure counter.
func (e *Engine) ExitSafeMode(ctx context.Context) {
	e.mu.Lock()
	if !e.safeMode {
		e.mu.Unlock()
		return
	}
	e.safeMode = false
	e.consecutiveFails = 0
	e.mu.Unlock()

	e.logger.Info("exiting safe mode")
	e.recorder.RecordSafeMode(false)
	e.alert(ctx, alerting.EventSafeModeExited, "Safe mode exited, trading resumed")
	e.persistState(ctx)
}

// updateEquity values the portfolio and records it.
func (e *Engine) updateEquity(ctx context.Context) error {
	balances, err := e.client.Balances(ctx, e.cfg.BaseAsset, e.cfg.QuoteAsset)
	if err != nil {
		return err
	}
	price, err := e.client.LastPrice(ctx, e.cfg.Symbol)
	if err != nil {
		return err
	}

	base := balances[e.cfg.BaseAsset].Total()
	quote := balances[e.cfg.QuoteAsset].Total()
	total := quote.Add(base.Mul(price))

	e.recorder.RecordEquity(total, price)
	e.recorder.RecordBalance(e.cfg.BaseAsset, base)
	e.recorder.RecordBalance(e.cfg.QuoteAsset, quote)

	if e.repo != nil {
		snapshot := persistence.EquitySnapshot{
			Timestamp:    time.Now(),
			TotalValue:   total,
			BaseBalance:  base,
			QuoteBalance: quote,
			Price:        price,
		}
		if err := e.repo.SaveEquitySnapshot(ctx, snapshot); err != nil {
			e.logger.Warn("failed to persist equity snapshot", "err", err)
		}
	}

	e.rollDailySummary(ctx, total)
	return nil
}

// rollDailySummary emits a summary alert when the UTC day changes.
func (e *Engine) rollDailySummary(ctx context.Context, total decimal.Decimal) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	e.mu.Lock()
	if e.dayStart.IsZero() {
		e.dayStart = today
		e.dayStartValue = total
		e.mu.Unlock()
		return
	}
	if today.Equal(e.dayStart) {
		e.mu.Unlock()
		return
	}

	summary := alerting.NewDailySummary(e.dayStart, e.dayStartValue, total,
		e.daySwitches, e.dayFailures, e.currentAsset, e.safeMode)
	e.dayStart = today
	e.dayStartValue = total
	e.daySwitches = 0
	e.dayFailures = 0
	e.mu.Unlock()

	e.alert(ctx, alerting.EventDailySummary, "Daily summary",
		"date", summary.Date.Format("2006-01-02"),
		"start_value", summary.StartingValue.Round(2).String(),
		"end_value", summary.EndingValue.Round(2).String(),
		"change_pct", summary.ChangePct.Round(2).String(),
		"switches", summary.Switches,
		"failed_executions", summary.FailedExecutions,
		"current_asset", summary.CurrentAsset,
	)
}

// healthLoop probes exchange connectivity on a fixed interval.
func (e *Engine) healthLoop(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case <-ticker.C:
			e.checkHealth(ctx)
		}
	}
}

func (e *Engine) checkHealth(ctx context.Context) {
	err := e.client.Ping(ctx)

	e.mu.Lock()
	wasConnected := e.connected
	e.connected = err == nil
	e.mu.Unlock()

	e.recorder.RecordExchangeStatus(err == nil)

	switch {
	case err != nil && wasConnected:
		e.logger.Error("exchange connectivity lost", "err", err)
		e.alert(ctx, alerting.EventConnectionLost, "Exchange connectivity lost", "error", err.Error())
	case err == nil && !wasConnected:
		e.logger.Info("exchange connectivity restored")
		e.alert(ctx, alerting.EventConnectionRestored, "Exchange connectivity restored")
	}
}

// HealthCheck reports engine health for the metrics server.
func (e *Engine) HealthCheck() metrics.Check {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.running {
		return metrics.Check{Status: "unhealthy", Message: "engine not running"}
	}
	if e.safeMode {
		return metrics.Check{Status: "unhealthy", Message: "safe mode active"}
	}
	if !e.connected {
		return metrics.Check{Status: "unhealthy", Message: "exchange unreachable"}
	}
	if !e.lastTickAt.IsZero() && time.Since(e.lastTickAt) > 3*e.cfg.CheckInterval {
		return metrics.Check{Status: "unhealthy", Message: "trading loop stalled"}
	}
	return metrics.Check{Status: "healthy"}
}

// Status returns the state snapshot for the /status endpoint.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	indicators := make(map[string]string, len(e.lastEval.Indicators))
	for name, value := range e.lastEval.Indicators {
		indicators[name] = value.String()
	}

	return Status{
		Running:          e.running,
		Symbol:           e.cfg.Symbol,
		CurrentAsset:     e.currentAsset,
		SafeMode:         e.safeMode,
		LastDecision:     e.lastEval.Decision.String(),
		LastReason:       e.lastEval.Reason,
		Indicators:       indicators,
		LastTickAt:       e.lastTickAt,
		LastSwitchAt:     e.lastSwitchAt,
		TotalSwitches:    e.totalSwitches,
		ConsecutiveFails: e.consecutiveFails,
		Connected:        e.connected,
	}
}

// persistState writes the durable state. Failures are logged, never fatal.
func (e *Engine) persistState(ctx context.Context) {
	if e.repo == nil {
		return
	}

	e.mu.RLock()
	state := persistence.BotState{
		LastUpdated:      time.Now(),
		CurrentAsset:     e.currentAsset,
		LastDecision:     e.lastEval.Decision.String(),
		LastSwitchAt:     e.lastSwitchAt,
		SafeModeActive:   e.safeMode,
		ConsecutiveFails: e.consecutiveFails,
		TotalSwitches:    e.totalSwitches,
	}
	e.mu.RUnlock()

	if err := e.repo.SaveState(ctx, state); err != nil {
		e.logger.Warn("failed to persist state", "err", err)
	}
}

// Stop stops the trading engine.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = false
	e.mu.Unlock()

	e.logger.Info("stopping trading engine")

	close(e.done)
	e.wg.Wait()

	e.persistState(ctx)
	e.alert(ctx, alerting.EventBotStopped, "Trading engine stopped")

	e.logger.Info("trading engine stopped")
	return nil
}

// IsRunning returns true if engine is running.
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// CurrentAsset returns the asset the portfolio currently holds.
func (e *Engine) CurrentAsset() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentAsset
}

func (e *Engine) alert(ctx context.Context, event alerting.AlertEvent, message string, fields ...any) {
	if e.alerter == nil {
		return
	}
	if err := e.alerter.Alert(ctx, alerting.EventSeverity(event), message, fields...); err != nil {
		e.logger.Warn("failed to send alert", "event", string(event), "err", err)
	}
}

// failureReason maps an execution error onto a stable metric label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, types.ErrInsufficientLiquidity):
		return "insufficient_liquidity"
	case errors.Is(err, types.ErrNotionalTooSmall):
		return "notional_too_small"
	case errors.Is(err, types.ErrDriftBudgetExceeded):
		return "drift_budget_exceeded"
	case errors.Is(err, types.ErrRetriesExhausted):
		return "retries_exhausted"
	case errors.Is(err, types.ErrOrderRejected):
		return "order_rejected"
	case errors.Is(err, types.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, types.ErrTradeAmountTooSmall):
		return "trade_amount_too_small"
	default:
		return "other"
	}
}
