package fok

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"spotbot/internal/exchange"
	"spotbot/internal/types"
)

var bpsDenominator = decimal.NewFromInt(10000)

// Client is the subset of the exchange surface the executor needs.
type Client interface {
	SymbolFilters(ctx context.Context, symbol string) (types.SymbolFilters, error)
	OrderBook(ctx context.Context, symbol string, depth int) (*types.OrderBook, error)
	PlaceLimitFOK(ctx context.Context, symbol string, side types.Side, price, qty decimal.Decimal) (exchange.SubmitOutcome, error)
}

// Config controls one FOK execution.
type Config struct {
	// DepthLimit is the number of order book levels fetched per attempt.
	DepthLimit int
	// SlippageBps is the initial safety margin added to the covering price.
	SlippageBps decimal.Decimal
	// MaxRetries caps the number of submission attempts.
	MaxRetries int
	// RetrySleep is the pause before a retryable attempt.
	RetrySleep time.Duration
	// PerAttemptDriftBps is the concession added per failed attempt.
	PerAttemptDriftBps decimal.Decimal
	// MaxTotalDriftBps caps the cumulative concession across attempts.
	MaxTotalDriftBps decimal.Decimal
}

// DefaultConfig returns the stock execution parameters.
func DefaultConfig() Config {
	return Config{
		DepthLimit:         50,
		SlippageBps:        decimal.RequireFromString("5.0"),
		MaxRetries:         3,
		RetrySleep:         1500 * time.Millisecond,
		PerAttemptDriftBps: decimal.RequireFromString("2.0"),
		MaxTotalDriftBps:   decimal.RequireFromString("20.0"),
	}
}

// Result describes a completed FOK execution.
type Result struct {
	OrderID          int64
	ClientOrderID    string
	ExecutedPrice    decimal.Decimal
	ExecutedQty      decimal.Decimal
	Attempts         int
	DriftConsumedBps decimal.Decimal
}

// Executor places limit FOK orders, walking the book for a covering
// price and retrying rejected orders with a bounded price concession.
//
// Each execution is a strictly sequential chain of blocking calls;
// concurrent executions must use independent Executor values or rely on
// the client being safe for concurrent use (the Binance client is).
type Executor struct {
	cfg    Config
	client Client
	logger *slog.Logger
}

// NewExecutor creates a FOK executor.
func NewExecutor(cfg Config, client Client, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DepthLimit <= 0 {
		cfg.DepthLimit = DefaultConfig().DepthLimit
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	return &Executor{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Execute runs the full attempt loop for one all-or-nothing order.
//
// It either returns a confirmed full fill or a typed error:
// ErrSymbolNotFound, ErrInsufficientLiquidity, ErrNotionalTooSmall,
// ErrDriftBudgetExceeded, ErrRetriesExhausted, ErrOrderRejected, or the
// context error on cancellation. No partial state is ever returned.
func (e *Executor) Execute(ctx context.Context, symbol string, side types.Side, qty decimal.Decimal) (*Result, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidQuantity, qty)
	}

	// Filters are fetched once per execution, not per attempt.
	filters, err := e.client.SymbolFilters(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var (
		baseRef  decimal.Decimal // attempt-1 covering price, drift baseline
		consumed = decimal.Zero  // cumulative drift, monotonically non-decreasing
		lastErr  error
	)

	for attempt := 1; attempt <= e.cfg.MaxRetries; attempt++ {
		// A fresh book every attempt; stale depth must never price an order.
		book, err := e.client.OrderBook(ctx, symbol, e.cfg.DepthLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch order book: %w", err)
		}

		cover, err := CoveringPrice(book, side, qty)
		if err != nil {
			// Drifting the price does not create liquidity, so there is
			// no point retrying here.
			return nil, err
		}
		if baseRef.IsZero() {
			baseRef = cover
		}

		// Margin grows with consumed drift but is always measured against
		// the attempt-1 baseline, so concessions never compound.
		marginBps := e.cfg.SlippageBps.Add(consumed)
		price, orderQty, err := Quantize(side, applyMarginBps(side, baseRef, marginBps), qty, filters)
		if err != nil {
			return nil, err
		}

		e.logger.Info("submitting FOK order",
			"symbol", symbol,
			"side", side,
			"attempt", attempt,
			"max_attempts", e.cfg.MaxRetries,
			"price", price,
			"qty", orderQty,
			"base_price", baseRef,
			"drift_bps", consumed,
		)

		outcome, err := e.client.PlaceLimitFOK(ctx, symbol, side, price, orderQty)
		if err != nil {
			return nil, fmt.Errorf("submit order: %w", err)
		}

		switch outcome.Status {
		case exchange.SubmitFilled:
			e.logger.Info("FOK order filled",
				"symbol", symbol,
				"order_id", outcome.Order.OrderID,
				"price", outcome.Order.ExecutedPrice,
				"qty", outcome.Order.ExecutedQty,
				"attempts", attempt,
			)
			return &Result{
				OrderID:          outcome.Order.OrderID,
				ClientOrderID:    outcome.Order.ClientOrderID,
				ExecutedPrice:    outcome.Order.ExecutedPrice,
				ExecutedQty:      outcome.Order.ExecutedQty,
				Attempts:         attempt,
				DriftConsumedBps: consumed,
			}, nil

		case exchange.SubmitRateLimited:
			lastErr = fmt.Errorf("%w: code=%d %s", types.ErrRateLimited, outcome.Code, outcome.Message)
			e.logger.Warn("FOK order rate limited",
				"symbol", symbol,
				"attempt", attempt,
				"cooldown", rateLimitCooldown(outcome, e.cfg.RetrySleep),
			)
			if attempt == e.cfg.MaxRetries {
				continue
			}
			// Time-based backoff only; the drift budget is untouched.
			if err := e.pause(ctx, rateLimitCooldown(outcome, e.cfg.RetrySleep)); err != nil {
				return nil, err
			}

		case exchange.SubmitKilled:
			lastErr = fmt.Errorf("%w: %s", types.ErrOrderKilled, outcome.Message)
			e.logger.Warn("FOK order killed",
				"symbol", symbol,
				"attempt", attempt,
				"price", price,
				"drift_bps", consumed,
			)
			if attempt == e.cfg.MaxRetries {
				continue
			}
			next := consumed.Add(e.cfg.PerAttemptDriftBps)
			if next.GreaterThan(e.cfg.MaxTotalDriftBps) {
				return nil, fmt.Errorf("%w: consumed %s + %s bps would exceed cap %s bps: last error: %v",
					types.ErrDriftBudgetExceeded, consumed, e.cfg.PerAttemptDriftBps, e.cfg.MaxTotalDriftBps, lastErr)
			}
			consumed = next
			if err := e.pause(ctx, e.cfg.RetrySleep); err != nil {
				return nil, err
			}

		case exchange.SubmitRejected:
			return nil, fmt.Errorf("%w: code=%d %s", types.ErrOrderRejected, outcome.Code, outcome.Message)

		default:
			return nil, fmt.Errorf("%w: unexpected submit status %s", types.ErrOrderRejected, outcome.Status)
		}
	}

	return nil, fmt.Errorf("%w: %d attempts: last error: %v", types.ErrRetriesExhausted, e.cfg.MaxRetries, lastErr)
}

// applyMarginBps moves the price against us by marginBps: up for buys,
// down for sells.
func applyMarginBps(side types.Side, price, marginBps decimal.Decimal) decimal.Decimal {
	factor := marginBps.Div(bpsDenominator)
	if side == types.SideBuy {
		return price.Mul(decimal.NewFromInt(1).Add(factor))
	}
	return price.Mul(decimal.NewFromInt(1).Sub(factor))
}

func rateLimitCooldown(outcome exchange.SubmitOutcome, fallback time.Duration) time.Duration {
	if outcome.RetryAfter > 0 {
		return outcome.RetryAfter
	}
	return fallback
}

func (e *Executor) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
