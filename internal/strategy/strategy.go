// Package strategy implements asset allocation strategies.
package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spotbot/internal/types"
)

// Decision is the target allocation a strategy wants.
type Decision int

const (
	// DecisionNone means stay in the current asset.
	DecisionNone Decision = iota
	// DecisionHoldBase means the portfolio should sit in the base asset.
	DecisionHoldBase
	// DecisionHoldQuote means the portfolio should sit in the quote asset.
	DecisionHoldQuote
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case DecisionHoldBase:
		return "hold_base"
	case DecisionHoldQuote:
		return "hold_quote"
	case DecisionNone:
		return "none"
	default:
		return "unknown"
	}
}

// Snapshot carries the market data a strategy evaluates.
type Snapshot struct {
	Symbol string
	// Klines holds candle history per interval, oldest first.
	Klines map[string][]types.Kline
	Now    time.Time
}

// Evaluation is the outcome of one strategy pass.
type Evaluation struct {
	Decision Decision
	Reason   string
	// Indicators exposes the computed values for status reporting.
	Indicators map[string]decimal.Decimal
}

// Strategy decides which asset the portfolio should hold.
type Strategy interface {
	// Evaluate inspects the snapshot and returns a target allocation.
	Evaluate(ctx context.Context, snap Snapshot) (Evaluation, error)

	// Name returns the strategy identifier.
	Name() string

	// Intervals returns the kline intervals the strategy needs.
	Intervals() []string

	// WarmupBars returns the minimum history length per interval.
	WarmupBars() int
}

// Config holds strategy tuning shared across implementations.
type Config struct {
	FastPeriod int
	SlowPeriod int
	RSIPeriod  int
	ATRPeriod  int
}

// New constructs a strategy by name.
func New(name string, cfg Config) (Strategy, error) {
	switch name {
	case "simple_ma":
		return NewMACross(cfg), nil
	case "regime":
		return NewRegime(cfg), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// closes extracts close prices from a kline series.
func closes(klines []types.Kline) []decimal.Decimal {
	out := make([]decimal.Decimal, len(klines))
	for i, k := range klines {
		out[i] = k.Close
	}
	return out
}
