package strategy

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"spotbot/internal/types"
	"spotbot/pkg/indicator"
)

// IntervalSignal is the candle interval the MA strategies trade on.
const IntervalSignal = "30m"

// MACross holds the base asset while the fast moving average is above
// the slow one, the quote asset otherwise.
type MACross struct {
	cfg Config
}

// NewMACross creates a moving average crossover strategy.
func NewMACross(cfg Config) *MACross {
	if cfg.FastPeriod < 1 {
		cfg.FastPeriod = 7
	}
	if cfg.SlowPeriod <= cfg.FastPeriod {
		cfg.SlowPeriod = 25
	}
	return &MACross{cfg: cfg}
}

// Name returns the strategy identifier.
func (m *MACross) Name() string { return "simple_ma" }

// Intervals returns the kline intervals the strategy needs.
func (m *MACross) Intervals() []string { return []string{IntervalSignal} }

// WarmupBars returns the minimum history length per interval.
func (m *MACross) WarmupBars() int { return m.cfg.SlowPeriod }

// Evaluate compares fast and slow SMAs on the signal interval.
func (m *MACross) Evaluate(_ context.Context, snap Snapshot) (Evaluation, error) {
	series := snap.Klines[IntervalSignal]
	fast, slow, err := maPair(series, m.cfg.FastPeriod, m.cfg.SlowPeriod)
	if err != nil {
		return Evaluation{}, err
	}

	eval := Evaluation{
		Indicators: map[string]decimal.Decimal{
			"ma_fast": fast,
			"ma_slow": slow,
		},
	}

	switch {
	case fast.GreaterThan(slow):
		eval.Decision = DecisionHoldBase
		eval.Reason = fmt.Sprintf("fast MA %s above slow MA %s", fast, slow)
	case fast.LessThan(slow):
		eval.Decision = DecisionHoldQuote
		eval.Reason = fmt.Sprintf("fast MA %s below slow MA %s", fast, slow)
	default:
		eval.Decision = DecisionNone
		eval.Reason = "moving averages equal"
	}

	return eval, nil
}

// maPair computes fast and slow SMAs over the close series.
func maPair(series []types.Kline, fastPeriod, slowPeriod int) (decimal.Decimal, decimal.Decimal, error) {
	if len(series) < slowPeriod {
		return decimal.Zero, decimal.Zero,
			fmt.Errorf("%w: have %d bars, need %d", types.ErrInsufficientHistory, len(series), slowPeriod)
	}

	fast := indicator.NewSMA(fastPeriod)
	slow := indicator.NewSMA(slowPeriod)
	for _, c := range closes(series) {
		fast.Update(c)
		slow.Update(c)
	}
	return fast.Current(), slow.Current(), nil
}
