package strategy

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"spotbot/internal/types"
	"spotbot/pkg/indicator"
)

// Candle intervals used by the regime strategy.
const (
	IntervalFilter = "1h"
	IntervalTrend  = "4h"
)

// Regime thresholds.
var (
	flatATRPctMax   = decimal.RequireFromString("0.5") // ATR% below this is a quiet market
	flatRSILow      = decimal.RequireFromString("45")
	flatRSIHigh     = decimal.RequireFromString("55")
	sidewaysBandPct = decimal.RequireFromString("1.0") // close within this % of trend MA
)

// Regime is a multi-timeframe allocation strategy. The signal interval
// provides the MA crossover, the filter interval provides RSI and ATR%
// for regime detection, and the trend interval gates entries.
//
// In a flat regime (low volatility, neutral RSI, sideways trend) it
// parks in the quote asset regardless of the crossover.
type Regime struct {
	cfg Config
}

// NewRegime creates a regime strategy.
func NewRegime(cfg Config) *Regime {
	if cfg.FastPeriod < 1 {
		cfg.FastPeriod = 7
	}
	if cfg.SlowPeriod <= cfg.FastPeriod {
		cfg.SlowPeriod = 25
	}
	if cfg.RSIPeriod < 1 {
		cfg.RSIPeriod = 14
	}
	if cfg.ATRPeriod < 1 {
		cfg.ATRPeriod = 14
	}
	return &Regime{cfg: cfg}
}

// Name returns the strategy identifier.
func (r *Regime) Name() string { return "regime" }

// Intervals returns the kline intervals the strategy needs.
func (r *Regime) Intervals() []string {
	return []string{IntervalSignal, IntervalFilter, IntervalTrend}
}

// WarmupBars returns the minimum history length per interval.
func (r *Regime) WarmupBars() int {
	warmup := r.cfg.SlowPeriod
	if r.cfg.RSIPeriod+1 > warmup {
		warmup = r.cfg.RSIPeriod + 1
	}
	if r.cfg.ATRPeriod > warmup {
		warmup = r.cfg.ATRPeriod
	}
	return warmup
}

// Evaluate combines crossover, volatility and trend into one decision.
func (r *Regime) Evaluate(_ context.Context, snap Snapshot) (Evaluation, error) {
	signal := snap.Klines[IntervalSignal]
	filter := snap.Klines[IntervalFilter]
	trend := snap.Klines[IntervalTrend]

	fast, slow, err := maPair(signal, r.cfg.FastPeriod, r.cfg.SlowPeriod)
	if err != nil {
		return Evaluation{}, err
	}

	rsi, atrPct, err := r.filterIndicators(filter)
	if err != nil {
		return Evaluation{}, err
	}

	trendMA, trendClose, err := r.trendIndicators(trend)
	if err != nil {
		return Evaluation{}, err
	}

	eval := Evaluation{
		Indicators: map[string]decimal.Decimal{
			"ma_fast":  fast,
			"ma_slow":  slow,
			"rsi":      rsi,
			"atr_pct":  atrPct,
			"trend_ma": trendMA,
		},
	}

	sideways := trendClose.Sub(trendMA).Abs().
		Div(trendMA).Mul(decimal.NewFromInt(100)).
		LessThan(sidewaysBandPct)
	uptrend := trendClose.GreaterThan(trendMA)

	flat := atrPct.LessThan(flatATRPctMax) &&
		rsi.GreaterThanOrEqual(flatRSILow) && rsi.LessThanOrEqual(flatRSIHigh) &&
		sideways

	switch {
	case flat:
		eval.Decision = DecisionHoldQuote
		eval.Reason = fmt.Sprintf("flat regime: atr%%=%s rsi=%s", atrPct.Round(2), rsi.Round(1))
	case fast.GreaterThan(slow) && uptrend:
		eval.Decision = DecisionHoldBase
		eval.Reason = "bullish crossover with trend confirmation"
	case fast.LessThan(slow):
		eval.Decision = DecisionHoldQuote
		eval.Reason = "bearish crossover"
	default:
		eval.Decision = DecisionNone
		eval.Reason = "crossover against trend, no change"
	}

	return eval, nil
}

func (r *Regime) filterIndicators(series []types.Kline) (decimal.Decimal, decimal.Decimal, error) {
	need := r.cfg.RSIPeriod + 1
	if r.cfg.ATRPeriod > need {
		need = r.cfg.ATRPeriod
	}
	if len(series) < need {
		return decimal.Zero, decimal.Zero,
			fmt.Errorf("%w: have %d filter bars, need %d", types.ErrInsufficientHistory, len(series), need)
	}

	rsi := indicator.NewRSI(r.cfg.RSIPeriod)
	atr := indicator.NewATR(r.cfg.ATRPeriod)
	for _, k := range series {
		rsi.Update(k.Close)
		atr.Update(k.High, k.Low, k.Close)
	}

	last := series[len(series)-1].Close
	if !last.IsPositive() {
		return decimal.Zero, decimal.Zero,
			fmt.Errorf("%w: non-positive close %s", types.ErrStaleData, last)
	}
	atrPct := atr.Current().Div(last).Mul(decimal.NewFromInt(100))

	return rsi.Current(), atrPct, nil
}

func (r *Regime) trendIndicators(series []types.Kline) (decimal.Decimal, decimal.Decimal, error) {
	if len(series) < r.cfg.SlowPeriod {
		return decimal.Zero, decimal.Zero,
			fmt.Errorf("%w: have %d trend bars, need %d", types.ErrInsufficientHistory, len(series), r.cfg.SlowPeriod)
	}

	ma := indicator.NewSMA(r.cfg.SlowPeriod)
	for _, c := range closes(series) {
		ma.Update(c)
	}
	return ma.Current(), series[len(series)-1].Close, nil
}
