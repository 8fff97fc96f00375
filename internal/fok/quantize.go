package fok

import (
	"fmt"

	"github.com/shopspring/decimal"

	"spotbot/internal/types"
)

// Quantize rounds price and quantity onto the exchange grid.
//
// Price rounding is side-aware: buys round up to the tick, sells round
// down. The bias is deliberate — it preserves the full-coverage
// guarantee of CoveringPrice after rounding. Quantity is floored to the
// step (never rounded up past the available depth) and clamped into
// [minQty, maxQty].
//
// When price*qty falls short of the minimum notional, quantity is
// inflated to minNotional/price, rounded up to the step and re-clamped.
// If even the inflated quantity cannot reach the minimum notional
// (maxQty caps it), Quantize fails with types.ErrNotionalTooSmall
// instead of submitting an order the exchange would reject.
func Quantize(side types.Side, price, qty decimal.Decimal, f types.SymbolFilters) (decimal.Decimal, decimal.Decimal, error) {
	price = roundPriceToTick(side, price, f.TickSize)
	qty = clampQty(floorToStep(qty, f.StepSize), f)

	if f.MinNotional.IsPositive() && price.Mul(qty).LessThan(f.MinNotional) {
		if !price.IsPositive() {
			return decimal.Zero, decimal.Zero,
				fmt.Errorf("%w: price %s is not positive", types.ErrNotionalTooSmall, price)
		}

		inflated := clampQty(ceilToStep(f.MinNotional.Div(price), f.StepSize), f)
		if price.Mul(inflated).LessThan(f.MinNotional) {
			return decimal.Zero, decimal.Zero,
				fmt.Errorf("%w: best compliant notional %s < %s",
					types.ErrNotionalTooSmall, price.Mul(inflated), f.MinNotional)
		}
		qty = inflated
	}

	return price, qty, nil
}

// roundPriceToTick rounds up for buys and down for sells.
func roundPriceToTick(side types.Side, price, tick decimal.Decimal) decimal.Decimal {
	if !tick.IsPositive() {
		return price
	}
	if side == types.SideBuy {
		return price.Div(tick).Ceil().Mul(tick)
	}
	return price.Div(tick).Floor().Mul(tick)
}

func floorToStep(qty, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return qty
	}
	return qty.Div(step).Floor().Mul(step)
}

func ceilToStep(qty, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return qty
	}
	return qty.Div(step).Ceil().Mul(step)
}

func clampQty(qty decimal.Decimal, f types.SymbolFilters) decimal.Decimal {
	if qty.LessThan(f.MinQty) {
		qty = f.MinQty
	}
	if f.MaxQty.IsPositive() && qty.GreaterThan(f.MaxQty) {
		qty = f.MaxQty
	}
	return qty
}
