package indicator

import (
	"github.com/shopspring/decimal"
)

// ATR is a rolling Average True Range where
// TR = max(high - low, |high - prevClose|, |low - prevClose|).
type ATR struct {
	period    int
	win       *window
	prevClose decimal.Decimal
	hasPrev   bool
}

// NewATR creates an ATR calculator with the given period.
func NewATR(period int) *ATR {
	if period < 1 {
		period = 1
	}
	return &ATR{period: period, win: newWindow(period)}
}

// Update folds one bar into the range window and returns the current
// ATR, or zero while the window is still filling.
func (a *ATR) Update(high, low, close decimal.Decimal) decimal.Decimal {
	a.win.push(a.trueRange(high, low))
	a.prevClose = close
	a.hasPrev = true
	return a.win.mean()
}

// trueRange uses the plain high-low range on the first bar, where no
// previous close exists.
func (a *ATR) trueRange(high, low decimal.Decimal) decimal.Decimal {
	tr := high.Sub(low)
	if !a.hasPrev {
		return tr
	}
	if hpc := high.Sub(a.prevClose).Abs(); hpc.GreaterThan(tr) {
		tr = hpc
	}
	if lpc := low.Sub(a.prevClose).Abs(); lpc.GreaterThan(tr) {
		tr = lpc
	}
	return tr
}

// Current returns the current ATR without adding new data.
func (a *ATR) Current() decimal.Decimal {
	return a.win.mean()
}

// Ready reports whether a full period has been seen.
func (a *ATR) Ready() bool {
	return a.win.full()
}

// Period returns the configured period.
func (a *ATR) Period() int {
	return a.period
}

// Reset clears all data.
func (a *ATR) Reset() {
	a.win.reset()
	a.prevClose = decimal.Zero
	a.hasPrev = false
}
