package indicator

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RSI calculates the Relative Strength Index using Wilder's smoothing.
type RSI struct {
	period    int
	prevClose decimal.Decimal
	avgGain   decimal.Decimal
	avgLoss   decimal.Decimal
	count     int
}

// NewRSI creates a new RSI calculator with the given period.
func NewRSI(period int) *RSI {
	if period < 1 {
		period = 1
	}
	return &RSI{period: period}
}

// Update adds a new close and returns the current RSI.
// Returns zero until period+1 closes have been seen.
func (r *RSI) Update(close decimal.Decimal) decimal.Decimal {
	if r.count == 0 {
		r.prevClose = close
		r.count++
		return decimal.Zero
	}

	change := close.Sub(r.prevClose)
	r.prevClose = close

	gain := decimal.Zero
	loss := decimal.Zero
	if change.IsPositive() {
		gain = change
	} else {
		loss = change.Neg()
	}

	p := decimal.NewFromInt(int64(r.period))
	if r.count <= r.period {
		// Seeding phase: plain average of the first `period` changes.
		r.avgGain = r.avgGain.Add(gain)
		r.avgLoss = r.avgLoss.Add(loss)
		r.count++
		if r.count <= r.period {
			return decimal.Zero
		}
		r.avgGain = r.avgGain.Div(p)
		r.avgLoss = r.avgLoss.Div(p)
		return r.value()
	}

	// Wilder smoothing: avg = (avg*(period-1) + current) / period
	pm1 := p.Sub(decimal.NewFromInt(1))
	r.avgGain = r.avgGain.Mul(pm1).Add(gain).Div(p)
	r.avgLoss = r.avgLoss.Mul(pm1).Add(loss).Div(p)
	r.count++

	return r.value()
}

func (r *RSI) value() decimal.Decimal {
	if r.avgLoss.IsZero() {
		return hundred
	}
	rs := r.avgGain.Div(r.avgLoss)
	return hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs)))
}

// Current returns the current RSI value without adding new data.
func (r *RSI) Current() decimal.Decimal {
	if !r.Ready() {
		return decimal.Zero
	}
	return r.value()
}

// Ready returns true if enough data points have been collected.
func (r *RSI) Ready() bool {
	return r.count > r.period
}

// Period returns the RSI period.
func (r *RSI) Period() int {
	return r.period
}

// Reset clears all data.
func (r *RSI) Reset() {
	r.prevClose = decimal.Zero
	r.avgGain = decimal.Zero
	r.avgLoss = decimal.Zero
	r.count = 0
}
