// Package indicator provides streaming technical indicator calculators.
// Each calculator is fed one bar at a time and reports Ready once it has
// seen a full period of data.
package indicator

import (
	"github.com/shopspring/decimal"
)

// window is a fixed-size ring buffer with a running sum over the most
// recent values.
type window struct {
	values []decimal.Decimal
	head   int
	count  int
	sum    decimal.Decimal
}

func newWindow(size int) *window {
	return &window{values: make([]decimal.Decimal, size)}
}

func (w *window) push(v decimal.Decimal) {
	if w.count == len(w.values) {
		w.sum = w.sum.Sub(w.values[w.head])
		w.values[w.head] = v
		w.head = (w.head + 1) % len(w.values)
	} else {
		w.values[(w.head+w.count)%len(w.values)] = v
		w.count++
	}
	w.sum = w.sum.Add(v)
}

func (w *window) full() bool {
	return w.count == len(w.values)
}

// mean returns the average over the window, or zero while filling.
func (w *window) mean() decimal.Decimal {
	if !w.full() {
		return decimal.Zero
	}
	return w.sum.Div(decimal.NewFromInt(int64(w.count)))
}

func (w *window) reset() {
	w.head = 0
	w.count = 0
	w.sum = decimal.Zero
}

// each visits the stored values in insertion order.
func (w *window) each(fn func(decimal.Decimal)) {
	for i := 0; i < w.count; i++ {
		fn(w.values[(w.head+i)%len(w.values)])
	}
}

// SMA is a rolling simple moving average.
type SMA struct {
	period int
	win    *window
}

// NewSMA creates an SMA calculator with the given period.
func NewSMA(period int) *SMA {
	if period < 1 {
		period = 1
	}
	return &SMA{period: period, win: newWindow(period)}
}

// Update adds a value and returns the current average, or zero while
// the window is still filling.
func (s *SMA) Update(value decimal.Decimal) decimal.Decimal {
	s.win.push(value)
	return s.win.mean()
}

// Current returns the current average without adding new data.
func (s *SMA) Current() decimal.Decimal {
	return s.win.mean()
}

// Ready reports whether a full period has been seen.
func (s *SMA) Ready() bool {
	return s.win.full()
}

// Period returns the configured period.
func (s *SMA) Period() int {
	return s.period
}

// Reset clears all data.
func (s *SMA) Reset() {
	s.win.reset()
}

// Count returns the number of values currently stored.
func (s *SMA) Count() int {
	return s.win.count
}
