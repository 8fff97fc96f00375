package indicator

import (
	"github.com/shopspring/decimal"
)

// StdDev is a rolling population standard deviation.
type StdDev struct {
	period int
	win    *window
}

// NewStdDev creates a StdDev calculator with the given period.
func NewStdDev(period int) *StdDev {
	if period < 1 {
		period = 1
	}
	return &StdDev{period: period, win: newWindow(period)}
}

// Update adds a value and returns the current standard deviation, or
// zero while the window is still filling.
func (s *StdDev) Update(value decimal.Decimal) decimal.Decimal {
	s.win.push(value)
	return s.compute()
}

// Current returns the current standard deviation without adding new data.
func (s *StdDev) Current() decimal.Decimal {
	return s.compute()
}

func (s *StdDev) compute() decimal.Decimal {
	if !s.win.full() {
		return decimal.Zero
	}

	mean := s.win.mean()
	var sumSquares decimal.Decimal
	s.win.each(func(v decimal.Decimal) {
		diff := v.Sub(mean)
		sumSquares = sumSquares.Add(diff.Mul(diff))
	})

	variance := sumSquares.Div(decimal.NewFromInt(int64(s.win.count)))
	return sqrt(variance)
}

// Ready reports whether a full period has been seen.
func (s *StdDev) Ready() bool {
	return s.win.full()
}

// Period returns the configured period.
func (s *StdDev) Period() int {
	return s.period
}

// Reset clears all data.
func (s *StdDev) Reset() {
	s.win.reset()
}

// Mean returns the current window mean.
func (s *StdDev) Mean() decimal.Decimal {
	return s.win.mean()
}

// sqrt approximates the square root of a decimal with Newton's method,
// rounded to 8 places.
func sqrt(d decimal.Decimal) decimal.Decimal {
	if !d.IsPositive() {
		return decimal.Zero
	}

	two := decimal.NewFromInt(2)
	epsilon := decimal.New(1, -8)

	guess := d.Div(two)
	if guess.IsZero() {
		guess = decimal.NewFromInt(1)
	}
	for i := 0; i < 100; i++ {
		next := guess.Add(d.Div(guess)).Div(two)
		if next.Sub(guess).Abs().LessThan(epsilon) {
			guess = next
			break
		}
		guess = next
	}
	return guess.Round(8)
}
