package indicator

import (
	"testing"

	"github.com/shopspring/decimal"
)

type bar struct {
	high, low, close string
}

func TestATR_Update(t *testing.T) {
	tests := []struct {
		name   string
		period int
		bars   []bar
		want   string
	}{
		{
			// Steady 10-point ranges with no gaps: TR = high - low.
			name:   "steady ranges",
			period: 3,
			bars: []bar{
				{"110", "100", "105"},
				{"115", "105", "110"},
				{"120", "110", "115"},
			},
			want: "10",
		},
		{
			// Gap up: TR picks up |high - prevClose| = 20.
			name:   "gap up",
			period: 2,
			bars: []bar{
				{"110", "100", "105"},
				{"125", "115", "120"},
			},
			want: "15",
		},
		{
			// Gap down: TR picks up |low - prevClose| = 20.
			name:   "gap down",
			period: 2,
			bars: []bar{
				{"110", "100", "105"},
				{"95", "85", "90"},
			},
			want: "15",
		},
		{
			// Fourth bar pushes the first TR out of the window.
			name:   "rolls oldest out",
			period: 2,
			bars: []bar{
				{"130", "100", "105"},
				{"115", "105", "110"},
				{"120", "110", "115"},
			},
			want: "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atr := NewATR(tt.period)
			var got decimal.Decimal
			for _, b := range tt.bars {
				got = atr.Update(d(b.high), d(b.low), d(b.close))
			}
			if !got.Equal(d(tt.want)) {
				t.Errorf("ATR = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestATR_ZeroWhileFilling(t *testing.T) {
	atr := NewATR(3)

	if atr.Ready() {
		t.Error("ATR should not be ready with no data")
	}

	got := atr.Update(d("110"), d("100"), d("105"))
	if !got.IsZero() {
		t.Errorf("ATR while filling = %s, want 0", got)
	}
}

func TestATR_Reset(t *testing.T) {
	atr := NewATR(2)

	atr.Update(d("110"), d("100"), d("105"))
	atr.Update(d("115"), d("105"), d("110"))
	atr.Reset()

	if atr.Ready() {
		t.Error("ATR should not be ready after reset")
	}
	if !atr.Current().IsZero() {
		t.Errorf("Current = %s, want 0", atr.Current())
	}

	// First bar after reset uses the plain range again, not the stale close.
	atr.Update(d("300"), d("295"), d("297"))
	got := atr.Update(d("305"), d("300"), d("302"))
	if !got.Equal(d("6.5")) {
		t.Errorf("ATR after reset = %s, want 6.5", got)
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
