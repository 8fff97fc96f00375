package fok

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"spotbot/internal/types"
)

func strictFilters() types.SymbolFilters {
	return types.SymbolFilters{
		TickSize:    decimal.RequireFromString("0.01"),
		StepSize:    decimal.RequireFromString("0.001"),
		MinQty:      decimal.RequireFromString("0.001"),
		MaxQty:      decimal.RequireFromString("9000"),
		MinNotional: decimal.RequireFromString("10"),
	}
}

func TestQuantize_PriceRounding(t *testing.T) {
	tests := []struct {
		name  string
		side  types.Side
		price string
		want  string
	}{
		{"buy rounds up to tick", types.SideBuy, "10.013", "10.02"},
		{"buy on grid stays", types.SideBuy, "10.01", "10.01"},
		{"sell rounds down to tick", types.SideSell, "10.019", "10.01"},
		{"sell on grid stays", types.SideSell, "10.01", "10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, _, err := Quantize(tt.side, decimal.RequireFromString(tt.price), decimal.NewFromInt(5), strictFilters())
			if err != nil {
				t.Fatalf("Quantize() error = %v", err)
			}
			if !price.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("price = %s, want %s", price, tt.want)
			}
		})
	}
}

func TestQuantize_QtyFlooring(t *testing.T) {
	// Quantity floors to the step and never exceeds the requested amount.
	_, qty, err := Quantize(types.SideBuy, decimal.RequireFromString("100"), decimal.RequireFromString("1.23456"), strictFilters())
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	if !qty.Equal(decimal.RequireFromString("1.234")) {
		t.Errorf("qty = %s, want 1.234", qty)
	}
}

func TestQuantize_QtyClamping(t *testing.T) {
	f := strictFilters()
	f.MinNotional = decimal.Zero

	_, qty, err := Quantize(types.SideBuy, decimal.RequireFromString("100"), decimal.RequireFromString("10000"), f)
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	if !qty.Equal(f.MaxQty) {
		t.Errorf("qty = %s, want clamped to maxQty %s", qty, f.MaxQty)
	}
}

func TestQuantize_MinNotionalInflation(t *testing.T) {
	// price 2.00, qty 3 gives notional 6, below the minimum of 10.
	// The quantity inflates to 10/2.00 = 5.
	f := types.SymbolFilters{
		TickSize:    decimal.RequireFromString("0.01"),
		StepSize:    decimal.RequireFromString("1"),
		MinQty:      decimal.NewFromInt(1),
		MaxQty:      decimal.NewFromInt(1000),
		MinNotional: decimal.NewFromInt(10),
	}

	price, qty, err := Quantize(types.SideBuy, decimal.RequireFromString("2.00"), decimal.NewFromInt(3), f)
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	if !price.Equal(decimal.RequireFromString("2.00")) {
		t.Errorf("price = %s, want 2.00", price)
	}
	if !qty.Equal(decimal.NewFromInt(5)) {
		t.Errorf("qty = %s, want inflated to 5", qty)
	}
}

func TestQuantize_NotionalTooSmall(t *testing.T) {
	// maxQty caps the inflated quantity below the minimum notional.
	f := types.SymbolFilters{
		TickSize:    decimal.RequireFromString("0.01"),
		StepSize:    decimal.RequireFromString("1"),
		MinQty:      decimal.NewFromInt(1),
		MaxQty:      decimal.NewFromInt(4),
		MinNotional: decimal.NewFromInt(10),
	}

	_, _, err := Quantize(types.SideBuy, decimal.RequireFromString("2.00"), decimal.NewFromInt(3), f)
	if !errors.Is(err, types.ErrNotionalTooSmall) {
		t.Errorf("error = %v, want ErrNotionalTooSmall", err)
	}
}

func TestQuantize_PermissiveFilters(t *testing.T) {
	// Zero-valued filters leave price and quantity untouched.
	price, qty, err := Quantize(types.SideBuy, decimal.RequireFromString("10.013"), decimal.RequireFromString("1.23456"), types.SymbolFilters{})
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	if !price.Equal(decimal.RequireFromString("10.013")) {
		t.Errorf("price = %s, want 10.013", price)
	}
	if !qty.Equal(decimal.RequireFromString("1.23456")) {
		t.Errorf("qty = %s, want 1.23456", qty)
	}
}
