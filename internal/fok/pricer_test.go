package fok

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"spotbot/internal/types"
)

func testBook() *types.OrderBook {
	return &types.OrderBook{
		Symbol: "BTCUSDT",
		Asks: []types.BookLevel{
			{Price: decimal.RequireFromString("10.00"), Qty: decimal.RequireFromString("100")},
			{Price: decimal.RequireFromString("10.01"), Qty: decimal.RequireFromString("50")},
			{Price: decimal.RequireFromString("10.05"), Qty: decimal.RequireFromString("200")},
		},
		Bids: []types.BookLevel{
			{Price: decimal.RequireFromString("9.99"), Qty: decimal.RequireFromString("80")},
			{Price: decimal.RequireFromString("9.98"), Qty: decimal.RequireFromString("40")},
			{Price: decimal.RequireFromString("9.95"), Qty: decimal.RequireFromString("300")},
		},
	}
}

func TestCoveringPrice_Buy(t *testing.T) {
	tests := []struct {
		name string
		qty  string
		want string
	}{
		{"covered by best ask", "100", "10.00"},
		{"spills into second level", "120", "10.01"},
		{"exact boundary of two levels", "150", "10.01"},
		{"one unit past boundary", "150.00000001", "10.05"},
		{"full depth", "350", "10.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoveringPrice(testBook(), types.SideBuy, decimal.RequireFromString(tt.qty))
			if err != nil {
				t.Fatalf("CoveringPrice() error = %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("CoveringPrice() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCoveringPrice_Sell(t *testing.T) {
	tests := []struct {
		name string
		qty  string
		want string
	}{
		{"covered by best bid", "80", "9.99"},
		{"spills into second level", "100", "9.98"},
		{"full depth", "420", "9.95"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoveringPrice(testBook(), types.SideSell, decimal.RequireFromString(tt.qty))
			if err != nil {
				t.Fatalf("CoveringPrice() error = %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("CoveringPrice() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCoveringPrice_InsufficientLiquidity(t *testing.T) {
	_, err := CoveringPrice(testBook(), types.SideBuy, decimal.RequireFromString("350.1"))
	if !errors.Is(err, types.ErrInsufficientLiquidity) {
		t.Errorf("error = %v, want ErrInsufficientLiquidity", err)
	}
}

func TestCoveringPrice_EmptySide(t *testing.T) {
	book := &types.OrderBook{Symbol: "BTCUSDT"}

	_, err := CoveringPrice(book, types.SideBuy, decimal.NewFromInt(1))
	if !errors.Is(err, types.ErrInsufficientLiquidity) {
		t.Errorf("buy on empty book: error = %v, want ErrInsufficientLiquidity", err)
	}

	_, err = CoveringPrice(book, types.SideSell, decimal.NewFromInt(1))
	if !errors.Is(err, types.ErrInsufficientLiquidity) {
		t.Errorf("sell on empty book: error = %v, want ErrInsufficientLiquidity", err)
	}
}

func TestCoveringPrice_Deterministic(t *testing.T) {
	qty := decimal.RequireFromString("120")

	first, err := CoveringPrice(testBook(), types.SideBuy, qty)
	if err != nil {
		t.Fatalf("CoveringPrice() error = %v", err)
	}
	second, err := CoveringPrice(testBook(), types.SideBuy, qty)
	if err != nil {
		t.Fatalf("CoveringPrice() error = %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("same book and qty gave %s then %s", first, second)
	}
}
