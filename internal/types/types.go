// Package types defines shared types used across the trading bot.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side represents the direction of an order.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideSell:
		return "SELL"
	default:
		return "BUY"
	}
}

// Opposite returns the opposite side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// SymbolFilters holds the exchange trading rules for a symbol.
// A filter absent from the exchange response defaults to a permissive
// value so that quantization becomes a no-op for that dimension.
type SymbolFilters struct {
	TickSize    decimal.Decimal // minimum price increment
	StepSize    decimal.Decimal // minimum quantity increment
	MinQty      decimal.Decimal
	MaxQty      decimal.Decimal
	MinNotional decimal.Decimal
}

// BookLevel is a single (price, quantity) level of the order book.
type BookLevel struct {
	Price decimal.Decimal
	Qty   decimal.Decimal
}

// OrderBook is a depth snapshot. Asks are sorted by ascending price,
// bids by descending price, as the exchange returns them.
type OrderBook struct {
	Symbol    string
	Bids      []BookLevel
	Asks      []BookLevel
	FetchedAt time.Time
}

// Kline is a single OHLCV candle.
type Kline struct {
	OpenTime  time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	CloseTime time.Time
}

// Balance is a spot asset balance.
type Balance struct {
	Asset  string
	Free   decimal.Decimal
	Locked decimal.Decimal
}

// Total returns free plus locked balance.
func (b Balance) Total() decimal.Decimal {
	return b.Free.Add(b.Locked)
}

// OrderConfirmation describes a fully executed order.
type OrderConfirmation struct {
	OrderID       int64
	ClientOrderID string
	Symbol        string
	Side          Side
	ExecutedPrice decimal.Decimal // average fill price
	ExecutedQty   decimal.Decimal
	TransactTime  time.Time
}
