// Package exchange provides Binance spot connectivity.
package exchange

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"spotbot/internal/types"
)

// Client defines the interface for the exchange boundary.
type Client interface {
	// Market metadata
	SymbolFilters(ctx context.Context, symbol string) (types.SymbolFilters, error)

	// Market data
	OrderBook(ctx context.Context, symbol string, depth int) (*types.OrderBook, error)
	Klines(ctx context.Context, symbol, interval string, limit int) ([]types.Kline, error)
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)

	// Account
	Balances(ctx context.Context, assets ...string) (map[string]types.Balance, error)

	// Order placement. The outcome is tagged so retry policy upstream does
	// not depend on the client library's error taxonomy.
	PlaceLimitFOK(ctx context.Context, symbol string, side types.Side, price, qty decimal.Decimal) (SubmitOutcome, error)

	// Connectivity probe
	Ping(ctx context.Context) error
}

// SubmitStatus classifies the result of an order submission.
type SubmitStatus int

const (
	// SubmitFilled means the order executed completely.
	SubmitFilled SubmitStatus = iota
	// SubmitKilled means the FOK order could not be matched in full and
	// was killed by the exchange. Retryable at a better price.
	SubmitKilled
	// SubmitRateLimited means the exchange asked us to back off.
	// Retryable after a cooldown.
	SubmitRateLimited
	// SubmitRejected covers every other exchange-side rejection
	// (bad symbol, filter failure, insufficient balance). Fatal.
	SubmitRejected
)

func (s SubmitStatus) String() string {
	switch s {
	case SubmitFilled:
		return "filled"
	case SubmitKilled:
		return "killed"
	case SubmitRateLimited:
		return "rate_limited"
	case SubmitRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// SubmitOutcome is the tagged result of one order submission.
type SubmitOutcome struct {
	Status SubmitStatus

	// Order is set when Status == SubmitFilled.
	Order *types.OrderConfirmation

	// Exchange error context for non-filled outcomes.
	Code    int64
	Message string

	// RetryAfter is the cooldown hint for rate-limit outcomes.
	// Zero means the exchange gave no hint.
	RetryAfter time.Duration
}
