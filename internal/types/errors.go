package types

import "errors"

// Sentinel errors for the trading bot.
var (
	// Execution errors
	ErrSymbolNotFound        = errors.New("symbol not found on exchange")
	ErrInsufficientLiquidity = errors.New("insufficient order book liquidity")
	ErrNotionalTooSmall      = errors.New("order notional below exchange minimum")
	ErrDriftBudgetExceeded   = errors.New("price drift budget exceeded")
	ErrRetriesExhausted      = errors.New("order retries exhausted")
	ErrOrderKilled           = errors.New("fill-or-kill order could not fill completely")
	ErrOrderRejected         = errors.New("order rejected by exchange")
	ErrRateLimited           = errors.New("rate limited by exchange")
	ErrInvalidQuantity       = errors.New("invalid order quantity")

	// Safety errors
	ErrSafetyCheckFailed   = errors.New("safety check failed")
	ErrInsufficientBalance = errors.New("insufficient balance for trading")
	ErrTradeAmountTooSmall = errors.New("trade amount below minimum")

	// Data errors
	ErrInsufficientHistory = errors.New("not enough kline history")
	ErrStaleData           = errors.New("market data is stale")

	// State errors
	ErrStateNotFound = errors.New("state not found")

	// Validation errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidSymbol = errors.New("invalid symbol")
)
