// Package fok implements fill-or-kill limit order execution with bounded
// price-drift retries.
package fok

import (
	"fmt"

	"github.com/shopspring/decimal"

	"spotbot/internal/types"
)

// CoveringPrice walks the order book and returns the price of the level
// at which cumulative depth first covers qty.
//
// For a buy it scans asks in ascending price order, so the result is the
// worst (highest) price a full sweep would need; a FOK limit order at
// that price can theoretically execute in full. For a sell it scans bids
// in descending price order and returns the lowest price that still
// guarantees coverage.
//
// Returns types.ErrInsufficientLiquidity when the supplied depth cannot
// cover qty. An empty side counts as insufficient liquidity, not as a
// malformed book.
func CoveringPrice(book *types.OrderBook, side types.Side, qty decimal.Decimal) (decimal.Decimal, error) {
	levels := book.Asks
	if side == types.SideSell {
		levels = book.Bids
	}

	accum := decimal.Zero
	for _, lvl := range levels {
		accum = accum.Add(lvl.Qty)
		if accum.GreaterThanOrEqual(qty) {
			return lvl.Price, nil
		}
	}

	return decimal.Zero, fmt.Errorf("%w: %s side %s covers %s of %s",
		types.ErrInsufficientLiquidity, book.Symbol, side, accum, qty)
}
