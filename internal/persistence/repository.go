// Package persistence provides state persistence functionality.
package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spotbot/internal/types"
)

// Repository defines the interface for state persistence.
type Repository interface {
	// State operations
	SaveState(ctx context.Context, state BotState) error
	GetState(ctx context.Context) (*BotState, error)

	// Switch history
	SaveSwitch(ctx context.Context, record SwitchRecord) error
	GetRecentSwitches(ctx context.Context, limit int) ([]SwitchRecord, error)
	GetSwitches(ctx context.Context, from, to time.Time) ([]SwitchRecord, error)

	// Equity operations
	SaveEquitySnapshot(ctx context.Context, snapshot EquitySnapshot) error
	GetLatestEquitySnapshot(ctx context.Context) (*EquitySnapshot, error)
	GetEquityHistory(ctx context.Context, from, to time.Time) ([]EquitySnapshot, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// BotState is the durable engine state used for restart recovery.
type BotState struct {
	ID               int64
	LastUpdated      time.Time
	CurrentAsset     string
	LastDecision     string
	LastSwitchAt     time.Time
	SafeModeActive   bool
	ConsecutiveFails int
	TotalSwitches    int
}

// SwitchRecord is one completed asset switch.
type SwitchRecord struct {
	ID        int64
	Timestamp time.Time
	Symbol    string
	Side      types.Side
	FromAsset string
	ToAsset   string
	Price     decimal.Decimal
	Qty       decimal.Decimal
	Attempts  int
	DriftBps  decimal.Decimal
	OrderID   int64
	Reason    string
}

// EquitySnapshot is a point-in-time portfolio valuation in quote units.
type EquitySnapshot struct {
	ID           int64
	Timestamp    time.Time
	TotalValue   decimal.Decimal
	BaseBalance  decimal.Decimal
	QuoteBalance decimal.Decimal
	Price        decimal.Decimal
}
