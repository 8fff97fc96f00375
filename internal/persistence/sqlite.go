package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"spotbot/internal/types"
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{db: db}

	// Run migrations
	if err := repo.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return repo, nil
}

// Migrate runs database migrations.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS bot_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			last_updated DATETIME NOT NULL,
			current_asset TEXT NOT NULL,
			last_decision TEXT NOT NULL DEFAULT '',
			last_switch_at DATETIME,
			safe_mode_active INTEGER NOT NULL DEFAULT 0,
			consecutive_fails INTEGER NOT NULL DEFAULT 0,
			total_switches INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS switches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			symbol TEXT NOT NULL,
			side INTEGER NOT NULL,
			from_asset TEXT NOT NULL,
			to_asset TEXT NOT NULL,
			price TEXT NOT NULL,
			qty TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 1,
			drift_bps TEXT NOT NULL DEFAULT '0',
			order_id INTEGER NOT NULL,
			reason TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_switches_timestamp ON switches(timestamp)`,

		`CREATE TABLE IF NOT EXISTS equity_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			total_value TEXT NOT NULL,
			base_balance TEXT NOT NULL,
			quote_balance TEXT NOT NULL,
			price TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_equity_timestamp ON equity_snapshots(timestamp)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// SaveState saves the bot state.
func (r *SQLiteRepository) SaveState(ctx context.Context, state BotState) error {
	query := `INSERT OR REPLACE INTO bot_state
		(id, last_updated, current_asset, last_decision, last_switch_at, safe_mode_active, consecutive_fails, total_switches)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		state.LastUpdated,
		state.CurrentAsset,
		state.LastDecision,
		state.LastSwitchAt,
		boolToInt(state.SafeModeActive),
		state.ConsecutiveFails,
		state.TotalSwitches,
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	return nil
}

// GetState returns the saved bot state.
// Returns types.ErrStateNotFound when no state has been saved yet.
func (r *SQLiteRepository) GetState(ctx context.Context) (*BotState, error) {
	query := `SELECT id, last_updated, current_asset, last_decision, last_switch_at, safe_mode_active, consecutive_fails, total_switches
		FROM bot_state WHERE id = 1`

	var state BotState
	var safeMode int
	var lastSwitchAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query).Scan(
		&state.ID,
		&state.LastUpdated,
		&state.CurrentAsset,
		&state.LastDecision,
		&lastSwitchAt,
		&safeMode,
		&state.ConsecutiveFails,
		&state.TotalSwitches,
	)
	if err == sql.ErrNoRows {
		return nil, types.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query state: %w", err)
	}

	if lastSwitchAt.Valid {
		state.LastSwitchAt = lastSwitchAt.Time
	}
	state.SafeModeActive = safeMode == 1

	return &state, nil
}

// SaveSwitch saves a completed asset switch.
func (r *SQLiteRepository) SaveSwitch(ctx context.Context, record SwitchRecord) error {
	query := `INSERT INTO switches
		(timestamp, symbol, side, from_asset, to_asset, price, qty, attempts, drift_bps, order_id, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		record.Timestamp,
		record.Symbol,
		record.Side,
		record.FromAsset,
		record.ToAsset,
		record.Price.String(),
		record.Qty.String(),
		record.Attempts,
		record.DriftBps.String(),
		record.OrderID,
		record.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert switch: %w", err)
	}

	return nil
}

// GetRecentSwitches returns the most recent switches, newest first.
func (r *SQLiteRepository) GetRecentSwitches(ctx context.Context, limit int) ([]SwitchRecord, error) {
	query := `SELECT id, timestamp, symbol, side, from_asset, to_asset, price, qty, attempts, drift_bps, order_id, reason
		FROM switches ORDER BY timestamp DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent switches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return r.scanSwitches(rows)
}

// GetSwitches returns switches in a time range, oldest first.
func (r *SQLiteRepository) GetSwitches(ctx context.Context, from, to time.Time) ([]SwitchRecord, error) {
	query := `SELECT id, timestamp, symbol, side, from_asset, to_asset, price, qty, attempts, drift_bps, order_id, reason
		FROM switches WHERE timestamp BETWEEN ? AND ? ORDER BY timestamp`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query switches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return r.scanSwitches(rows)
}

func (r *SQLiteRepository) scanSwitches(rows *sql.Rows) ([]SwitchRecord, error) {
	var records []SwitchRecord
	for rows.Next() {
		var rec SwitchRecord
		var price, qty, driftBps string
		var reason sql.NullString

		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Symbol, &rec.Side, &rec.FromAsset, &rec.ToAsset, &price, &qty, &rec.Attempts, &driftBps, &rec.OrderID, &reason); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec.Price, _ = decimal.NewFromString(price)
		rec.Qty, _ = decimal.NewFromString(qty)
		rec.DriftBps, _ = decimal.NewFromString(driftBps)
		rec.Reason = reason.String

		records = append(records, rec)
	}

	return records, rows.Err()
}

// SaveEquitySnapshot saves an equity snapshot.
func (r *SQLiteRepository) SaveEquitySnapshot(ctx context.Context, snapshot EquitySnapshot) error {
	query := `INSERT INTO equity_snapshots (timestamp, total_value, base_balance, quote_balance, price)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.Timestamp,
		snapshot.TotalValue.String(),
		snapshot.BaseBalance.String(),
		snapshot.QuoteBalance.String(),
		snapshot.Price.String(),
	)
	if err != nil {
		return fmt.Errorf("insert equity snapshot: %w", err)
	}

	return nil
}

// GetLatestEquitySnapshot returns the most recent equity snapshot.
// Returns nil without error when there are no snapshots yet.
func (r *SQLiteRepository) GetLatestEquitySnapshot(ctx context.Context) (*EquitySnapshot, error) {
	query := `SELECT id, timestamp, total_value, base_balance, quote_balance, price
		FROM equity_snapshots ORDER BY timestamp DESC LIMIT 1`

	var snapshot EquitySnapshot
	var total, base, quote, price string

	err := r.db.QueryRowContext(ctx, query).Scan(
		&snapshot.ID,
		&snapshot.Timestamp,
		&total,
		&base,
		&quote,
		&price,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query equity snapshot: %w", err)
	}

	snapshot.TotalValue, _ = decimal.NewFromString(total)
	snapshot.BaseBalance, _ = decimal.NewFromString(base)
	snapshot.QuoteBalance, _ = decimal.NewFromString(quote)
	snapshot.Price, _ = decimal.NewFromString(price)

	return &snapshot, nil
}

// GetEquityHistory returns equity snapshots in a time range.
func (r *SQLiteRepository) GetEquityHistory(ctx context.Context, from, to time.Time) ([]EquitySnapshot, error) {
	query := `SELECT id, timestamp, total_value, base_balance, quote_balance, price
		FROM equity_snapshots WHERE timestamp BETWEEN ? AND ? ORDER BY timestamp`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query equity history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []EquitySnapshot
	for rows.Next() {
		var s EquitySnapshot
		var total, base, quote, price string

		if err := rows.Scan(&s.ID, &s.Timestamp, &total, &base, &quote, &price); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		s.TotalValue, _ = decimal.NewFromString(total)
		s.BaseBalance, _ = decimal.NewFromString(base)
		s.QuoteBalance, _ = decimal.NewFromString(quote)
		s.Price, _ = decimal.NewFromString(price)

		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
