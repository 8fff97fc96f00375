// Package safety implements pre-trade safety checks.
package safety

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"spotbot/internal/types"
)

// BalanceSource provides spot balances for the safety checks.
type BalanceSource interface {
	Balances(ctx context.Context, assets ...string) (map[string]types.Balance, error)
}

// PriceSource provides a reference price to value the base asset.
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Config holds the safety thresholds.
type Config struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string
	// MinTotalBalance is the minimum portfolio value in quote units.
	MinTotalBalance decimal.Decimal
	// MinTradeAmount is the smallest order value worth placing.
	MinTradeAmount decimal.Decimal
}

// Validator runs pre-trade checks against the live account.
type Validator struct {
	cfg      Config
	balances BalanceSource
	prices   PriceSource
	logger   *slog.Logger
}

// NewValidator creates a safety validator.
func NewValidator(cfg Config, balances BalanceSource, prices PriceSource, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		cfg:      cfg,
		balances: balances,
		prices:   prices,
		logger:   logger,
	}
}

// ValidateKeys checks API credential shape without calling the exchange.
func ValidateKeys(apiKey, apiSecret string) error {
	var issues []string

	if strings.TrimSpace(apiKey) == "" {
		issues = append(issues, "api key is empty")
	} else if len(apiKey) < 16 {
		issues = append(issues, "api key looks too short")
	}
	if strings.TrimSpace(apiSecret) == "" {
		issues = append(issues, "api secret is empty")
	} else if len(apiSecret) < 16 {
		issues = append(issues, "api secret looks too short")
	}
	if strings.ContainsAny(apiKey, " \t\n") || strings.ContainsAny(apiSecret, " \t\n") {
		issues = append(issues, "credentials contain whitespace")
	}

	if len(issues) > 0 {
		return fmt.Errorf("%w: %s", types.ErrSafetyCheckFailed, strings.Join(issues, "; "))
	}
	return nil
}

// Check values the account and verifies it clears the configured
// floors. Returns ErrSafetyCheckFailed with all issues joined.
func (v *Validator) Check(ctx context.Context) error {
	balances, err := v.balances.Balances(ctx, v.cfg.BaseAsset, v.cfg.QuoteAsset)
	if err != nil {
		return fmt.Errorf("fetch balances: %w", err)
	}

	price, err := v.prices.LastPrice(ctx, v.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("fetch reference price: %w", err)
	}

	total := balances[v.cfg.QuoteAsset].Total().
		Add(balances[v.cfg.BaseAsset].Total().Mul(price))

	var issues []string
	if v.cfg.MinTotalBalance.IsPositive() && total.LessThan(v.cfg.MinTotalBalance) {
		issues = append(issues, fmt.Sprintf("total balance %s below floor %s %s",
			total.Round(2), v.cfg.MinTotalBalance, v.cfg.QuoteAsset))
	}
	if v.cfg.MinTradeAmount.IsPositive() && total.LessThan(v.cfg.MinTradeAmount) {
		issues = append(issues, fmt.Sprintf("total balance %s cannot fund minimum trade %s %s",
			total.Round(2), v.cfg.MinTradeAmount, v.cfg.QuoteAsset))
	}

	if len(issues) > 0 {
		return fmt.Errorf("%w: %s", types.ErrSafetyCheckFailed, strings.Join(issues, "; "))
	}

	v.logger.Debug("safety check passed",
		"total_value", total.Round(2),
		"quote_asset", v.cfg.QuoteAsset,
	)
	return nil
}

// CheckTradeAmount verifies a single order value clears the minimum.
func (v *Validator) CheckTradeAmount(notional decimal.Decimal) error {
	if v.cfg.MinTradeAmount.IsPositive() && notional.LessThan(v.cfg.MinTradeAmount) {
		return fmt.Errorf("%w: notional %s below minimum %s",
			types.ErrTradeAmountTooSmall, notional.Round(2), v.cfg.MinTradeAmount)
	}
	return nil
}
