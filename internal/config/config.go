// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"spotbot/internal/engine"
	"spotbot/internal/exchange"
	"spotbot/internal/fok"
	"spotbot/internal/safety"
	"spotbot/internal/strategy"
	"spotbot/internal/types"
)

// Config represents the full application configuration.
type Config struct {
	Exchange    ExchangeConfig    `yaml:"exchange"`
	Market      MarketConfig      `yaml:"market"`
	Strategy    StrategyConfig    `yaml:"strategy"`
	Execution   ExecutionConfig   `yaml:"execution"`
	Engine      EngineConfig      `yaml:"engine"`
	Safety      SafetyConfig      `yaml:"safety"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Alerting    AlertingConfig    `yaml:"alerting"`
}

// ExchangeConfig holds exchange connectivity settings.
type ExchangeConfig struct {
	APIKey            string `yaml:"api_key"`
	APISecret         string `yaml:"api_secret"`
	Testnet           bool   `yaml:"testnet"`
	RequestsPerSecond int    `yaml:"requests_per_second"`
}

// MarketConfig holds the traded market settings.
type MarketConfig struct {
	Symbol     string `yaml:"symbol"`
	BaseAsset  string `yaml:"base_asset"`
	QuoteAsset string `yaml:"quote_asset"`
}

// StrategyConfig holds strategy selection and tuning.
type StrategyConfig struct {
	Name       string `yaml:"name"` // simple_ma | regime
	FastPeriod int    `yaml:"fast_period"`
	SlowPeriod int    `yaml:"slow_period"`
	RSIPeriod  int    `yaml:"rsi_period"`
	ATRPeriod  int    `yaml:"atr_period"`
}

// ExecutionConfig holds fill-or-kill execution settings.
type ExecutionConfig struct {
	DepthLimit         int     `yaml:"depth_limit"`
	SlippageBps        float64 `yaml:"slippage_bps"`
	MaxRetries         int     `yaml:"max_retries"`
	RetrySleepMs       int     `yaml:"retry_sleep_ms"`
	PerAttemptDriftBps float64 `yaml:"per_attempt_drift_bps"`
	MaxTotalDriftBps   float64 `yaml:"max_total_drift_bps"`
}

// EngineConfig holds trading loop settings.
type EngineConfig struct {
	CheckIntervalSec    int `yaml:"check_interval_sec"`
	HealthIntervalSec   int `yaml:"health_interval_sec"`
	ShutdownTimeoutSec  int `yaml:"shutdown_timeout_sec"`
	SwitchCooldownSec   int `yaml:"switch_cooldown_sec"`
	KlineHistoryBars    int `yaml:"kline_history_bars"`
	DataStalenessSec    int `yaml:"data_staleness_sec"`
	MaxConsecutiveFails int `yaml:"max_consecutive_fails"`
}

// SafetyConfig holds pre-trade safety thresholds.
type SafetyConfig struct {
	MinTotalBalance float64 `yaml:"min_total_balance"`
	MinTradeAmount  float64 `yaml:"min_trade_amount"`
}

// PersistenceConfig holds state storage settings.
type PersistenceConfig struct {
	Enabled             bool   `yaml:"enabled"`
	Path                string `yaml:"path"`
	SnapshotIntervalSec int    `yaml:"snapshot_interval_sec"`
}

// MetricsConfig holds the metrics HTTP server settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// AlertingConfig holds alerting settings.
type AlertingConfig struct {
	Enabled bool     `yaml:"enabled"`
	Events  []string `yaml:"events"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Exchange.RequestsPerSecond <= 0 {
		c.Exchange.RequestsPerSecond = 10
	}
	if c.Strategy.Name == "" {
		c.Strategy.Name = "simple_ma"
	}
	if c.Strategy.FastPeriod <= 0 {
		c.Strategy.FastPeriod = 7
	}
	if c.Strategy.SlowPeriod <= 0 {
		c.Strategy.SlowPeriod = 25
	}
	if c.Strategy.RSIPeriod <= 0 {
		c.Strategy.RSIPeriod = 14
	}
	if c.Strategy.ATRPeriod <= 0 {
		c.Strategy.ATRPeriod = 14
	}
	if c.Execution.DepthLimit <= 0 {
		c.Execution.DepthLimit = 50
	}
	if c.Execution.SlippageBps <= 0 {
		c.Execution.SlippageBps = 5.0
	}
	if c.Execution.MaxRetries <= 0 {
		c.Execution.MaxRetries = 3
	}
	if c.Execution.RetrySleepMs <= 0 {
		c.Execution.RetrySleepMs = 1500
	}
	if c.Execution.PerAttemptDriftBps <= 0 {
		c.Execution.PerAttemptDriftBps = 2.0
	}
	if c.Execution.MaxTotalDriftBps <= 0 {
		c.Execution.MaxTotalDriftBps = 20.0
	}
	if c.Engine.CheckIntervalSec <= 0 {
		c.Engine.CheckIntervalSec = 60
	}
	if c.Engine.HealthIntervalSec <= 0 {
		c.Engine.HealthIntervalSec = 300
	}
	if c.Engine.ShutdownTimeoutSec <= 0 {
		c.Engine.ShutdownTimeoutSec = 30
	}
	if c.Engine.KlineHistoryBars <= 0 {
		c.Engine.KlineHistoryBars = 100
	}
	if c.Engine.DataStalenessSec <= 0 {
		c.Engine.DataStalenessSec = 300
	}
	if c.Engine.MaxConsecutiveFails <= 0 {
		c.Engine.MaxConsecutiveFails = 5
	}
	if c.Metrics.Port <= 0 {
		c.Metrics.Port = 9090
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	// Exchange validation
	if c.Exchange.APIKey == "" {
		errs = append(errs, "exchange.api_key is required")
	}
	if c.Exchange.APISecret == "" {
		errs = append(errs, "exchange.api_secret is required")
	}

	// Market validation
	if c.Market.Symbol == "" {
		errs = append(errs, "market.symbol is required")
	}
	if c.Market.BaseAsset == "" {
		errs = append(errs, "market.base_asset is required")
	}
	if c.Market.QuoteAsset == "" {
		errs = append(errs, "market.quote_asset is required")
	}
	if c.Market.Symbol != "" && c.Market.BaseAsset != "" && c.Market.QuoteAsset != "" &&
		c.Market.Symbol != c.Market.BaseAsset+c.Market.QuoteAsset {
		errs = append(errs, fmt.Sprintf("market.symbol '%s' does not match base+quote '%s%s'",
			c.Market.Symbol, c.Market.BaseAsset, c.Market.QuoteAsset))
	}

	// Strategy validation
	if c.Strategy.Name != "simple_ma" && c.Strategy.Name != "regime" {
		errs = append(errs, fmt.Sprintf("strategy.name '%s' is not supported", c.Strategy.Name))
	}
	if c.Strategy.FastPeriod >= c.Strategy.SlowPeriod {
		errs = append(errs, "strategy.fast_period must be less than strategy.slow_period")
	}

	// Execution validation
	if c.Execution.PerAttemptDriftBps > c.Execution.MaxTotalDriftBps {
		errs = append(errs, "execution.per_attempt_drift_bps must not exceed execution.max_total_drift_bps")
	}

	// Safety validation
	if c.Safety.MinTotalBalance < 0 {
		errs = append(errs, "safety.min_total_balance must not be negative")
	}
	if c.Safety.MinTradeAmount < 0 {
		errs = append(errs, "safety.min_trade_amount must not be negative")
	}

	// Persistence validation
	if c.Persistence.Enabled && c.Persistence.Path == "" {
		errs = append(errs, "persistence.path is required when persistence is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", types.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// ToFOKConfig converts to fok.Config.
func (c *Config) ToFOKConfig() fok.Config {
	return fok.Config{
		DepthLimit:         c.Execution.DepthLimit,
		SlippageBps:        decimal.NewFromFloat(c.Execution.SlippageBps),
		MaxRetries:         c.Execution.MaxRetries,
		RetrySleep:         time.Duration(c.Execution.RetrySleepMs) * time.Millisecond,
		PerAttemptDriftBps: decimal.NewFromFloat(c.Execution.PerAttemptDriftBps),
		MaxTotalDriftBps:   decimal.NewFromFloat(c.Execution.MaxTotalDriftBps),
	}
}

// ToBinanceConfig converts to exchange.BinanceConfig.
func (c *Config) ToBinanceConfig() exchange.BinanceConfig {
	return exchange.BinanceConfig{
		APIKey:            c.Exchange.APIKey,
		APISecret:         c.Exchange.APISecret,
		Testnet:           c.Exchange.Testnet,
		RequestsPerSecond: c.Exchange.RequestsPerSecond,
	}
}

// ToStrategyConfig converts to strategy.Config.
func (c *Config) ToStrategyConfig() strategy.Config {
	return strategy.Config{
		FastPeriod: c.Strategy.FastPeriod,
		SlowPeriod: c.Strategy.SlowPeriod,
		RSIPeriod:  c.Strategy.RSIPeriod,
		ATRPeriod:  c.Strategy.ATRPeriod,
	}
}

// ToSafetyConfig converts to safety.Config.
func (c *Config) ToSafetyConfig() safety.Config {
	return safety.Config{
		Symbol:          c.Market.Symbol,
		BaseAsset:       c.Market.BaseAsset,
		QuoteAsset:      c.Market.QuoteAsset,
		MinTotalBalance: c.MinTotalBalanceDecimal(),
		MinTradeAmount:  c.MinTradeAmountDecimal(),
	}
}

// ToEngineConfig converts to engine.Config.
func (c *Config) ToEngineConfig() engine.Config {
	return engine.Config{
		Symbol:              c.Market.Symbol,
		BaseAsset:           c.Market.BaseAsset,
		QuoteAsset:          c.Market.QuoteAsset,
		CheckInterval:       c.CheckInterval(),
		HealthInterval:      c.HealthInterval(),
		SwitchCooldown:      c.SwitchCooldown(),
		KlineHistoryBars:    c.Engine.KlineHistoryBars,
		DataStaleness:       c.DataStaleness(),
		MaxConsecutiveFails: c.Engine.MaxConsecutiveFails,
	}
}

// MinTotalBalanceDecimal returns the safety balance floor as decimal.
func (c *Config) MinTotalBalanceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Safety.MinTotalBalance)
}

// MinTradeAmountDecimal returns the minimum trade amount as decimal.
func (c *Config) MinTradeAmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Safety.MinTradeAmount)
}

// CheckInterval returns the trading loop interval.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.Engine.CheckIntervalSec) * time.Second
}

// HealthInterval returns the health check interval.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.Engine.HealthIntervalSec) * time.Second
}

// ShutdownTimeout returns the shutdown timeout duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Engine.ShutdownTimeoutSec) * time.Second
}

// SwitchCooldown returns the minimum time between asset switches.
func (c *Config) SwitchCooldown() time.Duration {
	return time.Duration(c.Engine.SwitchCooldownSec) * time.Second
}

// DataStaleness returns the maximum tolerated kline age.
func (c *Config) DataStaleness() time.Duration {
	return time.Duration(c.Engine.DataStalenessSec) * time.Second
}

// SnapshotInterval returns the snapshot interval duration.
func (c *Config) SnapshotInterval() time.Duration {
	return time.Duration(c.Persistence.SnapshotIntervalSec) * time.Second
}

// IsAlertEventEnabled checks if an alert event type is enabled.
func (c *Config) IsAlertEventEnabled(event string) bool {
	if !c.Alerting.Enabled {
		return false
	}
	// If no events specified, all are enabled
	if len(c.Alerting.Events) == 0 {
		return true
	}
	for _, e := range c.Alerting.Events {
		if e == event || e == "all" {
			return true
		}
	}
	return false
}
