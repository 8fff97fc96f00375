package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

const validYAML = `
exchange:
  api_key: "test-key"
  api_secret: "test-secret"
  testnet: true
  requests_per_second: 8

market:
  symbol: "BTCUSDT"
  base_asset: "BTC"
  quote_asset: "USDT"

strategy:
  name: "simple_ma"
  fast_period: 7
  slow_period: 25

execution:
  depth_limit: 50
  slippage_bps: 5.0
  max_retries: 3
  retry_sleep_ms: 1500
  per_attempt_drift_bps: 2.0
  max_total_drift_bps: 20.0

safety:
  min_total_balance: 50.0
  min_trade_amount: 10.0

persistence:
  enabled: false
`

func TestLoadFromBytes_Valid(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify values
	if cfg.Exchange.APIKey != "test-key" {
		t.Errorf("APIKey = %s, want test-key", cfg.Exchange.APIKey)
	}

	if !cfg.Exchange.Testnet {
		t.Error("Testnet = false, want true")
	}

	if cfg.Market.Symbol != "BTCUSDT" {
		t.Errorf("Symbol = %s, want BTCUSDT", cfg.Market.Symbol)
	}

	if cfg.Execution.SlippageBps != 5.0 {
		t.Errorf("SlippageBps = %f, want 5.0", cfg.Execution.SlippageBps)
	}

	if cfg.Safety.MinTotalBalance != 50.0 {
		t.Errorf("MinTotalBalance = %f, want 50.0", cfg.Safety.MinTotalBalance)
	}
}

func TestLoadFromBytes_Defaults(t *testing.T) {
	yaml := `
exchange:
  api_key: "k"
  api_secret: "s"
market:
  symbol: "ETHUSDT"
  base_asset: "ETH"
  quote_asset: "USDT"
`

	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Strategy.Name != "simple_ma" {
		t.Errorf("Strategy.Name = %s, want simple_ma", cfg.Strategy.Name)
	}
	if cfg.Strategy.FastPeriod != 7 || cfg.Strategy.SlowPeriod != 25 {
		t.Errorf("MA periods = %d/%d, want 7/25", cfg.Strategy.FastPeriod, cfg.Strategy.SlowPeriod)
	}
	if cfg.Execution.DepthLimit != 50 {
		t.Errorf("DepthLimit = %d, want 50", cfg.Execution.DepthLimit)
	}
	if cfg.Execution.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Execution.MaxRetries)
	}
	if cfg.Execution.RetrySleepMs != 1500 {
		t.Errorf("RetrySleepMs = %d, want 1500", cfg.Execution.RetrySleepMs)
	}
	if cfg.Execution.PerAttemptDriftBps != 2.0 {
		t.Errorf("PerAttemptDriftBps = %f, want 2.0", cfg.Execution.PerAttemptDriftBps)
	}
	if cfg.Execution.MaxTotalDriftBps != 20.0 {
		t.Errorf("MaxTotalDriftBps = %f, want 20.0", cfg.Execution.MaxTotalDriftBps)
	}
	if cfg.Engine.CheckIntervalSec != 60 {
		t.Errorf("CheckIntervalSec = %d, want 60", cfg.Engine.CheckIntervalSec)
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Metrics.Port = %d, want 9090", cfg.Metrics.Port)
	}
}

func TestLoadFromBytes_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing api key",
			yaml: `
exchange:
  api_secret: "s"
market:
  symbol: "BTCUSDT"
  base_asset: "BTC"
  quote_asset: "USDT"
`,
			wantErr: "exchange.api_key is required",
		},
		{
			name: "missing symbol",
			yaml: `
exchange:
  api_key: "k"
  api_secret: "s"
market:
  base_asset: "BTC"
  quote_asset: "USDT"
`,
			wantErr: "market.symbol is required",
		},
		{
			name: "symbol does not match assets",
			yaml: `
exchange:
  api_key: "k"
  api_secret: "s"
market:
  symbol: "BTCUSDT"
  base_asset: "ETH"
  quote_asset: "USDT"
`,
			wantErr: "does not match base+quote",
		},
		{
			name: "unknown strategy",
			yaml: `
exchange:
  api_key: "k"
  api_secret: "s"
market:
  symbol: "BTCUSDT"
  base_asset: "BTC"
  quote_asset: "USDT"
strategy:
  name: "martingale"
`,
			wantErr: "is not supported",
		},
		{
			name: "fast period not below slow",
			yaml: `
exchange:
  api_key: "k"
  api_secret: "s"
market:
  symbol: "BTCUSDT"
  base_asset: "BTC"
  quote_asset: "USDT"
strategy:
  name: "simple_ma"
  fast_period: 25
  slow_period: 7
`,
			wantErr: "fast_period must be less than",
		},
		{
			name: "drift step above cap",
			yaml: `
exchange:
  api_key: "k"
  api_secret: "s"
market:
  symbol: "BTCUSDT"
  base_asset: "BTC"
  quote_asset: "USDT"
execution:
  per_attempt_drift_bps: 30.0
  max_total_drift_bps: 20.0
`,
			wantErr: "per_attempt_drift_bps must not exceed",
		},
		{
			name: "persistence without path",
			yaml: `
exchange:
  api_key: "k"
  api_secret: "s"
market:
  symbol: "BTCUSDT"
  base_asset: "BTC"
  quote_asset: "USDT"
persistence:
  enabled: true
`,
			wantErr: "persistence.path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil {
				t.Error("Expected error, got nil")
				return
			}
			if tt.wantErr != "" && !contains(err.Error(), tt.wantErr) {
				t.Errorf("Error = %v, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ToFOKConfig(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	fokCfg := cfg.ToFOKConfig()

	if fokCfg.DepthLimit != 50 {
		t.Errorf("DepthLimit = %d, want 50", fokCfg.DepthLimit)
	}

	if !fokCfg.SlippageBps.Equal(decimal.RequireFromString("5")) {
		t.Errorf("SlippageBps = %s, want 5", fokCfg.SlippageBps)
	}

	if fokCfg.RetrySleep.Milliseconds() != 1500 {
		t.Errorf("RetrySleep = %v, want 1500ms", fokCfg.RetrySleep)
	}

	if !fokCfg.MaxTotalDriftBps.Equal(decimal.RequireFromString("20")) {
		t.Errorf("MaxTotalDriftBps = %s, want 20", fokCfg.MaxTotalDriftBps)
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := &Config{
		Engine: EngineConfig{
			CheckIntervalSec:   60,
			HealthIntervalSec:  300,
			ShutdownTimeoutSec: 30,
			SwitchCooldownSec:  120,
		},
		Persistence: PersistenceConfig{
			SnapshotIntervalSec: 60,
		},
	}

	if cfg.CheckInterval().Seconds() != 60 {
		t.Errorf("CheckInterval = %v, want 60s", cfg.CheckInterval())
	}

	if cfg.HealthInterval().Seconds() != 300 {
		t.Errorf("HealthInterval = %v, want 300s", cfg.HealthInterval())
	}

	if cfg.ShutdownTimeout().Seconds() != 30 {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout())
	}

	if cfg.SwitchCooldown().Seconds() != 120 {
		t.Errorf("SwitchCooldown = %v, want 120s", cfg.SwitchCooldown())
	}

	if cfg.SnapshotInterval().Seconds() != 60 {
		t.Errorf("SnapshotInterval = %v, want 60s", cfg.SnapshotInterval())
	}
}

func TestLoad_FromFile(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte(validYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Market.Symbol != "BTCUSDT" {
		t.Errorf("Symbol = %s, want BTCUSDT", cfg.Market.Symbol)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Set environment variable
	os.Setenv("TEST_API_KEY", "my-secret-key")
	defer os.Unsetenv("TEST_API_KEY")

	yaml := `
exchange:
  api_key: "${TEST_API_KEY}"
  api_secret: "s"
market:
  symbol: "BTCUSDT"
  base_asset: "BTC"
  quote_asset: "USDT"
`

	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Exchange.APIKey != "my-secret-key" {
		t.Errorf("APIKey = %s, want my-secret-key", cfg.Exchange.APIKey)
	}
}

func TestConfig_IsAlertEventEnabled(t *testing.T) {
	cfg := &Config{
		Alerting: AlertingConfig{
			Enabled: true,
			Events:  []string{"asset_switch", "safe_mode"},
		},
	}

	if !cfg.IsAlertEventEnabled("asset_switch") {
		t.Error("asset_switch should be enabled")
	}
	if cfg.IsAlertEventEnabled("order_filled") {
		t.Error("order_filled should not be enabled")
	}

	cfg.Alerting.Events = nil
	if !cfg.IsAlertEventEnabled("anything") {
		t.Error("empty event list should enable all events")
	}

	cfg.Alerting.Enabled = false
	if cfg.IsAlertEventEnabled("asset_switch") {
		t.Error("disabled alerting should disable all events")
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && containsHelper(s, substr))
}

func containsHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
