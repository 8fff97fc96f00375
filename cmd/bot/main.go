// Package main is the entry point for the spot trading bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spotbot/internal/alerting"
	"spotbot/internal/config"
	"spotbot/internal/engine"
	"spotbot/internal/exchange"
	"spotbot/internal/fok"
	"spotbot/internal/metrics"
	"spotbot/internal/persistence"
	"spotbot/internal/safety"
	"spotbot/internal/strategy"
)

// Version information (set by build flags).
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	case "run":
		cmdRun(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Spot Trading Bot - Fill-Or-Kill Asset Switcher

Usage:
  spotbot <command> [options]

Commands:
  run        Start the trading bot
  validate   Validate configuration file
  version    Show version information
  help       Show this help message

Examples:
  spotbot run --config config.yaml
  spotbot run --config config.yaml --verbose
  spotbot validate --config config.yaml

Use "spotbot <command> --help" for more information about a command.`)
}

func cmdVersion() {
	fmt.Printf("spotbot version %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	// Credentials usually arrive through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  Symbol: %s (%s/%s)\n", cfg.Market.Symbol, cfg.Market.BaseAsset, cfg.Market.QuoteAsset)
	fmt.Printf("  Strategy: %s (fast=%d slow=%d)\n", cfg.Strategy.Name, cfg.Strategy.FastPeriod, cfg.Strategy.SlowPeriod)
	fmt.Printf("  Slippage margin: %.1f bps\n", cfg.Execution.SlippageBps)
	fmt.Printf("  Drift budget: %.1f bps over %d retries\n", cfg.Execution.MaxTotalDriftBps, cfg.Execution.MaxRetries)
	fmt.Printf("  Testnet: %v\n", cfg.Exchange.Testnet)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(args)

	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	if err := safety.ValidateKeys(cfg.Exchange.APIKey, cfg.Exchange.APISecret); err != nil {
		slog.Error("credential check failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("spotbot starting",
		"version", Version,
		"symbol", cfg.Market.Symbol,
		"strategy", cfg.Strategy.Name,
		"testnet", cfg.Exchange.Testnet,
	)

	client := exchange.NewBinance(cfg.ToBinanceConfig(), logger)
	if err := client.Ping(ctx); err != nil {
		slog.Error("exchange unreachable", "err", err)
		os.Exit(1)
	}

	executor := fok.NewExecutor(cfg.ToFOKConfig(), client, logger)

	strat, err := strategy.New(cfg.Strategy.Name, cfg.ToStrategyConfig())
	if err != nil {
		slog.Error("failed to build strategy", "err", err)
		os.Exit(1)
	}

	validator := safety.NewValidator(cfg.ToSafetyConfig(), client, client, logger)

	var repo persistence.Repository
	if cfg.Persistence.Enabled {
		sqliteRepo, err := persistence.NewSQLiteRepository(cfg.Persistence.Path)
		if err != nil {
			slog.Error("failed to open state database", "err", err, "path", cfg.Persistence.Path)
			os.Exit(1)
		}
		defer sqliteRepo.Close()
		repo = sqliteRepo
		slog.Info("state persistence enabled", "path", cfg.Persistence.Path)
	}

	var alerter alerting.Alerter
	if cfg.Alerting.Enabled {
		alerter = alerting.NewMultiAlerter(logger, alerting.NewConsoleAlerter(logger))
	}

	eng := engine.NewEngine(
		cfg.ToEngineConfig(),
		client,
		executor,
		strat,
		validator,
		repo,
		alerter,
		logger,
	)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.SetBuildInfo(Version, GitCommit, BuildTime)
		metricsServer = metrics.NewServer(metrics.ServerConfig{
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			HealthPath:  "/health",
		}, logger)
		metricsServer.RegisterHealthCheck("engine", eng.HealthCheck)
		metricsServer.RegisterHealthCheck("exchange", func() metrics.Check {
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Ping(pingCtx); err != nil {
				return metrics.Check{Status: "unhealthy", Message: err.Error()}
			}
			return metrics.Check{Status: "healthy"}
		})
		metricsServer.SetStatusProvider(func() any { return eng.Status() })
		if err := metricsServer.Start(); err != nil {
			slog.Error("failed to start metrics server", "err", err)
			os.Exit(1)
		}
	}

	if err := eng.Start(ctx); err != nil {
		slog.Error("failed to start engine", "err", err)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.ShutdownTimeout(),
	)
	defer cancel()

	if err := eng.Stop(shutdownCtx); err != nil {
		slog.Error("engine shutdown error", "err", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown error", "err", err)
		}
	}

	slog.Info("spotbot shutdown complete")
}
