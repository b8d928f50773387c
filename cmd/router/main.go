// Package main is the entry point for the router.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/router"
	"github.com/vyrodovalexey/avrouter/internal/server"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	watchConfig bool
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	cfg := loadConfig(flags.configPath, logger)

	if err := run(cfg, flags, logger); err != nil {
		logger.Fatal("router exited with error", observability.Error(err))
	}
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("ROUTER_CONFIG_PATH", "configs/router.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("ROUTER_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("ROUTER_LOG_FORMAT", "json"),
		"Log format (json, console)")
	watchConfig := flag.Bool("watch", false, "Reload routes when the config file changes")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		watchConfig: *watchConfig,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("avrouter version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	observability.SetGlobalLogger(logger)
	return logger
}

// loadConfig loads and validates the configuration.
func loadConfig(configPath string, logger observability.Logger) *config.Config {
	logger.Info("starting avrouter",
		observability.String("version", version),
		observability.String("config", configPath),
	)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", observability.Error(err))
	}

	logger.Info("configuration loaded",
		observability.Int("routes", len(cfg.Routes)),
		observability.String("address", cfg.Server.Address),
	)
	return cfg
}

// run builds the route table and serves until interrupted.
func run(cfg *config.Config, flags cliFlags, logger observability.Logger) error {
	serverMetrics := observability.NewMetrics("router")
	dispatchMetrics := router.NewMetrics("router")
	serverMetrics.AddGatherer(dispatchMetrics.Registry())

	table, err := server.BuildRouter(cfg.Routes, logger, dispatchMetrics)
	if err != nil {
		return err
	}

	srv := server.New(cfg, table, logger, server.WithMetrics(serverMetrics))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.watchConfig {
		watcher, err := config.NewWatcher(flags.configPath, func(next *config.Config) {
			table, err := server.BuildRouter(next.Routes, logger, dispatchMetrics)
			if err != nil {
				logger.Error("rejecting reloaded routes", observability.Error(err))
				return
			}
			srv.Swap(table)
		}, config.WithWatcherLogger(logger))
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = watcher.Stop() }()
	}

	return srv.Start(ctx)
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
