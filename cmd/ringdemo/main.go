// Package main implements ringdemo, a command that walks fixed-capacity ring buffers
// through fill, wraparound and drain scenarios and optionally exposes their metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/c360/ringbuf/config"
	"github.com/c360/ringbuf/health"
	"github.com/c360/ringbuf/metric"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ringdemo"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cliCfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		return nil
	}

	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	logger := setupLogger(stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if cliCfg.Validate {
		logger.Info("Configuration is valid", "scenarios", cfg.Scenarios)
		return nil
	}

	logger.Info("Starting ringdemo",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath,
		"capacity", cfg.Ring.Capacity,
		"scenarios", cfg.Scenarios)

	return runScenarios(ctx, cfg, cliCfg.Serve, logger)
}

// initializeConfiguration loads the config file (if any), applies flags and validates
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	// Flags may still fix values the file or environment got wrong
	loader.EnableValidation(false)
	if cliCfg.ConfigPath != "" {
		loader.AddLayer(cliCfg.ConfigPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	applyFlags(cliCfg, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runScenarios runs the metrics server and the scenario runner in one group.
// Without serve the group shuts down as soon as the scenarios finish.
func runScenarios(ctx context.Context, cfg *config.Config, serve bool, logger *slog.Logger) error {
	registry := metric.NewMetricsRegistry()
	monitor := health.NewMonitor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		server.SetHealthFunc(func() health.Status { return monitor.AggregateHealth(appName) })
		logger.Info("Metrics server listening", "address", server.Address(), "path", cfg.Metrics.Path)
		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	g.Go(func() error {
		runner := NewRunner(cfg.Ring, logger, registry).WithHealth(monitor)
		if err := runner.Run(gctx, cfg.Scenarios); err != nil {
			return err
		}
		logger.Info("All scenarios passed", "count", len(cfg.Scenarios),
			"health", monitor.AggregateHealth(appName).Status)

		if serve && cfg.Metrics.Enabled {
			logger.Info("Serving metrics until interrupted")
			<-gctx.Done()
			return nil
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
