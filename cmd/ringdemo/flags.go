package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/c360/ringbuf/config"
)

// CLIConfig holds command-line configuration. Empty or zero values leave the
// corresponding config file setting alone.
type CLIConfig struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	Scenario    string
	MetricsPort int
	Serve       bool
	ShowVersion bool
	ShowHelp    bool
	Validate    bool
}

func parseFlags(args []string, stderr io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Define flags with environment variable fallback
	fs.StringVar(&cfg.ConfigPath, "config",
		getEnv("RINGDEMO_CONFIG", ""),
		"Path to a JSON or YAML configuration file (env: RINGDEMO_CONFIG)")

	fs.StringVar(&cfg.LogLevel, "log-level",
		getEnv("RINGDEMO_LOG_LEVEL", ""),
		"Log level: debug, info, warn, error (env: RINGDEMO_LOG_LEVEL)")

	fs.StringVar(&cfg.LogFormat, "log-format",
		getEnv("RINGDEMO_LOG_FORMAT", ""),
		"Log format: json, text (env: RINGDEMO_LOG_FORMAT)")

	fs.StringVar(&cfg.Scenario, "scenario",
		getEnv("RINGDEMO_SCENARIO", ""),
		"Comma separated scenarios to run, or \"all\" (env: RINGDEMO_SCENARIO)")

	fs.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("RINGDEMO_METRICS_PORT", 0),
		"Expose Prometheus metrics on this port, 0 keeps the config setting (env: RINGDEMO_METRICS_PORT)")

	fs.BoolVar(&cfg.Serve, "serve",
		getEnvBool("RINGDEMO_SERVE", false),
		"Keep serving metrics after the scenarios finish until interrupted (env: RINGDEMO_SERVE)")

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	fs.Usage = func() {
		printDetailedHelp(stderr, fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ShowHelp {
		fs.Usage()
	}
	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	if cfg.LogLevel != "" && !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(cfg.LogLevel)) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if cfg.LogFormat != "" && !slices.Contains([]string{"json", "text"}, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	return nil
}

// applyFlags overlays explicitly set CLI values onto the loaded configuration.
func applyFlags(cli *CLIConfig, cfg *config.Config) {
	if cli.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(cli.LogLevel)
	}
	if cli.LogFormat != "" {
		cfg.Log.Format = cli.LogFormat
	}
	if cli.MetricsPort > 0 {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = cli.MetricsPort
	}
	switch s := strings.TrimSpace(cli.Scenario); s {
	case "":
	case "all":
		cfg.Scenarios = slices.Clone(config.KnownScenarios)
	default:
		var names []string
		for _, name := range strings.Split(s, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		cfg.Scenarios = names
	}
}

func printDetailedHelp(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(w, `%s - fixed-capacity ring buffer demonstration

Usage: %s [options]

Options:
`, appName, appName)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, `
Scenarios:
  %s

Examples:
  # Run every scenario with debug logging
  %s -log-level=debug

  # Run one scenario from a config file
  %s -config=configs/ringdemo.yaml -scenario=record

  # Expose metrics and keep serving
  %s -metrics-port=9090 -serve

Version: %s
Build: %s
`, strings.Join(config.KnownScenarios, ", "), appName, appName, appName, Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
