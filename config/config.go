package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/ringbuf/errors"
)

// Scenario names understood by the demo runner.
const (
	ScenarioChar        = "char"
	ScenarioInt         = "int"
	ScenarioRecord      = "record"
	ScenarioRecordBytes = "record-bytes"
)

// KnownScenarios lists every scenario in the order they run by default.
var KnownScenarios = []string{ScenarioChar, ScenarioInt, ScenarioRecord, ScenarioRecordBytes}

// Config represents the complete demo configuration
type Config struct {
	Ring      RingConfig    `json:"ring" yaml:"ring"`
	Log       LogConfig     `json:"log" yaml:"log"`
	Metrics   MetricsConfig `json:"metrics" yaml:"metrics"`
	Scenarios []string      `json:"scenarios" yaml:"scenarios"`
}

// RingConfig sizes the buffers built by each scenario
type RingConfig struct {
	Capacity      int  `json:"capacity" yaml:"capacity"`             // Elements per buffer
	ClearOnRemove bool `json:"clear_on_remove" yaml:"clear_on_remove"` // Zero-fill vacated slots
	NameLength    int  `json:"name_length" yaml:"name_length"`       // Width of the record name field in bytes
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json or text
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port" yaml:"port"`
	Path    string `json:"path" yaml:"path"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Ring: RingConfig{
			Capacity:      8,
			ClearOnRemove: true,
			NameLength:    16,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
		Scenarios: slices.Clone(KnownScenarios),
	}
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}
	copied := *c
	copied.Scenarios = slices.Clone(c.Scenarios)
	return &copied
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.Ring.Capacity <= 0 {
		return invalid("ring.capacity must be positive, got %d", c.Ring.Capacity)
	}
	if c.Ring.NameLength <= 1 {
		return invalid("ring.name_length must be at least 2, got %d", c.Ring.NameLength)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return invalid("log.format %q must be json or text", c.Log.Format)
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return invalid("metrics.port %d out of range", c.Metrics.Port)
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return invalid("metrics.path %q must start with /", c.Metrics.Path)
		}
	}

	if len(c.Scenarios) == 0 {
		return errors.WrapInvalid(fmt.Errorf("%w: scenarios", errors.ErrMissingConfig),
			"Config", "Validate", "check scenarios")
	}
	for _, name := range c.Scenarios {
		if !slices.Contains(KnownScenarios, name) {
			return invalid("unknown scenario %q (known: %s)", name, strings.Join(KnownScenarios, ", "))
		}
	}

	return nil
}

func invalid(format string, args ...any) error {
	return errors.WrapInvalid(
		fmt.Errorf("%w: %s", errors.ErrInvalidConfig, fmt.Sprintf(format, args...)),
		"Config", "Validate", "check fields")
}

// Loader handles configuration loading with layers and overrides
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		layers:     []string{},
		validation: true,
		envPrefix:  "RINGDEMO",
	}
}

// AddLayer adds a configuration file layer. Later layers override earlier ones.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables configuration validation
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads configuration from a single file
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load merges defaults, every layer and environment overrides, then validates.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	for _, path := range l.layers {
		raw, err := l.loadRaw(path)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "Load", fmt.Sprintf("load %s", path))
		}
		merged, err := mergeFromMap(cfg, raw)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "Load", fmt.Sprintf("merge %s", path))
		}
		cfg = merged
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadRaw loads a JSON or YAML file, picked by extension, as a generic map
func (l *Loader) loadRaw(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
		}
	default:
		if err := validateJSONDepth(data); err != nil {
			return nil, fmt.Errorf("invalid JSON structure: %w", err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
		}
	}

	return raw, nil
}

// mergeFromMap overlays override onto base, only replacing fields present in the map
func mergeFromMap(base *Config, override map[string]any) (*Config, error) {
	if override == nil {
		return base, nil
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return nil, err
	}

	mergedJSON, err := json.Marshal(deepMergeMaps(baseMap, override))
	if err != nil {
		return nil, err
	}

	var merged Config
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return &merged, nil
}

// deepMergeMaps recursively merges two maps, with override taking precedence
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base))
	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}
		if baseMap, ok := base[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}

	return result
}

// applyEnvOverrides applies PREFIX_SECTION_FIELD environment overrides
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"_RING_CAPACITY", &cfg.Ring.Capacity},
		{"_RING_NAME_LENGTH", &cfg.Ring.NameLength},
		{"_METRICS_PORT", &cfg.Metrics.Port},
	}
	for _, o := range ints {
		val, err := l.lookupEnv(o.key)
		if err != nil {
			return err
		}
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return envError(l.envPrefix+o.key, err)
		}
		*o.dst = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"_RING_CLEAR_ON_REMOVE", &cfg.Ring.ClearOnRemove},
		{"_METRICS_ENABLED", &cfg.Metrics.Enabled},
	}
	for _, o := range bools {
		val, err := l.lookupEnv(o.key)
		if err != nil {
			return err
		}
		if val == "" {
			continue
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return envError(l.envPrefix+o.key, err)
		}
		*o.dst = b
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"_LOG_LEVEL", &cfg.Log.Level},
		{"_LOG_FORMAT", &cfg.Log.Format},
		{"_METRICS_PATH", &cfg.Metrics.Path},
	}
	for _, o := range strs {
		val, err := l.lookupEnv(o.key)
		if err != nil {
			return err
		}
		if val != "" {
			*o.dst = val
		}
	}

	val, err := l.lookupEnv("_SCENARIOS")
	if err != nil {
		return err
	}
	if val != "" {
		cfg.Scenarios = splitList(val)
	}

	return nil
}

func (l *Loader) lookupEnv(suffix string) (string, error) {
	name := l.envPrefix + suffix
	val := os.Getenv(name)
	if len(val) > maxEnvVarLen {
		return "", envError(name, fmt.Errorf("value too long: %d > %d", len(val), maxEnvVarLen))
	}
	return strings.TrimSpace(val), nil
}

func envError(name string, err error) error {
	return errors.WrapInvalid(fmt.Errorf("%w: %s: %v", errors.ErrInvalidConfig, name, err),
		"Loader", "applyEnvOverrides", "parse environment")
}

// splitList splits a comma separated list, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
