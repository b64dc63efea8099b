package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/ringbuf/config"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunVersion(t *testing.T) {
	out, _, err := runCLI(t, "-version")
	require.NoError(t, err)
	assert.Equal(t, "ringdemo version "+Version+"\n", out)
}

func TestRunHelp(t *testing.T) {
	_, errOut, err := runCLI(t, "-help")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Usage: ringdemo")
	assert.Contains(t, errOut, "record-bytes")

	_, _, err = runCLI(t, "-h")
	assert.NoError(t, err)
}

func TestRunValidate(t *testing.T) {
	out, _, err := runCLI(t, "-validate", "-scenario=int,record")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}

func TestRunAllScenarios(t *testing.T) {
	out, _, err := runCLI(t, "-log-format=json", "-scenario=all")
	require.NoError(t, err)
	assert.Contains(t, out, `"msg":"All scenarios passed"`)
	assert.Contains(t, out, `"service":"ringdemo"`)
}

func TestRunWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ringdemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ring:\n  capacity: 3\nscenarios: [char]\n"), 0o600))

	out, _, err := runCLI(t, "-config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "capacity=3")
	assert.NotContains(t, out, "scenario=int")
}

func TestRunInvalidInput(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"UnknownScenario", []string{"-scenario=float"}},
		{"BadLogFormat", []string{"-log-format=xml"}},
		{"BadLogLevel", []string{"-log-level=loud"}},
		{"BadPort", []string{"-metrics-port=70000"}},
		{"MissingConfig", []string{"-config=/does/not/exist.yaml"}},
		{"UnknownFlag", []string{"-bogus"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	applyFlags(&CLIConfig{
		LogLevel:    "DEBUG",
		LogFormat:   "json",
		MetricsPort: 9400,
		Scenario:    " char, record ,",
	}, cfg)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9400, cfg.Metrics.Port)
	assert.Equal(t, []string{"char", "record"}, cfg.Scenarios)

	applyFlags(&CLIConfig{Scenario: "all"}, cfg)
	assert.Equal(t, config.KnownScenarios, cfg.Scenarios)
	assert.Equal(t, "debug", cfg.Log.Level, "empty flags keep config values")
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(&buf, "warn", "text")
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "service=ringdemo")
}
