package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-caseload/arima"
	"github.com/aouyang1/go-caseload/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	cfg, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, NewConfig(), cfg)
	assert.Equal(t, arima.Order{P: 1, D: 1, Q: 1}, cfg.ARIMA.ModelOrder())
	assert.Equal(t, "data/processed/caseload_monthly.csv", cfg.ARIMA.InputPath)
}

func TestLoadFile(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	path := filepath.Join(t.TempDir(), "caseload.yaml")
	data := []byte(`
log_level: debug
prep:
  raw_path: in/raw.csv
  holidays: none
arima:
  order:
    p: 2
    d: 1
    q: 0
  horizon: 6
chart:
  format: png
`)
	require.Nil(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "in/raw.csv", cfg.Prep.RawPath)
	assert.Equal(t, "data/processed/caseload_monthly.csv", cfg.Prep.OutputPath)
	assert.Equal(t, "none", cfg.Prep.Holidays)
	assert.Equal(t, arima.Order{P: 2, D: 1, Q: 0}, cfg.ARIMA.ModelOrder())
	assert.Equal(t, 6, cfg.ARIMA.Horizon)
	assert.Equal(t, 24, cfg.ARIMA.Lags)
	assert.Equal(t, string(chart.PNGFormat), cfg.Chart.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(LogLevelEnv, "warn")
	cfg, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.Nil(t, os.WriteFile(bad, []byte("arima: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.NotNil(t, err)
}

func TestValidate(t *testing.T) {
	testData := map[string]struct {
		mutate func(*Config)
		err    error
	}{
		"defaults": {
			mutate: func(*Config) {},
		},
		"log level": {
			mutate: func(c *Config) { c.LogLevel = "verbose" },
			err:    ErrInvalidConfig,
		},
		"holidays": {
			mutate: func(c *Config) { c.Prep.Holidays = "uk" },
			err:    ErrInvalidConfig,
		},
		"negative order": {
			mutate: func(c *Config) { c.ARIMA.Order.Q = -1 },
			err:    arima.ErrInvalidOrder,
		},
		"no lags": {
			mutate: func(c *Config) { c.ARIMA.Lags = 0 },
			err:    ErrInvalidConfig,
		},
		"alpha": {
			mutate: func(c *Config) { c.ARIMA.Alpha = 1 },
			err:    ErrInvalidConfig,
		},
		"chart format": {
			mutate: func(c *Config) { c.Chart.Format = "svg" },
			err:    chart.ErrUnknownFormat,
		},
		"missing input": {
			mutate: func(c *Config) { c.ARIMA.InputPath = "" },
			err:    ErrInvalidConfig,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			td.mutate(cfg)
			err := cfg.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			assert.Nil(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	testData := map[string]struct {
		level string
		debug bool
		err   error
	}{
		"info":  {level: "info"},
		"debug": {level: "debug", debug: true},
		"upper": {level: "WARN"},
		"bad":   {level: "verbose", err: ErrInvalidConfig},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.LogLevel = td.level
			logger, err := cfg.NewLogger()
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.debug, logger.Desugar().Core().Enabled(zapcore.DebugLevel))
		})
	}
}
