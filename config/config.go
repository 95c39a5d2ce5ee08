// Package config loads the yaml configuration shared by the caseload commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aouyang1/go-caseload/arima"
	"github.com/aouyang1/go-caseload/chart"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// LogLevelEnv overrides the configured log level when set
const LogLevelEnv = "CASELOAD_LOG_LEVEL"

// Config is the resolved configuration of both commands
type Config struct {
	LogLevel string      `yaml:"log_level"`
	Prep     PrepConfig  `yaml:"prep"`
	ARIMA    ARIMAConfig `yaml:"arima"`
	Chart    ChartConfig `yaml:"chart"`
}

// PrepConfig locates and describes the raw records and the monthly output
type PrepConfig struct {
	RawPath      string   `yaml:"raw_path"`
	OutputPath   string   `yaml:"output_path"`
	DateColumn   string   `yaml:"date_column"`
	CaseIDColumn string   `yaml:"case_id_column"`
	DateLayouts  []string `yaml:"date_layouts"`

	// Holidays selects the business calendar used for cases per workday, either us or none
	Holidays string `yaml:"holidays"`
}

// OrderConfig is the (p, d, q) order of the model
type OrderConfig struct {
	P int `yaml:"p"`
	D int `yaml:"d"`
	Q int `yaml:"q"`
}

// ARIMAConfig configures the modeling command
type ARIMAConfig struct {
	InputPath     string      `yaml:"input_path"`
	Order         OrderConfig `yaml:"order"`
	Lags          int         `yaml:"lags"`
	Horizon       int         `yaml:"horizon"`
	Alpha         float64     `yaml:"alpha"`
	MaxIterations int         `yaml:"max_iterations"`
}

// ModelOrder converts the configured order
func (a ARIMAConfig) ModelOrder() arima.Order {
	return arima.Order{P: a.Order.P, D: a.Order.D, Q: a.Order.Q}
}

// ChartConfig selects the chart format and output locations
type ChartConfig struct {
	Format    string `yaml:"format"`
	PrepPath  string `yaml:"prep_path"`
	ARIMAPath string `yaml:"arima_path"`
	PNGDir    string `yaml:"png_dir"`
}

// NewConfig returns the defaults used when no file is given
func NewConfig() *Config {
	return &Config{
		LogLevel: "info",
		Prep: PrepConfig{
			RawPath:      "data/raw/caseload_raw.csv",
			OutputPath:   "data/processed/caseload_monthly.csv",
			DateColumn:   "date",
			CaseIDColumn: "case_id",
			Holidays:     "us",
		},
		ARIMA: ARIMAConfig{
			InputPath:     "data/processed/caseload_monthly.csv",
			Order:         OrderConfig{P: 1, D: 1, Q: 1},
			Lags:          24,
			Horizon:       12,
			Alpha:         0.05,
			MaxIterations: 2000,
		},
		Chart: ChartConfig{
			Format:    string(chart.HTMLFormat),
			PrepPath:  "plots/caseload_prep.html",
			ARIMAPath: "plots/caseload_arima.html",
			PNGDir:    "plots",
		},
	}
}

// Load resolves configuration as defaults, then the yaml file at path if one is given, then
// environment overrides
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config %s, %w", path, err)
		}
	}
	if level, exists := os.LookupEnv(LogLevelEnv); exists && level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level %q, %w", c.LogLevel, ErrInvalidConfig)
	}

	if c.Prep.RawPath == "" || c.Prep.OutputPath == "" {
		return fmt.Errorf("prep paths must be set, %w", ErrInvalidConfig)
	}
	switch c.Prep.Holidays {
	case "us", "none":
	default:
		return fmt.Errorf("holidays %q, %w", c.Prep.Holidays, ErrInvalidConfig)
	}

	if c.ARIMA.InputPath == "" {
		return fmt.Errorf("arima input path must be set, %w", ErrInvalidConfig)
	}
	if err := c.ARIMA.ModelOrder().Validate(); err != nil {
		return fmt.Errorf("%w, %w", err, ErrInvalidConfig)
	}
	if c.ARIMA.Lags < 1 {
		return fmt.Errorf("lags %d, %w", c.ARIMA.Lags, ErrInvalidConfig)
	}
	if c.ARIMA.Horizon < 1 {
		return fmt.Errorf("horizon %d, %w", c.ARIMA.Horizon, ErrInvalidConfig)
	}
	if c.ARIMA.Alpha <= 0 || c.ARIMA.Alpha >= 1 {
		return fmt.Errorf("alpha %.3f, %w", c.ARIMA.Alpha, ErrInvalidConfig)
	}
	if c.ARIMA.MaxIterations < 1 {
		return fmt.Errorf("max iterations %d, %w", c.ARIMA.MaxIterations, ErrInvalidConfig)
	}

	if _, err := chart.ParseFormat(c.Chart.Format); err != nil {
		return fmt.Errorf("%w, %w", err, ErrInvalidConfig)
	}
	return nil
}
