package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the sugared logger used by the commands. The debug level switches to the
// development encoder.
func (c *Config) NewLogger() (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("log level %q, %w", c.LogLevel, ErrInvalidConfig)
	}

	zcfg := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to build logger, %w", err)
	}
	return logger.Sugar(), nil
}
