// Package logging provides the structured logger used by services and adapters
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration
type Config struct {
	Level       string `yaml:"level" toml:"level"`
	Format      string `yaml:"format" toml:"format"` // "json" or "console"
	OutputPath  string `yaml:"output_path" toml:"output_path"`
	Development bool   `yaml:"development" toml:"development"`
}

// DefaultConfig keeps the CLI quiet: warnings and errors on stderr
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
	}
}

// NewLogger creates a zap logger from the config
func NewLogger(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	zapConfig.Level = level

	if config.Format == "json" {
		zapConfig.Encoding = "json"
	} else {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	zapConfig.OutputPaths = []string{"stderr"}
	if config.OutputPath != "" {
		zapConfig.OutputPaths = []string{config.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", "vocx")), nil
}
