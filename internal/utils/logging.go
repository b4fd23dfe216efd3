package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// NewLogger builds a production JSON logger at the given level ("debug",
// "info", "warn", "error"). An empty level means info.
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func InitLogger(level string) error {
	logger, err := NewLogger(level)
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}

func GetLogger() *zap.Logger {
	if Logger == nil {
		if err := InitLogger(""); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	return Logger
}
