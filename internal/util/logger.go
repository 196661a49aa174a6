package util

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns the console logger used by all commands. Output goes to
// stderr so stdout stays reserved for rendered results.
func NewLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "none", "off":
		return zap.NewNop(), nil
	case "debug":
		lvl = zapcore.DebugLevel
	case "", "info", "normal":
		lvl = zapcore.InfoLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q (supported: debug, info, warn, error, none)", level)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.CallerKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.TimeKey = zapcore.OmitKey

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}
