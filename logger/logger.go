// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the structured logger; SLog is its sugared twin for printf-style
// messages. Both discard output until Init is called.
var (
	Log  = zap.NewNop()
	SLog = Log.Sugar()
)

// Bootstrap installs an info-level logger so failures before the
// configuration is loaded are still reported. If the production logger
// cannot be built, a console logger on stderr is used instead.
func Bootstrap() {
	if err := Init("info"); err != nil {
		l := zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			zapcore.InfoLevel,
		))
		Log = l
		SLog = l.Sugar()
	}
}

// Init builds a production JSON logger at the given level ("debug",
// "info", "warn", "error") and installs it as Log/SLog. On error the
// current loggers are left in place.
func Init(level string) error {
	var lvl zapcore.Level
	if level == "" {
		level = "info"
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Log = l
	SLog = l.Sugar()
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
