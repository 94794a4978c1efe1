package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	root  = newRootLogger()
)

func newRootLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.Sampling = nil
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// SetLevel changes the level of every logger returned by this package
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// Logger returns the logger stored in the context, or the root logger
func Logger(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return root
}

// With returns a copy of ctx whose logger carries the field key=value
func With(ctx context.Context, key string, value interface{}) context.Context {
	return context.WithValue(ctx, loggerKey{}, Logger(ctx).With(zap.Any(key, value)))
}

// Fatal logs the message and exits with status 1
func Fatal(msg string, fields ...zap.Field) {
	root.Fatal(msg, fields...)
}

// Sync flushes the root logger
func Sync() {
	_ = root.Sync()
}
