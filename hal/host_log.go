//go:build !tinygo

package hal

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap builds the host zap logger: colored console output in development mode,
// JSON otherwise.
func NewZap(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = !development
	return cfg.Build()
}

type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Log(level Level, msg string) {
	switch level {
	case LevelDebug:
		l.z.Debug(msg)
	case LevelWarn:
		l.z.Warn(msg)
	case LevelError:
		l.z.Error(msg)
	default:
		l.z.Info(msg)
	}
}

// Sync flushes buffered log entries.
func (l *zapLogger) Sync() error {
	return l.z.Sync()
}
