// Package logger wraps zap behind a small interface so packages log
// structured fields without depending on zap configuration.
package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface used across oneshop.
// The f-suffixed methods format like fmt; the others take structured fields.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)

	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})

	// With returns a child logger that adds fields to every entry.
	With(fields ...zap.Field) Logger

	Sync() error
}

type zapLogger struct {
	*zap.Logger
	sugar *zap.SugaredLogger
}

// New builds a logger at the given level ("debug", "info", "warn", "error").
// pretty selects colored console output, otherwise JSON lines are written.
// An unknown level keeps zap's default of info.
func New(level string, pretty bool) Logger {
	cfg := zap.NewProductionConfig()
	if pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if lvl, ok := parseLevel(level); ok {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	base, err := cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		panic(err)
	}
	return wrap(base)
}

func wrap(base *zap.Logger) *zapLogger {
	return &zapLogger{Logger: base, sugar: base.Sugar()}
}

// Component returns a child logger tagged with a component name.
func Component(l Logger, name string) Logger {
	return l.With(zap.String("component", name))
}

func parseLevel(s string) (zapcore.Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zapcore.InfoLevel, false
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

func (l *zapLogger) Debugf(t string, args ...interface{}) { l.sugar.Debugf(t, args...) }
func (l *zapLogger) Infof(t string, args ...interface{})  { l.sugar.Infof(t, args...) }
func (l *zapLogger) Warnf(t string, args ...interface{})  { l.sugar.Warnf(t, args...) }
func (l *zapLogger) Errorf(t string, args ...interface{}) { l.sugar.Errorf(t, args...) }
func (l *zapLogger) Fatalf(t string, args ...interface{}) { l.sugar.Fatalf(t, args...) }

func (l *zapLogger) With(fields ...zap.Field) Logger { return wrap(l.Logger.With(fields...)) }

// Field helpers, so callers need not import zap.

func String(key, val string) zap.Field                 { return zap.String(key, val) }
func Strings(key string, val []string) zap.Field       { return zap.Strings(key, val) }
func Int(key string, val int) zap.Field                { return zap.Int(key, val) }
func Int64(key string, val int64) zap.Field            { return zap.Int64(key, val) }
func Bool(key string, val bool) zap.Field              { return zap.Bool(key, val) }
func Duration(key string, val time.Duration) zap.Field { return zap.Duration(key, val) }
func Error(err error) zap.Field                        { return zap.Error(err) }
