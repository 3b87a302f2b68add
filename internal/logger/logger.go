// Package logger wraps zap behind a small interface so packages do not
// depend on the logging backend directly.
package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a structured log field.
type Field = zapcore.Field

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Config controls logger construction.
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json or console
	Development bool
}

type zapLogger struct {
	logger *zap.Logger
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.logger.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.logger.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.logger.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.logger.Error(msg, fields...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{logger: l.logger.With(fields...)}
}

func (l *zapLogger) Sync() error { return l.logger.Sync() }

// New builds a Logger from the given config.
func New(cfg Config) (Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format != "" {
		zcfg.Encoding = cfg.Format
	}

	z, err := zcfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &zapLogger{logger: z}, nil
}

// NewNop returns a Logger that discards all output.
func NewNop() Logger {
	return &zapLogger{logger: zap.NewNop()}
}

// Field constructors, so callers only import this package.

func String(key, val string) Field { return zap.String(key, val) }

func Int(key string, val int) Field { return zap.Int(key, val) }

func Bool(key string, val bool) Field { return zap.Bool(key, val) }

func Strings(key string, val []string) Field { return zap.Strings(key, val) }

func Time(key string, val time.Time) Field { return zap.Time(key, val) }

func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }

func Any(key string, val any) Field { return zap.Any(key, val) }

func Error(err error) Field { return zap.Error(err) }
