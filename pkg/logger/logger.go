package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init builds the process-wide logger: the JSON production config when prod
// is set, the colored development config otherwise.
func Init(prod bool, level string) error {
	var cfg zap.Config
	if prod {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the process-wide logger (tests use zaptest/observer here).
func Set(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

func Sync() error { return L().Sync() }
