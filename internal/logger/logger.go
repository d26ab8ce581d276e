package logger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var global atomic.Pointer[zap.SugaredLogger]

func init() {
	global.Store(zap.NewNop().Sugar())
}

// Init builds the process-wide logger. Development mode uses the console encoder.
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	global.Store(l.Sugar())
	return nil
}

// Set replaces the process-wide logger.
func Set(l *zap.Logger) {
	global.Store(l.Sugar())
}

// Sync flushes buffered entries.
func Sync() {
	_ = global.Load().Sync()
}

// With returns a context whose log lines carry the given key/value pairs.
func With(ctx context.Context, keysAndValues ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, fromContext(ctx).With(keysAndValues...))
}

func fromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}
	return global.Load()
}

func Debugf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Debugf(template, args...)
}

func Infof(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Infof(template, args...)
}

func Warnf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Warnf(template, args...)
}

func Errorf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Errorf(template, args...)
}

func Fatalf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Fatalf(template, args...)
}
