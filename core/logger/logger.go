package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = newDefault()
)

// Entries report the caller of Debug/Info/Warn/Error, not this package.
var skipWrapper = zap.AddCallerSkip(1)

func newDefault(opts ...zap.Option) *zap.SugaredLogger {
	l, err := zap.NewDevelopment(append([]zap.Option{skipWrapper}, opts...)...)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Init replaces the package logger. level is one of debug, info, warn, error;
// format "json" selects the production encoder, anything else the console one.
func Init(level string, format string) error {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(skipWrapper)
	if err != nil {
		return err
	}

	mu.Lock()
	sugar = l.Sugar()
	mu.Unlock()
	return nil
}

// SetLogger installs an already built logger, mostly for tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	sugar = l.Sugar()
	mu.Unlock()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs msg with alternating key/value pairs.
func Debug(msg string, keysAndValues ...any) {
	get().Debugw(msg, normalize(keysAndValues)...)
}

func Info(msg string, keysAndValues ...any) {
	get().Infow(msg, normalize(keysAndValues)...)
}

func Warn(msg string, keysAndValues ...any) {
	get().Warnw(msg, normalize(keysAndValues)...)
}

func Error(msg string, keysAndValues ...any) {
	get().Errorw(msg, normalize(keysAndValues)...)
}

// Sync flushes buffered entries.
func Sync() {
	_ = get().Sync()
}

// normalize lets call sites pass a bare error as the only argument,
// e.g. logger.Error("Repo:Create", err).
func normalize(kv []any) []any {
	if len(kv)%2 == 0 {
		return kv
	}
	if err, ok := kv[0].(error); ok {
		return append([]any{"error", err}, kv[1:]...)
	}
	return append(kv, "(MISSING)")
}
