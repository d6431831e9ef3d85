package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBareErrorIsKeyed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Error("ScheduleRepository:Upsert", errors.New("connection reset"))
	Info("Queue:Enqueue", "task", "schedule:persist")
	Warn("odd", "dangling")

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	if got := entries[0].ContextMap()["error"]; got != "connection reset" {
		t.Errorf("error field = %v", got)
	}
	if got := entries[1].ContextMap()["task"]; got != "schedule:persist" {
		t.Errorf("task field = %v", got)
	}
	if entries[2].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entries[2].Level)
	}
}

func TestInitFallsBackToInfo(t *testing.T) {
	if err := Init("nonsense", "json"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if get().Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled after an unknown level")
	}
	if !get().Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info disabled after an unknown level")
	}
}

func TestDefaultLoggerReportsCallSite(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mu.Lock()
	sugar = newDefault(zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))
	mu.Unlock()
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Info("ScheduleStore:Load")
	Warn("ScheduleStore:Cache:Get", "user_id", 7)

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if !e.Caller.Defined {
			t.Fatalf("%s: caller not recorded", e.Message)
		}
		if got := filepath.Base(e.Caller.File); got != "logger_test.go" {
			t.Errorf("%s: caller = %s, want logger_test.go", e.Message, e.Caller.String())
		}
	}
}
