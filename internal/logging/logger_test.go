package logging

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	defer SetLogger(nil)

	core := GetLogger().Core()
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !core.Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}

func TestGetLogger_NilFallback(t *testing.T) {
	SetLogger(nil)
	if GetLogger() == nil {
		t.Fatal("GetLogger() should never return nil")
	}
}

func TestLogAPICall(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogAPICall("req-1", "POST", "http://10.42.0.1/api/wifi", 200, 15*time.Millisecond)
	LogAPICall("req-2", "GET", "http://10.42.0.1/api/wifi", 0, time.Second)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}

	first := entries[0].ContextMap()
	if first["status_code"] != int64(200) {
		t.Errorf("status_code = %v, want 200", first["status_code"])
	}
	if first["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", first["request_id"])
	}

	if entries[1].Message != "Robot API call failed" {
		t.Errorf("second message = %q, want %q", entries[1].Message, "Robot API call failed")
	}
	if _, ok := entries[1].ContextMap()["status_code"]; ok {
		t.Error("failed call should not carry a status_code")
	}
}
