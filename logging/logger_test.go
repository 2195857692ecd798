package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syncLogger calls Sync() and ignores the "invalid argument" error that
// syncing stdout returns on Linux.
func syncLogger(t testing.TB, logger *Logger) {
	t.Helper()
	if err := logger.Sync(); err != nil {
		if strings.Contains(err.Error(), "invalid argument") {
			return
		}
		t.Logf("Sync() warning: %v", err)
	}
}

func TestNewLogger_Development(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_dev.log")

	logger, err := NewLogger(true, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	if !logger.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	if logger.LogFilePath() != logPath {
		t.Errorf("LogFilePath() = %q, want %q", logger.LogFilePath(), logPath)
	}

	logger.Info("test message", zap.String("key", "value"))

	syncLogger(t, logger)

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("log file stat error: %v", err)
	}
	if info.Size() == 0 {
		t.Error("log file is empty, expected content")
	}
}

func TestNewLogger_Production(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_prod.log")

	logger, err := NewLogger(false, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	if logger.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}

	logger.Info("production message", zap.Int("count", 42))

	syncLogger(t, logger)

	// Production file output must be JSON
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("log file content is not valid JSON: %v\nContent: %s", err, content)
	}

	if _, ok := logEntry["message"]; !ok {
		t.Error("log entry missing 'message' field")
	}
	if _, ok := logEntry["level"]; !ok {
		t.Error("log entry missing 'level' field")
	}
}

func TestNewLogger_InvalidPath(t *testing.T) {
	_, err := NewLogger(true, "/nonexistent/directory/that/does/not/exist/test.log")
	if err == nil {
		t.Error("NewLogger() with invalid path should return error")
	}
}

func TestNewLogger_LevelFromEnvironment(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_env_level.log")

	// Development mode normally logs at debug; the env override wins
	logger, err := NewLogger(true, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	logger.Debug("suppressed debug")
	logger.Info("suppressed info")
	logger.Error("visible error")

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	contentStr := string(content)
	if strings.Contains(contentStr, "suppressed debug") || strings.Contains(contentStr, "suppressed info") {
		t.Errorf("entries below the env level should be filtered, got: %s", contentStr)
	}
	if !strings.Contains(contentStr, "visible error") {
		t.Error("error entry missing despite env level = error")
	}
}

func TestNewLoggerWithConfig(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_config.log")

	config := FileWriterConfig{
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   false,
	}

	logger, err := NewLoggerWithConfig(true, logPath, config)
	if err != nil {
		t.Fatalf("NewLoggerWithConfig() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	logger.Info("config test message")

	syncLogger(t, logger)

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("log file stat error: %v", err)
	}
	if info.Size() == 0 {
		t.Error("log file is empty, expected content")
	}
}

func TestLogger_AllLogLevels(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_levels.log")

	logger, err := NewLogger(true, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	// All levels except Fatal, which would terminate the test run
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) < 4 {
		t.Errorf("expected at least 4 log entries, got %d", len(lines))
	}
}

func TestLogger_SugaredMethods(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_sugar.log")

	logger, err := NewLogger(true, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	logger.Debugw("debug with fields", "key1", "value1")
	logger.Infow("info with fields", "key2", "value2", "count", 42)
	logger.Warnw("warn with fields", "warning", "something")
	logger.Errorw("error with fields", "error", "test error")

	logger.Debugf("debug formatted: %s", "test")
	logger.Infof("info formatted: %d", 123)
	logger.Warnf("warn formatted: %v", true)
	logger.Errorf("error formatted: %s", "oops")

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) < 8 {
		t.Errorf("expected at least 8 log entries, got %d", len(lines))
	}
}

func TestLogger_SensitiveDataRedaction_StructuredFields(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_redact_struct.log")

	logger, err := NewLogger(false, logPath) // Production mode for JSON
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	// Sensitive field name
	logger.Info("auth configured",
		zap.String("PIXLAB_API_KEY", "0123456789abcdef0123456789abcdef"),
		zap.String("host", "localhost"))

	// Sensitive pattern in a value under a harmless key
	logger.Info("config loaded",
		zap.String("env", "api_key=verysecretvalue42"))

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	contentStr := string(content)

	if strings.Contains(contentStr, "0123456789abcdef0123456789abcdef") {
		t.Error("log file contains unredacted API key")
	}
	if strings.Contains(contentStr, "verysecretvalue42") {
		t.Error("log file contains unredacted api_key assignment")
	}
	if !strings.Contains(contentStr, RedactedPlaceholder) {
		t.Error("log file does not contain redaction placeholder")
	}
	if !strings.Contains(contentStr, "localhost") {
		t.Error("log file missing non-sensitive data 'localhost'")
	}
}

func TestLogger_SensitiveDataRedaction_SugaredFields(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_redact_sugar.log")

	logger, err := NewLogger(false, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	logger.Infow("api configured",
		"API_KEY", "fedcba9876543210fedcba9876543210",
		"endpoint", "http://localhost:3000")

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	contentStr := string(content)

	if strings.Contains(contentStr, "fedcba9876543210fedcba9876543210") {
		t.Error("log file contains unredacted API key in sugared log")
	}
	if !strings.Contains(contentStr, "http://localhost:3000") {
		t.Error("log file missing non-sensitive endpoint URL")
	}
}

func TestLogger_With(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_with.log")

	logger, err := NewLogger(false, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	opLogger := logger.With(
		zap.String("op_id", "op-abc123"),
		zap.String("op", "grayscale"))

	opLogger.Info("transform started")
	opLogger.Info("transform complete")

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	contentStr := string(content)

	if strings.Count(contentStr, "op-abc123") != 2 {
		t.Error("expected op_id to appear in both log entries")
	}
	if strings.Count(contentStr, "grayscale") != 2 {
		t.Error("expected op to appear in both log entries")
	}
}

func TestLogger_With_SensitiveDataRedaction(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_with_redact.log")

	logger, err := NewLogger(false, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	sensitiveLogger := logger.With(
		zap.String("API_KEY", "deadbeefdeadbeefdeadbeefdeadbeef"))

	sensitiveLogger.Info("using sensitive context")

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	if strings.Contains(string(content), "deadbeefdeadbeef") {
		t.Error("With() should redact sensitive context fields")
	}
}

func TestLogger_Named(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_named.log")

	logger, err := NewLogger(false, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	httpLogger := logger.Named("http")
	dbLogger := logger.Named("db")

	httpLogger.Info("handling http request")
	dbLogger.Info("executing query")

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, `"source":"http"`) {
		t.Error("log file missing 'http' logger name")
	}
	if !strings.Contains(contentStr, `"source":"db"`) {
		t.Error("log file missing 'db' logger name")
	}
}

func TestLogger_Sync_NilLogger(t *testing.T) {
	var nilLogger *Logger
	// Should not panic
	err := nilLogger.Sync()
	if err != nil {
		t.Errorf("Sync() on nil logger should return nil, got: %v", err)
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	if logger == nil {
		t.Fatal("NewNop() returned nil")
	}

	// Must accept all calls without output or panic
	logger.Debug("dropped")
	logger.Info("dropped", zap.Int("n", 1))
	logger.Warn("dropped")
	logger.Error("dropped")
	logger.Infow("dropped", "k", "v")
	logger.Infof("dropped %d", 1)

	child := logger.Named("child").With(zap.String("k", "v"))
	child.Info("dropped")

	if err := logger.Sync(); err != nil {
		t.Errorf("Sync() on nop logger returned error: %v", err)
	}
}

func TestLogger_Accessors(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_accessors.log")

	logger, err := NewLogger(true, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	if logger.Sugar() == nil {
		t.Error("Sugar() returned nil")
	}
	if logger.Zap() == nil {
		t.Error("Zap() returned nil")
	}
}

func TestRedactFields_Empty(t *testing.T) {
	logger := NewNop()

	fields := logger.redactFields(nil)
	if fields != nil {
		t.Errorf("redactFields(nil) should return nil, got %v", fields)
	}

	fields = logger.redactFields([]zap.Field{})
	if len(fields) != 0 {
		t.Errorf("redactFields([]) should return empty slice, got %d items", len(fields))
	}
}

func TestRedactKeysAndValues_Empty(t *testing.T) {
	logger := NewNop()

	kv := logger.redactKeysAndValues(nil)
	if kv != nil {
		t.Errorf("redactKeysAndValues(nil) should return nil, got %v", kv)
	}

	kv = logger.redactKeysAndValues([]interface{}{})
	if len(kv) != 0 {
		t.Errorf("redactKeysAndValues([]) should return empty slice, got %d items", len(kv))
	}
}

func TestRedactKeysAndValues_OddLength(t *testing.T) {
	logger := NewNop()

	// Odd-length slice: last item has no value
	kv := logger.redactKeysAndValues([]interface{}{"key1", "value1", "orphan"})
	if len(kv) != 3 {
		t.Errorf("expected 3 items, got %d", len(kv))
	}
}

func TestRedactKeysAndValues_NonStringKey(t *testing.T) {
	logger := NewNop()

	kv := logger.redactKeysAndValues([]interface{}{123, "value1", "key2", "value2"})
	if len(kv) != 4 {
		t.Errorf("expected 4 items, got %d", len(kv))
	}
	// Value unchanged since key is not a string
	if kv[1] != "value1" {
		t.Errorf("expected 'value1', got %v", kv[1])
	}
}

// TestLogger_Integration tests the full logging pipeline
func TestLogger_Integration(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_integration.log")

	logger, err := NewLogger(false, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}

	opLogger := logger.Named("transform").With(
		zap.String("op_id", "op-123"),
	)

	opLogger.Info("transform started",
		zap.String("op", "rotate_90_cw"),
		zap.Int("width", 1920))

	opLogger.Warn("slow transform",
		zap.Int("duration_ms", 1500))

	opLogger.Error("transform failed",
		zap.String("error", "buffer length mismatch"),
		zap.String("PIXLAB_API_KEY", "cafebabecafebabecafebabecafebabe"))

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	lines := bytes.Split(bytes.TrimSpace(content), []byte("\n"))
	if len(lines) != 3 {
		t.Errorf("expected 3 log entries, got %d", len(lines))
	}

	for i, line := range lines {
		var entry map[string]interface{}
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Errorf("line %d: invalid JSON: %v", i, err)
			continue
		}

		if _, ok := entry["message"]; !ok {
			t.Errorf("line %d: missing 'message' field", i)
		}
		if _, ok := entry["level"]; !ok {
			t.Errorf("line %d: missing 'level' field", i)
		}
		if _, ok := entry["timestamp"]; !ok {
			t.Errorf("line %d: missing 'timestamp' field", i)
		}

		if _, ok := entry["op_id"]; !ok {
			t.Errorf("line %d: missing 'op_id' context field", i)
		}
	}

	contentStr := string(content)
	if strings.Contains(contentStr, "cafebabecafebabe") {
		t.Error("log file contains unredacted API key")
	}
	if !strings.Contains(contentStr, RedactedPlaceholder) {
		t.Error("log file missing redaction placeholder")
	}
}

// Benchmark tests

func BenchmarkLogger_Info(b *testing.B) {
	tmpDir := b.TempDir()
	logPath := filepath.Join(tmpDir, "bench.log")

	logger, err := NewLogger(false, logPath)
	if err != nil {
		b.Fatalf("NewLogger() error: %v", err)
	}
	defer logger.Sync()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message",
			zap.String("op", "grayscale"),
			zap.Int("count", i))
	}
}

func BenchmarkLogger_WithRedaction(b *testing.B) {
	tmpDir := b.TempDir()
	logPath := filepath.Join(tmpDir, "bench_redact.log")

	logger, err := NewLogger(false, logPath)
	if err != nil {
		b.Fatalf("NewLogger() error: %v", err)
	}
	defer logger.Sync()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark with sensitive data",
			zap.String("API_KEY", "0123456789abcdef0123456789abcdef"),
			zap.String("normal", "value"))
	}
}

// TestLogger_WithOptions verifies WithOptions creates a working child logger
func TestLogger_WithOptions(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test_with_options.log")

	logger, err := NewLogger(true, logPath)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	defer syncLogger(t, logger)

	childLogger := logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	if childLogger == nil {
		t.Fatal("WithOptions() returned nil")
	}

	childLogger.Error("error with stack")

	syncLogger(t, logger)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	if len(content) == 0 {
		t.Error("log file is empty after WithOptions logging")
	}
}
