package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestResolveLogFilePathFallsBackToWorkDir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{Dir: "  ", Filename: " "})
	if err != nil {
		t.Fatalf("resolve log path failed: %v", err)
	}
	realTmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("resolve tmp dir failed: %v", err)
	}
	realGot, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolve log dir failed: %v", err)
	}
	if realGot != filepath.Join(realTmpDir, defaultLogDirName) {
		t.Fatalf("unexpected log dir: %s", realGot)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("unexpected log filename: %s", filepath.Base(got))
	}
}

func TestReleaseLoggerWritesJSONLines(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "release.log"})
	log.Sugar().Infow("order_status_changed", "order_id", 42)
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, `"message":"order_status_changed"`) {
		t.Fatalf("expected json message field, got=%s", line)
	}
	if !strings.Contains(line, `"order_id":42`) {
		t.Fatalf("expected structured field, got=%s", line)
	}
}

func TestDebugLoggerSkipsFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("DEBUG", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestZFallsBackWhenUninitialized(t *testing.T) {
	previous := L
	L = nil
	t.Cleanup(func() { L = previous })

	if Z() == nil {
		t.Fatalf("fallback logger should not be nil")
	}
	if SW("k", "v") == nil {
		t.Fatalf("sugared logger with fields should not be nil")
	}
}

func TestLevelOptionFiltersReleaseOutput(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "warn.log", Level: "WARN"})
	log.Info("sweep_skipped")
	log.Warn("lease_expired")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "warn.log"))
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	if strings.Contains(string(content), "sweep_skipped") || !strings.Contains(string(content), "lease_expired") {
		t.Fatalf("level filter not applied: %s", content)
	}
}

func TestParseLevelFallback(t *testing.T) {
	if got := parseLevel("verbose", false).Level(); got != zapcore.InfoLevel {
		t.Fatalf("invalid level should fall back to info, got %s", got)
	}
	if got := parseLevel("", true).Level(); got != zapcore.DebugLevel {
		t.Fatalf("debug mode default want debug got %s", got)
	}
}
