package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledLoggingIsNoOp(t *testing.T) {
	if err := Initialize("", false, "info"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer CloseAll()

	l := Get(CategoryBoot)
	l.Info("should go nowhere")
	l.Error("also nowhere")

	if l.logger != nil {
		t.Error("expected no-op logger when disabled")
	}
}

func TestEnabledLoggingWritesCategoryFile(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, true, "debug"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer func() {
		CloseAll()
		// Reset global state for other tests.
		_ = Initialize("", false, "info")
	}()

	Get(CategorySOD).Info("loaded %d branch records", 42)
	CloseAll()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}
	if !strings.Contains(entries[0].Name(), "sod") {
		t.Errorf("log file %q not named after category", entries[0].Name())
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "loaded 42 branch records") {
		t.Errorf("log file missing expected message, got: %s", data)
	}
}

func TestLevelFilter(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, true, "warn"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer func() {
		CloseAll()
		_ = Initialize("", false, "info")
	}()

	l := Get(CategoryMatch)
	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	CloseAll()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "info msg") || strings.Contains(out, "debug msg") {
		t.Errorf("level filter leaked lower-level messages: %s", out)
	}
	if !strings.Contains(out, "warn msg") {
		t.Errorf("warn message missing: %s", out)
	}
}
