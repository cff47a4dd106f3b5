package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "accord.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("loaded %d result files", 3)
	LogAnalysis("agreement", "score", map[string]any{"files": 3})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "loaded 3 result files") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[ANALYZE] kind=agreement mode=score") {
		t.Fatalf("expected LogAnalysis content, got: %s", content)
	}
	if !strings.Contains(content, `details={"files":3}`) {
		t.Fatalf("expected analysis payload, got: %s", content)
	}
}

func TestBuildAnalysisMessageDefaults(t *testing.T) {
	msg := buildAnalysisMessage(" ", "", map[string]any{"ok": true})
	if !strings.Contains(msg, "[ANALYZE]") {
		t.Fatalf("expected analysis tag, got: %s", msg)
	}
	if !strings.Contains(msg, "kind=unknown") {
		t.Fatalf("expected default kind, got: %s", msg)
	}
	if !strings.Contains(msg, "mode=unknown") {
		t.Fatalf("expected default mode, got: %s", msg)
	}
	if !strings.Contains(msg, `details={"ok":true}`) {
		t.Fatalf("expected payload json, got: %s", msg)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
}

func TestInitWithoutFile(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if err := Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}
