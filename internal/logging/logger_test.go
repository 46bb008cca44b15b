package logging_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"airguide/internal/logging"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleOutputIncludesComponentPrefix(t *testing.T) {
	path := t.TempDir() + "/out.log"
	logger, err := logging.New(logging.Options{
		Level:            "debug",
		Format:           "console",
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logging.WithComponent(logger, "schedule").Info("generated",
		logging.String(logging.FieldChannelID, "retro"),
		logging.Int(logging.FieldCount, 7),
	)

	data := readFile(t, path)
	line := strings.TrimSpace(data)
	if !strings.Contains(line, " INFO schedule: generated") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "channel_id=retro") || !strings.Contains(line, "count=7") {
		t.Fatalf("missing attributes in console line: %q", line)
	}
}

func TestJSONOutputUsesLowercaseLevel(t *testing.T) {
	path := t.TempDir() + "/out.log"
	logger, err := logging.New(logging.Options{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Warn("pool empty", logging.Int(logging.FieldPool, 0))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readFile(t, path))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if payload["msg"] != "pool empty" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
}

func TestDebugBelowConfiguredLevelIsDropped(t *testing.T) {
	path := t.TempDir() + "/out.log"
	logger, err := logging.New(logging.Options{
		Level:            "warn",
		Format:           "console",
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("should not appear")
	if got := strings.TrimSpace(readFile(t, path)); got != "" {
		t.Fatalf("expected empty log, got %q", got)
	}
}
