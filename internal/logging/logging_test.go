package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTraceWritesJSONWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trace.log")
	Configure(path)
	SetTraceEnabled(true)
	t.Cleanup(func() {
		SetTraceEnabled(false)
		Configure("")
	})

	Trace("panel.load", map[string]interface{}{"panel": "categories"})
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("decode trace entry: %v (%q)", err, data)
	}
	if entry.Event != "panel.load" {
		t.Fatalf("expected event panel.load, got %q", entry.Event)
	}
	if entry.Payload["panel"] != "categories" {
		t.Fatalf("unexpected payload %#v", entry.Payload)
	}
}

func TestTraceSkippedWhenDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	Configure(path)
	SetTraceEnabled(false)
	t.Cleanup(func() { Configure("") })

	Trace("ignored", nil)
	Close()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file, stat err = %v", err)
	}
}

func TestErrorAppendsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	Configure(path)
	t.Cleanup(func() { Configure("") })

	Error(nil)
	Error(errors.New("query failed"))
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "query failed") {
		t.Fatalf("expected error line, got %q", data)
	}
	if strings.Count(string(data), "\n") != 1 {
		t.Fatalf("expected a single line, got %q", data)
	}
}
