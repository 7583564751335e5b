package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l, closer := New(Options{Level: "debug"}, &buf)
	defer closer.Close()

	WithComponent(l, "tracker").Debug("frame dropped", "view", "main", "reason", "queue full")

	line := strings.TrimSpace(buf.String())
	for _, want := range []string{"DBG", "frame dropped", "component=tracker", "view=main", `reason="queue full"`} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestNew_ConsoleGroups(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Options{}, &buf)

	l.WithGroup("hand").Info("seen", "side", "Left", slog.Group("tip", "x", 1.5))

	line := buf.String()
	if !strings.Contains(line, "hand.side=Left") || !strings.Contains(line, "hand.tip.x=1.5") {
		t.Errorf("expected grouped keys, got %q", line)
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Options{Level: "warn"}, &buf)

	l.Info("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("expected info to be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected warn to be written")
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Options{Format: "JSON"}, &buf)

	WithComponent(l, "store").Info("opened", "path", "/tmp/x.db")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if m["component"] != "store" || m["msg"] != "opened" || m["path"] != "/tmp/x.db" {
		t.Errorf("unexpected record %v", m)
	}
}

func TestNew_FileAlsoWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mudra.log")
	var console bytes.Buffer

	l, closer := New(Options{Level: "info", File: path}, &console)
	l.Info("hello world", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !strings.Contains(console.String(), "hello world") {
		t.Errorf("expected console output, got %q", console.String())
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if m["msg"] != "hello world" || m["k"] != "v" {
		t.Errorf("unexpected file record %v", m)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
