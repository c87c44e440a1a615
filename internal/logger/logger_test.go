package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	var text, js bytes.Buffer
	New(Config{Output: &text, Format: "text"}).Info("hello", "n", 1)
	New(Config{Output: &js, Format: "json"}).Info("hello", "n", 1)

	if !strings.Contains(text.String(), "msg=hello n=1") {
		t.Errorf("Unexpected text output %q", text.String())
	}
	if !strings.Contains(js.String(), `"msg":"hello","n":1`) {
		t.Errorf("Unexpected json output %q", js.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Output: &buf, Format: "json"}).WithComponent("lookup").Info("ready")

	if !strings.Contains(buf.String(), `"component":"lookup"`) {
		t.Errorf("Expected component attribute in output, got %s", buf.String())
	}
}

func TestWithProvider(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Level: "info", Format: "json"})
	logger.WithProvider("musicbrainz").Info("searching")

	if !strings.Contains(buf.String(), `"provider":"musicbrainz"`) {
		t.Errorf("Expected provider attribute in output, got %s", buf.String())
	}
}

func TestWithLookup(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Level: "info", Format: "text"})
	logger.WithLookup("lookup-123", "title:Song").Info("done")

	out := buf.String()
	if !strings.Contains(out, "lookup_id=lookup-123") {
		t.Errorf("Expected lookup_id attribute in output, got %s", out)
	}
	if !strings.Contains(out, `query=title:Song`) {
		t.Errorf("Expected query attribute in output, got %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Level: "warn", Format: "text"})
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("Expected info record to be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("Expected warn record to be written")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"invalid": slog.LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger == nil {
		t.Fatal("Expected discard logger to not be nil")
	}
	logger.Error("nothing happens")
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Error("Expected default logger to not be nil")
	}
}
