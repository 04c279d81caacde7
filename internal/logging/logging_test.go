package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})
	Component(l, "planner").Debug("planned", "trip_id", "trip_1")

	out := buf.String()
	if !strings.Contains(out, `"component":"planner"`) {
		t.Errorf("expected component attr, got %q", out)
	}
	if !strings.Contains(out, `"trip_id":"trip_1"`) {
		t.Errorf("expected trip_id attr, got %q", out)
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})
	l.Info("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn line missing")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected non-nil logger")
	}
	OrNop(nil).Error("discarded")
}
