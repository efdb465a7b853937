package vrr

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultIsSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("expected a non-nil default logger")
	}
	if l.Enabled(nil, slog.LevelError) {
		t.Error("expected the default logger to discard everything")
	}
	// Must not panic.
	l.Info("ignored")
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	Logger().Info("pool created", "workers", 4)

	out := buf.String()
	if !strings.Contains(out, "pool created") || !strings.Contains(out, "workers=4") {
		t.Errorf("expected log output, got %q", out)
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	SetLogger(nil)

	Logger().Info("should vanish")

	if buf.Len() != 0 {
		t.Errorf("expected no output after SetLogger(nil), got %q", buf.String())
	}
}
