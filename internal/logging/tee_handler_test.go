package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if got := TeeHandler(nil, inner); got != inner {
		t.Fatal("expected single handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsEachLevel(t *testing.T) {
	var console, file bytes.Buffer
	h := TeeHandler(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug to be enabled through the file handler")
	}

	logger := slog.New(h).With("run_id", "r1").WithGroup("primary")
	logger.Debug("attempt", "exit_code", 1)
	logger.Warn("fell back")

	if strings.Contains(console.String(), "attempt") {
		t.Fatalf("console should not receive debug: %q", console.String())
	}
	if !strings.Contains(console.String(), "fell back") {
		t.Fatalf("console missing warn: %q", console.String())
	}
	out := file.String()
	for _, want := range []string{`"msg":"attempt"`, `"run_id":"r1"`, `"primary":{"exit_code":1}`, `"msg":"fell back"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("file output missing %s: %q", want, out)
		}
	}
}
