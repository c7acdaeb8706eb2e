package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/services"
)

func TestConfigLoggerWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	opts := logging.OptionsFromConfig(&cfg)
	opts.Writer = &bytes.Buffer{}
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("file message", logging.String("audio", "a.wav"))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "file message") {
		t.Fatalf("expected message in log file, got %q", string(data))
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Fatalf("log file must not contain ANSI codes: %q", string(data))
	}
}

func TestConsoleHandlerPrefixesComponentAndStage(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := services.WithStage(services.WithRunID(context.Background(), "run-1"), "primary")
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "fallback"))
	logger.Debug("attempt finished", logging.Int("exit_code", 2), logging.String("reason", "no output"))

	line := buf.String()
	for _, fragment := range []string{"DEBUG", "fallback/primary: attempt finished", "run_id=run-1", "exit_code=2", `reason="no output"`} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("degraded", logging.String("reason", "timeout"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v (%q)", err, buf.String())
	}
	if payload["level"] != "warn" || payload["msg"] != "degraded" || payload["reason"] != "timeout" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key: %#v", payload)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logging.WarnWithContext(logger, "shown", "primary_failed")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered: %q", out)
	}
	if !strings.Contains(out, "event_type=primary_failed") || !strings.Contains(out, "impact=") {
		t.Fatalf("expected enforced warn fields: %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestColorOnlyWhenRequested(t *testing.T) {
	var plain, colored bytes.Buffer
	on := true
	l1, _ := logging.New(logging.Options{Writer: &plain})
	l2, _ := logging.New(logging.Options{Writer: &colored, Color: &on})
	l1.Error("x")
	l2.Error("x")
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("buffer writer should not be colorized: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[31mERROR") {
		t.Fatalf("expected red level label: %q", colored.String())
	}
}
