package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
)

// Stub command names wired into configs produced by NewConfig.
const (
	DiarizeCommand      = "whisper-diarize"
	WhisperCommand      = "whisper"
	ASRCommand          = "reverb-asr"
	AlignDiarizeCommand = "reverb-diarize"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// External commands point at bare names so tests can stub them on PATH.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = ""
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Diarization.Command = DiarizeCommand
	cfgVal.Diarization.CacheLockSeconds = 1
	cfgVal.Fallback.Command = WhisperCommand
	cfgVal.Fallback.Model = cfgVal.Diarization.WhisperModel
	cfgVal.Alignment.ASRCommand = ASRCommand
	cfgVal.Alignment.DiarizationCommand = AlignDiarizeCommand
	cfgVal.Alignment.ModelDir = filepath.Join(base, "models")
	cfgVal.Alignment.HFToken = "hf-test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithHFToken sets the alignment credential on the test config.
func WithHFToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Alignment.HFToken = token
	}
}

// WithPrimaryTimeout overrides the primary diarization budget in seconds.
func WithPrimaryTimeout(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Diarization.TimeoutSeconds = seconds
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, every external command of the
// generated config is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{DiarizeCommand, WhisperCommand, ASRCommand, AlignDiarizeCommand}
		}
		for _, name := range names {
			writeScript(b, name, "exit 0\n")
		}
	}
}

// WithScript writes an executable shell script with the given body under
// the stub bin directory, which is prepended to PATH.
func WithScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		writeScript(b, name, body)
	}
}

func writeScript(b *configBuilder, name, body string) {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	prependPath(b.t, binDir)
}

func prependPath(t testing.TB, dir string) {
	oldPath := os.Getenv("PATH")
	if strings.HasPrefix(oldPath, dir+string(os.PathListSeparator)) {
		return
	}
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
