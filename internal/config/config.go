package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// WorkDir holds per-attempt temporary directories for external pipelines.
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
	// CacheDir is shared with the external model downloads; its lock file
	// serializes primary diarization runs.
	CacheDir string `toml:"cache_dir"`
}

// Diarization configures the preferred external recognition+diarization pipeline.
type Diarization struct {
	Command          string `toml:"command"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	WhisperModel     string `toml:"whisper_model"`
	Device           string `toml:"device"`
	NoStem           bool   `toml:"no_stem"`
	CacheLockSeconds int    `toml:"cache_lock_seconds"`
}

// Fallback configures the diarization-free whisper transcription path.
type Fallback struct {
	Command                 string  `toml:"command"`
	Model                   string  `toml:"model"`
	SilenceThresholdSeconds float64 `toml:"silence_threshold_seconds"`
	PlaceholderText         string  `toml:"placeholder_text"`
}

// Alignment configures the word-level ASR + diarization alignment pipeline.
type Alignment struct {
	ASRCommand         string `toml:"asr_command"`
	DiarizationCommand string `toml:"diarization_command"`
	ASRModel           string `toml:"asr_model"`
	DiarizationModel   string `toml:"diarization_model"`
	HFToken            string `toml:"hf_token"`
	ModelDir           string `toml:"model_dir"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
	MaxSizeMB     int    `toml:"max_size_mb"`
	MaxBackups    int    `toml:"max_backups"`
}

// Metrics configures the optional Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for scribe.
//
// Configuration sections by subsystem:
//   - Paths: work, log and model cache directories
//   - Diarization: preferred external pipeline command, timeout and flags
//   - Fallback: whisper-only transcription and speaker alternation
//   - Alignment: word-level ASR and diarization commands and models
//   - Logging: log format, level, and rotation
//   - Metrics: Prometheus textfile output
type Config struct {
	Paths       Paths       `toml:"paths"`
	Diarization Diarization `toml:"diarization"`
	Fallback    Fallback    `toml:"fallback"`
	Alignment   Alignment   `toml:"alignment"`
	Logging     Logging     `toml:"logging"`
	Metrics     Metrics     `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work, log and cache directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir, c.Paths.CacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PrimaryTimeout returns the wall-clock budget of the preferred pipeline.
func (c *Config) PrimaryTimeout() time.Duration {
	return time.Duration(c.Diarization.TimeoutSeconds) * time.Second
}

// CacheLockTimeout bounds how long a run waits for the model cache lock.
func (c *Config) CacheLockTimeout() time.Duration {
	return time.Duration(c.Diarization.CacheLockSeconds) * time.Second
}

// AlignmentTimeout bounds each alignment pipeline subprocess.
func (c *Config) AlignmentTimeout() time.Duration {
	return time.Duration(c.Alignment.TimeoutSeconds) * time.Second
}

// CacheLockPath is the lock file guarding the shared model cache.
func (c *Config) CacheLockPath() string {
	return filepath.Join(c.Paths.CacheDir, "diarization.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}

// Redacted returns a copy with credentials masked, suitable for display.
func (c Config) Redacted() Config {
	if c.Alignment.HFToken != "" {
		c.Alignment.HFToken = "********"
	}
	return c
}
