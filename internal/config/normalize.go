package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDiarization()
	c.normalizeFallback()
	if err := c.normalizeAlignment(); err != nil {
		return err
	}
	c.normalizeLogging()
	return c.normalizeMetrics()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDiarization() {
	c.Diarization.Command = strings.TrimSpace(c.Diarization.Command)
	c.Diarization.WhisperModel = strings.TrimSpace(c.Diarization.WhisperModel)
	if c.Diarization.WhisperModel == "" {
		c.Diarization.WhisperModel = defaultWhisperModel
	}
	c.Diarization.Device = strings.ToLower(strings.TrimSpace(c.Diarization.Device))
	if c.Diarization.Device == "" {
		c.Diarization.Device = defaultDevice
	}
}

func (c *Config) normalizeFallback() {
	c.Fallback.Command = strings.TrimSpace(c.Fallback.Command)
	if c.Fallback.Command == "" {
		c.Fallback.Command = defaultFallbackCommand
	}
	c.Fallback.Model = strings.TrimSpace(c.Fallback.Model)
	if c.Fallback.Model == "" {
		c.Fallback.Model = c.Diarization.WhisperModel
	}
	c.Fallback.PlaceholderText = strings.TrimSpace(c.Fallback.PlaceholderText)
	if c.Fallback.PlaceholderText == "" {
		c.Fallback.PlaceholderText = defaultPlaceholderText
	}
}

func (c *Config) normalizeAlignment() error {
	if c.Alignment.HFToken == "" {
		if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Alignment.HFToken = strings.TrimSpace(value)
		}
	}
	c.Alignment.ASRCommand = strings.TrimSpace(c.Alignment.ASRCommand)
	c.Alignment.DiarizationCommand = strings.TrimSpace(c.Alignment.DiarizationCommand)
	if strings.TrimSpace(c.Alignment.ASRModel) == "" {
		c.Alignment.ASRModel = defaultASRModel
	}
	if strings.TrimSpace(c.Alignment.DiarizationModel) == "" {
		c.Alignment.DiarizationModel = defaultDiarizationModel
	}
	if strings.TrimSpace(c.Alignment.ModelDir) == "" {
		c.Alignment.ModelDir = defaultModelDir
	}
	var err error
	if c.Alignment.ModelDir, err = expandPath(c.Alignment.ModelDir); err != nil {
		return fmt.Errorf("alignment.model_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}
