package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDiarization(); err != nil {
		return err
	}
	if err := c.validateFallback(); err != nil {
		return err
	}
	if err := c.validateAlignment(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDiarization() error {
	if c.Diarization.TimeoutSeconds <= 0 {
		return errors.New("diarization.timeout_seconds must be positive")
	}
	if c.Diarization.CacheLockSeconds < 0 {
		return errors.New("diarization.cache_lock_seconds must be >= 0")
	}
	switch c.Diarization.Device {
	case "cpu", "cuda", "mps":
	default:
		return fmt.Errorf("diarization.device: unsupported value %q (use cpu, cuda or mps)", c.Diarization.Device)
	}
	return nil
}

func (c *Config) validateFallback() error {
	if c.Fallback.SilenceThresholdSeconds <= 0 {
		return errors.New("fallback.silence_threshold_seconds must be positive")
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if c.Alignment.TimeoutSeconds <= 0 {
		return errors.New("alignment.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 || c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		return errors.New("logging rotation settings must be >= 0")
	}
	return nil
}
