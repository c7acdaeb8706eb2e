package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/metrics"
	"scribe/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	runID string
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		runID:      uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrInput, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrInput, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logger builds the invocation logger on the command's stderr. The run id
// is attached per call through logging.WithContext.
func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	opts := logging.OptionsFromConfig(cfg)
	opts.Writer = cmd.ErrOrStderr()
	return logging.New(opts)
}

// runContext tags ctx with the invocation's run id.
func (c *commandContext) runContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return services.WithRunID(ctx, c.runID)
}

// flushMetrics writes the textfile when metrics are enabled. Failures are
// logged and never change the exit status.
func flushMetrics(rec *metrics.Recorder, cfg *config.Config, logger *slog.Logger) {
	if rec == nil {
		return
	}
	if err := rec.Flush(cfg.Metrics.Textfile); err != nil {
		logging.WarnWithContext(logger, "metrics textfile not written", "metrics_flush_failed",
			logging.String("path", cfg.Metrics.Textfile),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run metrics not exported"),
		)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func readAllInput(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
