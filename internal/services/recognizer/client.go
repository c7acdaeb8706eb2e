package recognizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"scribe/internal/deps"
	"scribe/internal/logging"
	"scribe/internal/services"
)

// DefaultTimeout bounds each recognizer or diarization subprocess.
const DefaultTimeout = 30 * time.Minute

// Config captures the alignment tool invocations.
type Config struct {
	ASRCommand         string
	DiarizationCommand string
	Timeout            time.Duration
}

// CommandRunner executes name with args and extra environment entries,
// returning stdout.
type CommandRunner func(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

// Client runs the recognizer and diarization tools.
type Client struct {
	cfg    Config
	logger *slog.Logger
	runner CommandRunner
}

// New constructs a Client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{cfg: cfg, logger: logging.NewComponentLogger(logger, "recognizer")}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner CommandRunner) {
	c.runner = runner
}

// Transcribe runs the recognizer over audio and returns its raw word output.
func (c *Client) Transcribe(ctx context.Context, audio, model string) ([]byte, error) {
	args := []string{"--audio", audio, "--model", model, "--format", "ctm"}
	return c.invoke(ctx, "asr", c.cfg.ASRCommand, nil, args)
}

// Diarize runs the diarization model over audio and returns its raw segments.
// The access token is passed through the environment, never on the command line.
func (c *Client) Diarize(ctx context.Context, audio, model, token string) ([]byte, error) {
	args := []string{"--audio", audio, "--model", model, "--format", "rttm"}
	env := []string{"HF_TOKEN=" + token}
	return c.invoke(ctx, "diarization", c.cfg.DiarizationCommand, env, args)
}

func (c *Client) invoke(ctx context.Context, stage, command string, env, args []string) ([]byte, error) {
	binary, baseArgs, err := deps.SplitCommand(command)
	if err != nil {
		return nil, services.Wrap(services.ErrDependencyMissing, stage, "parse command", "", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("alignment tool starting",
		logging.String("stage", stage),
		logging.String("command", binary),
		logging.String("model", modelArg(args)),
	)
	out, err := c.run(ctx, env, binary, append(baseArgs, args...)...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, stage, "run", fmt.Sprintf("timed out after %s", c.cfg.Timeout), err)
		}
		return nil, services.Wrap(services.ErrExternalProcess, stage, "run", "", err)
	}
	logger.Debug("alignment tool finished",
		logging.String("stage", stage),
		logging.Duration("elapsed", time.Since(start)),
		logging.Int("bytes", len(out)),
	)
	return out, nil
}

func (c *Client) run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	if c.runner != nil {
		return c.runner(ctx, env, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Env = append(append(os.Environ(), "PYTHONWARNINGS=ignore"), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, lastLine(detail))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

func modelArg(args []string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "--model" {
			return args[i+1]
		}
	}
	return ""
}

func lastLine(output string) string {
	lines := strings.Split(output, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
