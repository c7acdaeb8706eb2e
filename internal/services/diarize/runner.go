package diarize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"scribe/internal/deps"
	"scribe/internal/fallback"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/staging"
)

const (
	// DefaultTimeout is the wall-clock budget of one primary attempt.
	DefaultTimeout  = 5 * time.Minute
	lockRetryDelay  = 250 * time.Millisecond
	killGracePeriod = 5 * time.Second
)

// Config captures runtime settings for the primary pipeline.
type Config struct {
	// Command is the pipeline invocation, e.g. "python3 whisper-diarize.py".
	Command  string
	Timeout  time.Duration
	WorkDir  string
	LockPath string
	LockWait time.Duration
}

// Runner implements fallback.PrimaryRunner.
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Runner.
func New(cfg Config, logger *slog.Logger) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Runner{cfg: cfg, logger: logging.NewComponentLogger(logger, "diarize")}
}

// Run executes one primary attempt.
func (r *Runner) Run(ctx context.Context, req fallback.Request) (fallback.PrimaryResult, error) {
	var result fallback.PrimaryResult
	logger := logging.WithContext(ctx, r.logger)

	binary, baseArgs, err := resolveCommand(r.cfg.Command)
	if err != nil {
		return result, services.Wrap(services.ErrDependencyUnavailable, "primary", "resolve command", "", err)
	}
	audio, err := filepath.Abs(req.AudioPath)
	if err != nil {
		return result, services.Wrap(services.ErrInput, "primary", "resolve audio", req.AudioPath, err)
	}

	unlock, err := r.lockCache(ctx)
	if err != nil {
		return result, err
	}
	defer unlock()

	runID, _ := services.RunIDFromContext(ctx)
	workDir, release, err := staging.NewWorkDir(r.cfg.WorkDir, runID)
	if err != nil {
		return result, services.Wrap(services.ErrExternalProcess, "primary", "create work dir", "", err)
	}
	defer release()

	args := append(baseArgs, BuildArgs(audio, req)...)
	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, binary, args...) //nolint:gosec
	cmd.Dir = workDir
	cmd.Env = Environment(os.Environ(), workDir)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Negative pid signals the whole group, including model workers.
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = killGracePeriod

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("primary pipeline starting",
		logging.String("command", binary),
		logging.Any("args", args),
		logging.String("work_dir", workDir),
		logging.Duration("timeout", r.cfg.Timeout),
	)
	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		logger.Debug("primary pipeline timed out", logging.Duration("elapsed", elapsed))
		return result, &fallback.TimeoutError{Limit: r.cfg.Timeout}
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return result, services.Wrap(services.ErrExternalProcess, "primary", "run", binary, runErr)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	logger.Debug("primary pipeline finished",
		logging.Int("exit_code", result.ExitCode),
		logging.Int("stdout_bytes", stdout.Len()),
		logging.Int("stderr_bytes", stderr.Len()),
		logging.Duration("elapsed", elapsed),
	)
	return result, nil
}

// BuildArgs renders the wrapper flags for one request.
func BuildArgs(audioPath string, req fallback.Request) []string {
	args := []string{"-a", audioPath}
	if model := strings.TrimSpace(req.WhisperModel); model != "" {
		args = append(args, "--whisper-model", model)
	}
	if device := strings.TrimSpace(req.Device); device != "" {
		args = append(args, "--device", device)
	}
	if req.NoStem {
		args = append(args, "--no-stem")
	}
	return args
}

// Environment returns the subprocess environment: python warnings silenced,
// legacy torch checkpoint loading, and temp files kept in the work dir.
func Environment(base []string, workDir string) []string {
	env := append([]string(nil), base...)
	env = append(env, "PYTHONWARNINGS=ignore")
	// Torch 2.6 changed torch.load to weights_only=true, which breaks pyannote checkpoints.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if workDir != "" {
		env = append(env, "TMPDIR="+workDir)
	}
	return env
}

func (r *Runner) lockCache(ctx context.Context) (func(), error) {
	path := strings.TrimSpace(r.cfg.LockPath)
	if path == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrDependencyUnavailable, "primary", "model cache lock", "", err)
	}
	lock := flock.New(path)
	var (
		ok  bool
		err error
	)
	if r.cfg.LockWait <= 0 {
		// A zero wait means one attempt; an expired context would never try.
		ok, err = lock.TryLock()
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, r.cfg.LockWait)
		ok, err = lock.TryLockContext(lockCtx, lockRetryDelay)
		cancel()
	}
	if err != nil || !ok {
		if err == nil {
			err = errors.New("lock held by another run")
		}
		return nil, services.Wrap(services.ErrDependencyUnavailable, "primary", "model cache lock",
			fmt.Sprintf("model cache busy after %s", r.cfg.LockWait), err)
	}
	return func() { _ = lock.Unlock() }, nil
}

// resolveCommand turns the configured command into an absolute executable and
// arguments whose relative script paths survive the change of directory.
func resolveCommand(command string) (string, []string, error) {
	binary, args, err := deps.SplitCommand(command)
	if err != nil {
		return "", nil, err
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return "", nil, fmt.Errorf("binary %q not found: %w", binary, err)
	}
	if abs, err := filepath.Abs(resolved); err == nil {
		resolved = abs
	}
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if strings.HasPrefix(arg, "-") || filepath.IsAbs(arg) {
			continue
		}
		if _, err := os.Stat(arg); err == nil {
			if abs, err := filepath.Abs(arg); err == nil {
				out[i] = abs
			}
		}
	}
	return resolved, out, nil
}
