package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scribe/internal/deps"
	"scribe/internal/fallback"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/staging"
)

// Whisper CLI defaults.
const (
	DefaultCommand = "whisper"
	DefaultModel   = "medium.en"
	OutputFormat   = "json"
	CPUDevice      = "cpu"
)

// Config captures runtime settings for the fallback recognizer.
type Config struct {
	Command string
	// Model overrides the per-request whisper model when set.
	Model   string
	WorkDir string
}

// Service implements fallback.Transcriber.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if strings.TrimSpace(cfg.Command) == "" {
		cfg.Command = DefaultCommand
	}
	return &Service{cfg: cfg, logger: logging.NewComponentLogger(logger, "whisper")}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Transcribe runs whisper over the request audio and returns its segments.
func (s *Service) Transcribe(ctx context.Context, req fallback.Request) (fallback.Transcription, error) {
	var result fallback.Transcription

	source := strings.TrimSpace(req.AudioPath)
	if source == "" {
		return result, services.Wrap(services.ErrInput, "whisper", "transcribe", "source path required", nil)
	}
	runID, _ := services.RunIDFromContext(ctx)
	outputDir, release, err := staging.NewWorkDir(s.cfg.WorkDir, runID)
	if err != nil {
		return result, fmt.Errorf("whisper: %w", err)
	}
	defer release()

	binary, baseArgs, err := deps.SplitCommand(s.cfg.Command)
	if err != nil {
		return result, fmt.Errorf("whisper: %w", err)
	}
	model := s.model(req)
	args := append(baseArgs, BuildArgs(source, outputDir, model, req.Device)...)
	logging.WithContext(ctx, s.logger).Debug("whisper fallback starting",
		logging.String("command", binary),
		logging.String("model", model),
		logging.String("output_dir", outputDir),
	)
	if err := s.run(ctx, binary, args...); err != nil {
		return result, err
	}

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return LoadResult(filepath.Join(outputDir, base+"."+OutputFormat))
}

func (s *Service) model(req fallback.Request) string {
	if m := strings.TrimSpace(s.cfg.Model); m != "" {
		return m
	}
	if m := strings.TrimSpace(req.WhisperModel); m != "" {
		return m
	}
	return DefaultModel
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Env = append(os.Environ(), "PYTHONWARNINGS=ignore")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, lastLine(string(output)))
	}
	return nil
}

// BuildArgs constructs the whisper CLI arguments.
func BuildArgs(source, outputDir, model, device string) []string {
	if device = strings.TrimSpace(device); device == "" {
		device = CPUDevice
	}
	args := []string{
		source,
		"--model", model,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--device", device,
		"--verbose", "False",
	}
	// FP16 is not supported on CPU; asking for it only produces a warning.
	if device == CPUDevice {
		args = append(args, "--fp16", "False")
	}
	return args
}

type segmentPayload struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

type resultPayload struct {
	Text     string           `json:"text"`
	Segments []segmentPayload `json:"segments"`
}

// LoadResult reads a whisper JSON result file.
func LoadResult(path string) (fallback.Transcription, error) {
	var result fallback.Transcription
	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("whisper: read result: %w", err)
	}
	var payload resultPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return result, fmt.Errorf("whisper: parse result: %w", err)
	}
	result.Text = strings.TrimSpace(payload.Text)
	result.Segments = make([]fallback.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		result.Segments = append(result.Segments, fallback.Segment{Start: seg.Start, Text: seg.Text})
	}
	return result, nil
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
