package fallback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/streamfilter"
	"scribe/internal/transcript"
)

const (
	noPrimaryOutput    = "No valid transcript output from diarization"
	defaultPlaceholder = "No transcription available"
)

// Orchestrator drives one audio file through the cascade.
type Orchestrator struct {
	Primary  PrimaryRunner
	Fallback Transcriber
	// Diagnostics receives human-readable notes about degraded runs. It is
	// never the transcript channel.
	Diagnostics      io.Writer
	Logger           *slog.Logger
	SilenceThreshold float64
	Placeholder      string
	Metrics          Recorder
}

// Outcome is the result of a cascade run.
type Outcome struct {
	Transcript string
	State      State
	// Reason is the recorded primary failure, empty when the primary succeeded.
	Reason string
	Trace  []Transition
}

type run struct {
	o       *Orchestrator
	logger  *slog.Logger
	state   State
	trace   []Transition
	reason  string
	started time.Time
}

// Run executes the cascade. It always returns a usable transcript.
func (o *Orchestrator) Run(ctx context.Context, req Request) Outcome {
	r := &run{
		o:       o,
		logger:  logging.WithContext(ctx, logging.NewComponentLogger(o.Logger, "fallback")),
		state:   PrimaryAttempt,
		started: time.Now(),
	}

	if text, ok := r.primary(ctx, req); ok {
		r.advance(DonePrimary, "")
		return r.finish(text)
	}

	r.advance(WhisperFallback, r.reason)
	o.diagnose("Diarization unavailable, using whisper-only fallback")
	if r.reason != "" {
		o.diagnose("Reason: " + r.reason)
	}

	text, err := r.whisper(ctx, req)
	if err != nil {
		o.diagnose(fmt.Sprintf("Whisper fallback failed: %v", err))
		logging.WarnWithContext(r.logger, "fallback transcription failed; emitting error line", "fallback_failed",
			logging.Error(services.Wrap(services.ErrCatastrophic, WhisperFallback.String(), "transcribe", "", err)),
			logging.String(logging.FieldImpact, "transcript contains only an error line"),
		)
		r.advance(SyntheticError, err.Error())
		return r.finish(transcript.Line(0, 1, "Transcription error: "+err.Error()))
	}
	r.advance(DoneWhisper, "")
	return r.finish(text)
}

func (r *run) primary(ctx context.Context, req Request) (string, bool) {
	if reason := strings.TrimSpace(req.PrimaryUnavailable); reason != "" {
		r.reason = reason
		r.logger.Info("primary pipeline unavailable", logging.String("reason", reason))
		return "", false
	}
	if r.o.Primary == nil {
		r.reason = "Diarization pipeline not configured"
		return "", false
	}

	stageCtx := services.WithStage(ctx, PrimaryAttempt.String())
	started := time.Now()
	result, err := r.o.Primary.Run(stageCtx, req)
	r.observe(PrimaryAttempt, time.Since(started))
	if err != nil {
		r.reason = primaryErrorReason(err)
		logging.WarnWithContext(r.logger, "primary pipeline failed", "primary_failed",
			logging.String("reason", r.reason),
			logging.Bool("timeout", errors.Is(err, services.ErrTimeout)),
		)
		return "", false
	}

	text, stats := streamfilter.FilterWithStats(result.Stdout)
	r.logger.Debug("primary output classified",
		logging.Int("exit_code", result.ExitCode),
		logging.Int("transcript_lines", stats.Transcript),
		logging.Int("continuation_lines", stats.Continuation),
		logging.Int("noise_lines", stats.Noise),
		logging.Int("discarded_lines", stats.Discarded),
	)
	if result.ExitCode == 0 && strings.TrimSpace(text) != "" {
		return text, true
	}

	r.reason = strings.TrimSpace(result.Stderr)
	if r.reason == "" {
		r.reason = noPrimaryOutput
	}
	logging.WarnWithContext(r.logger, "primary pipeline produced no transcript", "primary_failed",
		logging.Int("exit_code", result.ExitCode),
		logging.String("reason", firstLine(r.reason)),
	)
	return "", false
}

func (r *run) whisper(ctx context.Context, req Request) (text string, err error) {
	if r.o.Fallback == nil {
		return "", errors.New("whisper fallback not configured")
	}
	stageCtx := services.WithStage(ctx, WhisperFallback.String())
	started := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
		r.observe(WhisperFallback, time.Since(started))
	}()

	result, err := r.o.Fallback.Transcribe(stageCtx, req)
	if err != nil {
		return "", err
	}
	threshold := r.o.SilenceThreshold
	if threshold <= 0 {
		threshold = DefaultSilenceThreshold
	}
	lines := Alternate(result.Segments, threshold)
	r.logger.Debug("fallback transcription finished",
		logging.Int("segments", len(result.Segments)),
		logging.Int("lines", len(lines)),
	)
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), nil
	}
	if full := strings.TrimSpace(result.Text); full != "" {
		return transcript.Line(0, 1, full), nil
	}
	placeholder := strings.TrimSpace(r.o.Placeholder)
	if placeholder == "" {
		placeholder = defaultPlaceholder
	}
	return transcript.Line(0, 1, placeholder), nil
}

func (r *run) advance(to State, reason string) {
	if !canTransition(r.state, to) {
		panic(fmt.Sprintf("fallback: illegal transition %s -> %s", r.state, to))
	}
	r.trace = append(r.trace, Transition{From: r.state, To: to, Reason: reason})
	r.logger.Debug("cascade transition",
		logging.String("from", r.state.String()),
		logging.String("to", to.String()),
	)
	r.state = to
}

func (r *run) finish(text string) Outcome {
	if !r.state.Terminal() {
		panic(fmt.Sprintf("fallback: finished in non-terminal state %s", r.state))
	}
	if r.o.Metrics != nil {
		r.o.Metrics.RecordOutcome(r.state.String())
		r.o.Metrics.ObserveStage("total", time.Since(r.started))
	}
	r.logger.Info("transcription finished",
		logging.String("state", r.state.String()),
		logging.Duration("elapsed", time.Since(r.started)),
	)
	return Outcome{Transcript: text, State: r.state, Reason: r.reason, Trace: r.trace}
}

func (r *run) observe(stage State, elapsed time.Duration) {
	if r.o.Metrics != nil {
		r.o.Metrics.ObserveStage(stage.String(), elapsed)
	}
}

func (o *Orchestrator) diagnose(line string) {
	if o.Diagnostics == nil {
		return
	}
	fmt.Fprintln(o.Diagnostics, line)
}

func primaryErrorReason(err error) string {
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return timeout.Error()
	}
	return "Error running diarization: " + err.Error()
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
