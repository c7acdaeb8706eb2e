package fallback

import (
	"context"
	"fmt"
	"time"

	"scribe/internal/services"
)

// Request describes one audio file to transcribe.
type Request struct {
	AudioPath    string
	WhisperModel string
	Device       string
	NoStem       bool
	// PrimaryUnavailable, when set, skips the primary attempt and is
	// recorded as the failure reason.
	PrimaryUnavailable string
}

// PrimaryResult is the fully buffered outcome of the preferred pipeline.
type PrimaryResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// PrimaryRunner runs the preferred recognition+diarization pipeline. It
// returns an error only when the process could not run to completion; a
// nonzero exit is reported through PrimaryResult.ExitCode.
type PrimaryRunner interface {
	Run(ctx context.Context, req Request) (PrimaryResult, error)
}

// Segment is one time-stamped span of diarization-free recognition.
type Segment struct {
	Start float64
	Text  string
}

// Transcription is the output of the fallback recognizer.
type Transcription struct {
	Segments []Segment
	Text     string
}

// Transcriber performs diarization-free transcription.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (Transcription, error)
}

// Recorder receives cascade metrics. *metrics.Recorder satisfies it.
type Recorder interface {
	RecordOutcome(state string)
	ObserveStage(stage string, elapsed time.Duration)
}

// TimeoutError reports a primary attempt killed at its wall-clock limit.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return "Diarization timed out after " + formatLimit(e.Limit)
}

// Unwrap lets errors.Is match services.ErrTimeout.
func (e *TimeoutError) Unwrap() error {
	return services.ErrTimeout
}

func formatLimit(d time.Duration) string {
	switch {
	case d >= time.Minute && d%time.Minute == 0:
		if d == time.Minute {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	case d == time.Second:
		return "1 second"
	default:
		return fmt.Sprintf("%d seconds", int(d.Round(time.Second)/time.Second))
	}
}
