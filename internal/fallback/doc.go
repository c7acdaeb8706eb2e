// Package fallback runs the transcription cascade.
//
// A run starts in PrimaryAttempt, which invokes the preferred recognition and
// diarization pipeline. If that produces usable transcript lines the run ends
// in DonePrimary. Any failure (missing tooling, nonzero exit, timeout or
// output with no transcript lines) records a reason and moves to
// WhisperFallback, which transcribes without diarization and alternates two
// synthetic speakers on long pauses. If the fallback transcriber itself fails
// the run ends in SyntheticError with a single error line.
//
// Transitions only move forward and no stage is retried. Every terminal state
// yields well-formed transcript text; Run never returns an error.
package fallback
