// Package preflight validates invocation input and external tooling before
// any transcription work starts.
//
// Failures reported as errors are fatal: a missing or unreadable audio file,
// a missing credential, or an absent required command. Optional tooling that
// is absent (the preferred diarization pipeline) is reported back as a reason
// so the fallback cascade can start at its degraded stage instead.
package preflight
