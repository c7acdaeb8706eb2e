// Package main hosts the scribe CLI entrypoint and command graph.
//
// `scribe diarize` runs the speaker-attributed transcription cascade and
// always prints a transcript; `scribe align` runs the word-level alignment
// pipeline and prints a JSON result. Logs and diagnostics go to stderr so
// stdout carries only the transcript.
package main
