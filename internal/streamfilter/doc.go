// Package streamfilter extracts transcript lines from subprocess output that
// mixes them with progress bars, transfer rates, warnings and tracebacks.
//
// Rules run in a fixed order: noise, then transcript, then continuation.
// A line matching both a noise and a transcript pattern is dropped; callers
// rely on that order, so it must not change.
package streamfilter
