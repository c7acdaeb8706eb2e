// Package logging assembles the structured slog loggers used by scribe.
//
// Logs are diagnostics: they always go to stderr (and optionally a rotated
// file), never to stdout, which carries only transcript output. The package
// owns the console/JSON handlers, level parsing, context-derived fields (run
// id, stage) and a no-op logger for tests.
package logging
