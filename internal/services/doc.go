// Package services defines shared utilities consumed by the transcription
// stages and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that separate fatal input
//     problems (exit 1) from failures the fallback cascade absorbs.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
