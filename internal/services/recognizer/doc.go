// Package recognizer invokes the word-level speech recognizer and the
// speaker diarization model used by the alignment pipeline.
//
// Both tools are external commands configured in [alignment]. They write
// their result to stdout: CTM or JSON word records for the recognizer,
// RTTM or JSON segments for diarization.
package recognizer
