// Package diarize runs the preferred recognition+diarization pipeline as a
// subprocess.
//
// Each attempt:
//   - waits for the shared model cache lock so concurrent runs do not
//     download the same checkpoints at once
//   - runs in a fresh directory under the work dir, removed on every exit path
//   - is killed, with its whole process group, at the wall-clock limit
//
// Stdout and stderr are buffered in full and handed back untouched; deciding
// whether the output is usable belongs to the fallback cascade.
package diarize
