// Package diarization holds speaker segments produced by a diarization model
// and resolves which speaker owns a given word interval.
package diarization
