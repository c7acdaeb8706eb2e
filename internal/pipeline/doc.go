// Package pipeline implements the word-level alignment path: recognize
// words, diarize speakers, assign each word to the speaker it overlaps most,
// and render speaker turns.
package pipeline
