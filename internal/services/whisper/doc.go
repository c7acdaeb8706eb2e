// Package whisper runs the openai-whisper CLI as the diarization-free
// fallback recognizer.
//
// The CLI writes a JSON result next to the other outputs in a scratch
// directory; Service reads its segments back and removes the directory.
package whisper
