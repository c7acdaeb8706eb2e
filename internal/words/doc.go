// Package words normalizes word-level speech recognition output into an
// ordered sequence of timed words.
//
// Recognizers emit either CTM text (one word per line) or JSON record lists
// with loosely named keys. Both shapes are reduced to Word values in the
// order the recognizer produced them. Malformed lines and records are
// skipped; they never abort the rest of the sequence.
package words
