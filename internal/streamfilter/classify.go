package streamfilter

import (
	"regexp"
	"strings"
)

// Kind is the classification of one output line.
type Kind int

const (
	Discard Kind = iota
	Noise
	Transcript
	Continuation
)

func (k Kind) String() string {
	switch k {
	case Noise:
		return "noise"
	case Transcript:
		return "transcript"
	case Continuation:
		return "continuation"
	default:
		return "discard"
	}
}

var (
	noisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+%\|[█▏▎▍▌▋▊▉]+\|`),
		regexp.MustCompile(`\d+%\|.*\|\s*\d+\.\d+[GM]iB/s`),
		regexp.MustCompile(`\d+/\d+\s*\[\d+:\d+<\d+:\d+.*frames/s\]`),
		regexp.MustCompile(`\d+\.\d+[GM]iB`),
	}
	noiseSubstrings = []string{
		"iB/s",
		"frames/s",
		"UserWarning:",
		"FP16 is not supported",
		"torchaudio._backend",
		"set_audio_backend",
		"Traceback (most recent call last):",
	}
	noisePrefixes = []string{
		"Warning:",
		"Using fallback whisper-only transcription",
		"Diarization unavailable",
		"Reason:",
	}
	rejectedContinuations = []string{"error:", "warning:", "traceback"}

	transcriptPattern = regexp.MustCompile(`^(\[\d{2}:\d{2}\]\s*)?Speaker \d+:|^\[\d{2}:\d{2}\]`)
)

// IsNoise reports whether the line is progress, diagnostics or blank.
func IsNoise(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	for _, re := range noisePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	for _, s := range noiseSubstrings {
		if strings.Contains(line, s) {
			return true
		}
	}
	for _, p := range noisePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(line), "deprecated")
}

// IsTranscript reports whether the line starts with a [MM:SS] timestamp, a
// "Speaker N:" prefix, or both.
func IsTranscript(line string) bool {
	return transcriptPattern.MatchString(strings.TrimSpace(line))
}

// Classify assigns a kind to line. seenTranscript reports whether an earlier
// line has already been kept as transcript.
func Classify(line string, seenTranscript bool) Kind {
	if IsNoise(line) {
		return Noise
	}
	if IsTranscript(line) {
		return Transcript
	}
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(line)
	for _, s := range rejectedContinuations {
		if strings.Contains(lower, s) {
			return Discard
		}
	}
	if seenTranscript && !strings.HasPrefix(trimmed, "[") {
		return Continuation
	}
	return Discard
}

// Stats counts lines per kind.
type Stats struct {
	Noise        int
	Transcript   int
	Continuation int
	Discarded    int
}

// Kept returns the number of lines that survived filtering.
func (s Stats) Kept() int {
	return s.Transcript + s.Continuation
}

// Filter keeps transcript and continuation lines, trimmed, in their original
// order. It returns "" when nothing survives.
func Filter(output string) string {
	text, _ := FilterWithStats(output)
	return text
}

// FilterWithStats is Filter that also reports per-kind counts.
func FilterWithStats(output string) (string, Stats) {
	var (
		stats Stats
		kept  []string
	)
	for _, line := range strings.Split(output, "\n") {
		switch Classify(line, len(kept) > 0) {
		case Noise:
			stats.Noise++
		case Transcript:
			stats.Transcript++
			kept = append(kept, strings.TrimSpace(line))
		case Continuation:
			stats.Continuation++
			kept = append(kept, strings.TrimSpace(line))
		default:
			stats.Discarded++
		}
	}
	return strings.Join(kept, "\n"), stats
}
