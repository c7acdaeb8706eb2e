package fallback

import (
	"math"
	"strings"

	"scribe/internal/transcript"
)

// DefaultSilenceThreshold is the pause, in seconds, that flips the speaker.
const DefaultSilenceThreshold = 10.0

// Alternate renders fallback segments as timestamped lines, switching between
// Speaker 1 and Speaker 2 whenever a segment starts more than threshold
// seconds after the last switch. Segments with blank text still move the
// clock but produce no line.
func Alternate(segments []Segment, threshold float64) []string {
	current := 1
	lastChange := 0
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		t := int(math.Floor(seg.Start))
		if float64(t-lastChange) > threshold {
			current = 3 - current
			lastChange = t
		}
		if text := strings.TrimSpace(seg.Text); text != "" {
			lines = append(lines, transcript.Line(float64(t), current, text))
		}
	}
	return lines
}
