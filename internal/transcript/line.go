package transcript

import (
	"fmt"
	"math"
)

// FormatClock renders seconds as MM:SS using whole elapsed seconds.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	whole := int(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", whole/60, whole%60)
}

// Line renders a timestamped transcript line.
func Line(start float64, speaker int, text string) string {
	return fmt.Sprintf("[%s] Speaker %d: %s", FormatClock(start), speaker, text)
}
