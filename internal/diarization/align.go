package diarization

import "scribe/internal/words"

// Unknown is assigned to words that no segment overlaps.
const Unknown = "UNKNOWN"

// ResolveSpeaker returns the label with the largest accumulated overlap with
// [start, end). Exact ties go to the label seen first in segment order.
func ResolveSpeaker(start, end float64, segments []Segment) string {
	start, end = words.Word{Start: start, End: end}.Interval()

	var order []string
	totals := make(map[string]float64)
	for _, seg := range segments {
		overlap := min(end, seg.End) - max(start, seg.Start)
		if overlap <= 0 {
			continue
		}
		if _, seen := totals[seg.Label]; !seen {
			order = append(order, seg.Label)
		}
		totals[seg.Label] += overlap
	}
	if len(order) == 0 {
		return Unknown
	}

	best := order[0]
	for _, label := range order[1:] {
		if totals[label] > totals[best] {
			best = label
		}
	}
	return best
}
