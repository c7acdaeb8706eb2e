package diarization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Segment is a time span attributed to one speaker label. Segments sharing a
// label may be disjoint, and segments of different labels may overlap.
type Segment struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Parse decodes diarization output, accepting a JSON segment list or RTTM text.
func Parse(raw []byte) ([]Segment, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return ParseJSON(trimmed)
	}
	return ParseRTTM(string(trimmed)), nil
}

// ParseRTTM reads SPEAKER lines of the form
// "SPEAKER <file> <chan> <start> <duration> <NA> <NA> <label> ...".
func ParseRTTM(text string) []Segment {
	var out []Segment
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 8 || fields[0] != "SPEAKER" {
			continue
		}
		start, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		duration, err := strconv.ParseFloat(fields[4], 64)
		if err != nil || duration < 0 {
			continue
		}
		out = append(out, Segment{Label: fields[7], Start: start, End: start + duration})
	}
	return out
}

type jsonSegment struct {
	Label   string   `json:"label"`
	Speaker string   `json:"speaker"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
}

// ParseJSON reads [{"label"|"speaker", "start", "end"}] lists. Entries without
// a label or timing are skipped.
func ParseJSON(raw []byte) ([]Segment, error) {
	var items []jsonSegment
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse diarization segments: %w", err)
	}
	out := make([]Segment, 0, len(items))
	for _, item := range items {
		label := item.Label
		if label == "" {
			label = item.Speaker
		}
		if label == "" || item.Start == nil || item.End == nil {
			continue
		}
		out = append(out, Segment{Label: label, Start: *item.Start, End: *item.End})
	}
	return out, nil
}
