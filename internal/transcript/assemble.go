package transcript

import (
	"fmt"
	"strings"

	"scribe/internal/diarization"
	"scribe/internal/words"
)

// LabeledWord is a word tagged with its resolved diarization label.
type LabeledWord struct {
	Text  string
	Label string
}

// Turn is a contiguous run of words from one speaker.
type Turn struct {
	SpeakerID int
	Words     []string
}

// String renders the turn as "Speaker <id>: <words>".
func (t Turn) String() string {
	return fmt.Sprintf("Speaker %d: %s", t.SpeakerID, strings.Join(t.Words, " "))
}

// Registry maps diarization labels to speaker ids in first-seen order.
type Registry struct {
	ids map[string]int
}

// ID returns the id for label, assigning the next free id on first use.
func (r *Registry) ID(label string) int {
	if r.ids == nil {
		r.ids = make(map[string]int)
	}
	id, ok := r.ids[label]
	if !ok {
		id = len(r.ids)
		r.ids[label] = id
	}
	return id
}

// Label resolves the speaker of every word against the diarization segments.
func Label(ws []words.Word, segments []diarization.Segment) []LabeledWord {
	out := make([]LabeledWord, 0, len(ws))
	for _, w := range ws {
		start, end := w.Interval()
		out = append(out, LabeledWord{
			Text:  w.Text,
			Label: diarization.ResolveSpeaker(start, end, segments),
		})
	}
	return out
}

// Turns groups consecutive words sharing a label.
func Turns(labeled []LabeledWord) []Turn {
	var (
		registry Registry
		turns    []Turn
		current  string
		pending  []string
	)
	flush := func() {
		turns = append(turns, Turn{SpeakerID: registry.ID(current), Words: pending})
		pending = nil
	}
	for i, w := range labeled {
		if i == 0 {
			current = w.Label
		}
		if w.Label != current && len(pending) > 0 {
			flush()
			current = w.Label
		}
		pending = append(pending, w.Text)
	}
	if len(pending) > 0 {
		flush()
	}
	return turns
}

// Assemble renders labeled words as turns separated by a blank line.
func Assemble(labeled []LabeledWord) string {
	turns := Turns(labeled)
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, turn.String())
	}
	return strings.Join(lines, "\n\n")
}
