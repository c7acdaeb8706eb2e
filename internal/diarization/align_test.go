package diarization

import "testing"

func TestResolveSpeakerLargestOverlap(t *testing.T) {
	segments := []Segment{
		{Label: "A", Start: 0, End: 1.5},
		{Label: "B", Start: 1.5, End: 3},
		{Label: "C", Start: 0, End: 0.5},
	}
	if got := ResolveSpeaker(0, 1, segments); got != "A" {
		t.Fatalf("expected A, got %s", got)
	}
}

func TestResolveSpeakerTieBreaksOnSegmentOrder(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		want     string
	}{
		{
			name: "A first",
			segments: []Segment{
				{Label: "A", Start: 0, End: 1.5},
				{Label: "B", Start: 1.5, End: 3},
			},
			want: "A",
		},
		{
			name: "B first",
			segments: []Segment{
				{Label: "B", Start: 1.5, End: 3},
				{Label: "A", Start: 0, End: 1.5},
			},
			want: "B",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// "world" spans [1,2): half in A, half in B.
			if got := ResolveSpeaker(1, 2, tc.segments); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestResolveSpeakerEqualAccumulatedOverlap(t *testing.T) {
	ac := []Segment{
		{Label: "A", Start: 0, End: 0.5},
		{Label: "C", Start: 0.5, End: 1},
	}
	if got := ResolveSpeaker(0, 1, ac); got != "A" {
		t.Fatalf("expected A when listed first, got %s", got)
	}
	ca := []Segment{ac[1], ac[0]}
	if got := ResolveSpeaker(0, 1, ca); got != "C" {
		t.Fatalf("expected C when listed first, got %s", got)
	}
}

func TestResolveSpeakerSumsSegmentsPerLabel(t *testing.T) {
	segments := []Segment{
		{Label: "B", Start: 0, End: 0.4},
		{Label: "A", Start: 0.4, End: 0.7},
		{Label: "A", Start: 0.7, End: 1.0},
	}
	if got := ResolveSpeaker(0, 1, segments); got != "A" {
		t.Fatalf("expected A (0.6 total) over B (0.4), got %s", got)
	}

	reordered := []Segment{segments[0], segments[2], segments[1]}
	if got := ResolveSpeaker(0, 1, reordered); got != "A" {
		t.Fatalf("reordering one label's segments changed the result: %s", got)
	}
}

func TestResolveSpeakerOverlappingLabels(t *testing.T) {
	segments := []Segment{
		{Label: "A", Start: 0, End: 10},
		{Label: "B", Start: 2, End: 3},
	}
	if got := ResolveSpeaker(2, 3, segments); got != "A" {
		t.Fatalf("simultaneous speech tie should go to A, got %s", got)
	}
	if got := ResolveSpeaker(2.5, 3.5, segments); got != "A" {
		t.Fatalf("expected A, got %s", got)
	}
}

func TestResolveSpeakerUnknown(t *testing.T) {
	segments := []Segment{{Label: "A", Start: 5, End: 6}}
	if got := ResolveSpeaker(0, 1, segments); got != Unknown {
		t.Fatalf("expected %s, got %s", Unknown, got)
	}
	if got := ResolveSpeaker(6, 7, segments); got != Unknown {
		t.Fatalf("touching intervals must not count as overlap, got %s", got)
	}
	if got := ResolveSpeaker(0, 1, nil); got != Unknown {
		t.Fatalf("expected %s with no segments, got %s", Unknown, got)
	}
}

func TestResolveSpeakerRepairsDegenerateWord(t *testing.T) {
	segments := []Segment{{Label: "A", Start: 1, End: 2}}
	if got := ResolveSpeaker(1.5, 1.5, segments); got != "A" {
		t.Fatalf("zero-width word should be widened and resolve to A, got %s", got)
	}
	if got := ResolveSpeaker(1.5, 1.0, segments); got != "A" {
		t.Fatalf("inverted word should be widened and resolve to A, got %s", got)
	}
}

func TestResolveSpeakerDeterministic(t *testing.T) {
	segments := []Segment{
		{Label: "A", Start: 0, End: 1.5},
		{Label: "B", Start: 1.5, End: 3},
	}
	first := ResolveSpeaker(1, 2, segments)
	for i := 0; i < 50; i++ {
		if got := ResolveSpeaker(1, 2, segments); got != first {
			t.Fatalf("iteration %d: got %s want %s", i, got, first)
		}
	}
}
