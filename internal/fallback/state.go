package fallback

// State is a stage of the transcription cascade.
type State int

const (
	PrimaryAttempt State = iota
	WhisperFallback
	DonePrimary
	DoneWhisper
	SyntheticError
)

func (s State) String() string {
	switch s {
	case PrimaryAttempt:
		return "primary_attempt"
	case WhisperFallback:
		return "whisper_fallback"
	case DonePrimary:
		return "done_primary"
	case DoneWhisper:
		return "done_whisper"
	case SyntheticError:
		return "synthetic_error"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == DonePrimary || s == DoneWhisper || s == SyntheticError
}

// Transition records one step of the cascade.
type Transition struct {
	From   State
	To     State
	Reason string
}

// allowed lists the only legal edges.
var allowed = map[State][]State{
	PrimaryAttempt:  {DonePrimary, WhisperFallback},
	WhisperFallback: {DoneWhisper, SyntheticError},
}

func canTransition(from, to State) bool {
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}
