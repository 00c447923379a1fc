package model

type Verdict string

const (
	Correct   Verdict = "correct"
	Partial   Verdict = "partial"
	Incorrect Verdict = "incorrect"
)

// Code is the numeric score the practice UI shows for a verdict.
func (v Verdict) Code() int {
	switch v {
	case Correct:
		return 0
	case Incorrect:
		return 2
	default:
		return 1
	}
}

type GradeResult struct {
	Verdict     Verdict `json:"result"`
	Score       int     `json:"score"`
	ActiveIndex int     `json:"active_index"`
}

type InputKind uint8

const (
	NoteOn InputKind = iota
	NoteOff
)

func (k InputKind) String() string {
	if k == NoteOff {
		return "off"
	}
	return "on"
}

// InputEvent is one live note event. Tick is only informational, matching
// never looks at time.
type InputEvent struct {
	Kind  InputKind
	Pitch int
	Tick  int64
}
