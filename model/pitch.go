package model

import "fmt"

// Pitch is a spelled pitch. Alter is in semitones, -2..2.
type Pitch struct {
	Step   string `json:"step" yaml:"step"`
	Alter  int    `json:"alter" yaml:"alter"`
	Octave int    `json:"octave" yaml:"octave"`
}

var stepSemitones = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
	"c": 0, "d": 2, "e": 4, "f": 5, "g": 7, "a": 9, "b": 11,
}

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Number returns the MIDI-style pitch number (C4 = 60). This is the only
// form the grader compares. Unknown steps count as C.
func (p Pitch) Number() int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alter
}

func (p Pitch) String() string {
	return PitchName(p.Number())
}

// PitchName renders a pitch number with sharps, e.g. 61 -> "C#4".
func PitchName(n int) string {
	if n < 0 {
		return fmt.Sprintf("?%d", n)
	}
	return fmt.Sprintf("%s%d", pitchClassNames[n%12], n/12-1)
}
