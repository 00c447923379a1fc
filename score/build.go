// Package score loads score documents and offers small constructors for
// building scores in code.
package score

import "github.com/jsphweid/chorale/model"

func PitchOf(step string, alter, octave int) model.Pitch {
	return model.Pitch{Step: step, Alter: alter, Octave: octave}
}

func NoteOf(step string, alter, octave int, t model.DurationType, dots int) model.Note {
	return model.Note{
		Pitch:    PitchOf(step, alter, octave),
		Duration: model.Duration{Type: t, Dots: dots},
	}
}

func RestOf(t model.DurationType, dots int) model.Rest {
	return model.Rest{Duration: model.Duration{Type: t, Dots: dots}}
}

func ChordOf(pitches []model.Pitch, t model.DurationType, dots int) model.Chord {
	return model.Chord{
		Pitches:  pitches,
		Duration: model.Duration{Type: t, Dots: dots},
	}
}

func VoiceOf(direction string, items ...model.Item) model.Voice {
	if direction == "" {
		direction = "auto"
	}
	return model.Voice{Direction: direction, Items: items}
}

func StaffOf(clef string, voices ...model.Voice) model.Staff {
	return model.Staff{Clef: clef, Voices: voices}
}

func MeasureOf(number int, staves map[string]model.Staff) model.Measure {
	return model.Measure{Number: number, Staves: staves}
}

func New(meta model.Meta, measures ...model.Measure) model.Score {
	return model.Score{Meta: meta, Measures: measures}
}

// Excerpt keeps measures [start, end). end <= 0 means to the end of the score.
func Excerpt(s model.Score, start, end int) model.Score {
	if end <= 0 || end > len(s.Measures) {
		end = len(s.Measures)
	}
	if start < 0 {
		start = 0
	}
	res := model.Score{Meta: s.Meta}
	if start < end {
		res.Measures = append(res.Measures, s.Measures[start:end]...)
	}
	return res
}

// Sample is a two-measure grand staff where treble and bass move in
// different rhythms, handy for exercising held notes.
func Sample() model.Score {
	treble1 := VoiceOf("up",
		NoteOf("C", 0, 5, model.Quarter, 0),
		NoteOf("D", 0, 5, model.Quarter, 0),
		NoteOf("E", 0, 5, model.Half, 0),
	)
	bass1 := VoiceOf("down",
		NoteOf("C", 0, 3, model.Half, 1),
		NoteOf("G", 0, 2, model.Quarter, 0),
	)
	treble2 := VoiceOf("up",
		NoteOf("G", 0, 5, model.Half, 0),
		NoteOf("F", 0, 5, model.Half, 0),
	)
	bass2 := VoiceOf("down",
		NoteOf("E", 0, 3, model.Quarter, 0),
		NoteOf("D", 0, 3, model.Quarter, 0),
		NoteOf("C", 0, 3, model.Quarter, 0),
		NoteOf("B", 0, 2, model.Quarter, 0),
	)

	return New(model.Meta{Key: "C", Time: "4/4"},
		MeasureOf(1, map[string]model.Staff{
			"treble": StaffOf("treble", treble1),
			"bass":   StaffOf("bass", bass1),
		}),
		MeasureOf(2, map[string]model.Staff{
			"treble": StaffOf("treble", treble2),
			"bass":   StaffOf("bass", bass2),
		}),
	)
}
