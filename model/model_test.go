package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPitchNumber(t *testing.T) {
	cases := []struct {
		pitch Pitch
		want  int
	}{
		{Pitch{Step: "C", Octave: 4}, 60},
		{Pitch{Step: "A", Octave: 4}, 69},
		{Pitch{Step: "C", Alter: 1, Octave: 4}, 61},
		{Pitch{Step: "B", Alter: 1, Octave: 3}, 60},
		{Pitch{Step: "D", Alter: -2, Octave: 4}, 60},
		{Pitch{Step: "C", Octave: -1}, 0},
		{Pitch{Step: "e", Octave: 5}, 76},
		{Pitch{Step: "X", Octave: 4}, 60},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%+v", c.pitch), func(t *testing.T) {
			assert.Equal(t, c.want, c.pitch.Number())
		})
	}
}

func TestPitchName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C4", PitchName(60))
	assert.Equal("F#3", PitchName(54))
	assert.Equal("C#4", Pitch{Step: "D", Alter: -1, Octave: 4}.String())
}

func TestDurationTicks(t *testing.T) {
	cases := []struct {
		d    Duration
		want int
	}{
		{Duration{Type: Whole}, 4096},
		{Duration{Type: Half}, 2048},
		{Duration{Type: Quarter}, 1024},
		{Duration{Type: Eighth}, 512},
		{Duration{Type: Sixteenth}, 256},
		{Duration{Type: ThirtySecond}, 128},
		{Duration{Type: Half, Dots: 1}, 3072},
		{Duration{Type: Quarter, Dots: 2}, 1792},
		{Duration{Type: Whole, Dots: 3}, 7680},
		{Duration{Type: "breve"}, 1024},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%s+%d", c.d.Type, c.d.Dots), func(t *testing.T) {
			assert.Equal(t, c.want, c.d.Ticks())
		})
	}
}

func TestMeasureTicksIsLongestVoice(t *testing.T) {
	q := Duration{Type: Quarter}
	m := Measure{Staves: map[string]Staff{
		"treble": {Voices: []Voice{{Items: []Item{Note{Duration: q}, Rest{Duration: q}}}}},
		"bass":   {Voices: []Voice{{Items: []Item{Chord{Duration: Duration{Type: Half, Dots: 1}}}}, {Items: nil}}},
	}}

	assert.Equal(t, 3072, m.Ticks())
	assert.Equal(t, 0, Measure{}.Ticks())
}

func TestEventSounding(t *testing.T) {
	ev := TimelineEvent{Onset: 0, Duration: 3072}

	assert := assert.New(t)
	assert.True(ev.Sounding(1024))
	assert.True(ev.Sounding(2048))
	assert.False(ev.Sounding(3072))
	assert.False(ev.Sounding(0))
}

func TestVerdictCode(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, Correct.Code())
	assert.Equal(1, Partial.Code())
	assert.Equal(2, Incorrect.Code())
}
