package cmd

import (
	"bytes"
	"testing"

	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/score"
	"github.com/jsphweid/chorale/timeline"
	"github.com/stretchr/testify/assert"
)

func TestPrintMeasureStarts(t *testing.T) {
	s := score.Sample()
	idx := timeline.FromScore(s, timeline.Options{})

	var buf bytes.Buffer
	printMeasureStarts(&buf, idx, timeline.MeasureStarts(s, timeline.Options{}))
	assert.Equal(t, "m0 starts @0 window 0\nm1 starts @4096 window 4\n", buf.String())
}

func TestPrintMeasureStartsWithoutWindow(t *testing.T) {
	s := score.New(model.Meta{},
		score.MeasureOf(1, map[string]model.Staff{
			"treble": score.StaffOf("treble", score.VoiceOf("up", score.NoteOf("C", 0, 5, model.Whole, 0))),
		}),
		score.MeasureOf(2, map[string]model.Staff{
			"treble": score.StaffOf("treble", score.VoiceOf("up",
				score.RestOf(model.Half, 0),
				score.NoteOf("D", 0, 5, model.Half, 0),
			)),
		}),
	)
	idx := timeline.FromScore(s, timeline.Options{})

	var buf bytes.Buffer
	printMeasureStarts(&buf, idx, timeline.MeasureStarts(s, timeline.Options{}))
	assert.Equal(t, "m0 starts @0 window 0\nm1 starts @4096 no window\n", buf.String())
}
