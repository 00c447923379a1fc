package grader

import (
	"testing"

	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/score"
	"github.com/jsphweid/chorale/timeline"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func singleVoice(notes ...model.Note) model.Score {
	items := make([]model.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, n)
	}
	return score.New(model.Meta{},
		score.MeasureOf(1, map[string]model.Staff{
			"treble": score.StaffOf("treble", score.VoiceOf("up", items...)),
		}),
	)
}

func twoQuarters() model.Score {
	return singleVoice(
		score.NoteOf("C", 0, 4, model.Quarter, 0),
		score.NoteOf("E", 0, 4, model.Quarter, 0),
	)
}

func newGrader(s model.Score) *Grader {
	return New(nil).InitFromScore(s, timeline.Options{})
}

func TestCorrectPerformance(t *testing.T) {
	g := newGrader(twoQuarters())
	assert := assert.New(t)

	g.NoteOn(60)
	assert.Equal(model.GradeResult{Verdict: model.Partial, Score: 1, ActiveIndex: 1}, g.Grade())
	assert.False(g.Finished())

	g.NoteOn(64)
	assert.True(g.Finished())
	assert.Equal(model.GradeResult{Verdict: model.Correct, Score: 0, ActiveIndex: 2}, g.Grade())
	assert.Equal([]int{0, 1}, g.PlayedNoteIDs())
	assert.False(g.MistakeMade())
}

func TestWrongNoteIsReportedOnce(t *testing.T) {
	g := newGrader(twoQuarters())
	assert := assert.New(t)

	g.NoteOn(61)
	assert.Equal(model.GradeResult{Verdict: model.Incorrect, Score: 2, ActiveIndex: 0}, g.Grade())
	assert.Equal(model.GradeResult{Verdict: model.Partial, Score: 1, ActiveIndex: 0}, g.Grade())
	assert.True(g.MistakeMade())
	assert.Empty(g.PlayedNoteIDs())

	// the mistake does not block a retry
	g.NoteOn(60)
	assert.Equal(1, g.ActiveIndex())
	assert.True(g.MistakeMade())
}

func TestWrongNoteOverwritesPendingFlag(t *testing.T) {
	g := newGrader(twoQuarters())
	assert := assert.New(t)

	g.NoteOn(61)
	g.NoteOn(62)
	assert.Equal(model.Incorrect, g.Grade().Verdict)
	assert.Equal(model.Partial, g.Grade().Verdict)
}

func TestIncorrectAfterFinishIsIgnored(t *testing.T) {
	g := newGrader(twoQuarters())
	g.NoteOn(60)
	g.NoteOn(64)
	g.NoteOn(30)

	assert := assert.New(t)
	assert.False(g.MistakeMade())
	assert.Equal(model.Correct, g.Grade().Verdict)
	assert.Equal(model.Correct, g.Grade().Verdict)
}

func TestLastWrongNoteBeforeFinishStillReported(t *testing.T) {
	g := newGrader(twoQuarters())
	g.NoteOn(60)
	g.NoteOn(65)
	g.NoteOn(64)

	assert := assert.New(t)
	first := g.Grade()
	assert.Equal(model.Incorrect, first.Verdict)
	assert.Equal(1, first.ActiveIndex)
	assert.Equal(model.GradeResult{Verdict: model.Correct, Score: 0, ActiveIndex: 2}, g.Grade())
}

func TestRepeatedPitchNeedsRepress(t *testing.T) {
	g := newGrader(singleVoice(
		score.NoteOf("G", 0, 4, model.Eighth, 0),
		score.NoteOf("G", 0, 4, model.Eighth, 0),
	))

	assert := assert.New(t)
	g.NoteOn(67)
	assert.Equal(1, g.ActiveIndex())
	g.NoteOff(67)
	g.NoteOn(67)
	assert.True(g.Finished())
}

func TestEmptyScoreIsFinished(t *testing.T) {
	g := newGrader(model.Score{})

	assert := assert.New(t)
	assert.True(g.Finished())
	assert.Equal(0, g.WindowCount())
	assert.Equal(model.GradeResult{Verdict: model.Correct, Score: 0, ActiveIndex: 0}, g.Grade())
	assert.Equal(0, g.ActiveMeasureIndex())

	g.NoteOn(60)
	assert.False(g.MistakeMade())
	assert.Empty(g.HeldPitches())
}

func TestUninitialisedGraderIgnoresInput(t *testing.T) {
	var g Grader

	assert := assert.New(t)
	assert.NotPanics(func() {
		g.NoteOn(60)
		g.NoteOff(60)
	})
	assert.True(g.Finished())
	assert.Equal(model.GradeResult{Verdict: model.Correct, Score: 0, ActiveIndex: 0}, g.Grade())
	assert.Equal(0, g.ActiveMeasureIndex())
	assert.False(g.MistakeMade())
}

func TestNoteOffOnlyTracksRelease(t *testing.T) {
	g := newGrader(twoQuarters())
	assert := assert.New(t)

	g.NoteOn(60)
	g.NoteOn(55)
	assert.Equal([]int{55, 60}, g.HeldPitches())

	g.Grade()
	g.NoteOff(60)
	g.NoteOff(99)
	assert.Equal([]int{55}, g.HeldPitches())
	assert.Equal(1, g.ActiveIndex())
	assert.Equal(model.Partial, g.Grade().Verdict)
}

// Bass holds a dotted half under three treble quarters.
func TestHeldBassAcrossTrebleWindows(t *testing.T) {
	g := newGrader(score.Excerpt(score.Sample(), 0, 1))
	ix := g.Index()
	assert := assert.New(t)

	assert.Equal(4, g.WindowCount())
	for w, held := range [][]int{nil, {3}, {3}, {2}} {
		assert.Equal(held, ix.Window(w).Held, "window %d", w)
	}

	g.NoteOn(72)
	assert.Equal(0, g.ActiveIndex(), "bass attack still missing")
	g.NoteOn(48)
	assert.Equal(1, g.ActiveIndex())

	// the held bass was already played in its own window
	g.NoteOn(48)
	assert.Equal(model.Incorrect, g.Grade().Verdict)
	assert.Equal(1, g.ActiveIndex())

	g.NoteOn(74)
	g.NoteOn(76)
	assert.Equal(3, g.ActiveIndex())
	onset, _ := g.ActiveOnset()
	assert.Equal(3072, onset)

	g.NoteOn(43)
	assert.True(g.Finished())
	assert.Equal(model.Correct, g.Grade().Verdict)
}

func TestHeldNoteCanBeMatchedInLaterWindow(t *testing.T) {
	// treble enters after a rest, so its onset is registered before the bass
	// note that sounds under it
	s := score.New(model.Meta{},
		score.MeasureOf(1, map[string]model.Staff{
			"treble": score.StaffOf("treble", score.VoiceOf("up",
				score.RestOf(model.Quarter, 0),
				score.NoteOf("D", 0, 5, model.Quarter, 0),
			)),
			"bass": score.StaffOf("bass", score.VoiceOf("down",
				score.NoteOf("C", 0, 3, model.Half, 0),
			)),
		}),
	)
	g := newGrader(s)
	assert := assert.New(t)

	assert.Equal(1024, g.Index().Window(0).Onset)
	assert.Equal(0, g.Index().Window(1).Onset)

	g.NoteOn(74)
	assert.Equal(0, g.ActiveIndex())
	g.NoteOn(48)

	// both windows complete in one cascade
	assert.True(g.Finished())
	assert.Equal(2, g.ActiveIndex())
	assert.Equal(model.GradeResult{Verdict: model.Correct, Score: 0, ActiveIndex: 2}, g.Grade())
}

func TestSampleScoreFollowsWindowOrder(t *testing.T) {
	g := newGrader(score.Sample())
	assert := assert.New(t)

	for _, p := range []int{72, 48, 74, 76, 43, 79, 52} {
		g.NoteOn(p)
	}
	assert.Equal(5, g.ActiveIndex())
	assert.Equal(1, g.ActiveMeasureIndex())

	// D3 sounds at 5120, before the 6144 window the grader expects now
	g.NoteOn(50)
	assert.Equal(model.Incorrect, g.Grade().Verdict)

	for _, p := range []int{77, 48, 50, 47} {
		g.NoteOn(p)
	}
	assert.True(g.Finished())
	assert.Equal(model.Correct, g.Grade().Verdict)
	assert.Len(g.PlayedNoteIDs(), 11)
}

func TestGradersShareIndexWithoutSharingState(t *testing.T) {
	ix := timeline.FromScore(twoQuarters(), timeline.Options{})
	a := New(ix)
	b := New(ix)

	a.NoteOn(60)
	b.NoteOn(61)

	assert := assert.New(t)
	assert.Equal(1, a.ActiveIndex())
	assert.Equal(0, b.ActiveIndex())
	assert.False(a.MistakeMade())
	assert.True(b.MistakeMade())
	assert.False(b.IsPlayed(0))
	assert.True(a.IsPlayed(0))
}

func TestReset(t *testing.T) {
	g := newGrader(twoQuarters())
	g.NoteOn(61)
	g.NoteOn(60)
	g.NoteOn(64)
	g.Reset()

	assert := assert.New(t)
	assert.False(g.Finished())
	assert.False(g.MistakeMade())
	assert.Empty(g.PlayedNoteIDs())
	assert.Empty(g.HeldPitches())
	assert.Equal(model.Partial, g.Grade().Verdict)
}

func TestActiveMeasureIndexClampsWhenFinished(t *testing.T) {
	g := newGrader(score.Sample())
	for _, p := range []int{72, 48, 74, 76, 43, 79, 52, 77, 48, 50, 47} {
		g.NoteOn(p)
	}

	assert := assert.New(t)
	assert.True(g.Finished())
	assert.Equal(8, g.ActiveIndex())
	assert.Equal(1, g.ActiveMeasureIndex())
	_, ok := g.ActiveOnset()
	assert.False(ok)
}

func TestLogsMistakes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g := New(nil, WithLogger(zap.New(core))).InitFromScore(twoQuarters(), timeline.Options{})

	g.NoteOn(61)
	g.NoteOn(60)

	assert := assert.New(t)
	assert.Equal(1, logs.FilterMessage("wrong note").Len())
	assert.Equal(1, logs.FilterMessage("matched note").Len())
	assert.Equal(1, logs.FilterMessage("advanced").Len())
	assert.Equal(1, logs.FilterMessage("grader initialised").Len())
}
