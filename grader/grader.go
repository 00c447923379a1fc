// Package grader matches a live stream of note events against the windows of
// a score timeline.
//
// A Grader is a single-writer state machine: NoteOn, NoteOff and Grade must
// be called from one goroutine (or otherwise serialised). Nothing blocks and
// nothing fails; a wrong note is reported as an INCORRECT verdict.
package grader

import (
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/timeline"
	"github.com/jsphweid/chorale/util"
	"go.uber.org/zap"
)

type Option func(*Grader)

func WithLogger(log *zap.Logger) Option {
	return func(g *Grader) {
		if log != nil {
			g.log = log
		}
	}
}

type Grader struct {
	index   *timeline.Index
	pointer int

	played map[int]struct{}
	held   map[int]struct{}

	// mistakeMade never clears until Reset; lastIncorrect is consumed by Grade.
	mistakeMade   bool
	lastIncorrect bool
	finished      bool

	log *zap.Logger
}

// New creates a grader over a prebuilt index. The index is only read, so one
// index may back many graders.
func New(idx *timeline.Index, opts ...Option) *Grader {
	g := &Grader{log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	g.index = idx
	g.Reset()
	return g
}

// InitFromScore builds a fresh timeline and index for s and resets the
// grader onto it.
func (g *Grader) InitFromScore(s model.Score, opts timeline.Options) *Grader {
	g.index = timeline.FromScore(s, opts)
	g.Reset()
	g.logger().Info("grader initialised",
		zap.Int("measures", len(s.Measures)),
		zap.Int("events", g.index.NumEvents()),
		zap.Int("windows", g.index.Len()),
		zap.Bool("monotonic", g.index.Monotonic()),
	)
	return g
}

// Reset starts a new attempt on the same index.
func (g *Grader) Reset() {
	g.pointer = 0
	g.played = make(map[int]struct{})
	g.held = make(map[int]struct{})
	g.mistakeMade = false
	g.lastIncorrect = false
	g.finished = g.index.Len() == 0
}

func (g *Grader) logger() *zap.Logger {
	if g.log == nil {
		return zap.NewNop()
	}
	return g.log
}

// NoteOn feeds one key press. The pitch is matched against the unplayed
// events of the current window first, then against notes held over from
// earlier windows. Completed windows are skipped in a cascade.
func (g *Grader) NoteOn(pitch int) {
	if g.finished || g.index == nil || g.pointer >= g.index.Len() {
		return
	}
	log := g.logger()
	g.held[pitch] = struct{}{}

	w := g.index.Window(g.pointer)
	ev, ok := g.match(w.Events, pitch)
	if !ok {
		ev, ok = g.match(w.Held, pitch)
	}

	if ok {
		log.Debug("matched note",
			zap.Int("pitch", pitch),
			zap.Int("id", ev.ID),
			zap.Int("window", g.pointer),
			zap.Int("onset", w.Onset),
			zap.Bool("held", ev.Onset != w.Onset),
		)
	} else {
		g.mistakeMade = true
		g.lastIncorrect = true
		log.Debug("wrong note",
			zap.Int("pitch", pitch),
			zap.String("name", model.PitchName(pitch)),
			zap.Int("window", g.pointer),
			zap.Int("onset", w.Onset),
		)
	}

	from := g.pointer
	g.advance()
	if g.pointer != from {
		log.Debug("advanced", zap.Int("from", from), zap.Int("to", g.pointer), zap.Bool("finished", g.finished))
	}
}

// NoteOff only tracks the release; it never affects grading.
func (g *Grader) NoteOff(pitch int) {
	delete(g.held, pitch)
}

func (g *Grader) match(positions []int, pitch int) (model.TimelineEvent, bool) {
	for _, pos := range positions {
		ev := g.index.Event(pos)
		if ev.Pitch != pitch {
			continue
		}
		if _, done := g.played[ev.ID]; done {
			continue
		}
		g.played[ev.ID] = struct{}{}
		return ev, true
	}
	return model.TimelineEvent{}, false
}

func (g *Grader) allPlayed(positions []int) bool {
	for _, pos := range positions {
		if _, ok := g.played[g.index.Event(pos).ID]; !ok {
			return false
		}
	}
	return true
}

// advance moves past every window whose attacks and held notes are all
// played. Each step consumes a window, so the loop runs at most Len times.
func (g *Grader) advance() {
	n := g.index.Len()
	for steps := 0; g.pointer < n && steps < n; steps++ {
		w := g.index.Window(g.pointer)
		if !g.allPlayed(w.Events) || !g.allPlayed(w.Held) {
			break
		}
		g.pointer++
	}
	if g.pointer >= n {
		g.finished = true
	}
}

// Grade reports the verdict for the input so far. A pending wrong note is
// reported once and then cleared.
func (g *Grader) Grade() model.GradeResult {
	n := g.WindowCount()
	res := model.GradeResult{
		Verdict:     model.Partial,
		ActiveIndex: util.Clamp(g.pointer, 0, n-1),
	}

	switch {
	case g.lastIncorrect:
		g.lastIncorrect = false
		res.Verdict = model.Incorrect
	case g.Finished():
		res.Verdict = model.Correct
		res.ActiveIndex = n
	}

	res.Score = res.Verdict.Code()
	return res
}

func (g *Grader) WindowCount() int {
	return g.index.Len()
}

// ActiveIndex is the current window, WindowCount once finished.
func (g *Grader) ActiveIndex() int {
	return g.pointer
}

// ActiveMeasureIndex is the lowest measure index of the current window, or
// of the last window once finished.
func (g *Grader) ActiveMeasureIndex() int {
	n := g.WindowCount()
	if n == 0 {
		return 0
	}
	return g.index.Window(util.Clamp(g.pointer, 0, n-1)).MinMeasure
}

// ActiveOnset is the onset tick of the current window.
func (g *Grader) ActiveOnset() (int, bool) {
	if g.pointer >= g.WindowCount() {
		return 0, false
	}
	return g.index.Window(g.pointer).Onset, true
}

func (g *Grader) IsPlayed(id int) bool {
	_, ok := g.played[id]
	return ok
}

// PlayedNoteIDs returns the matched event ids in ascending order.
func (g *Grader) PlayedNoteIDs() []int {
	return util.SortedKeys(g.played)
}

// HeldPitches returns the pitches currently pressed, ascending.
func (g *Grader) HeldPitches() []int {
	return util.SortedKeys(g.held)
}

func (g *Grader) MistakeMade() bool {
	return g.mistakeMade
}

// Finished is true once every window has been played, or when there is
// nothing to play.
func (g *Grader) Finished() bool {
	return g.finished || g.WindowCount() == 0
}

func (g *Grader) Index() *timeline.Index {
	return g.index
}
