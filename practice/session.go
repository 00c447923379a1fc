// Package practice drives a grader from an input stream.
package practice

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/chorale/grader"
	"github.com/jsphweid/chorale/model"
	"go.uber.org/zap"
)

// Report is the grader's answer to one key press.
type Report struct {
	Event         model.InputEvent
	Result        model.GradeResult
	ActiveMeasure int
	// ActiveOnset is the onset tick of the window now expected, -1 once
	// the piece is finished.
	ActiveOnset   int
	Played        int
}

// Summary describes a finished or abandoned attempt.
type Summary struct {
	Finished    bool
	MistakeMade bool
	Incorrect   int
	ActiveIndex int
	Windows     int
	Played      []int
}

type Option func(*Session)

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithReport is called after every graded key press, on the consuming
// goroutine.
func WithReport(fn func(Report)) Option {
	return func(s *Session) {
		s.onReport = fn
	}
}

// WithPosition reports the cursor position at most once per quiet period of
// wait, so a chord lands as one update. fn runs on a timer goroutine and only
// receives copies of the position.
func WithPosition(fn func(window, measure int), wait time.Duration) Option {
	return func(s *Session) {
		s.onPosition = fn
		s.debounced = debounce.New(wait)
	}
}

// Session owns one grader and is its only writer.
type Session struct {
	grader     *grader.Grader
	log        *zap.Logger
	onReport   func(Report)
	onPosition func(window, measure int)
	debounced  func(func())
	incorrect  int

	posMu   sync.Mutex
	stopped bool
}

func NewSession(g *grader.Grader, opts ...Option) *Session {
	s := &Session{grader: g, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle applies one input event. Releases are not graded and produce no
// report.
func (s *Session) Handle(ev model.InputEvent) (Report, bool) {
	if ev.Kind == model.NoteOff {
		s.grader.NoteOff(ev.Pitch)
		return Report{}, false
	}

	s.grader.NoteOn(ev.Pitch)
	r := Report{
		Event:         ev,
		Result:        s.grader.Grade(),
		ActiveMeasure: s.grader.ActiveMeasureIndex(),
		ActiveOnset:   -1,
		Played:        len(s.grader.PlayedNoteIDs()),
	}
	if onset, ok := s.grader.ActiveOnset(); ok {
		r.ActiveOnset = onset
	}
	if r.Result.Verdict == model.Incorrect {
		s.incorrect++
	}

	s.log.Debug("graded",
		zap.String("pitch", model.PitchName(ev.Pitch)),
		zap.String("verdict", string(r.Result.Verdict)),
		zap.Int("window", r.Result.ActiveIndex),
		zap.Int("measure", r.ActiveMeasure),
	)
	if s.onReport != nil {
		s.onReport(r)
	}
	if s.onPosition != nil {
		window, measure := s.grader.ActiveIndex(), r.ActiveMeasure
		s.debounced(func() {
			s.posMu.Lock()
			defer s.posMu.Unlock()
			if !s.stopped {
				s.onPosition(window, measure)
			}
		})
	}
	return r, true
}

// Run consumes in until it is closed, ctx is done, or the piece is finished.
// It must be the only consumer of in.
func (s *Session) Run(ctx context.Context, in <-chan model.InputEvent) Summary {
	defer s.Stop()
	for !s.grader.Finished() {
		select {
		case <-ctx.Done():
			return s.Summary()
		case ev, ok := <-in:
			if !ok {
				return s.Summary()
			}
			s.Handle(ev)
		}
	}
	return s.Summary()
}

// Stop drops a pending position update and waits for one already running.
// No position is reported afterwards.
func (s *Session) Stop() {
	if s.debounced != nil {
		s.debounced(func() {})
	}
	s.posMu.Lock()
	s.stopped = true
	s.posMu.Unlock()
}

func (s *Session) Summary() Summary {
	return Summary{
		Finished:    s.grader.Finished(),
		MistakeMade: s.grader.MistakeMade(),
		Incorrect:   s.incorrect,
		ActiveIndex: s.grader.ActiveIndex(),
		Windows:     s.grader.WindowCount(),
		Played:      s.grader.PlayedNoteIDs(),
	}
}

// Replay feeds a recorded performance through a fresh session.
func Replay(g *grader.Grader, events []model.InputEvent, opts ...Option) Summary {
	s := NewSession(g, opts...)
	defer s.Stop()
	for _, ev := range events {
		s.Handle(ev)
	}
	return s.Summary()
}
