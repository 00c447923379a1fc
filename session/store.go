// Package session keeps in-memory graders for the HTTP API.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jsphweid/chorale/grader"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/timeline"
	"go.uber.org/zap"
)

// Session serialises access to its grader; requests for one session may
// arrive on any number of goroutines.
type Session struct {
	ID string

	mu     sync.Mutex
	grader *grader.Grader
}

// Do runs fn with exclusive access to the grader.
func (s *Session) Do(fn func(g *grader.Grader)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.grader)
}

func (s *Session) NoteOn(pitch int) model.SessionResponse {
	var res model.SessionResponse
	s.Do(func(g *grader.Grader) {
		g.NoteOn(pitch)
		res = snapshot(g, g.Grade())
	})
	return res
}

func (s *Session) NoteOff(pitch int) model.SessionResponse {
	var res model.SessionResponse
	s.Do(func(g *grader.Grader) {
		g.NoteOff(pitch)
		res = snapshot(g, g.Grade())
	})
	return res
}

func (s *Session) Status() model.SessionResponse {
	var res model.SessionResponse
	s.Do(func(g *grader.Grader) {
		res = snapshot(g, g.Grade())
	})
	return res
}

func snapshot(g *grader.Grader, r model.GradeResult) model.SessionResponse {
	return model.SessionResponse{
		GradeResult:   r,
		ActiveMeasure: g.ActiveMeasureIndex(),
		PlayedNoteIds: g.PlayedNoteIDs(),
		Finished:      g.Finished(),
		MistakeMade:   g.MistakeMade(),
	}
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{sessions: make(map[string]*Session), log: log}
}

// Create starts a new attempt on s.
func (st *Store) Create(s model.Score, opts timeline.Options) *Session {
	idx := timeline.FromScore(s, opts)
	sess := &Session{
		ID:     uuid.New().String(),
		grader: grader.New(idx, grader.WithLogger(st.log)),
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	st.log.Info("session created",
		zap.String("id", sess.ID),
		zap.Int("events", idx.NumEvents()),
		zap.Int("windows", idx.Len()),
	)
	return sess
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
