package model

import "encoding/json"

// CreateSessionRequestBody carries a score document plus timeline options.
type CreateSessionRequestBody struct {
	Score        json.RawMessage  `json:"score"`
	StartMeasure int              `json:"start"`
	MaxMeasures  int              `json:"max"`
	Voices       map[string][]int `json:"voices,omitempty"`
}

type CreateSessionResponse struct {
	ID      string `json:"id"`
	Windows int    `json:"windows"`
	Events  int    `json:"events"`
}

type NoteRequestBody struct {
	Pitch int `json:"pitch"`
}

type SessionResponse struct {
	GradeResult
	ActiveMeasure int   `json:"active_measure"`
	PlayedNoteIds []int `json:"played_note_ids"`
	Finished      bool  `json:"finished"`
	MistakeMade   bool  `json:"mistake_made"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
