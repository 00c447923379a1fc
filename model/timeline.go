package model

// TimelineEvent is one sounding notehead with an absolute onset.
type TimelineEvent struct {
	ID       int    `json:"id"`
	Onset    int    `json:"onset"`
	Duration int    `json:"duration"`
	Pitch    int    `json:"pitch"`
	Staff    string `json:"staff"`
	Voice    int    `json:"voice"`
	Measure  int    `json:"measure"`
	Item     int    `json:"item"`
	Head     int    `json:"head"`
}

// End is the first tick at which the event no longer sounds.
func (e TimelineEvent) End() int {
	return e.Onset + e.Duration
}

// Sounding reports whether the event is still sounding at tick.
func (e TimelineEvent) Sounding(tick int) bool {
	return e.Onset < tick && e.End() > tick
}

type VoiceKey struct {
	Staff string
	Voice int
}

func (e TimelineEvent) VoiceKey() VoiceKey {
	return VoiceKey{Staff: e.Staff, Voice: e.Voice}
}
