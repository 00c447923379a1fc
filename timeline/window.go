package timeline

import (
	"sort"

	"github.com/jsphweid/chorale/model"
)

// Window is every timeline event sharing one onset.
type Window struct {
	Onset int
	// Events are timeline positions in emission order.
	Events []int
	// MinMeasure is the smallest measure index among Events.
	MinMeasure int
	// Held are timeline positions of notes from earlier onsets still sounding
	// at Onset, at most one per staff/voice. Filled by NewIndex.
	Held []int
}

// GroupByOnset groups events into windows. Windows are ordered by the first
// time their onset appears in the timeline, not by onset value. The timeline
// is staff-major within a measure, so a later staff can introduce an onset
// smaller than one an earlier staff already registered.
func GroupByOnset(events []model.TimelineEvent) []Window {
	var windows []Window
	onsetToWindow := make(map[int]int)
	for i, ev := range events {
		w, ok := onsetToWindow[ev.Onset]
		if !ok {
			w = len(windows)
			onsetToWindow[ev.Onset] = w
			windows = append(windows, Window{Onset: ev.Onset, MinMeasure: ev.Measure})
		}
		windows[w].Events = append(windows[w].Events, i)
		if ev.Measure < windows[w].MinMeasure {
			windows[w].MinMeasure = ev.Measure
		}
	}
	return windows
}

// HeldAt returns the positions of notes still sounding at tick: for every
// staff/voice, its latest event starting before tick, kept only if it lasts
// past tick. Positions are in the order a backward scan of the timeline finds
// them.
func HeldAt(events []model.TimelineEvent, tick int) []int {
	latest := make(map[model.VoiceKey]int)
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if ev.Onset >= tick {
			continue
		}
		k := ev.VoiceKey()
		if j, ok := latest[k]; !ok || events[j].Onset < ev.Onset {
			latest[k] = i
		}
	}

	var held []int
	for _, i := range latest {
		if events[i].Sounding(tick) {
			held = append(held, i)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(held)))
	return held
}

// Index is the immutable product of a timeline: its events and windows. It is
// safe to share one Index between any number of graders.
type Index struct {
	events        []model.TimelineEvent
	windows       []Window
	onsetToWindow map[int]int
}

func NewIndex(events []model.TimelineEvent) *Index {
	events = append([]model.TimelineEvent(nil), events...)
	windows := GroupByOnset(events)
	onsetToWindow := make(map[int]int, len(windows))
	for i := range windows {
		windows[i].Held = HeldAt(events, windows[i].Onset)
		onsetToWindow[windows[i].Onset] = i
	}
	return &Index{
		events:        events,
		windows:       windows,
		onsetToWindow: onsetToWindow,
	}
}

// FromScore builds the timeline and its index in one step.
func FromScore(s model.Score, opts Options) *Index {
	return NewIndex(Build(s, opts))
}

// Len is the number of windows.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.windows)
}

func (ix *Index) NumEvents() int {
	if ix == nil {
		return 0
	}
	return len(ix.events)
}

func (ix *Index) Window(i int) Window {
	return ix.windows[i]
}

func (ix *Index) Event(pos int) model.TimelineEvent {
	return ix.events[pos]
}

// WindowOf returns the window holding onset.
func (ix *Index) WindowOf(onset int) (int, bool) {
	if ix == nil {
		return 0, false
	}
	w, ok := ix.onsetToWindow[onset]
	return w, ok
}

// Monotonic reports whether window onsets happen to be strictly ascending.
func (ix *Index) Monotonic() bool {
	for i := 1; i < ix.Len(); i++ {
		if ix.windows[i].Onset <= ix.windows[i-1].Onset {
			return false
		}
	}
	return true
}
