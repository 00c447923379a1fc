// Package timeline flattens a score into onset-ordered note events and groups
// them into the windows a performance is graded against.
package timeline

import (
	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/util"
)

type Options struct {
	// StartMeasure is the first score measure to include.
	StartMeasure int
	// MaxMeasures limits how many measures are included, 0 means to the end.
	MaxMeasures int
	// SelectVoices restricts emission to the listed voice indices of a staff.
	// Staves without an entry are not filtered; an empty entry emits nothing.
	SelectVoices map[string][]int
	// StaffOrder overrides constants.DefaultStaffOrder.
	StaffOrder []string
}

func (o Options) measureRange(numMeasures int) (int, int) {
	start := util.Max(o.StartMeasure, 0)
	end := numMeasures
	if o.MaxMeasures > 0 {
		end = util.Min(end, start+o.MaxMeasures)
	}
	return start, end
}

func staffOrder(m model.Measure, preferred []string) []string {
	if preferred == nil {
		preferred = constants.DefaultStaffOrder
	}
	var res []string
	for _, id := range preferred {
		if _, ok := m.Staves[id]; ok && !util.Contains(res, id) {
			res = append(res, id)
		}
	}
	for _, id := range util.SortedKeys(m.Staves) {
		if !util.Contains(res, id) {
			res = append(res, id)
		}
	}
	return res
}

// Build flattens the score into a list of note events with absolute onsets.
// Each measure starts where the previous one ended, and a measure lasts as
// long as its longest voice (measured before any voice filtering). Short
// voices are not padded.
func Build(s model.Score, opts Options) []model.TimelineEvent {
	var timeline []model.TimelineEvent
	start, end := opts.measureRange(len(s.Measures))

	var id, measureStart int
	for m := start; m < end; m++ {
		meas := s.Measures[m]
		for _, staffID := range staffOrder(meas, opts.StaffOrder) {
			staff := meas.Staves[staffID]
			selected, filtered := opts.SelectVoices[staffID]
			for v, voice := range staff.Voices {
				if filtered && !util.Contains(selected, v) {
					continue
				}
				var localOnset int
				for it, item := range voice.Items {
					if item == nil {
						continue
					}
					ticks := item.Dur().Ticks()
					ev := model.TimelineEvent{
						Onset:    measureStart + localOnset,
						Duration: ticks,
						Staff:    staffID,
						Voice:    v,
						Measure:  m,
						Item:     it,
					}
					switch item := item.(type) {
					case model.Note:
						ev.ID = id
						ev.Pitch = item.Pitch.Number()
						timeline = append(timeline, ev)
						id++
					case model.Chord:
						for h, p := range item.Pitches {
							ev.ID = id
							ev.Pitch = p.Number()
							ev.Head = h
							timeline = append(timeline, ev)
							id++
						}
					}
					localOnset += ticks
				}
			}
		}
		measureStart += meas.Ticks()
	}

	return timeline
}

// MeasureStarts returns the absolute start tick of every included measure,
// keyed by score measure index.
func MeasureStarts(s model.Score, opts Options) map[int]int {
	res := make(map[int]int)
	start, end := opts.measureRange(len(s.Measures))
	var tick int
	for m := start; m < end; m++ {
		res[m] = tick
		tick += s.Measures[m].Ticks()
	}
	return res
}
