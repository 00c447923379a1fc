// Package midi connects the grader to MIDI: standard MIDI files for replay
// and export, and live input ports.
package midi

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = &blank
			e = errors.New(fmt.Sprint(r))
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, errors.Wrap(err, "error reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, errors.Wrap(err, "error parsing midi file")
	}

	return res, nil
}

func sortInputEvents(events []model.InputEvent) {
	// earlier ticks first, then releases before presses
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Tick != events[j].Tick {
			return events[i].Tick < events[j].Tick
		}
		return events[i].Kind == model.NoteOff && events[j].Kind != model.NoteOff
	})
}

// InputEvents merges the note messages of every track into one stream of
// input events ordered by absolute tick. A note on with velocity 0 is a
// release.
func InputEvents(s *smf.SMF) []model.InputEvent {
	var events []model.InputEvent

	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				kind := model.NoteOn
				if velocity == 0 {
					kind = model.NoteOff
				}
				events = append(events, model.InputEvent{Kind: kind, Pitch: int(key), Tick: absTicks})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				events = append(events, model.InputEvent{Kind: model.NoteOff, Pitch: int(key), Tick: absTicks})
			}
		}
	}

	sortInputEvents(events)
	return events
}

// ReadInputEvents is ReadMidiFile followed by InputEvents.
func ReadInputEvents(path string) ([]model.InputEvent, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return InputEvents(s), nil
}
