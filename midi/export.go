package midi

import (
	"github.com/jsphweid/chorale/constants"
	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// PerformanceEvents turns a timeline into the key presses and releases of a
// player sounding every note at its onset for its full duration.
func PerformanceEvents(events []model.TimelineEvent) []model.InputEvent {
	res := make([]model.InputEvent, 0, 2*len(events))
	for _, ev := range events {
		res = append(res,
			model.InputEvent{Kind: model.NoteOn, Pitch: ev.Pitch, Tick: int64(ev.Onset)},
			model.InputEvent{Kind: model.NoteOff, Pitch: ev.Pitch, Tick: int64(ev.End())},
		)
	}
	sortInputEvents(res)
	return res
}

// Export renders a timeline as a single track SMF. The resolution equals the
// timeline's ticks per quarter, so ticks carry over unchanged.
func Export(events []model.TimelineEvent) (*smf.SMF, error) {
	var tr smf.Track
	var last int64
	for _, ev := range PerformanceEvents(events) {
		if ev.Pitch < 0 || ev.Pitch > 127 {
			return nil, errors.Errorf("pitch %d is outside the MIDI range", ev.Pitch)
		}
		delta := uint32(ev.Tick - last)
		key := uint8(ev.Pitch)
		if ev.Kind == model.NoteOn {
			tr.Add(delta, midi.NoteOn(constants.DefaultChannel, key, constants.DefaultVelocity))
		} else {
			tr.Add(delta, midi.NoteOff(constants.DefaultChannel, key))
		}
		last = ev.Tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(model.TicksPerQuarter)
	if err := s.Add(tr); err != nil {
		return nil, errors.Wrap(err, "could not add track")
	}
	return s, nil
}

func ExportFile(events []model.TimelineEvent, path string) error {
	s, err := Export(events)
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return errors.Wrapf(err, "could not write %s", path)
	}
	return nil
}
