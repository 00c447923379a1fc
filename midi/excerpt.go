package midi

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// Excerpt returns a copy of s starting at tick from. Note messages before
// from are dropped; every other message is kept and moved to tick 0 so
// tempo and program changes still apply.
func Excerpt(s *smf.SMF, from int64) *smf.SMF {
	var res smf.SMF
	res.TimeFormat = s.TimeFormat

	for _, track := range s.Tracks {
		var newTrack smf.Track
		var absTicks, last int64
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			if absTicks < from {
				var channel, key, velocity uint8
				if evt.Message.GetNoteOn(&channel, &key, &velocity) ||
					evt.Message.GetNoteOff(&channel, &key, &velocity) {
					continue
				}
				evt.Delta = 0
			} else {
				evt.Delta = uint32(absTicks - from - last)
				last = absTicks - from
			}
			newTrack = append(newTrack, evt)
		}
		res.Tracks = append(res.Tracks, newTrack)
	}

	return &res
}
