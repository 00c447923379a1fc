package model

type DurationType string

const (
	Whole        DurationType = "w"
	Half         DurationType = "h"
	Quarter      DurationType = "q"
	Eighth       DurationType = "8"
	Sixteenth    DurationType = "16"
	ThirtySecond DurationType = "32"
)

// TicksPerQuarter is the resolution of the timeline. Exported MIDI files use
// the same value so score ticks map 1:1 to file ticks.
const TicksPerQuarter = 1024

var baseTicks = map[DurationType]int{
	Whole:        4096,
	Half:         2048,
	Quarter:      1024,
	Eighth:       512,
	Sixteenth:    256,
	ThirtySecond: 128,
}

type Duration struct {
	Type DurationType `json:"type" yaml:"type"`
	Dots int          `json:"dots" yaml:"dots"`
}

// Ticks converts the duration to timeline ticks. Each dot adds half of the
// previous increment. Unknown types count as a quarter.
func (d Duration) Ticks() int {
	base, ok := baseTicks[d.Type]
	if !ok {
		base = TicksPerQuarter
	}
	ticks := base
	add := base / 2
	for i := 0; i < d.Dots; i++ {
		ticks += add
		add /= 2
	}
	return ticks
}
