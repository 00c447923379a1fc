package model

// Item is one entry of a voice: a Rest, a Note or a Chord.
type Item interface {
	Dur() Duration
	isItem()
}

type Rest struct {
	Duration Duration
}

type Note struct {
	Pitch    Pitch
	Duration Duration
}

// Chord holds one pitch per notehead, in notehead order.
type Chord struct {
	Pitches  []Pitch
	Duration Duration
}

func (r Rest) Dur() Duration  { return r.Duration }
func (n Note) Dur() Duration  { return n.Duration }
func (c Chord) Dur() Duration { return c.Duration }

func (Rest) isItem()  {}
func (Note) isItem()  {}
func (Chord) isItem() {}

type Voice struct {
	// Direction is a stem hint for renderers ("up", "down", "auto").
	Direction string
	Items     []Item
}

// Ticks is the summed duration of all items in the voice.
func (v Voice) Ticks() int {
	var total int
	for _, it := range v.Items {
		if it != nil {
			total += it.Dur().Ticks()
		}
	}
	return total
}

type Staff struct {
	Clef   string
	Voices []Voice
}

type Measure struct {
	Number int
	Staves map[string]Staff
}

// Ticks is the measure length: the longest voice across every staff.
func (m Measure) Ticks() int {
	var longest int
	for _, staff := range m.Staves {
		for _, v := range staff.Voices {
			if t := v.Ticks(); t > longest {
				longest = t
			}
		}
	}
	return longest
}

// Meta is advisory only, nothing enforces key or meter.
type Meta struct {
	Key  string `json:"key,omitempty" yaml:"key,omitempty"`
	Time string `json:"time,omitempty" yaml:"time,omitempty"`
}

type Score struct {
	Meta     Meta
	Measures []Measure
}
