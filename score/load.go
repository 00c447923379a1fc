package score

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	JSON Format = iota
	YAML
)

type rawHead struct {
	Pitch model.Pitch `json:"pitch" yaml:"pitch"`
}

type rawItem struct {
	Kind     string         `json:"kind" yaml:"kind"`
	Pitch    *model.Pitch   `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Notes    []rawHead      `json:"notes,omitempty" yaml:"notes,omitempty"`
	Duration model.Duration `json:"duration" yaml:"duration"`
}

type rawVoice struct {
	Direction string    `json:"direction" yaml:"direction"`
	Items     []rawItem `json:"items" yaml:"items"`
}

type rawStaff struct {
	Clef   string     `json:"clef" yaml:"clef"`
	Voices []rawVoice `json:"voices" yaml:"voices"`
}

type rawMeasure struct {
	Number int                 `json:"number" yaml:"number"`
	Staves map[string]rawStaff `json:"staves" yaml:"staves"`
}

type rawScore struct {
	Meta     model.Meta   `json:"meta" yaml:"meta"`
	Measures []rawMeasure `json:"measures" yaml:"measures"`
}

// rawDocument accepts both an exercise/corpus document with a "score" member
// and a bare score.
type rawDocument struct {
	Score *rawScore `json:"score" yaml:"score"`
	rawScore `yaml:",inline"`
}

func (d *rawDocument) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Score *rawScore `json:"score"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Score != nil {
		d.Score = wrapped.Score
		return nil
	}
	return json.Unmarshal(data, &d.rawScore)
}

func convertItem(raw rawItem) (model.Item, error) {
	switch raw.Kind {
	case "rest":
		return model.Rest{Duration: raw.Duration}, nil
	case "note":
		if raw.Pitch == nil {
			return nil, errors.New("note without pitch")
		}
		return model.Note{Pitch: *raw.Pitch, Duration: raw.Duration}, nil
	case "chord":
		pitches := make([]model.Pitch, 0, len(raw.Notes))
		for _, head := range raw.Notes {
			pitches = append(pitches, head.Pitch)
		}
		return model.Chord{Pitches: pitches, Duration: raw.Duration}, nil
	default:
		return nil, errors.Errorf("unknown item kind %q", raw.Kind)
	}
}

func (raw rawScore) convert() (model.Score, error) {
	res := model.Score{Meta: raw.Meta}
	for m, rm := range raw.Measures {
		meas := model.Measure{Number: rm.Number, Staves: make(map[string]model.Staff, len(rm.Staves))}
		for id, rs := range rm.Staves {
			staff := model.Staff{Clef: rs.Clef}
			for v, rv := range rs.Voices {
				voice := model.Voice{Direction: rv.Direction}
				for it, ri := range rv.Items {
					item, err := convertItem(ri)
					if err != nil {
						return model.Score{}, errors.Wrapf(err, "measure %d staff %s voice %d item %d", m, id, v, it)
					}
					voice.Items = append(voice.Items, item)
				}
				staff.Voices = append(staff.Voices, voice)
			}
			meas.Staves[id] = staff
		}
		res.Measures = append(res.Measures, meas)
	}
	return res, nil
}

// Parse decodes a score document.
func Parse(data []byte, format Format) (model.Score, error) {
	var doc rawDocument
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return model.Score{}, errors.Wrap(err, "could not decode score document")
	}

	raw := doc.rawScore
	if doc.Score != nil {
		raw = *doc.Score
	}
	return raw.convert()
}

func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Load reads a score document from disk, picking the decoder by extension.
func Load(path string) (model.Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Score{}, errors.Wrapf(err, "could not read score %s", path)
	}
	s, err := Parse(data, FormatOf(path))
	if err != nil {
		return model.Score{}, errors.Wrapf(err, "could not load score %s", path)
	}
	return s, nil
}
