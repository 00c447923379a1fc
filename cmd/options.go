package cmd

import (
	"strconv"
	"strings"

	"github.com/jsphweid/chorale/timeline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// timelineFlags are shared by every command that builds a timeline.
type timelineFlags struct {
	start  int
	max    int
	voices []string
}

func (f *timelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.start, "start", 0, "first measure index")
	cmd.Flags().IntVar(&f.max, "max", 0, "maximum number of measures, 0 for all")
	cmd.Flags().StringArrayVar(&f.voices, "voices", nil, "voice filter as staff=0,1 (repeatable, empty list mutes the staff)")
}

func (f *timelineFlags) options() (timeline.Options, error) {
	sel, err := parseVoices(f.voices)
	if err != nil {
		return timeline.Options{}, err
	}
	return timeline.Options{
		StartMeasure: f.start,
		MaxMeasures:  f.max,
		SelectVoices: sel,
	}, nil
}

// parseVoices turns ["treble=0", "bass="] into a voice selection.
func parseVoices(filters []string) (map[string][]int, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	sel := make(map[string][]int, len(filters))
	for _, f := range filters {
		staff, list, ok := strings.Cut(f, "=")
		if !ok || staff == "" {
			return nil, errors.Errorf("invalid voice filter %q, want staff=0,1", f)
		}
		voices := []int{}
		for _, part := range strings.Split(list, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return nil, errors.Errorf("invalid voice index %q in %q", part, f)
			}
			voices = append(voices, n)
		}
		sel[staff] = append(sel[staff], voices...)
	}
	return sel, nil
}
