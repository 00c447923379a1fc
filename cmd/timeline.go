package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/score"
	"github.com/jsphweid/chorale/timeline"
	"github.com/jsphweid/chorale/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var timelineOpts timelineFlags

func init() {
	timelineOpts.register(timelineCmd)
	rootCmd.AddCommand(timelineCmd)
}

var timelineCmd = &cobra.Command{
	Use:   "timeline <score>",
	Short: "Prints the onset windows of a score",
	Long: `Prints one line per onset window: the measure it starts in, its onset
tick, the pitches that must be played and the pitches still held from
earlier onsets.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := score.Load(args[0])
		if err != nil {
			return err
		}
		opts, err := timelineOpts.options()
		if err != nil {
			return err
		}

		idx := timeline.FromScore(s, opts)
		if !idx.Monotonic() {
			log.Warn("window onsets are not ascending, windows will be graded in first-seen order",
				zap.String("score", args[0]))
		}
		printWindows(cmd.OutOrStdout(), idx)
		printMeasureStarts(cmd.OutOrStdout(), idx, timeline.MeasureStarts(s, opts))
		return nil
	},
}

func printWindows(w io.Writer, idx *timeline.Index) {
	for i := 0; i < idx.Len(); i++ {
		win := idx.Window(i)
		fmt.Fprintf(w, "%3d m%d @%d play [%s] held [%s]\n",
			i, win.MinMeasure, win.Onset, pitchList(idx, win.Events), pitchList(idx, win.Held))
	}
}

// printMeasureStarts shows where each measure begins and which window, if
// any, has its first onset.
func printMeasureStarts(w io.Writer, idx *timeline.Index, starts map[int]int) {
	for _, m := range util.SortedKeys(starts) {
		tick := starts[m]
		if win, ok := idx.WindowOf(tick); ok {
			fmt.Fprintf(w, "m%d starts @%d window %d\n", m, tick, win)
		} else {
			fmt.Fprintf(w, "m%d starts @%d no window\n", m, tick)
		}
	}
}

func pitchList(idx *timeline.Index, positions []int) string {
	names := make([]string, 0, len(positions))
	for _, pos := range positions {
		names = append(names, model.PitchName(idx.Event(pos).Pitch))
	}
	return strings.Join(names, " ")
}
