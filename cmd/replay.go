package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/chorale/grader"
	"github.com/jsphweid/chorale/midi"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/practice"
	"github.com/jsphweid/chorale/score"
	"github.com/spf13/cobra"
)

var (
	replayOpts      timelineFlags
	replaySkipTicks int64
)

func init() {
	replayOpts.register(replayCmd)
	replayCmd.Flags().Int64Var(&replaySkipTicks, "skip-ticks", 0, "ignore notes recorded before this tick")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay <score> <performance.mid>",
	Short: "Grades a recorded MIDI performance against a score",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := score.Load(args[0])
		if err != nil {
			return err
		}
		opts, err := replayOpts.options()
		if err != nil {
			return err
		}
		perf, err := midi.ReadMidiFile(args[1])
		if err != nil {
			return err
		}
		if replaySkipTicks > 0 {
			perf = midi.Excerpt(perf, replaySkipTicks)
		}
		events := midi.InputEvents(perf)

		out := cmd.OutOrStdout()
		g := grader.New(nil, grader.WithLogger(log)).InitFromScore(s, opts)
		sum := practice.Replay(g, events,
			practice.WithLogger(log),
			practice.WithReport(func(r practice.Report) { printReport(out, r) }),
		)
		printSummary(out, sum)
		return nil
	},
}

func printReport(w io.Writer, r practice.Report) {
	fmt.Fprintf(w, "%8d %-4s %-9s window %d measure %d onset %d\n",
		r.Event.Tick, model.PitchName(r.Event.Pitch), r.Result.Verdict, r.Result.ActiveIndex, r.ActiveMeasure, r.ActiveOnset)
}

func printSummary(w io.Writer, sum practice.Summary) {
	fmt.Fprintf(w, "finished: %t, mistakes: %t, wrong notes: %d, windows: %d/%d, played: %d\n",
		sum.Finished, sum.MistakeMade, sum.Incorrect, sum.ActiveIndex, sum.Windows, len(sum.Played))
}
