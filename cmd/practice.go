package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/grader"
	"github.com/jsphweid/chorale/midi"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/practice"
	"github.com/jsphweid/chorale/score"
	"github.com/jsphweid/chorale/timeline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
	"go.uber.org/zap"
)

var (
	practiceOpts  timelineFlags
	practicePorts bool
)

func init() {
	practiceOpts.register(practiceCmd)
	practiceCmd.Flags().Int("port", 0, "MIDI input port number (midi.port)")
	practiceCmd.Flags().BoolVar(&practicePorts, "list", false, "list MIDI input ports and exit")
	rootCmd.AddCommand(practiceCmd)
}

var practiceCmd = &cobra.Command{
	Use:   "practice <score>",
	Short: "Grades live playing from a MIDI keyboard",
	Args: func(cmd *cobra.Command, args []string) error {
		if practicePorts {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.CloseDriver()
		out := cmd.OutOrStdout()

		if practicePorts {
			for i, name := range midi.InPorts() {
				fmt.Fprintf(out, "%d: %s\n", i, name)
			}
			return nil
		}

		if err := conf.Viper().BindPFlag("midi.port", cmd.Flags().Lookup("port")); err != nil {
			return err
		}
		if err := conf.Refresh(); err != nil {
			return err
		}
		c := conf.Get()

		s, err := score.Load(args[0])
		if err != nil {
			return err
		}
		opts, err := practiceOpts.options()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		return runPractice(ctx, c, s, opts, out)
	},
}

func runPractice(ctx context.Context, c config.Config, s model.Score, opts timeline.Options, out io.Writer) error {
	g := grader.New(nil, grader.WithLogger(log)).InitFromScore(s, opts)
	if g.Finished() {
		return errors.New("nothing to play in the selected measures")
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	in := make(chan model.InputEvent, 64)
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- midi.Listen(runCtx, c.Midi.Port, in, log)
	}()

	session := practice.NewSession(g,
		practice.WithLogger(log),
		practice.WithReport(func(r practice.Report) { printReport(out, r) }),
		practice.WithPosition(func(window, measure int) {
			fmt.Fprintf(out, "-> window %d, measure %d\n", window, measure)
		}, time.Duration(c.Practice.DebounceMs)*time.Millisecond),
	)

	done := make(chan practice.Summary, 1)
	go func() {
		done <- session.Run(runCtx, in)
	}()

	var sum practice.Summary
	select {
	case err := <-listenErr:
		if err != nil {
			return err
		}
		stop()
		sum = <-done
	case sum = <-done:
	}

	printSummary(out, sum)
	log.Info("practice session ended",
		zap.Bool("finished", sum.Finished),
		zap.Bool("mistake_made", sum.MistakeMade),
		zap.Int("wrong_notes", sum.Incorrect),
	)
	return nil
}
