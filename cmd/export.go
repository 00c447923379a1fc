package cmd

import (
	"github.com/jsphweid/chorale/midi"
	"github.com/jsphweid/chorale/score"
	"github.com/jsphweid/chorale/timeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOpts timelineFlags

func init() {
	exportOpts.register(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <score> <out.mid>",
	Short: "Writes a MIDI file that plays the score perfectly",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := score.Load(args[0])
		if err != nil {
			return err
		}
		opts, err := exportOpts.options()
		if err != nil {
			return err
		}

		events := timeline.Build(s, opts)
		if err := midi.ExportFile(events, args[1]); err != nil {
			return err
		}
		log.Info("exported performance",
			zap.String("score", args[0]),
			zap.String("out", args[1]),
			zap.Int("events", len(events)),
		)
		return nil
	},
}
