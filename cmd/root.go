package cmd

import (
	"io"

	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootDir  string
	logLevel string

	conf *config.Loader
	log  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "chorale",
	Short: "Grades keyboard performances of chorale scores",
	Long: `chorale turns a score into a timeline of onset windows and grades
note-on/note-off input against it, from MIDI files, a live MIDI port or an
HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conf, err = config.Load(rootDir)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			conf.Viper().Set("logging.level", logLevel)
			if err := conf.Refresh(); err != nil {
				return err
			}
		}

		c := conf.Get().Logging
		log, err = logging.New(logging.Options{
			Level:      c.Level,
			File:       c.File,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			Compress:   c.Compress,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "directory holding config/ and .env")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// ExecuteArgs runs the CLI with args, writing command output to out.
func ExecuteArgs(args []string, out io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	return rootCmd.Execute()
}
