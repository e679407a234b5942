package cmd

import (
	"github.com/spf13/cobra"

	"chordflow/debug"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "chordflow",
	Short: "Chord progression sequencer",
	Long:  `A clock-driven chord sequencer: write progressions in roman numeral notation, voice-lead them, and play them out over MIDI.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			debug.Enable()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log to ~/.config/chordflow/debug.log")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
