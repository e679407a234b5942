package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chordflow/midi"
	"chordflow/pattern"
	"chordflow/sequencer"
)

var (
	exportBPM    float64
	exportNoLead bool
)

func init() {
	exportCmd.Flags().Float64Var(&exportBPM, "bpm", 120, "tempo written to the file")
	exportCmd.Flags().BoolVar(&exportNoLead, "no-lead", false, "skip the voicing optimizer")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <pattern.yaml> <out.mid>",
	Short: "Render a pattern file to a standard MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := pattern.Load(args[0])
		if err != nil {
			return err
		}

		mgr := sequencer.NewManager(st)
		mgr.SetVoiceLead(!exportNoLead)

		steps := mgr.Steps()
		if err := midi.ExportSMF(args[1], steps, uint32(st.TicksPerStep), exportBPM, sequencer.DefaultVelocity); err != nil {
			return err
		}
		fmt.Printf("wrote %d steps to %s\n", len(steps), args[1])
		return nil
	},
}
