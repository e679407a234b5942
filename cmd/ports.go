package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chordflow/midi"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	Run: func(cmd *cobra.Command, args []string) {
		ins, outs := midi.Ports()

		fmt.Println("inputs:")
		if len(ins) == 0 {
			fmt.Println("  (none)")
		}
		for _, name := range ins {
			fmt.Printf("  %s\n", name)
		}

		fmt.Println("outputs:")
		if len(outs) == 0 {
			fmt.Println("  (none)")
		}
		for _, name := range outs {
			fmt.Printf("  %s\n", name)
		}
	},
}
