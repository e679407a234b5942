package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chordflow/theory"
)

var (
	keyFlag   string
	minorFlag bool
	leadFlag  bool
)

func init() {
	parseCmd.Flags().StringVar(&keyFlag, "key", "C4", "tonic note, e.g. C4 or Eb3")
	parseCmd.Flags().BoolVar(&minorFlag, "minor", false, "use the minor mode")
	parseCmd.Flags().BoolVar(&leadFlag, "lead", false, "voice-lead the progression before printing")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse [chords...]",
	Short: "Resolve chord tokens to notes",
	Long: `Parses chord tokens, resolves them in the given key and prints the
resulting notes. Example:

  chordflow parse --key C3 "I" "vi" "IV" "V:b7"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := flagKey()
		if err != nil {
			return err
		}

		specs, err := theory.ParseProgression(strings.Join(args, " "))
		if err != nil {
			return err
		}

		chords := make([]theory.Chord, len(specs))
		for i, cs := range specs {
			c, err := cs.Resolve(key)
			if err != nil {
				return fmt.Errorf("%s: %w", cs, err)
			}
			chords[i] = c
		}
		if leadFlag {
			chords = theory.VoiceLead(chords, theory.DefaultOctaveWindow)
		}

		for i, c := range chords {
			fmt.Printf("%-14s %s\n", specs[i].String(), c)
		}
		return nil
	},
}

func flagKey() (theory.Key, error) {
	root, err := theory.ParseNote(keyFlag)
	if err != nil {
		return theory.Key{}, fmt.Errorf("bad --key: %w", err)
	}
	mode := theory.Major
	if minorFlag {
		mode = theory.Minor
	}
	return theory.Key{Root: root, Mode: mode}, nil
}
