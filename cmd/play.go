package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"chordflow/config"
	"chordflow/debug"
	"chordflow/midi"
	"chordflow/pattern"
	"chordflow/sequencer"
	"chordflow/theme"
	"chordflow/theory"
	"chordflow/tui"
)

var (
	playPort   string
	playClock  string
	playBPM    float64
	playNoSave bool
)

func init() {
	playCmd.Flags().StringVar(&playPort, "port", "", "MIDI output port (default: first available)")
	playCmd.Flags().StringVar(&playClock, "clock", "", "MIDI input port to follow for clock (default: internal)")
	playCmd.Flags().Float64Var(&playBPM, "bpm", 0, "internal clock tempo")
	playCmd.Flags().BoolVar(&playNoSave, "no-save", false, "do not write the pattern file back on exit")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play [pattern.yaml]",
	Short: "Run the sequencer",
	Long: `Opens the interactive sequencer. With a pattern file argument the
grid is pre-filled, and on exit the file is rewritten with the edited
pattern (tokens normalized) unless --no-save is given. The transport
follows an external MIDI clock when --clock is given, or the internal
clock.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if playPort == "" {
			playPort = cfg.Output.PortName
		}
		if playClock == "" {
			playClock = cfg.Clock.PortName
		}
		if playBPM == 0 {
			playBPM = cfg.Clock.Tempo
		}
		if playBPM == 0 {
			playBPM = 120
		}

		var st *sequencer.State
		if len(args) == 1 {
			st, err = pattern.Load(args[0])
			if err != nil {
				return err
			}
		} else {
			st = sequencer.NewState(sequencer.DefaultGridSize)
			if cfg.Sequence.TicksPerStep > 0 {
				st.TicksPerStep = cfg.Sequence.TicksPerStep
			}
			if cfg.Sequence.Key != "" {
				root, err := theory.ParseNote(cfg.Sequence.Key)
				if err != nil {
					return fmt.Errorf("config key: %w", err)
				}
				st.Key.Root = root
			}
			if cfg.Sequence.Mode == "minor" {
				st.Key.Mode = theory.Minor
			}
		}

		mgr := sequencer.NewManager(st)
		mgr.SetVoiceLead(cfg.VoiceLead())
		mgr.SetVelocity(cfg.Sequence.Velocity)
		if cfg.Sequence.OctaveWindow > 0 {
			mgr.SetOctaveWindow(cfg.Sequence.OctaveWindow)
		}

		out, err := midi.NewOutput(playPort)
		if err != nil {
			return err
		}
		defer out.Close()
		mgr.SetSend(func(ev midi.Event) {
			if err := out.Send(ev); err != nil {
				debug.Log("midi", "send: %v", err)
			}
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var clock *midi.Clock
		if playClock != "" {
			clock, err = midi.NewExternalClock(playClock)
			if err != nil {
				return err
			}
		} else {
			clock = midi.NewInternalClock(ctx, playBPM)
		}
		defer clock.Close()

		go mgr.Run(ctx, clock.Events())

		m := tui.NewModel(mgr, theme.New(theme.Default()))
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return err
		}

		if len(args) == 1 && !playNoSave {
			if err := pattern.Save(args[0], mgr.State()); err != nil {
				return fmt.Errorf("save pattern: %w", err)
			}
		}
		return nil
	},
}
