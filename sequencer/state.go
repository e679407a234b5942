package sequencer

import (
	"chordflow/theory"
)

// Mode selects how input and the clock drive the sequencer
type Mode int

const (
	ModeGrid Mode = iota
	ModePerformance
)

func (m Mode) String() string {
	if m == ModePerformance {
		return "performance"
	}
	return "grid"
}

const (
	DefaultGridSize     = 16
	NumBindings         = 9
	DefaultTicksPerStep = 12 // eighth notes at 24 pulses per quarter
	DefaultVelocity     = 100
)

// State is the pattern data: key, chord slots, loop region and
// performance bindings. It has no transport or playback state.
type State struct {
	Key          theory.Key
	Slots        []*theory.ChordSpec
	LoopA        int
	LoopB        int
	Bindings     [NumBindings]*theory.ChordSpec
	TicksPerStep int
}

// NewState creates an empty pattern with the loop spanning the grid
func NewState(size int) *State {
	if size <= 0 {
		size = DefaultGridSize
	}
	return &State{
		Key:          theory.DefaultKey(),
		Slots:        make([]*theory.ChordSpec, size),
		LoopA:        0,
		LoopB:        size - 1,
		TicksPerStep: DefaultTicksPerStep,
	}
}

// Progression returns the occupied slots in grid order
func (s *State) Progression() []theory.ChordSpec {
	var out []theory.ChordSpec
	for _, cs := range s.Slots {
		if cs != nil {
			out = append(out, *cs)
		}
	}
	return out
}

// nextStep returns the step after i, wrapping inside the loop region
func (s *State) nextStep(i int) int {
	if i >= s.LoopB || i < s.LoopA {
		return s.LoopA
	}
	return i + 1
}
