package pattern

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"chordflow/sequencer"
	"chordflow/theory"
)

// File is the on-disk pattern format. Steps hold chord tokens, an
// empty string is a rest. Bindings map pads 1-9 to chord tokens.
type File struct {
	Key          string         `yaml:"key"`
	Mode         string         `yaml:"mode"`
	TicksPerStep int            `yaml:"ticksPerStep,omitempty"`
	Loop         []int          `yaml:"loop,omitempty,flow"`
	Steps        []string       `yaml:"steps"`
	Bindings     map[int]string `yaml:"bindings,omitempty"`
}

// Load reads and validates a pattern file
func Load(path string) (*sequencer.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.toState()
}

// Save writes the pattern back out
func Save(path string, st *sequencer.State) error {
	f := fromState(st)
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (f *File) toState() (*sequencer.State, error) {
	size := len(f.Steps)
	if size == 0 {
		size = sequencer.DefaultGridSize
	}
	st := sequencer.NewState(size)

	if f.Key != "" {
		root, err := theory.ParseNote(f.Key)
		if err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
		st.Key.Root = root
	}
	switch f.Mode {
	case "", "major":
		st.Key.Mode = theory.Major
	case "minor":
		st.Key.Mode = theory.Minor
	default:
		return nil, fmt.Errorf("mode must be major or minor, got %q", f.Mode)
	}
	if f.TicksPerStep > 0 {
		st.TicksPerStep = f.TicksPerStep
	}

	for i, token := range f.Steps {
		if token == "" {
			continue
		}
		cs, err := theory.ParseChord(token)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		st.Slots[i] = &cs
	}

	if len(f.Loop) == 2 {
		a, b := f.Loop[0], f.Loop[1]
		if a < 0 || b >= size || a > b {
			return nil, fmt.Errorf("loop %d-%d out of range", a, b)
		}
		st.LoopA, st.LoopB = a, b
	} else if len(f.Loop) != 0 {
		return nil, fmt.Errorf("loop must be a [start, end] pair")
	}

	for pad, token := range f.Bindings {
		if pad < 1 || pad > sequencer.NumBindings {
			return nil, fmt.Errorf("binding pad %d out of range 1-%d", pad, sequencer.NumBindings)
		}
		cs, err := theory.ParseChord(token)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", pad, err)
		}
		st.Bindings[pad-1] = &cs
	}
	return st, nil
}

func fromState(st *sequencer.State) *File {
	f := &File{
		Key:          st.Key.Root.String(),
		Mode:         strings.ToLower(st.Key.Mode.String()),
		TicksPerStep: st.TicksPerStep,
		Steps:        make([]string, len(st.Slots)),
	}
	for i, cs := range st.Slots {
		if cs != nil {
			f.Steps[i] = cs.String()
		}
	}
	if st.LoopA != 0 || st.LoopB != len(st.Slots)-1 {
		f.Loop = []int{st.LoopA, st.LoopB}
	}
	for i, cs := range st.Bindings {
		if cs != nil {
			if f.Bindings == nil {
				f.Bindings = make(map[int]string)
			}
			f.Bindings[i+1] = cs.String()
		}
	}
	return f
}
