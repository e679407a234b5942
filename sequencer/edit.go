package sequencer

import (
	"fmt"

	"chordflow/debug"
	"chordflow/theory"
)

// SetSlot parses a chord token into a grid slot. An empty token
// clears the slot.
func (m *Manager) SetSlot(i int, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.state.Slots) {
		return fmt.Errorf("slot %d out of range", i)
	}
	if token == "" {
		m.state.Slots[i] = nil
		m.recompute()
		m.notify()
		return nil
	}
	cs, err := theory.ParseChord(token)
	if err != nil {
		return err
	}
	m.state.Slots[i] = &cs
	m.recompute()
	m.notify()
	debug.Log("edit", "slot %d = %s", i, token)
	return nil
}

// ClearSlot empties a grid slot
func (m *Manager) ClearSlot(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.state.Slots) {
		return
	}
	m.state.Slots[i] = nil
	m.recompute()
	m.notify()
}

// SetLoop restricts playback to the inclusive step range [a, b]
func (m *Manager) SetLoop(a, b int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a < 0 || b >= len(m.state.Slots) || a > b {
		return fmt.Errorf("loop %d-%d out of range", a, b)
	}
	m.state.LoopA, m.state.LoopB = a, b
	if m.cursor < a || m.cursor > b {
		m.cursor = a
	}
	m.notify()
	return nil
}

// ClearLoop restores the loop to the whole grid
func (m *Manager) ClearLoop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LoopA, m.state.LoopB = 0, len(m.state.Slots)-1
	m.notify()
}

// Bind assigns a chord token to a performance pad
func (m *Manager) Bind(pad int, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pad < 0 || pad >= NumBindings {
		return fmt.Errorf("pad %d out of range", pad)
	}
	if token == "" {
		m.state.Bindings[pad] = nil
		m.recompute()
		m.notify()
		return nil
	}
	cs, err := theory.ParseChord(token)
	if err != nil {
		return err
	}
	m.state.Bindings[pad] = &cs
	m.recompute()
	m.notify()
	return nil
}

// SetKeyRoot re-resolves everything against a new tonic
func (m *Manager) SetKeyRoot(root theory.Note) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Key.Root = root
	m.recompute()
	m.notify()
}

// ToggleKeyMode flips the key between major and minor
func (m *Manager) ToggleKeyMode() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Key.Mode = m.state.Key.Mode.Toggle()
	m.recompute()
	m.notify()
}

// SetTicksPerStep changes the step length in clock pulses
func (m *Manager) SetTicksPerStep(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n < 1 {
		return fmt.Errorf("ticks per step must be positive, got %d", n)
	}
	m.state.TicksPerStep = n
	m.notify()
	return nil
}

// SetVoiceLead enables or disables the voicing optimizer
func (m *Manager) SetVoiceLead(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voiceLead = on
	m.recompute()
	m.notify()
}

// SetOctaveWindow bounds the optimizer's octave search
func (m *Manager) SetOctaveWindow(w int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w < 0 {
		w = theory.DefaultOctaveWindow
	}
	m.window = w
	m.recompute()
	m.notify()
}

// SetVelocity sets the note-on velocity for emitted events
func (m *Manager) SetVelocity(v uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v == 0 || v > 127 {
		v = DefaultVelocity
	}
	m.velocity = v
}

// ToggleMode switches between grid and performance input. Pattern and
// transport state are kept.
func (m *Manager) ToggleMode() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == ModeGrid {
		m.mode = ModePerformance
	} else {
		m.mode = ModeGrid
	}
	m.notify()
}

// SetCursor moves the edit cursor
func (m *Manager) SetCursor(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.state.Slots) {
		return
	}
	m.cursor = i
	m.notify()
}

// CycleInversion replaces the chord under the cursor with its next
// inversion, wrapping back to root position
func (m *Manager) CycleInversion(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.state.Slots) || m.state.Slots[i] == nil {
		return nil
	}
	cs := *m.state.Slots[i]
	invs, err := cs.Inversions()
	if err != nil {
		return err
	}
	next := 0
	if cs.BassDegree != nil {
		for k, inv := range invs {
			if inv.BassDegree != nil && *inv.BassDegree == *cs.BassDegree {
				next = (k + 1) % len(invs)
				break
			}
		}
	} else if len(invs) > 1 {
		next = 1
	}
	m.state.Slots[i] = &invs[next]
	m.recompute()
	m.notify()
	return nil
}

// Snapshot is an immutable view of the manager for rendering
type Snapshot struct {
	Mode         Mode
	Key          theory.Key
	Cursor       int
	Running      bool
	LoopA, LoopB int
	TicksPerStep int
	VoiceLead    bool
	Slots        []string // chord tokens, "" for empty
	SlotErrs     []string // resolve errors, "" for ok
	Voicings     []string // resolved note lists, "" for empty
	Bindings     [NumBindings]string
}

// Snapshot copies the state visible to the UI
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Mode:         m.mode,
		Key:          m.state.Key,
		Cursor:       m.cursor,
		Running:      m.running,
		LoopA:        m.state.LoopA,
		LoopB:        m.state.LoopB,
		TicksPerStep: m.state.TicksPerStep,
		VoiceLead:    m.voiceLead,
		Slots:        make([]string, len(m.state.Slots)),
		SlotErrs:     make([]string, len(m.state.Slots)),
		Voicings:     make([]string, len(m.state.Slots)),
	}
	for i, cs := range m.state.Slots {
		if cs != nil {
			snap.Slots[i] = cs.String()
		}
		if m.slotErrs[i] != nil {
			snap.SlotErrs[i] = m.slotErrs[i].Error()
		}
		if m.voiced[i] != nil {
			snap.Voicings[i] = m.voiced[i].String()
		}
	}
	for i, cs := range m.state.Bindings {
		if cs != nil {
			snap.Bindings[i] = cs.String()
		}
	}
	return snap
}

// State returns the underlying pattern for persistence. The caller
// must not mutate it while the manager is in use.
func (m *Manager) State() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Steps renders the loop region as one note list per step, ready for
// file export. Empty and unresolvable slots become rests.
func (m *Manager) Steps() [][]uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out [][]uint8
	for i := m.state.LoopA; i <= m.state.LoopB && i < len(m.voiced); i++ {
		out = append(out, notesOf(m.voiced[i]))
	}
	return out
}
