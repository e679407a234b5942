package sequencer

import (
	"context"
	"slices"
	"sync"

	"chordflow/debug"
	"chordflow/midi"
	"chordflow/theory"
)

// Manager owns all playback state. Every method is safe for concurrent
// use; edits made while the transport runs take effect on the next tick.
type Manager struct {
	mu     sync.Mutex
	sendMu sync.Mutex
	state  *State
	mode   Mode

	cursor  int
	ticks   int
	running bool
	held    map[uint8]bool

	voiceLead bool
	window    int
	velocity  uint8

	// resolved chords aligned with state.Slots, nil for empty or
	// unresolvable slots
	voiced    []*theory.Chord
	slotErrs  []error
	bound     [NumBindings]*theory.Chord
	boundErrs [NumBindings]error

	send func(midi.Event)

	// UpdateChan signals the UI that visible state changed
	UpdateChan chan struct{}
}

// NewManager creates a manager around the given pattern
func NewManager(state *State) *Manager {
	if state == nil {
		state = NewState(DefaultGridSize)
	}
	m := &Manager{
		state:      state,
		cursor:     state.LoopA,
		held:       make(map[uint8]bool),
		voiceLead:  true,
		window:     theory.DefaultOctaveWindow,
		velocity:   DefaultVelocity,
		UpdateChan: make(chan struct{}, 1),
	}
	m.recompute()
	return m
}

// SetSend installs the event sink. Events emitted by the transport
// methods are also returned to the caller.
func (m *Manager) SetSend(send func(midi.Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.send = send
}

// Run consumes clock events until the context is cancelled
func (m *Manager) Run(ctx context.Context, clock <-chan midi.ClockEvent) {
	for {
		select {
		case <-ctx.Done():
			m.emit(m.OnStop)
			return
		case ev, ok := <-clock:
			if !ok {
				m.emit(m.OnStop)
				return
			}
			switch ev.Kind {
			case midi.ClockStart:
				m.emit(m.OnStart)
			case midi.ClockStop:
				m.emit(m.OnStop)
			case midi.ClockTick:
				m.emit(m.OnTick)
			}
		}
	}
}

// emit runs a transport method and transmits its events. sendMu is
// held from state mutation through send, so concurrent batches reach
// the sink in the same order the held set was updated. Without that,
// a trigger's note-off could overtake the tick batch it was computed
// against and leave the pitch stuck on.
func (m *Manager) emit(fn func() []midi.Event) {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()

	events := fn()
	m.mu.Lock()
	send := m.send
	m.mu.Unlock()
	if send == nil {
		return
	}
	for _, ev := range events {
		send(ev)
	}
}

// Start runs OnStart and pushes the events to the sink
func (m *Manager) Start() { m.emit(m.OnStart) }

// Stop runs OnStop and pushes the events to the sink
func (m *Manager) Stop() { m.emit(m.OnStop) }

// Fire runs Trigger and pushes the events to the sink
func (m *Manager) Fire(pad int) {
	m.emit(func() []midi.Event { return m.Trigger(pad) })
}

// Running reports whether the transport is playing
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Mode returns the current input mode
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// OnStart resets the playhead to the loop start and sounds its chord
func (m *Manager) OnStart() []midi.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = true
	m.ticks = 0
	m.cursor = m.state.LoopA
	debug.Log("transport", "start at step %d", m.cursor)
	m.notify()
	return m.transition(m.stepNotes(m.cursor))
}

// OnStop releases every sounding note. Calling it while already
// stopped does nothing.
func (m *Manager) OnStop() []midi.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running && len(m.held) == 0 {
		return nil
	}
	m.running = false
	m.ticks = 0
	debug.Log("transport", "stop, releasing %d notes", len(m.held))
	m.notify()
	return m.transition(nil)
}

// OnTick advances the sub-step counter and, on a step boundary, moves
// the playhead and sounds the new step
func (m *Manager) OnTick() []midi.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || m.mode != ModeGrid {
		return nil
	}
	m.ticks++
	debug.LogEvery(96, "clock", "tick %d at step %d", m.ticks, m.cursor)
	if m.ticks < m.state.TicksPerStep {
		return nil
	}
	m.ticks = 0
	m.cursor = m.state.nextStep(m.cursor)
	// A silent boundary (rest to rest, or a loop wrapping onto the
	// same chord) still moves the playhead, so the UI is signalled
	// even when no events come out.
	m.notify()
	return m.transition(m.stepNotes(m.cursor))
}

// Trigger sounds the chord bound to a performance pad. It works with
// or without a running clock.
func (m *Manager) Trigger(pad int) []midi.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pad < 0 || pad >= NumBindings {
		return nil
	}
	c := m.bound[pad]
	if c == nil {
		return nil
	}
	return m.transition(notesOf(c))
}

// Release silences everything without touching the transport
func (m *Manager) Release() []midi.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transition(nil)
}

// transition moves the sounding set to next: note-offs for dropped
// pitches first, then note-ons for new ones. Pitches present on both
// sides keep ringing.
func (m *Manager) transition(next []uint8) []midi.Event {
	keep := make(map[uint8]bool, len(next))
	for _, n := range next {
		keep[n] = true
	}

	var dropped []uint8
	for n := range m.held {
		if !keep[n] {
			dropped = append(dropped, n)
		}
	}
	slices.Sort(dropped)

	var events []midi.Event
	for _, n := range dropped {
		events = append(events, midi.NoteOffEvent(n))
	}
	for _, n := range next {
		if !m.held[n] {
			events = append(events, midi.NoteOnEvent(n, m.velocity))
		}
	}

	m.held = keep
	return events
}

func (m *Manager) stepNotes(i int) []uint8 {
	if i < 0 || i >= len(m.voiced) {
		return nil
	}
	return notesOf(m.voiced[i])
}

func notesOf(c *theory.Chord) []uint8 {
	if c == nil {
		return nil
	}
	return c.MIDINotes()
}

// recompute resolves every slot and binding against the current key.
// A slot that fails to resolve plays as silence and keeps its error
// for the UI. Caller must hold the lock.
func (m *Manager) recompute() {
	st := m.state
	m.voiced = make([]*theory.Chord, len(st.Slots))
	m.slotErrs = make([]error, len(st.Slots))

	var chain []theory.Chord
	var chainSlots []int
	for i, cs := range st.Slots {
		if cs == nil {
			continue
		}
		c, err := cs.Resolve(st.Key)
		if err != nil {
			m.slotErrs[i] = err
			debug.Log("theory", "slot %d: %v", i, err)
			continue
		}
		chain = append(chain, c)
		chainSlots = append(chainSlots, i)
	}
	if m.voiceLead {
		chain = theory.VoiceLead(chain, m.window)
	}
	for k, i := range chainSlots {
		c := chain[k]
		m.voiced[i] = &c
	}

	for i, cs := range st.Bindings {
		m.bound[i], m.boundErrs[i] = nil, nil
		if cs == nil {
			continue
		}
		c, err := cs.Resolve(st.Key)
		if err != nil {
			m.boundErrs[i] = err
			continue
		}
		m.bound[i] = &c
	}
}

func (m *Manager) notify() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
