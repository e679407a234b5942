package sequencer

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"chordflow/midi"
	"chordflow/theory"
)

// newTestManager builds a 4-step pattern: I, V, rest, I in C4 major.
// Voice leading is off so voicings are predictable.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	st := NewState(4)
	st.TicksPerStep = 2
	m := NewManager(st)
	m.SetVoiceLead(false)
	assert.NoError(t, m.SetSlot(0, "I"))
	assert.NoError(t, m.SetSlot(1, "V"))
	assert.NoError(t, m.SetSlot(3, "I"))
	return m
}

func ons(notes ...uint8) []midi.Event {
	var out []midi.Event
	for _, n := range notes {
		out = append(out, midi.NoteOnEvent(n, DefaultVelocity))
	}
	return out
}

func offs(notes ...uint8) []midi.Event {
	var out []midi.Event
	for _, n := range notes {
		out = append(out, midi.NoteOffEvent(n))
	}
	return out
}

func TestStartSoundsLoopStart(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, ons(60, 64, 67), m.OnStart())
}

func TestTickAdvancesOnStepBoundary(t *testing.T) {
	m := newTestManager(t)
	m.OnStart()

	assert.Nil(t, m.OnTick(), "mid-step tick emits nothing")

	// Step 1 is a G major triad. G4 is shared with the C triad, so it
	// keeps ringing: offs for C4/E4, ons for B4/D5.
	events := m.OnTick()
	assert.Equal(t, append(offs(60, 64), ons(71, 74)...), events)
}

func TestRestStepSilencesEverything(t *testing.T) {
	m := newTestManager(t)
	m.OnStart()
	m.OnTick()
	m.OnTick() // step 1

	m.OnTick()
	events := m.OnTick() // step 2 is empty
	assert.Equal(t, offs(67, 71, 74), events)
}

func TestLoopWrap(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.SetLoop(0, 1))
	m.OnStart()

	m.OnTick()
	m.OnTick() // step 1
	m.OnTick()
	events := m.OnTick() // wraps to step 0
	assert.Equal(t, append(offs(71, 74), ons(60, 64)...), events)
}

func TestWrapOntoIdenticalChordHoldsNotes(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.SetLoop(3, 3))
	assert.Equal(t, ons(60, 64, 67), m.OnStart())

	m.OnTick()
	events := m.OnTick() // step 3 wraps onto itself
	assert.Empty(t, events, "identical chord keeps ringing")
}

func TestStopReleasesHeldNotesOnce(t *testing.T) {
	m := newTestManager(t)
	m.OnStart()

	assert.Equal(t, offs(60, 64, 67), m.OnStop())
	assert.Nil(t, m.OnStop(), "stop while stopped is a no-op")
	assert.Nil(t, m.OnTick(), "ticks while stopped do nothing")
}

func TestTriggerIndependentOfClock(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.Bind(0, "i"))
	m.ToggleMode()

	assert.Equal(t, ons(60, 63, 67), m.Trigger(0))
	assert.Nil(t, m.Trigger(0), "retriggering the sounding chord is silent")
	assert.Nil(t, m.Trigger(1), "unbound pad does nothing")

	assert.Equal(t, offs(60, 63, 67), m.Release())
}

func TestPerformanceModeIgnoresTicks(t *testing.T) {
	m := newTestManager(t)
	m.OnStart()
	m.ToggleMode()

	assert.Nil(t, m.OnTick())
	assert.Nil(t, m.OnTick())

	m.ToggleMode()
	m.OnTick()
	events := m.OnTick()
	assert.NotEmpty(t, events, "grid resumes where it paused")
}

// Triggers from one goroutine and clock ticks from another must reach
// the sink in the order the sounding set was updated. A simulated
// device applies the stream: any double note-on, or note-off for a
// silent pitch, means a batch overtook the one it was computed after.
func TestConcurrentTriggerAndClockOrdering(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.Bind(0, "i"))
	assert.NoError(t, m.Bind(1, "V:b7"))

	var mu sync.Mutex
	sounding := make(map[uint8]bool)
	var faults []string
	m.SetSend(func(ev midi.Event) {
		mu.Lock()
		defer mu.Unlock()
		switch ev.Type {
		case midi.NoteOn:
			if sounding[ev.Note] {
				faults = append(faults, fmt.Sprintf("double note-on %d", ev.Note))
			}
			sounding[ev.Note] = true
		case midi.NoteOff:
			if !sounding[ev.Note] {
				faults = append(faults, fmt.Sprintf("note-off for silent %d", ev.Note))
			}
			delete(sounding, ev.Note)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	clock := make(chan midi.ClockEvent)
	runDone := make(chan struct{})
	go func() {
		m.Run(ctx, clock)
		close(runDone)
	}()

	clock <- midi.ClockEvent{Kind: midi.ClockStart}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			m.Fire(i % 2)
		}
	}()
	for i := 0; i < 200; i++ {
		clock <- midi.ClockEvent{Kind: midi.ClockTick}
	}
	wg.Wait()

	clock <- midi.ClockEvent{Kind: midi.ClockStop}
	cancel()
	<-runDone

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, faults)
	assert.Empty(t, sounding, "stop must leave nothing sounding")
}

func TestSilentStepStillSignalsUpdate(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.SetLoop(0, 0))
	m.OnStart()
	drainUpdates(m)

	m.OnTick()
	events := m.OnTick() // wraps onto the same chord, nothing to send
	assert.Empty(t, events)

	select {
	case <-m.UpdateChan:
	default:
		assert.Fail(t, "no update signal for a silent step advance")
	}
}

func drainUpdates(m *Manager) {
	for {
		select {
		case <-m.UpdateChan:
		default:
			return
		}
	}
}

func TestSetSlotRejectsBadToken(t *testing.T) {
	m := newTestManager(t)
	err := m.SetSlot(0, "Vx:b7")
	assert.Error(t, err)
	var perr *theory.ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, "I", m.Snapshot().Slots[0], "slot unchanged on parse error")
}

func TestCycleInversion(t *testing.T) {
	m := newTestManager(t)

	assert.NoError(t, m.CycleInversion(0))
	snap := m.Snapshot()
	assert.Equal(t, "I/3", snap.Slots[0])
	assert.Equal(t, "E4-G4-C5", snap.Voicings[0])

	assert.NoError(t, m.CycleInversion(0))
	assert.Equal(t, "I/5", m.Snapshot().Slots[0])

	assert.NoError(t, m.CycleInversion(0))
	assert.Equal(t, "I/1", m.Snapshot().Slots[0])
}

func TestUnresolvableSlotPlaysAsRest(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.SetSlot(1, "I:0")) // parses, cannot resolve

	snap := m.Snapshot()
	assert.NotEmpty(t, snap.SlotErrs[1])
	assert.Empty(t, snap.Voicings[1])

	m.OnStart()
	m.OnTick()
	events := m.OnTick() // step 1 resolves to silence
	assert.Equal(t, offs(60, 64, 67), events)
}

func TestKeyChangeReresolves(t *testing.T) {
	m := newTestManager(t)
	m.SetKeyRoot(theory.MustParseNote("D4"))
	assert.Equal(t, ons(62, 66, 69), m.OnStart())
}

func TestStepsRenderLoopRegion(t *testing.T) {
	m := newTestManager(t)
	steps := m.Steps()
	assert.Len(t, steps, 4)
	assert.Equal(t, []uint8{60, 64, 67}, steps[0])
	assert.Equal(t, []uint8{67, 71, 74}, steps[1])
	assert.Nil(t, steps[2])
	assert.Equal(t, []uint8{60, 64, 67}, steps[3])
}

func TestSnapshotReflectsTransport(t *testing.T) {
	m := newTestManager(t)
	assert.False(t, m.Snapshot().Running)

	m.OnStart()
	snap := m.Snapshot()
	assert.True(t, snap.Running)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, theory.Major, snap.Key.Mode)
	assert.Equal(t, "C4-E4-G4", snap.Voicings[0])
}
