package midi

import (
	"context"
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ClockKind identifies a transport message from the clock source
type ClockKind int

const (
	ClockTick ClockKind = iota // 24 per quarter note
	ClockStart
	ClockStop
)

// ClockEvent is a single transport message, in arrival order
type ClockEvent struct {
	Kind ClockKind
}

// PulsesPerQuarter is the MIDI beat clock rate
const PulsesPerQuarter = 24

// Clock delivers transport events from either an external MIDI source
// or an internal timer
type Clock struct {
	events chan ClockEvent
	stop   func()
}

// Events returns the ordered stream of transport events
func (c *Clock) Events() <-chan ClockEvent {
	return c.events
}

// Close stops listening and releases the source
func (c *Clock) Close() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

// NewExternalClock follows timing and start/stop messages from a MIDI
// input port. Continue is treated as Start.
func NewExternalClock(portName string) (*Clock, error) {
	in, err := findInPort(portName)
	if err != nil {
		return nil, err
	}
	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("open clock port %q: %w", portName, err)
	}

	c := &Clock{events: make(chan ClockEvent, 64)}
	stopListen, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var ev ClockEvent
		switch {
		case msg.Is(gomidi.TimingClockMsg):
			ev = ClockEvent{Kind: ClockTick}
		case msg.Is(gomidi.StartMsg), msg.Is(gomidi.ContinueMsg):
			ev = ClockEvent{Kind: ClockStart}
		case msg.Is(gomidi.StopMsg):
			ev = ClockEvent{Kind: ClockStop}
		default:
			return
		}
		select {
		case c.events <- ev:
		default:
			// Receiver fell behind, drop rather than block the driver callback
		}
	}, gomidi.UseTimeCode())
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("listen on clock port %q: %w", portName, err)
	}

	c.stop = func() {
		stopListen()
		in.Close()
		close(c.events)
	}
	return c, nil
}

// NewInternalClock generates ticks at the given tempo. Start is emitted
// immediately, Stop when the context is cancelled.
func NewInternalClock(ctx context.Context, bpm float64) *Clock {
	c := &Clock{events: make(chan ClockEvent, 64)}
	interval := time.Duration(float64(time.Minute) / (bpm * PulsesPerQuarter))

	done := make(chan struct{})
	c.stop = func() { close(done) }

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(c.events)

		c.events <- ClockEvent{Kind: ClockStart}
		for {
			select {
			case <-ctx.Done():
				c.events <- ClockEvent{Kind: ClockStop}
				return
			case <-done:
				c.events <- ClockEvent{Kind: ClockStop}
				return
			case <-ticker.C:
				select {
				case c.events <- ClockEvent{Kind: ClockTick}:
				default:
				}
			}
		}
	}()
	return c
}

func findInPort(name string) (drivers.In, error) {
	in, err := gomidi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("clock port %q not found: %w", name, err)
	}
	return in, nil
}
