package midi

import (
	"fmt"
	"strings"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// Output sends note events to a single MIDI output port
type Output struct {
	mu   sync.Mutex
	port drivers.Out
	send func(gomidi.Message) error
}

// NewOutput opens the named output port. An empty name picks the first
// available port.
func NewOutput(portName string) (*Output, error) {
	port, err := findOutPort(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output port %q: %w", port.String(), err)
	}
	return &Output{port: port, send: send}, nil
}

// Name returns the underlying port name
func (o *Output) Name() string {
	return o.port.String()
}

// Send transmits one event on channel 1
func (o *Output) Send(ev Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send == nil {
		return fmt.Errorf("output closed")
	}
	switch ev.Type {
	case NoteOn:
		return o.send(gomidi.NoteOn(0, ev.Note, ev.Velocity))
	case NoteOff:
		return o.send(gomidi.NoteOff(0, ev.Note))
	}
	return nil
}

// SendAll transmits events in order, note-offs are already sequenced
// before note-ons by the sequencer
func (o *Output) SendAll(events []Event) error {
	for _, ev := range events {
		if err := o.Send(ev); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the port
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.send = nil
	if o.port != nil {
		o.port.Close()
		o.port = nil
	}
}

func findOutPort(name string) (drivers.Out, error) {
	outs := gomidi.GetOutPorts()
	if len(outs) == 0 {
		return nil, fmt.Errorf("no MIDI output ports available")
	}
	if name == "" {
		return outs[0], nil
	}
	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), strings.ToLower(name)) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("output port %q not found", name)
}

// Ports lists the available MIDI port names
func Ports() (inputs, outputs []string) {
	for _, in := range gomidi.GetInPorts() {
		inputs = append(inputs, in.String())
	}
	for _, out := range gomidi.GetOutPorts() {
		outputs = append(outputs, out.String())
	}
	return inputs, outputs
}
