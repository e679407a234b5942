package midi

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Event represents a note event produced by the sequencer
type Event struct {
	Type     uint8 // NoteOn, NoteOff
	Note     uint8
	Velocity uint8
}

// NoteOnEvent builds a note-on for the given pitch
func NoteOnEvent(note, velocity uint8) Event {
	return Event{Type: NoteOn, Note: note, Velocity: velocity}
}

// NoteOffEvent builds a note-off for the given pitch
func NoteOffEvent(note uint8) Event {
	return Event{Type: NoteOff, Note: note}
}
