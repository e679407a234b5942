package theory

import (
	"fmt"
	"strconv"
	"strings"
)

// Note names starting from A0 = 0 semitones.
var noteNames = [12]string{"A", "Bb", "B", "C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab"}

// Note is an absolute pitch, counted in semitones from A0.
// The range is unbounded; callers clamp to MIDI range at the output boundary.
type Note struct {
	Semitones int
}

// ParseNote parses a note name with octave, e.g. "C3" or "Bb2".
func ParseNote(s string) (Note, error) {
	i := 0
	for i < len(s) && (s[i] >= 'A' && s[i] <= 'G' || s[i] == 'b' || s[i] == '#') {
		i++
	}
	name := s[:i]
	idx := -1
	for j, n := range noteNames {
		if n == name {
			idx = j
			break
		}
	}
	if idx < 0 {
		return Note{}, fmt.Errorf("invalid note name %q", s)
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return Note{}, fmt.Errorf("invalid note octave %q: %w", s, err)
	}
	// Octave boundaries fall between B and C, so names from C up
	// belong to the octave above their A-relative offset.
	octave -= (idx + 9) / 12
	return Note{Semitones: octave*12 + idx%12}, nil
}

// MustParseNote is ParseNote for known-good literals.
func MustParseNote(s string) Note {
	n, err := ParseNote(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n Note) String() string {
	idx := mod(n.Semitones, 12)
	octave := floorDiv(n.Semitones+9, 12)
	return noteNames[idx] + strconv.Itoa(octave)
}

// Transpose returns the note shifted by the given number of semitones.
func (n Note) Transpose(semitones int) Note {
	return Note{Semitones: n.Semitones + semitones}
}

// MIDI converts the note to a MIDI note number (A0 = 21).
// Returns false if the pitch falls outside 0..127.
func (n Note) MIDI() (uint8, bool) {
	v := n.Semitones + 21
	if v < 0 || v > 127 {
		return 0, false
	}
	return uint8(v), true
}

// NoteList formats a pitch set like "C3-E3-G3".
func NoteList(notes []Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = n.String()
	}
	return strings.Join(parts, "-")
}

// mod is the euclidean remainder, always in 0..m-1.
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, m int) int {
	q := a / m
	if a%m != 0 && (a < 0) != (m < 0) {
		q--
	}
	return q
}
