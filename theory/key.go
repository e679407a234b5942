package theory

// Mode is a diatonic scale shape: seven semitone offsets from a tonic.
type Mode int

const (
	Major Mode = iota
	Minor
)

var (
	majorOffsets = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorOffsets = [7]int{0, 1, 3, 5, 7, 8, 10}
)

// Offsets returns the mode's seven diatonic offsets from the tonic.
func (m Mode) Offsets() [7]int {
	if m == Minor {
		return minorOffsets
	}
	return majorOffsets
}

func (m Mode) String() string {
	if m == Minor {
		return "Minor"
	}
	return "Major"
}

// Toggle flips between major and minor.
func (m Mode) Toggle() Mode {
	if m == Minor {
		return Major
	}
	return Minor
}

// Key is a tonic note plus a mode. Immutable; purely an input to
// chord resolution.
type Key struct {
	Root Note
	Mode Mode
}

// DefaultKey is C4 major.
func DefaultKey() Key {
	return Key{
		Root: Note{Semitones: 39}, // C4
		Mode: Major,
	}
}

// Interval computes the offset in semitones from the key's root to the
// given scale degree.
func (k Key) Interval(d Degree) (int, error) {
	return d.Interval(k.Mode)
}

// Note computes the absolute note at the given scale degree.
func (k Key) Note(d Degree) (Note, error) {
	intv, err := k.Interval(d)
	if err != nil {
		return Note{}, err
	}
	return k.Root.Transpose(intv), nil
}
