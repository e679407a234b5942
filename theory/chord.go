package theory

import (
	"slices"
	"strconv"
	"strings"
)

// Roman numerals for scale degrees 1-7.
var Numerals = [7]string{"I", "II", "III", "IV", "V", "VI", "VII"}

// Triad selects the interval skeleton of a chord. TriadMode derives a
// major or minor third from the numeral's case; the rest are fixed sets.
type Triad int

const (
	TriadMode Triad = iota
	TriadDiminished
	TriadAugmented
	TriadSus2
	TriadSus4
	TriadPower
)

// slot ties an interval to the scale-degree position it occupies, so an
// extension can replace it rather than stack against it.
type slot struct {
	degree    int
	semitones int
}

func (t Triad) slots(mode Mode) []slot {
	switch t {
	case TriadDiminished:
		return []slot{{1, 0}, {3, 3}, {5, 6}}
	case TriadAugmented:
		return []slot{{1, 0}, {3, 4}, {5, 8}}
	case TriadSus2:
		return []slot{{1, 0}, {2, 2}, {5, 7}}
	case TriadSus4:
		return []slot{{1, 0}, {4, 5}, {5, 7}}
	case TriadPower:
		return []slot{{1, 0}, {5, 7}}
	default:
		if mode == Minor {
			return []slot{{1, 0}, {3, 3}, {5, 7}}
		}
		return []slot{{1, 0}, {3, 4}, {5, 7}}
	}
}

// RelKey reinterprets a chord against a secondary key before resolution,
// e.g. "V:b7~V" is the dominant seventh of the dominant. One level only.
type RelKey struct {
	Degree int
	Adj    int
	Mode   Mode
}

// ChordSpec is a symbolic chord: a scale degree plus everything the
// notation can hang off it. Immutable once parsed; the builder methods
// return modified copies.
type ChordSpec struct {
	// Root.Adj folds together chromatic alteration and octave shift
	// (12 semitones per octave), matching how ">1" and "b" compose.
	Root       Degree
	Mode       Mode
	Triad      Triad
	Extensions []Degree
	BassDegree *Degree
	Inversion  int
	RelKey     *RelKey
}

// NewChordSpec builds a plain triad on the given degree.
func NewChordSpec(degree int, mode Mode) ChordSpec {
	return ChordSpec{
		Root: Degree{Degree: degree},
		Mode: mode,
	}
}

// WithTriad sets the triad quality.
func (cs ChordSpec) WithTriad(t Triad) ChordSpec {
	cs.Triad = t
	return cs
}

// Add appends an extension degree, e.g. Add(7, -1) for a "b7".
func (cs ChordSpec) Add(degree, adj int) ChordSpec {
	cs.Extensions = append(slices.Clone(cs.Extensions), Degree{Degree: degree, Adj: adj})
	return cs
}

// Bass sets the bass degree, selecting an inversion by name.
func (cs ChordSpec) Bass(degree, adj int) ChordSpec {
	cs.BassDegree = &Degree{Degree: degree, Adj: adj}
	return cs
}

// Invert sets the inversion count.
func (cs ChordSpec) Invert(n int) ChordSpec {
	cs.Inversion = n
	return cs
}

// Adj adds a chromatic adjustment to the root.
func (cs ChordSpec) Adj(adj int) ChordSpec {
	cs.Root.Adj += adj
	return cs
}

// Shift moves the whole chord by a number of octaves.
func (cs ChordSpec) Shift(octaves int) ChordSpec {
	cs.Root.Adj += octaves * 12
	return cs
}

// KeyOf sets the relative key, e.g. for secondary dominants.
func (cs ChordSpec) KeyOf(degree int, mode Mode) ChordSpec {
	cs.RelKey = &RelKey{Degree: degree, Mode: mode}
	return cs
}

// intervals computes the chord's semitone offsets from its own root,
// ascending, after triad quality, extensions, bass degree and
// inversion count are applied. Extensions replace any interval the
// triad already placed at the same degree slot.
func (cs ChordSpec) intervals(mode Mode) ([]int, error) {
	slots := cs.Triad.slots(cs.Mode)
	for _, ext := range cs.Extensions {
		intv, err := ext.Interval(mode)
		if err != nil {
			return nil, err
		}
		replaced := false
		for i := range slots {
			if slots[i].degree == ext.Degree {
				slots[i].semitones = intv
				replaced = true
				break
			}
		}
		if !replaced {
			slots = append(slots, slot{degree: ext.Degree, semitones: intv})
		}
	}

	intervals := make([]int, len(slots))
	for i, s := range slots {
		intervals[i] = s.semitones
	}
	slices.Sort(intervals)

	if cs.BassDegree != nil {
		bass, err := cs.BassDegree.Interval(mode)
		if err != nil {
			return nil, err
		}
		for i, intv := range intervals {
			if intv < bass {
				intervals[i] = intv + 12
			}
		}
		slices.Sort(intervals)
	}

	if cs.Inversion > 0 {
		n := min(cs.Inversion, len(intervals))
		for i := 0; i < n; i++ {
			intervals[i] += 12
		}
		slices.Sort(intervals)
	}

	return intervals, nil
}

// Resolve turns the spec into concrete pitches for a key. Pure; fails
// only on structurally impossible degrees (below 1). When a relative
// key is present the chord is resolved wholly against the derived key.
func (cs ChordSpec) Resolve(key Key) (Chord, error) {
	ctx := key
	mode := cs.Mode
	if cs.RelKey != nil {
		offset, err := Degree{Degree: cs.RelKey.Degree, Adj: cs.RelKey.Adj}.Interval(key.Mode)
		if err != nil {
			return Chord{}, err
		}
		ctx = Key{Root: key.Root.Transpose(offset), Mode: cs.RelKey.Mode}
		mode = cs.RelKey.Mode
	}

	root, err := ctx.Note(cs.Root)
	if err != nil {
		return Chord{}, err
	}
	intervals, err := cs.intervals(mode)
	if err != nil {
		return Chord{}, err
	}
	return Chord{Root: root, Intervals: intervals}, nil
}

// Inversions enumerates the chord's inversions as specs, one per
// chord tone, by re-spelling each tone as a bass degree.
func (cs ChordSpec) Inversions() ([]ChordSpec, error) {
	mode := cs.Mode
	if cs.RelKey != nil {
		mode = cs.RelKey.Mode
	}
	intervals, err := cs.intervals(mode)
	if err != nil {
		return nil, err
	}
	out := make([]ChordSpec, len(intervals))
	for i, intv := range intervals {
		deg := IntervalDegree(intv, mode)
		out[i] = cs.Bass(deg.Degree, deg.Adj)
	}
	return out, nil
}

func (cs ChordSpec) String() string {
	var b strings.Builder

	numeral := Numerals[mod(cs.Root.Degree-1, 7)]
	if cs.Mode == Minor {
		numeral = strings.ToLower(numeral)
	}
	b.WriteString(numeral)

	adj := cs.Root.Adj
	octaves := abs(adj) / 12
	rem := abs(adj) % 12
	if adj < 0 {
		b.WriteString(strings.Repeat("b", rem))
	} else if adj > 0 {
		b.WriteString(strings.Repeat("#", rem))
	}

	switch cs.Triad {
	case TriadDiminished:
		b.WriteByte('-')
	case TriadAugmented:
		b.WriteByte('+')
	case TriadSus2:
		b.WriteByte('_')
	case TriadSus4:
		b.WriteByte('^')
	case TriadPower:
		b.WriteByte('5')
	}

	if len(cs.Extensions) > 0 {
		parts := make([]string, len(cs.Extensions))
		for i, ext := range cs.Extensions {
			parts[i] = ext.String()
		}
		b.WriteByte(':')
		b.WriteString(strings.Join(parts, ","))
	}

	if cs.BassDegree != nil {
		b.WriteByte('/')
		b.WriteString(cs.BassDegree.String())
	}
	if cs.Inversion > 0 {
		b.WriteByte('%')
		b.WriteString(strconv.Itoa(cs.Inversion))
	}

	if octaves > 0 {
		if adj < 0 {
			b.WriteString("<" + strconv.Itoa(octaves))
		} else {
			b.WriteString(">" + strconv.Itoa(octaves))
		}
	}

	if cs.RelKey != nil {
		b.WriteByte('~')
		rel := Numerals[mod(cs.RelKey.Degree-1, 7)]
		if cs.RelKey.Mode == Minor {
			rel = strings.ToLower(rel)
		}
		b.WriteString(rel)
		if cs.RelKey.Adj < 0 {
			b.WriteString(strings.Repeat("b", -cs.RelKey.Adj))
		} else if cs.RelKey.Adj > 0 {
			b.WriteString(strings.Repeat("#", cs.RelKey.Adj))
		}
	}

	return b.String()
}

// Chord is a resolved pitch set: a root note plus root-relative
// intervals, ascending. Index 0 of the pitch set is the bass voice.
type Chord struct {
	Root      Note
	Intervals []int
}

// Notes returns the chord's absolute notes, ascending.
func (c Chord) Notes() []Note {
	notes := make([]Note, len(c.Intervals))
	for i, intv := range c.Intervals {
		notes[i] = c.Root.Transpose(intv)
	}
	slices.SortFunc(notes, func(a, b Note) int { return a.Semitones - b.Semitones })
	return notes
}

// Pitches returns the chord's absolute pitches in semitones, ascending.
func (c Chord) Pitches() []int {
	notes := c.Notes()
	pitches := make([]int, len(notes))
	for i, n := range notes {
		pitches[i] = n.Semitones
	}
	return pitches
}

// MIDINotes converts the chord's pitches to MIDI note numbers,
// dropping anything outside the MIDI range.
func (c Chord) MIDINotes() []uint8 {
	var out []uint8
	for _, n := range c.Notes() {
		if v, ok := n.MIDI(); ok {
			out = append(out, v)
		}
	}
	return out
}

func (c Chord) String() string {
	return NoteList(c.Notes())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
