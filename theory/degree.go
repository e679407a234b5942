package theory

import (
	"strconv"
	"strings"
)

// Degree is a 1-indexed scale degree with a chromatic adjustment in
// semitones ("b7" is {7, -1}). Degrees above 7 wrap into higher octaves.
type Degree struct {
	Degree int
	Adj    int
}

// ParseDegree parses an altered degree like "7", "b7", "#9" or "bb7".
func ParseDegree(s string) (Degree, error) {
	adj := 0
	i := 0
	for i < len(s) && (s[i] == 'b' || s[i] == '#') {
		if s[i] == '#' {
			adj++
		} else {
			adj--
		}
		i++
	}
	num := s[i:]
	if num == "" {
		return Degree{}, &TheoryError{Reason: "degree " + strconv.Quote(s) + " has no number"}
	}
	deg, err := strconv.Atoi(num)
	if err != nil {
		return Degree{}, &TheoryError{Reason: "degree " + strconv.Quote(s) + " is not numeric"}
	}
	return Degree{Degree: deg, Adj: adj}, nil
}

// Interval computes the degree's offset in semitones within a mode.
// Every full wrap of the 7 diatonic steps adds an octave, so degree 8
// is the root an octave up and degree 9 the second an octave up.
func (d Degree) Interval(mode Mode) (int, error) {
	if d.Degree < 1 {
		return 0, &TheoryError{Reason: "scale degree must be at least 1, got " + strconv.Itoa(d.Degree)}
	}
	deg0 := d.Degree - 1
	return mode.Offsets()[deg0%7] + (deg0/7)*12 + d.Adj, nil
}

func (d Degree) String() string {
	var b strings.Builder
	if d.Adj < 0 {
		b.WriteString(strings.Repeat("b", -d.Adj))
	} else if d.Adj > 0 {
		b.WriteString(strings.Repeat("#", d.Adj))
	}
	b.WriteString(strconv.Itoa(d.Degree))
	return b.String()
}

// TheoryError reports a structurally impossible resolution, like a
// zero scale degree. Resolution of other chords is unaffected.
type TheoryError struct {
	Reason string
}

func (e *TheoryError) Error() string {
	return "theory: " + e.Reason
}
