package theory

var intervalNames = [12]string{
	"P1", "m2", "M2", "m3", "M3", "P4", "d5", "P5", "m6", "M6", "m7", "M7",
}

// How each chromatic step is spelled as a scale degree, per mode.
// Used to turn an interval back into a bass degree when enumerating
// inversions.
var (
	majorDegrees = [12]Degree{
		{1, 0}, {2, -1}, {2, 0}, {3, -1}, {3, 0}, {4, 0},
		{5, -1}, {5, 0}, {6, -1}, {6, 0}, {7, -1}, {7, 0},
	}
	minorDegrees = [12]Degree{
		{1, 0}, {2, 0}, {3, -1}, {3, 0}, {4, -1}, {4, 0},
		{5, -1}, {5, 0}, {6, 0}, {7, -1}, {7, 0}, {7, 1},
	}
)

// IntervalName names an interval in semitones, octave-reduced,
// e.g. 7 -> "P5".
func IntervalName(semitones int) string {
	return intervalNames[mod(semitones, 12)]
}

// IntervalDegree spells an interval as a scale degree within a mode.
func IntervalDegree(semitones int, mode Mode) Degree {
	idx := mod(semitones, 12)
	if mode == Minor {
		return minorDegrees[idx]
	}
	return majorDegrees[idx]
}
