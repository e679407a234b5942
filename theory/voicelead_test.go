package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func resolveProgression(t *testing.T, key Key, tokens ...string) []Chord {
	t.Helper()
	chords := make([]Chord, 0, len(tokens))
	for _, tok := range tokens {
		c, err := MustParseChord(tok).Resolve(key)
		assert.NoError(t, err, tok)
		chords = append(chords, c)
	}
	return chords
}

func TestVoiceLeadAnchorsFirstChord(t *testing.T) {
	in := resolveProgression(t, DefaultKey(), "I", "IV", "V", "I")
	out := VoiceLead(in, DefaultOctaveWindow)

	assert.Equal(t, len(in), len(out))
	assert.Equal(t, in[0], out[0])
}

func TestVoiceLeadPullsChordsTogether(t *testing.T) {
	key := Key{Root: MustParseNote("C3"), Mode: Major}
	in := resolveProgression(t, key, "I", "IV")
	out := VoiceLead(in, DefaultOctaveWindow)

	// C3-E3-G3 followed by a second-inversion F: C3-F3-A3.
	assert.Equal(t, "C3-E3-G3", out[0].String())
	assert.Equal(t, []int{27, 32, 36}, out[1].Pitches())
}

func TestVoiceLeadNeverIncreasesMovement(t *testing.T) {
	key := Key{Root: MustParseNote("C3"), Mode: Major}
	progressions := [][]string{
		{"I", "IV", "V", "I"},
		{"i", "VI", "III", "VII"},
		{"I", "V:b7", "vi", "IV"},
		{"I", "I>1", "I<1"},
	}
	for _, tokens := range progressions {
		in := resolveProgression(t, key, tokens...)
		out := VoiceLead(in, DefaultOctaveWindow)
		assert.LessOrEqual(t, TotalMovement(out), TotalMovement(in), tokens)
	}
}

func TestVoiceLeadIdempotent(t *testing.T) {
	key := Key{Root: MustParseNote("C3"), Mode: Major}
	in := resolveProgression(t, key, "I", "vi", "IV", "V:b7", "I")

	once := VoiceLead(in, DefaultOctaveWindow)
	twice := VoiceLead(once, DefaultOctaveWindow)
	assert.Equal(t, once, twice)
}

func TestVoiceLeadPreservesPitchClasses(t *testing.T) {
	key := Key{Root: MustParseNote("C3"), Mode: Major}
	in := resolveProgression(t, key, "I", "IV", "V:b7", "vi")
	out := VoiceLead(in, DefaultOctaveWindow)

	for i := range in {
		assert.Equal(t, pitchClassSet(in[i]), pitchClassSet(out[i]))
	}
}

func TestVoiceLeadDegenerateInputs(t *testing.T) {
	assert.Empty(t, VoiceLead(nil, DefaultOctaveWindow))

	single := resolveProgression(t, DefaultKey(), "I")
	assert.Equal(t, single, VoiceLead(single, DefaultOctaveWindow))

	power := resolveProgression(t, DefaultKey(), "I5", "IV5")
	out := VoiceLead(power, DefaultOctaveWindow)
	assert.Equal(t, power[0], out[0])
	assert.Equal(t, pitchClassSet(power[1]), pitchClassSet(out[1]))
}

func TestMovement(t *testing.T) {
	a := Chord{Root: MustParseNote("C3"), Intervals: []int{0, 4, 7}}
	b := Chord{Root: MustParseNote("C3"), Intervals: []int{0, 5, 9}}
	assert.Equal(t, 0, Movement(a, a))
	assert.Equal(t, 3, Movement(a, b))
}

func pitchClassSet(c Chord) map[int]bool {
	set := make(map[int]bool)
	for _, p := range c.Pitches() {
		set[mod(p, 12)] = true
	}
	return set
}
