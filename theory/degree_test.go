package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDegree(t *testing.T) {
	cases := map[string]Degree{
		"7":   {Degree: 7, Adj: 0},
		"b7":  {Degree: 7, Adj: -1},
		"bb7": {Degree: 7, Adj: -2},
		"#7":  {Degree: 7, Adj: 1},
		"b#7": {Degree: 7, Adj: 0},
	}
	for s, want := range cases {
		d, err := ParseDegree(s)
		assert.NoError(t, err)
		assert.Equal(t, want, d, s)
	}
}

func TestParseDegreeInvalid(t *testing.T) {
	for _, s := range []string{"", "b", "#", "x7"} {
		_, err := ParseDegree(s)
		assert.Error(t, err, s)
	}
}

func TestDegreeInterval(t *testing.T) {
	assert := assert.New(t)

	intv, err := Degree{Degree: 1}.Interval(Major)
	assert.NoError(err)
	assert.Equal(0, intv)

	intv, err = Degree{Degree: 7}.Interval(Major)
	assert.NoError(err)
	assert.Equal(11, intv)

	intv, err = Degree{Degree: 7, Adj: -1}.Interval(Major)
	assert.NoError(err)
	assert.Equal(10, intv)

	intv, err = Degree{Degree: 7}.Interval(Minor)
	assert.NoError(err)
	assert.Equal(10, intv)

	// Degrees past 7 wrap into the next octave.
	intv, err = Degree{Degree: 8}.Interval(Major)
	assert.NoError(err)
	assert.Equal(12, intv)

	intv, err = Degree{Degree: 9}.Interval(Major)
	assert.NoError(err)
	assert.Equal(14, intv)

	intv, err = Degree{Degree: 9}.Interval(Minor)
	assert.NoError(err)
	assert.Equal(13, intv)

	intv, err = Degree{Degree: 16}.Interval(Major)
	assert.NoError(err)
	assert.Equal(24, intv)
}

func TestDegreeIntervalInvalid(t *testing.T) {
	_, err := Degree{Degree: 0}.Interval(Major)
	assert.Error(t, err)
	var terr *TheoryError
	assert.ErrorAs(t, err, &terr)
}

func TestDegreeString(t *testing.T) {
	assert.Equal(t, "7", Degree{Degree: 7}.String())
	assert.Equal(t, "b7", Degree{Degree: 7, Adj: -1}.String())
	assert.Equal(t, "bb7", Degree{Degree: 7, Adj: -2}.String())
	assert.Equal(t, "#9", Degree{Degree: 9, Adj: 1}.String())
}
