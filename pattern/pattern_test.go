package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"chordflow/sequencer"
	"chordflow/theory"
)

const samplePattern = `
key: C3
mode: major
ticksPerStep: 6
loop: [0, 3]
steps:
  - "I"
  - ""
  - "IV"
  - "V:b7"
  - "vi"
  - ""
  - ""
  - "I"
bindings:
  1: "I"
  2: "V:b7~V"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pattern.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	st, err := Load(writeTemp(t, samplePattern))
	assert.NoError(t, err)

	assert.Equal(t, "C3", st.Key.Root.String())
	assert.Equal(t, theory.Major, st.Key.Mode)
	assert.Equal(t, 6, st.TicksPerStep)
	assert.Equal(t, 0, st.LoopA)
	assert.Equal(t, 3, st.LoopB)
	assert.Len(t, st.Slots, 8)

	assert.Equal(t, "I", st.Slots[0].String())
	assert.Nil(t, st.Slots[1])
	assert.Equal(t, "V:b7", st.Slots[3].String())
	assert.Equal(t, "I", st.Bindings[0].String())
	assert.Equal(t, "V:b7~V", st.Bindings[1].String())
	assert.Nil(t, st.Bindings[2])
}

func TestLoadDefaults(t *testing.T) {
	st, err := Load(writeTemp(t, "steps: [\"I\", \"V\"]\n"))
	assert.NoError(t, err)

	assert.Equal(t, theory.DefaultKey(), st.Key)
	assert.Equal(t, sequencer.DefaultTicksPerStep, st.TicksPerStep)
	assert.Equal(t, 0, st.LoopA)
	assert.Equal(t, 1, st.LoopB)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"bad token":   "steps: [\"Vx\"]\n",
		"bad key":     "key: H2\nsteps: [\"I\"]\n",
		"bad mode":    "mode: dorian\nsteps: [\"I\"]\n",
		"bad loop":    "loop: [3, 1]\nsteps: [\"I\", \"V\"]\n",
		"loop shape":  "loop: [1]\nsteps: [\"I\"]\n",
		"bad binding": "steps: [\"I\"]\nbindings:\n  12: \"I\"\n",
	}
	for name, content := range cases {
		_, err := Load(writeTemp(t, content))
		assert.Error(t, err, name)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	st, err := Load(writeTemp(t, samplePattern))
	assert.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	assert.NoError(t, Save(path, st))

	back, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, st, back)
}
