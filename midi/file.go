package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ExportSMF writes one chord per step to a single-track standard MIDI
// file. Each inner slice holds the MIDI notes sounding for that step;
// an empty slice is a rest.
func ExportSMF(path string, steps [][]uint8, ticksPerStep uint32, bpm float64, velocity uint8) error {
	if len(steps) == 0 {
		return fmt.Errorf("nothing to export")
	}

	ticks := smf.MetricTicks(PulsesPerQuarter * 40) // 960 per quarter
	stepTicks := ticksPerStep * uint32(ticks.Resolution()) / PulsesPerQuarter

	s := smf.New()
	s.TimeFormat = ticks

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(bpm))
	tr.Add(0, smf.MetaMeter(4, 4))

	delta := uint32(0)
	for _, notes := range steps {
		for _, n := range notes {
			tr.Add(delta, gomidi.NoteOn(0, n, velocity))
			delta = 0
		}
		delta += stepTicks
		for _, n := range notes {
			tr.Add(delta, gomidi.NoteOff(0, n))
			delta = 0
		}
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
