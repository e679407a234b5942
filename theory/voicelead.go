package theory

import "slices"

// DefaultOctaveWindow bounds the octave search around each chord's
// written register during voice leading.
const DefaultOctaveWindow = 1

// VoiceLead re-voices a progression so that consecutive chords move as
// little as possible. Each chord keeps its pitch-class content; only
// the inversion and octave placement change, searched within the given
// octave window. The first chord anchors the register and is returned
// unchanged. Progressions of fewer than two chords, and chords with no
// alternate voicings, pass through untouched.
func VoiceLead(chords []Chord, window int) []Chord {
	if len(chords) < 2 {
		return slices.Clone(chords)
	}
	if window < 0 {
		window = DefaultOctaveWindow
	}

	// Candidate voicings per position. Index 0 is always the chord's
	// incoming voicing, which makes a re-run of an already led
	// progression settle on the identity path.
	cands := make([][]Chord, len(chords))
	cands[0] = []Chord{chords[0]}
	for i := 1; i < len(chords); i++ {
		cands[i] = voicings(chords[i], window)
	}

	// One forward pass: cost[v] is the cheapest total movement for a
	// path ending at candidate v of the current position.
	cost := []int{0}
	parents := make([][]int, len(chords))
	for i := 1; i < len(chords); i++ {
		next := make([]int, len(cands[i]))
		parent := make([]int, len(cands[i]))
		for v, cand := range cands[i] {
			best, bestU := -1, 0
			for u, prev := range cands[i-1] {
				c := cost[u] + movement(prev.Pitches(), cand.Pitches())
				if best < 0 || c < best {
					best, bestU = c, u
				}
			}
			next[v] = best
			parent[v] = bestU
		}
		cost = next
		parents[i] = parent
	}

	// Walk back from the cheapest final voicing.
	bestV := 0
	for v := 1; v < len(cost); v++ {
		if cost[v] < cost[bestV] {
			bestV = v
		}
	}
	picked := make([]int, len(chords))
	picked[len(chords)-1] = bestV
	for i := len(chords) - 1; i > 0; i-- {
		picked[i-1] = parents[i][picked[i]]
	}

	out := make([]Chord, len(chords))
	for i := range chords {
		out[i] = cands[i][picked[i]]
	}
	return out
}

// Movement sums the semitone distance each voice travels between two
// chords, pairing voices greedily by closest pitch. The previous
// chord's voices claim targets bass first, and ties go to the lowest
// unclaimed target so basses tend to stay paired.
func Movement(from, to Chord) int {
	return movement(from.Pitches(), to.Pitches())
}

// TotalMovement sums pairwise movement over a whole progression.
func TotalMovement(chords []Chord) int {
	total := 0
	for i := 1; i < len(chords); i++ {
		total += Movement(chords[i-1], chords[i])
	}
	return total
}

func movement(from, to []int) int {
	remaining := slices.Clone(to)
	dist := 0
	for _, p := range from {
		if len(remaining) == 0 {
			break
		}
		bestIdx := 0
		for i, q := range remaining {
			if abs(p-q) < abs(p-remaining[bestIdx]) {
				bestIdx = i
			}
		}
		dist += abs(p - remaining[bestIdx])
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}
	// Unclaimed voices in a larger target chord still have to be
	// reached from somewhere; charge each its nearest origin.
	for _, q := range remaining {
		best := -1
		for _, p := range from {
			if best < 0 || abs(p-q) < best {
				best = abs(p - q)
			}
		}
		if best > 0 {
			dist += best
		}
	}
	return dist
}

// voicings enumerates a chord's legal re-voicings: every rotation of
// its canonical close position, across every octave in the window,
// with the incoming voicing itself first.
func voicings(c Chord, window int) []Chord {
	out := []Chord{c}
	base := canonical(c.Intervals)
	for shift := -window; shift <= window; shift++ {
		rotation := slices.Clone(base)
		for r := 0; r < len(base); r++ {
			intervals := make([]int, len(rotation))
			for i, v := range rotation {
				intervals[i] = v + shift*12
			}
			slices.Sort(intervals)
			cand := Chord{Root: c.Root, Intervals: intervals}
			if !slices.Equal(cand.Intervals, c.Intervals) {
				out = append(out, cand)
			}
			// Next rotation: lift the lowest tone an octave.
			low := 0
			for i, v := range rotation {
				if v < rotation[low] {
					low = i
				}
			}
			rotation[low] += 12
		}
	}
	return out
}

// canonical reduces a voicing to close position: every interval
// folded into the octave above the root, ascending. Duplicate pitch
// classes are kept so doubled voices stay doubled.
func canonical(intervals []int) []int {
	out := make([]int, len(intervals))
	for i, v := range intervals {
		out[i] = mod(v, 12)
	}
	slices.Sort(out)
	return out
}
