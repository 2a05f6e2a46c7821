// SPDX-License-Identifier: EPL-2.0

package zone

// Analysis summarises the shape of a sample map.
type Analysis struct {
	Pitches    []int
	PitchCount int
	ZoneCount  int
	// Interval is the dominant gap in semitones between adjacent pitches,
	// 0 when fewer than two pitches exist.
	Interval       int
	LowestPitch    int
	HighestPitch   int
	VelocityLayers int
	HasRoundRobin  bool
}

// Analyze inspects zones without modifying them.
func Analyze(zones []Zone) Analysis {
	if len(zones) == 0 {
		return Analysis{}
	}

	pitches := Pitches(zones)
	a := Analysis{
		Pitches:      pitches,
		PitchCount:   len(pitches),
		ZoneCount:    len(zones),
		Interval:     DominantInterval(pitches),
		LowestPitch:  pitches[0],
		HighestPitch: pitches[len(pitches)-1],
	}

	layers := make(map[int]map[int]struct{})
	for _, z := range zones {
		if layers[z.Pitch] == nil {
			layers[z.Pitch] = make(map[int]struct{})
		}
		layers[z.Pitch][z.MinVelocity] = struct{}{}
		if z.IsRoundRobin() {
			a.HasRoundRobin = true
		}
	}
	for _, vels := range layers {
		a.VelocityLayers = max(a.VelocityLayers, len(vels))
	}

	return a
}

// DominantInterval returns the most common gap between adjacent entries of
// the sorted pitches. On a tie the gap that occurs first wins.
func DominantInterval(pitches []int) int {
	if len(pitches) < 2 {
		return 0
	}

	counts := make(map[int]int)
	var order []int
	for i := 1; i < len(pitches); i++ {
		gap := pitches[i] - pitches[i-1]
		if counts[gap] == 0 {
			order = append(order, gap)
		}
		counts[gap]++
	}

	best := order[0]
	for _, gap := range order[1:] {
		if counts[gap] > counts[best] {
			best = gap
		}
	}
	return best
}
