// SPDX-License-Identifier: EPL-2.0

package zone

import (
	"fmt"
	"slices"
	"time"
)

// NoRoundRobin marks a zone that does not take part in round-robin
// alternation.
const NoRoundRobin = -1

// Velocity bounds.
const (
	MinVelocity = 0
	MaxVelocity = 127
)

// Zone is one keyboard/velocity region mapped onto exactly one source audio
// stream. Loop points follow the inclusive convention: LoopEnd is played
// before wrapping back to LoopStart.
type Zone struct {
	// Pitch is the key this zone sounds at.
	Pitch int
	// KeyCenter is the note the sample was recorded at. It differs from
	// Pitch only when the source format encodes an independent transpose.
	KeyCenter float64

	MinVelocity int
	MaxVelocity int

	// SourcePath points at the original audio stream. Not owned.
	SourcePath string
	// SampleName is the sample's name as the instrument refers to it.
	SampleName string

	// TrimStart and TrimEnd are sample offsets; 0 means unset.
	TrimStart int
	TrimEnd   int

	HasLoop   bool
	LoopStart int
	LoopEnd   int

	LoopCrossfade        time.Duration
	KeepLoopingOnRelease bool

	// RoundRobin is the 0-based alternation position or NoRoundRobin.
	RoundRobin int

	// VelocityLayer is derived by AssignVelocityLayers.
	VelocityLayer int

	OriginalRate int
}

// LoopLength returns the inclusive loop length.
func (z Zone) LoopLength() int {
	return z.LoopEnd - z.LoopStart + 1
}

// IsRoundRobin reports whether the zone has a round-robin position.
func (z Zone) IsRoundRobin() bool {
	return z.RoundRobin != NoRoundRobin
}

func (z Zone) String() string {
	return fmt.Sprintf("%s (pitch %d, vel %d-%d)", z.SampleName, z.Pitch, z.MinVelocity, z.MaxVelocity)
}

// Arrange sorts zones by (pitch, min velocity, round-robin position) and
// assigns velocity layer indices. Both readers finish with it.
func Arrange(zones []Zone) {
	Sort(zones)
	AssignVelocityLayers(zones)
}

// Sort orders zones by (pitch, min velocity, round-robin position). The sort
// is stable so zones sharing a key keep their encounter order.
func Sort(zones []Zone) {
	slices.SortStableFunc(zones, func(a, b Zone) int {
		if a.Pitch != b.Pitch {
			return a.Pitch - b.Pitch
		}
		if a.MinVelocity != b.MinVelocity {
			return a.MinVelocity - b.MinVelocity
		}
		return a.RoundRobin - b.RoundRobin
	})
}

// AssignVelocityLayers sets VelocityLayer to the dense, zero-based rank of
// MinVelocity among all velocities present at the same pitch.
func AssignVelocityLayers(zones []Zone) {
	byPitch := make(map[int][]int)
	for _, z := range zones {
		vels := byPitch[z.Pitch]
		if !slices.Contains(vels, z.MinVelocity) {
			byPitch[z.Pitch] = append(vels, z.MinVelocity)
		}
	}

	for _, vels := range byPitch {
		slices.Sort(vels)
	}

	for i := range zones {
		zones[i].VelocityLayer = slices.Index(byPitch[zones[i].Pitch], zones[i].MinVelocity)
	}
}

// Pitches returns the sorted distinct pitches present in zones.
func Pitches(zones []Zone) []int {
	pitches := make([]int, 0, len(zones))
	for _, z := range zones {
		pitches = append(pitches, z.Pitch)
	}
	slices.Sort(pitches)
	return slices.Compact(pitches)
}
