// SPDX-License-Identifier: EPL-2.0

package exs

import (
	"time"

	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/zone"
)

// Resolver maps a sample chunk onto an audio file on disk.
type Resolver func(s *Sample) (path string, ok bool)

// BuildZones resolves every sample and converts the zone chunks into
// arranged zone records. Unresolved samples are reported together in one
// *errs.MissingSamplesError.
func (inst *Instrument) BuildZones(resolve Resolver) ([]zone.Zone, error) {
	paths := make([]string, len(inst.Samples))
	var missing []string
	for i, s := range inst.Samples {
		p, ok := resolve(s)
		if !ok {
			missing = append(missing, s.Name)
			continue
		}
		paths[i] = p
	}
	if len(missing) > 0 {
		return nil, &errs.MissingSamplesError{Missing: missing}
	}

	zones := make([]zone.Zone, 0, len(inst.Zones))
	for _, z := range inst.Zones {
		s, err := inst.SampleOf(z)
		if err != nil {
			return nil, err
		}

		rr := zone.NoRoundRobin
		if g := inst.GroupOf(z); g != nil && g.IsRoundRobin() {
			rr = g.Sequence
		}

		zones = append(zones, zone.Zone{
			Pitch:                z.RootNote,
			KeyCenter:            float64(z.RootNote),
			MinVelocity:          z.MinVel,
			MaxVelocity:          z.MaxVel,
			SourcePath:           paths[z.SampleIndex],
			SampleName:           s.Name,
			TrimStart:            z.SampleStart,
			TrimEnd:              z.SampleEnd,
			HasLoop:              z.LoopOn,
			LoopStart:            z.LoopStart,
			LoopEnd:              z.LoopEnd,
			LoopCrossfade:        time.Duration(z.LoopCrossfade) * time.Millisecond,
			KeepLoopingOnRelease: !z.PlayToEndOnRelease,
			RoundRobin:           rr,
			OriginalRate:         s.Rate,
		})
	}

	zone.Arrange(zones)
	return zones, nil
}
