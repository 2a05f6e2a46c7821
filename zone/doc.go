// SPDX-License-Identifier: EPL-2.0

// Package zone defines the intermediate representation shared by the EXS24
// and SFZ readers.
//
// A reader builds the full zone list in one pass and finishes with Arrange,
// which sorts by (pitch, min velocity, round-robin position) and assigns
// dense velocity layer indices per pitch:
//
//	zones := []zone.Zone{
//	    {Pitch: 60, MinVelocity: 64, RoundRobin: zone.NoRoundRobin},
//	    {Pitch: 60, MinVelocity: 0, RoundRobin: zone.NoRoundRobin},
//	}
//	zone.Arrange(zones)
//	// zones[0].VelocityLayer == 0 (vel 0), zones[1].VelocityLayer == 1 (vel 64)
//
// After arrangement a thinning pass may drop whole pitches and the loop
// engine rewrites loop and trim fields once per zone. Nothing else mutates a
// zone.
package zone
