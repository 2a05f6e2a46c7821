// SPDX-License-Identifier: EPL-2.0

// Package thin reduces a sample map by keeping every Nth pitch.
//
// Thinning works on whole pitches: a dropped pitch loses all its velocity
// layers and round-robins, a kept pitch keeps all of them.
package thin

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/zone"
)

// MinFactor is the smallest meaningful thinning factor.
const MinFactor = 2

// Options selects which pitches survive.
type Options struct {
	// Factor keeps one of every Factor pitches.
	Factor int
	// Anchor is the pitch class 0-11 the selection is aligned to.
	Anchor int
	// MaxInterval caps the resulting interval in semitones; 0 means no cap.
	MaxInterval int
}

// Result describes a thinning pass.
type Result struct {
	Zones []zone.Zone

	OriginalPitches  int
	ResultPitches    int
	OriginalInterval int
	ResultInterval   int
	OriginalZones    int
	ResultZones      int
	Anchor           int
	// Selected lists the kept pitches in ascending order.
	Selected []int
}

// Removed returns how many pitches were dropped.
func (r Result) Removed() int { return r.OriginalPitches - r.ResultPitches }

// Validate reports invalid options as errs.ErrValidation.
func (o Options) Validate() error {
	if o.Factor < MinFactor {
		return errs.Validationf("thin factor must be >= %d, got %d", MinFactor, o.Factor)
	}
	if o.Anchor < 0 || o.Anchor > 11 {
		return errs.Validationf("anchor must be 0-11, got %d", o.Anchor)
	}
	if o.MaxInterval < 0 {
		return errs.Validationf("max interval must not be negative, got %d", o.MaxInterval)
	}
	return nil
}

// Apply keeps every opts.Factor-th pitch counted in both directions from
// the first pitch whose class matches opts.Anchor. Maps with fewer than
// two pitches come back unchanged.
func Apply(zones []zone.Zone, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	pitches := zone.Pitches(zones)
	interval := zone.DominantInterval(pitches)

	res := Result{
		OriginalPitches:  len(pitches),
		OriginalInterval: interval,
		OriginalZones:    len(zones),
		Anchor:           opts.Anchor,
	}

	if len(pitches) < 2 {
		res.Zones = zones
		res.ResultPitches = len(pitches)
		res.ResultInterval = interval
		res.ResultZones = len(zones)
		res.Selected = pitches
		return res, nil
	}

	res.ResultInterval = interval * opts.Factor
	if opts.MaxInterval > 0 && res.ResultInterval > opts.MaxInterval {
		return Result{}, errs.Validationf(
			"thinning would result in %d-semitone intervals, but the maximum is %d semitones; use a factor of %d or lower",
			res.ResultInterval, opts.MaxInterval, opts.MaxInterval/interval)
	}

	start := anchorIndex(pitches, opts.Anchor)

	var selected []int
	for i := start; i < len(pitches); i += opts.Factor {
		selected = append(selected, pitches[i])
	}
	for i := start - opts.Factor; i >= 0; i -= opts.Factor {
		selected = append(selected, pitches[i])
	}
	slices.Sort(selected)

	for _, z := range zones {
		if _, found := slices.BinarySearch(selected, z.Pitch); found {
			res.Zones = append(res.Zones, z)
		}
	}

	res.Selected = selected
	res.ResultPitches = len(selected)
	res.ResultZones = len(res.Zones)
	return res, nil
}

// anchorIndex returns the first pitch of the anchor's class, or else the
// first pitch at the smallest circular distance from it.
func anchorIndex(pitches []int, anchor int) int {
	for i, p := range pitches {
		if p%12 == anchor {
			return i
		}
	}

	best, bestDist := 0, 12
	for i, p := range pitches {
		d := circularDistance(p%12, anchor)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func circularDistance(a, b int) int {
	d := ((a-b)%12 + 12) % 12
	return min(d, 12-d)
}

var anchorNames = map[string]int{
	"C": 0, "C#": 1, "DB": 1, "D": 2, "D#": 3, "EB": 3, "E": 4, "F": 5,
	"F#": 6, "GB": 6, "G": 7, "G#": 8, "AB": 8, "A": 9, "A#": 10, "BB": 10,
	"B": 11, "H": 11,
}

// ParseAnchor accepts a pitch class number 0-11 or a note name such as
// "C", "F#", "Bb" or the German "H". Names are case-insensitive.
func ParseAnchor(s string) (int, error) {
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 11 {
			return 0, errs.Validationf("anchor %d out of range 0-11", n)
		}
		return n, nil
	}

	if n, ok := anchorNames[strings.ToUpper(s)]; ok {
		return n, nil
	}
	return 0, errs.Validationf("invalid anchor note %q", s)
}
