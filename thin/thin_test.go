// SPDX-License-Identifier: EPL-2.0

package thin

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/zone"
)

func chromatic(lo, hi int, layers ...int) []zone.Zone {
	if len(layers) == 0 {
		layers = []int{0}
	}

	var zones []zone.Zone
	for p := lo; p <= hi; p++ {
		for _, v := range layers {
			zones = append(zones, zone.Zone{Pitch: p, MinVelocity: v, RoundRobin: zone.NoRoundRobin})
		}
	}
	zone.Arrange(zones)
	return zones
}

func TestApply_EveryOtherFromC(t *testing.T) {
	t.Parallel()

	res, err := Apply(chromatic(60, 72, 0, 100), Options{Factor: 2, Anchor: 0})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := []int{60, 62, 64, 66, 68, 70, 72}
	if !slices.Equal(res.Selected, want) {
		t.Errorf("Selected = %v, want %v", res.Selected, want)
	}
	if got := zone.Pitches(res.Zones); !slices.Equal(got, want) {
		t.Errorf("zone pitches = %v, want %v", got, want)
	}
	if res.ResultZones != 14 {
		t.Errorf("ResultZones = %d, want 14 (both layers kept)", res.ResultZones)
	}
	if res.OriginalInterval != 1 || res.ResultInterval != 2 || res.Removed() != 6 {
		t.Errorf("result = %+v", res)
	}
}

func TestApply_SelectsBackwardFromAnchor(t *testing.T) {
	t.Parallel()

	// anchor E (4): 64 is the start, selection runs both ways
	res, err := Apply(chromatic(60, 70), Options{Factor: 3, Anchor: 4})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := []int{61, 64, 67, 70}
	if !slices.Equal(res.Selected, want) {
		t.Errorf("Selected = %v, want %v", res.Selected, want)
	}
}

func TestApply_NearestAnchor(t *testing.T) {
	t.Parallel()

	// whole tones on odd notes: no pitch class 0 present, 61 and 71 are
	// both one step away and 61 comes first
	var zones []zone.Zone
	for p := 61; p <= 71; p += 2 {
		zones = append(zones, zone.Zone{Pitch: p, RoundRobin: zone.NoRoundRobin})
	}

	res, err := Apply(zones, Options{Factor: 2, Anchor: 0})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []int{61, 65, 69}
	if !slices.Equal(res.Selected, want) {
		t.Errorf("Selected = %v, want %v", res.Selected, want)
	}
}

func TestApply_MaxIntervalExceeded(t *testing.T) {
	t.Parallel()

	var zones []zone.Zone
	for p := 48; p <= 84; p += 3 {
		zones = append(zones, zone.Zone{Pitch: p, RoundRobin: zone.NoRoundRobin})
	}

	_, err := Apply(zones, Options{Factor: 3, MaxInterval: 6})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("Apply() error = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "factor of 2") {
		t.Errorf("error %q should suggest factor 2", err)
	}
}

func TestApply_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
	}{
		{"factor one", Options{Factor: 1}},
		{"factor zero", Options{}},
		{"anchor high", Options{Factor: 2, Anchor: 12}},
		{"anchor negative", Options{Factor: 2, Anchor: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Apply(chromatic(60, 72), tt.opts); !errors.Is(err, errs.ErrValidation) {
				t.Errorf("Apply() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestApply_SinglePitchUnchanged(t *testing.T) {
	t.Parallel()

	zones := chromatic(60, 60, 0, 64)
	res, err := Apply(zones, Options{Factor: 4})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(res.Zones) != 2 || res.Removed() != 0 {
		t.Errorf("result = %+v, want unchanged", res)
	}
}

func TestParseAnchor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"11", 11, false},
		{"12", 0, true},
		{"C", 0, false},
		{"c#", 1, false},
		{"Db", 1, false},
		{"Eb", 3, false},
		{"Gb", 6, false},
		{"Ab", 8, false},
		{"Bb", 10, false},
		{"H", 11, false},
		{"X", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAnchor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAnchor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAnchor(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewPreview(t *testing.T) {
	t.Parallel()

	zones := chromatic(60, 72)
	p, err := NewPreview(zones, Options{Factor: 2})
	if err != nil {
		t.Fatalf("NewPreview() error = %v", err)
	}
	if p.Input.PitchCount != 13 || p.Result.ResultPitches != 7 {
		t.Errorf("preview = %+v", p)
	}
	if len(zones) != 13 {
		t.Error("NewPreview modified its input")
	}
}
