// SPDX-License-Identifier: EPL-2.0

package zone

import (
	"slices"
	"testing"
)

func TestZone_LoopLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		start, end, want int
	}{
		{100, 101, 2},
		{0, 0, 1},
		{10, 99, 90},
	}

	for _, tt := range tests {
		z := Zone{LoopStart: tt.start, LoopEnd: tt.end}
		if got := z.LoopLength(); got != tt.want {
			t.Errorf("LoopLength(%d, %d) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestArrange_DenseLayersRegardlessOfInputOrder(t *testing.T) {
	t.Parallel()

	zones := []Zone{
		{Pitch: 60, MinVelocity: 64, RoundRobin: NoRoundRobin, SampleName: "loud"},
		{Pitch: 48, MinVelocity: 100, RoundRobin: NoRoundRobin, SampleName: "low-loud"},
		{Pitch: 60, MinVelocity: 0, RoundRobin: NoRoundRobin, SampleName: "soft"},
	}

	Arrange(zones)

	gotNames := []string{zones[0].SampleName, zones[1].SampleName, zones[2].SampleName}
	wantNames := []string{"low-loud", "soft", "loud"}
	if !slices.Equal(gotNames, wantNames) {
		t.Fatalf("order = %v, want %v", gotNames, wantNames)
	}

	gotLayers := []int{zones[0].VelocityLayer, zones[1].VelocityLayer, zones[2].VelocityLayer}
	wantLayers := []int{0, 0, 1}
	if !slices.Equal(gotLayers, wantLayers) {
		t.Errorf("layers = %v, want %v", gotLayers, wantLayers)
	}
}

func TestArrange_RoundRobinSharesLayer(t *testing.T) {
	t.Parallel()

	zones := []Zone{
		{Pitch: 60, MinVelocity: 0, RoundRobin: 1, SampleName: "rr1"},
		{Pitch: 60, MinVelocity: 0, RoundRobin: 0, SampleName: "rr0"},
		{Pitch: 60, MinVelocity: 90, RoundRobin: 0, SampleName: "hard"},
	}

	Arrange(zones)

	if zones[0].SampleName != "rr0" || zones[1].SampleName != "rr1" {
		t.Errorf("round robins not ordered by position: %s, %s", zones[0].SampleName, zones[1].SampleName)
	}
	if zones[0].VelocityLayer != 0 || zones[1].VelocityLayer != 0 {
		t.Errorf("round robins must share layer 0, got %d and %d", zones[0].VelocityLayer, zones[1].VelocityLayer)
	}
	if zones[2].VelocityLayer != 1 {
		t.Errorf("hard layer = %d, want 1", zones[2].VelocityLayer)
	}
}

func TestSort_NoRoundRobinFirst(t *testing.T) {
	t.Parallel()

	zones := []Zone{
		{Pitch: 60, RoundRobin: 0, SampleName: "rr"},
		{Pitch: 60, RoundRobin: NoRoundRobin, SampleName: "plain"},
	}
	Sort(zones)

	if zones[0].SampleName != "plain" {
		t.Errorf("zones[0] = %s, want plain (sentinel sorts first)", zones[0].SampleName)
	}
}

func TestPitches(t *testing.T) {
	t.Parallel()

	zones := []Zone{{Pitch: 64}, {Pitch: 60}, {Pitch: 64}, {Pitch: 62}}
	got := Pitches(zones)
	want := []int{60, 62, 64}
	if !slices.Equal(got, want) {
		t.Errorf("Pitches() = %v, want %v", got, want)
	}
}

func TestDominantInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pitches []int
		want    int
	}{
		{"empty", nil, 0},
		{"single", []int{60}, 0},
		{"chromatic", []int{60, 61, 62, 63}, 1},
		{"minor thirds with outlier", []int{48, 51, 54, 57, 59}, 3},
		{"tie keeps first seen", []int{60, 62, 65, 67, 70}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DominantInterval(tt.pitches); got != tt.want {
				t.Errorf("DominantInterval(%v) = %d, want %d", tt.pitches, got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	zones := []Zone{
		{Pitch: 60, MinVelocity: 0, RoundRobin: NoRoundRobin},
		{Pitch: 60, MinVelocity: 64, RoundRobin: NoRoundRobin},
		{Pitch: 63, MinVelocity: 0, RoundRobin: 0},
		{Pitch: 66, MinVelocity: 0, RoundRobin: NoRoundRobin},
	}

	a := Analyze(zones)

	if a.PitchCount != 3 || a.ZoneCount != 4 {
		t.Errorf("counts = (%d, %d), want (3, 4)", a.PitchCount, a.ZoneCount)
	}
	if a.Interval != 3 {
		t.Errorf("Interval = %d, want 3", a.Interval)
	}
	if a.LowestPitch != 60 || a.HighestPitch != 66 {
		t.Errorf("range = %d-%d, want 60-66", a.LowestPitch, a.HighestPitch)
	}
	if a.VelocityLayers != 2 {
		t.Errorf("VelocityLayers = %d, want 2", a.VelocityLayers)
	}
	if !a.HasRoundRobin {
		t.Error("HasRoundRobin = false, want true")
	}

	if empty := Analyze(nil); empty.PitchCount != 0 || empty.Pitches != nil {
		t.Errorf("Analyze(nil) = %+v, want zero value", empty)
	}
}

func TestNoteName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pitch int
		want  string
	}{
		{60, "c3"},
		{24, "c0"},
		{61, "c#3"},
		{0, "c-2"},
		{127, "g8"},
		{69, "a3"},
	}

	for _, tt := range tests {
		if got := NoteName(tt.pitch); got != tt.want {
			t.Errorf("NoteName(%d) = %q, want %q", tt.pitch, got, tt.want)
		}
	}
}

func TestPitchClassName(t *testing.T) {
	t.Parallel()

	if got := PitchClassName(0); got != "C" {
		t.Errorf("PitchClassName(0) = %q, want C", got)
	}
	if got := PitchClassName(10); got != "A#" {
		t.Errorf("PitchClassName(10) = %q, want A#", got)
	}
}
