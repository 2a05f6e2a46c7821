// SPDX-License-Identifier: EPL-2.0

package elmulti

import (
	"errors"
	"strings"
	"testing"

	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/zone"
)

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Piano", "Piano"},
		{`a/b\c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j"},
		{"  Pad  ", "Pad"},
		{"Grand Piano", "Grand Piano"},
	}

	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		wantWarn bool
		wantErr  bool
	}{
		{"short", "Piano", false, false},
		{"at warn limit", strings.Repeat("a", 24), false, false},
		{"above warn limit", strings.Repeat("a", 25), true, false},
		{"at error limit", strings.Repeat("a", 64), true, false},
		{"above error limit", strings.Repeat("a", 65), false, true},
		{"multibyte counted as runes", strings.Repeat("é", 24), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			warn, err := ValidateName(tt.in)
			if (warn != "") != tt.wantWarn {
				t.Errorf("ValidateName() warning = %q, want warning %v", warn, tt.wantWarn)
			}
			if tt.wantErr != (err != nil) {
				t.Fatalf("ValidateName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errs.ErrValidation) {
				t.Errorf("ValidateName() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		layer, pitch, rr int
		want             string
	}{
		{0, 60, -1, "Piano-000-060-c3.wav"},
		{2, 61, 1, "Piano-002-061-c#3.wav"},
		{0, 21, 0, "Piano-000-021-a-1.wav"},
	}

	for _, tt := range tests {
		if got := FileName("Piano", tt.layer, tt.pitch, tt.rr); got != tt.want {
			t.Errorf("FileName(%d, %d, %d) = %q, want %q", tt.layer, tt.pitch, tt.rr, got, tt.want)
		}
	}
}

func TestNamer_Next(t *testing.T) {
	t.Parallel()

	n := NewNamer("X")
	zones := []zone.Zone{
		{Pitch: 60, RoundRobin: zone.NoRoundRobin},
		{Pitch: 60, RoundRobin: zone.NoRoundRobin},
		{Pitch: 60, RoundRobin: zone.NoRoundRobin},
		{Pitch: 60, VelocityLayer: 1, RoundRobin: zone.NoRoundRobin},
		{Pitch: 62, RoundRobin: 0},
		{Pitch: 62, RoundRobin: 1},
	}
	want := []string{
		"X-000-060-c3.wav",
		"X-000-060-c3-rr1.wav",
		"X-000-060-c3-rr2.wav",
		"X-001-060-c3.wav",
		"X-000-062-d3-rr0.wav",
		"X-000-062-d3-rr1.wav",
	}

	for i, z := range zones {
		if got := n.Next(z); got != want[i] {
			t.Errorf("Next(zones[%d]) = %q, want %q", i, got, want[i])
		}
	}
}
