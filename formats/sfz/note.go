// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"regexp"
	"strconv"
	"strings"
)

var notePattern = regexp.MustCompile(`^([A-Ga-g])([#b]?)(-?\d+)`)

var noteOffsets = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// ParseNote reads a MIDI note given as a number ("60") or in scientific
// pitch notation ("C4", "F#3", "Bb2"), where C4 is 60.
func ParseNote(s string) (int, bool) {
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	m := notePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, false
	}

	note := noteOffsets[strings.ToUpper(m[1])[0]] + (octave+1)*12
	switch m[2] {
	case "#":
		note++
	case "b":
		note--
	}
	return note, true
}
