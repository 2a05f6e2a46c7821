// SPDX-License-Identifier: EPL-2.0

package zone

import "fmt"

var noteNames = [12]string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

// NoteName converts a MIDI note to the Elektron spelling, where MIDI 60 is
// "c3" and MIDI 24 is "c0".
func NoteName(pitch int) string {
	octave := floorDiv(pitch, 12) - 2
	return fmt.Sprintf("%s%d", noteNames[floorMod(pitch, 12)], octave)
}

// PitchClassName returns the upper-case name of a pitch class 0-11.
func PitchClassName(class int) string {
	name := noteNames[floorMod(class, 12)]
	if len(name) == 2 {
		return string(name[0]-'a'+'A') + "#"
	}
	return string(name[0] - 'a' + 'A')
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return ((a % b) + b) % b
}
