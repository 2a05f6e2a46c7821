// SPDX-License-Identifier: EPL-2.0

package elmulti

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/zone"
)

// Name length limits. Names above MaxNameWarn may be truncated on the
// device display.
const (
	MaxNameWarn  = 24
	MaxNameError = 64
)

const invalidNameChars = `/\:*?"<>|`

// SanitizeName replaces characters that are invalid in file names on any
// platform with underscores and trims surrounding whitespace.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidNameChars, r) {
			return '_'
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// ValidateName checks the length of a prefixed instrument name. It returns
// a warning for names above MaxNameWarn and an errs.ErrValidation error for
// names above MaxNameError.
func ValidateName(name string) (string, error) {
	n := utf8.RuneCountInString(name)
	if n > MaxNameError {
		return "", errs.Validationf("name too long (%d chars), maximum allowed: %d chars", n, MaxNameError)
	}
	if n > MaxNameWarn {
		return fmt.Sprintf("name length (%d chars) exceeds recommended limit of %d chars, may be truncated on the device display",
			n, MaxNameWarn), nil
	}
	return "", nil
}

// FileName builds a sample file name such as "Piano-000-060-c3-rr1.wav".
// rr is the round-robin index, or negative for none.
func FileName(name string, layer, pitch, rr int) string {
	suffix := ""
	if rr >= 0 {
		suffix = fmt.Sprintf("-rr%d", rr)
	}
	return fmt.Sprintf("%s-%03d-%03d-%s%s.wav", name, layer, pitch, zone.NoteName(pitch), suffix)
}

// Namer hands out sample file names for the zones of one instrument.
// Zones without a round-robin position that share a pitch and velocity
// layer are numbered in encounter order so their names stay distinct.
type Namer struct {
	name string
	seen map[[2]int]int
}

func NewNamer(name string) *Namer {
	return &Namer{name: name, seen: make(map[[2]int]int)}
}

// Next returns the file name for z.
func (n *Namer) Next(z zone.Zone) string {
	key := [2]int{z.Pitch, z.VelocityLayer}
	count := n.seen[key]
	n.seen[key]++

	rr := z.RoundRobin
	if !z.IsRoundRobin() {
		rr = -1
		if count > 0 {
			rr = count
		}
	}
	return FileName(n.name, z.VelocityLayer, z.Pitch, rr)
}
