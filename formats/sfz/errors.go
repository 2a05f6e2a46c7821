// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"fmt"

	"github.com/ik5/elmconv/errs"
)

var (
	// ErrBadOpcode is returned when a numeric opcode holds a non-numeric value.
	ErrBadOpcode = fmt.Errorf("%w: malformed opcode value", errs.ErrFormat)
)
