// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"

	"github.com/ik5/elmconv/errs"
)

// ErrNotFLACFile is returned when the stream header cannot be parsed.
var ErrNotFLACFile = fmt.Errorf("%w: not a FLAC file", errs.ErrInvalidFormat)
