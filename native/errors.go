// SPDX-License-Identifier: EPL-2.0

package native

import (
	"fmt"

	"github.com/ik5/elmconv/errs"
)

// ErrUnsupportedSource is returned for source files no registered decoder
// handles.
var ErrUnsupportedSource = fmt.Errorf("%w: no decoder for source", errs.ErrUnsupportedFormat)
