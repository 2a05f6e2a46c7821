// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"

	"github.com/ik5/elmconv/errs"
)

var (
	// ErrNotAiffFile indicates the file is not a valid AIFF file
	ErrNotAiffFile = fmt.Errorf("%w: not an AIFF file", errs.ErrInvalidFormat)

	// ErrUnsupportedBitDepth indicates a sample size other than 8, 16, 24 or 32
	ErrUnsupportedBitDepth = fmt.Errorf("%w: unsupported AIFF bit depth", errs.ErrUnsupportedFormat)
)
