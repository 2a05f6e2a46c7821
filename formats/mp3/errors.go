// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"

	"github.com/ik5/elmconv/errs"
)

// ErrNotMP3File is returned when no MPEG audio frame can be decoded.
var ErrNotMP3File = fmt.Errorf("%w: not an MP3 file", errs.ErrInvalidFormat)
