// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"

	"github.com/ik5/elmconv/errs"
)

var (
	// ErrNotWavFile indicates the input is not a RIFF/WAVE container.
	ErrNotWavFile = fmt.Errorf("%w: not a WAV file", errs.ErrInvalidFormat)

	// ErrUnsupportedEncoding indicates a WAV that is not integer PCM at 8,
	// 16, 24 or 32 bits.
	ErrUnsupportedEncoding = fmt.Errorf("%w: only integer PCM WAV is supported", errs.ErrUnsupportedFormat)

	// ErrNoPCMData indicates a WAV without a data chunk.
	ErrNoPCMData = fmt.Errorf("%w: WAV has no data chunk", errs.ErrFormat)

	// ErrInvalidFormat is returned by WritePCM for an impossible layout.
	ErrInvalidFormat = errors.New("invalid PCM layout")
)
