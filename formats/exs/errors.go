// SPDX-License-Identifier: EPL-2.0

package exs

import (
	"fmt"

	"github.com/ik5/elmconv/errs"
)

var (
	// ErrFileTooLarge is returned for inputs above MaxFileSize.
	ErrFileTooLarge = fmt.Errorf("%w: EXS file is too large (> 1MB)", errs.ErrFormat)

	// ErrBigEndian is returned for big-endian instruments, which are not
	// supported.
	ErrBigEndian = fmt.Errorf("%w: big endian EXS files are not supported", errs.ErrUnsupportedFormat)

	// ErrNotEXSFile is returned when the buffer is not an EXS24 instrument.
	ErrNotEXSFile = fmt.Errorf("%w: not a valid EXS file", errs.ErrInvalidFormat)

	// ErrTruncatedChunk is returned when a zone or sample chunk ends before
	// its fixed fields.
	ErrTruncatedChunk = fmt.Errorf("%w: truncated EXS chunk", errs.ErrFormat)

	// ErrSampleIndex is returned when a zone points outside the sample list.
	ErrSampleIndex = fmt.Errorf("%w: zone references a missing sample", errs.ErrFormat)
)
