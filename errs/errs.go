// SPDX-License-Identifier: EPL-2.0

// Package errs holds the error categories shared by every elmconv package.
//
// Packages define their own sentinels wrapping one of the categories below,
// so callers can branch with errors.Is on the category without knowing
// which reader or collaborator produced the failure:
//
//	if errors.Is(err, errs.ErrValidation) {
//	    // bad user parameters, nothing was written
//	}
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormat indicates a malformed input container. Fatal for the
	// instrument being read.
	ErrFormat = errors.New("format error")

	// ErrUnsupportedFormat indicates a well formed but unsupported container
	// variant.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrFormat)

	// ErrInvalidFormat indicates the input is not a container of the
	// expected kind at all.
	ErrInvalidFormat = fmt.Errorf("%w: invalid format", ErrFormat)

	// ErrValidation indicates invalid user supplied conversion parameters.
	ErrValidation = errors.New("validation error")

	// ErrConversion indicates a recoverable-scope failure such as missing
	// samples or a failed transcode.
	ErrConversion = errors.New("conversion error")

	// ErrToolNotFound indicates the external audio tool is missing or lacks a
	// required feature. It blocks all further work.
	ErrToolNotFound = fmt.Errorf("%w: audio tool not available", ErrConversion)
)

// maxListedMissing caps how many names MissingSamplesError prints.
const maxListedMissing = 5

// MissingSamplesError aggregates every sample file that could not be found
// for one instrument.
type MissingSamplesError struct {
	Missing []string
}

func (e *MissingSamplesError) Error() string {
	listed := e.Missing
	if len(listed) > maxListedMissing {
		listed = listed[:maxListedMissing]
	}

	msg := strings.Join(listed, ", ")
	if extra := len(e.Missing) - len(listed); extra > 0 {
		msg += fmt.Sprintf(", ... (%d more)", extra)
	}

	return fmt.Sprintf("%d sample(s) not found: %s", len(e.Missing), msg)
}

// Unwrap makes MissingSamplesError match ErrConversion.
func (e *MissingSamplesError) Unwrap() error { return ErrConversion }

// Validationf builds an error in the ErrValidation category.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
