// SPDX-License-Identifier: EPL-2.0

package elmconv

import (
	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/loop"
	"github.com/ik5/elmconv/thin"
)

// DefaultTargetRate is the rate samples are resampled to unless disabled.
const DefaultTargetRate = 48000

// Options controls one conversion.
type Options struct {
	// TargetRate is the output rate; 0 keeps each sample's own rate.
	TargetRate int

	// RoundLoop rounds rescaled positions instead of truncating them.
	RoundLoop bool
	// AccurateRatio derives the rescale ratio from measured lengths instead
	// of the rates.
	AccurateRatio bool
	OptimizeLoops bool
	SearchRange   int
	// SingleCycleThreshold is the longest loop, in output samples, treated
	// as a single cycle. 0 disables detection.
	SingleCycleThreshold int

	// EmbedLoop writes smpl chunks into the output files.
	EmbedLoop bool

	// Prefix is prepended to the instrument name and every file name.
	Prefix string

	Normalize   bool
	NormalizeDB float64

	// Thin reduces the number of pitches when set.
	Thin *thin.Options
}

func DefaultOptions() Options {
	return Options{
		TargetRate:           DefaultTargetRate,
		SearchRange:          loop.DefaultSearchRange,
		SingleCycleThreshold: loop.DefaultSingleCycleThreshold,
		EmbedLoop:            true,
	}
}

// Validate reports invalid parameters as errs.ErrValidation.
func (o Options) Validate() error {
	if o.TargetRate < 0 {
		return errs.Validationf("resample rate must not be negative, got %d", o.TargetRate)
	}
	if o.SearchRange < 0 {
		return errs.Validationf("loop search range must not be negative, got %d", o.SearchRange)
	}
	if o.SingleCycleThreshold < 0 {
		return errs.Validationf("single-cycle threshold must not be negative, got %d", o.SingleCycleThreshold)
	}

	if o.Thin != nil {
		return o.Thin.Validate()
	}
	return nil
}

// LoopConfig returns the loop engine settings of o.
func (o Options) LoopConfig() loop.Config {
	return loop.Config{
		SingleCycleThreshold: o.SingleCycleThreshold,
		Optimize:             o.OptimizeLoops,
		SearchRange:          o.SearchRange,
		Round:                o.RoundLoop,
	}
}
