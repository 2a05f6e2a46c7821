// SPDX-License-Identifier: EPL-2.0

package elmconv

import "github.com/ik5/elmconv/thin"

// Warning is a non-fatal problem tied to one output file.
type Warning struct {
	File    string
	Message string
}

// Summary describes one converted instrument.
type Summary struct {
	Input string
	// Name is the prefixed instrument name written to the mapping.
	Name      string
	OutputDir string
	Document  string

	Samples        int
	KeyZones       int
	VelocityLayers int
	RoundRobin     int
	Resampled      int
	TargetRate     int

	// NameWarning is set when the name may be truncated on the device.
	NameWarning string
}

// ThinStats records a thinning pass.
type ThinStats struct {
	Factor           int
	OriginalPitches  int
	ResultPitches    int
	OriginalInterval int
	ResultInterval   int
}

// Stats accumulates the outcome of one or more conversions. Each
// conversion returns its own Stats; batches combine them with Merge.
type Stats struct {
	FilesProcessed    int
	TotalSamples      int
	ResampledSamples  int
	NormalizedSamples int

	LoopsWithLoop    int
	LoopsWithoutLoop int
	LoopsSingleCycle int
	LoopsNormal      int
	LoopsOptimized   int

	// Thin is nil when no instrument was thinned.
	Thin *ThinStats

	Warnings    []Warning
	Instruments []Summary
}

// Warn records a warning for file.
func (s *Stats) Warn(file, msg string) {
	s.Warnings = append(s.Warnings, Warning{File: file, Message: msg})
}

func (s *Stats) recordThin(opts thin.Options, res thin.Result) {
	s.Thin = &ThinStats{
		Factor:           opts.Factor,
		OriginalPitches:  res.OriginalPitches,
		ResultPitches:    res.ResultPitches,
		OriginalInterval: res.OriginalInterval,
		ResultInterval:   res.ResultInterval,
	}
}

// Merge adds the counters, warnings and summaries of o to s. Pitch counts
// of thinning passes add up; factor and intervals keep the largest value, so
// the totals do not depend on merge order.
func (s *Stats) Merge(o *Stats) {
	if o == nil {
		return
	}

	s.FilesProcessed += o.FilesProcessed
	s.TotalSamples += o.TotalSamples
	s.ResampledSamples += o.ResampledSamples
	s.NormalizedSamples += o.NormalizedSamples
	s.LoopsWithLoop += o.LoopsWithLoop
	s.LoopsWithoutLoop += o.LoopsWithoutLoop
	s.LoopsSingleCycle += o.LoopsSingleCycle
	s.LoopsNormal += o.LoopsNormal
	s.LoopsOptimized += o.LoopsOptimized

	if o.Thin != nil {
		if s.Thin == nil {
			s.Thin = &ThinStats{}
		}
		s.Thin.Factor = max(s.Thin.Factor, o.Thin.Factor)
		s.Thin.OriginalPitches += o.Thin.OriginalPitches
		s.Thin.ResultPitches += o.Thin.ResultPitches
		s.Thin.OriginalInterval = max(s.Thin.OriginalInterval, o.Thin.OriginalInterval)
		s.Thin.ResultInterval = max(s.Thin.ResultInterval, o.Thin.ResultInterval)
	}

	s.Warnings = append(s.Warnings, o.Warnings...)
	s.Instruments = append(s.Instruments, o.Instruments...)
}
