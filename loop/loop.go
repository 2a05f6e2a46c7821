// SPDX-License-Identifier: EPL-2.0

package loop

import (
	"fmt"
	"math"

	"github.com/ik5/elmconv/zone"
)

// Defaults for Config.
const (
	DefaultSingleCycleThreshold = 512
	DefaultSearchRange          = 5
	defaultBitDepth             = 24
	phaseWarnPercent            = 5.0
)

// Config controls how loop points are carried across a rate change.
type Config struct {
	// SingleCycleThreshold is the longest rescaled loop, in samples, that
	// is treated as a single waveform cycle. 0 disables the detection.
	SingleCycleThreshold int
	// Optimize searches around the rescaled endpoints of normal loops for
	// a pair with a smaller amplitude jump.
	Optimize bool
	// SearchRange is the radius of the optimization search.
	SearchRange int
	// Round rounds rescaled positions instead of truncating them.
	Round bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		SingleCycleThreshold: DefaultSingleCycleThreshold,
		SearchRange:          DefaultSearchRange,
	}
}

// Input describes the transcoded audio a zone now points at.
type Input struct {
	// Ratio is output length over original length.
	Ratio float64
	// Samples holds one value per frame. Nil when the audio could not be
	// read, which disables the sample dependent steps.
	Samples []int
	// SampleCount is the frame count of the output; 0 means unknown and
	// falls back to len(Samples).
	SampleCount int
	// BitDepth scales the phase coherence check. 0 means 24.
	BitDepth int
}

func (in Input) count() int {
	if in.SampleCount > 0 {
		return in.SampleCount
	}
	return len(in.Samples)
}

// Mode tells which path handled a zone's loop.
type Mode int

const (
	ModeNone Mode = iota
	ModeNormal
	ModeSingleCycle
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSingleCycle:
		return "single-cycle"
	default:
		return "none"
	}
}

// Report is what Resolve did to one zone. Problems never abort the zone;
// they are listed in Warnings.
type Report struct {
	Mode      Mode
	Optimized bool
	// DiffBefore and DiffAfter are the amplitude jumps at the loop
	// boundary around optimization.
	DiffBefore int
	DiffAfter  int
	Warnings   []string
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Resolve rescales the trim and loop positions of z by in.Ratio, then
// validates them against the output length. Only the trim and loop fields
// of z change.
func Resolve(z *zone.Zone, in Input, cfg Config) Report {
	var rep Report

	convert := truncate
	if cfg.Round {
		convert = roundHalfEven
	}
	count := in.count()

	if z.TrimStart > 0 {
		z.TrimStart = omitOutOfRange(&rep, "trim-start", convert(float64(z.TrimStart)*in.Ratio), count)
	}
	if z.TrimEnd > 0 {
		z.TrimEnd = omitOutOfRange(&rep, "trim-end", convert(float64(z.TrimEnd)*in.Ratio), count)
	}

	if !z.HasLoop {
		return rep
	}

	approx := roundHalfEven(float64(z.LoopLength()) * in.Ratio)
	if IsSingleCycle(approx, in.Ratio, cfg.SingleCycleThreshold) {
		rep.Mode = ModeSingleCycle
		z.LoopStart, z.LoopEnd = singleCycle(&rep, z.LoopStart, z.LoopEnd, in)
	} else {
		rep.Mode = ModeNormal
		z.LoopStart, z.LoopEnd = normal(&rep, z.LoopStart, z.LoopEnd, in, cfg, convert)
	}

	if z.LoopStart < 0 {
		rep.warnf("loop-start clamped %d -> 0", z.LoopStart)
		z.LoopStart = 0
	}
	if z.LoopEnd < 0 {
		rep.warnf("loop-end clamped %d -> 0", z.LoopEnd)
		z.LoopEnd = 0
	}
	if count > 0 && z.LoopEnd >= count {
		rep.warnf("loop-end clamped %d -> %d", z.LoopEnd, count-1)
		z.LoopEnd = count - 1
	}
	if z.LoopStart > z.LoopEnd {
		rep.warnf("loop-start clamped %d -> %d", z.LoopStart, z.LoopEnd)
		z.LoopStart = z.LoopEnd
	}

	return rep
}

// IsSingleCycle reports whether a loop of approxLen rescaled samples gets
// the length preserving treatment. Loops that are not rescaled never do.
func IsSingleCycle(approxLen int, ratio float64, threshold int) bool {
	return threshold > 0 && ratio != 1 && approxLen <= threshold
}

// omitOutOfRange returns 0, meaning "field absent", for positions at or
// past the end of the audio.
func omitOutOfRange(rep *Report, field string, value, count int) int {
	if value <= 0 || count <= 0 || value < count {
		return value
	}
	rep.warnf("%s out of bounds (%d >= %d), omitting", field, value, count)
	return 0
}

// singleCycle scales the loop length as a whole so the cycle keeps its
// pitch, then derives the end from the start.
func singleCycle(rep *Report, start, end int, in Input) (int, int) {
	length := max(1, roundHalfEven(float64(end-start+1)*in.Ratio))
	start = roundHalfEven(float64(start) * in.Ratio)
	end = start + length - 1

	total := len(in.Samples)
	if total == 0 {
		return start, end
	}

	if start < 0 {
		rep.warnf("single-cycle loop-start clamped %d -> 0", start)
		start = 0
		end = start + length - 1
	}
	if start >= total {
		rep.warnf("single-cycle loop-start clamped %d -> %d", start, total-1)
		start = total - 1
	}
	if end < start {
		rep.warnf("single-cycle loop-end clamped %d -> %d", end, start)
		end = start
	}
	if end >= total {
		rep.warnf("single-cycle loop-end clamped %d -> %d", end, total-1)
		end = total - 1
	}

	if end+1 < total {
		percent := SeamPercent(Seam(in.Samples, start, end+1), in.BitDepth)
		if percent > phaseWarnPercent {
			rep.warnf("single-cycle phase coherence: diff=%.1f%% (loop_len=%d)", percent, end-start+1)
		}
	}

	return start, end
}

func normal(rep *Report, start, end int, in Input, cfg Config, convert func(float64) int) (int, int) {
	start = convert(float64(start) * in.Ratio)
	end = convert(float64(end) * in.Ratio)

	total := len(in.Samples)
	if !cfg.Optimize || in.Ratio == 1 || total == 0 {
		return start, end
	}

	if inRange(start, total) && inRange(end, total) {
		before := Seam(in.Samples, start, end)
		optStart, optEnd, after := Optimize(in.Samples, start, end, cfg.SearchRange)
		if after < before {
			rep.Optimized = true
			rep.DiffBefore, rep.DiffAfter = before, after
			start, end = optStart, optEnd
		}
	}

	if !inRange(start, total) {
		clamped := max(0, min(start, total-1))
		rep.warnf("loop-start clamped %d -> %d", start, clamped)
		start = clamped
	}
	if end < start {
		rep.warnf("loop-end clamped %d -> %d", end, start)
		end = start
	}
	if end >= total {
		rep.warnf("loop-end clamped %d -> %d", end, total-1)
		end = total - 1
	}

	return start, end
}

// Optimize searches start and end within radius of the given points for the
// pair with the smallest jump |samples[end] - samples[start]|, keeping
// end > start. The first pair found wins ties, and when no candidate is
// valid the inputs come back with math.MaxInt as the jump.
func Optimize(samples []int, start, end, radius int) (int, int, int) {
	bestStart, bestEnd, best := start, end, math.MaxInt

	for ds := -radius; ds <= radius; ds++ {
		for de := -radius; de <= radius; de++ {
			s, e := start+ds, end+de
			if !inRange(s, len(samples)) || !inRange(e, len(samples)) || e <= s {
				continue
			}
			if d := Seam(samples, s, e); d < best {
				bestStart, bestEnd, best = s, e, d
			}
		}
	}
	return bestStart, bestEnd, best
}

// Seam returns the jump |samples[end] - samples[start]| a loop makes when
// playback wraps. Both points must index samples.
func Seam(samples []int, start, end int) int {
	return absInt(samples[end] - samples[start])
}

// SeamPercent expresses a jump as a percentage of the largest positive
// value at bitDepth; 0 means the default depth.
func SeamPercent(jump, bitDepth int) float64 {
	return float64(jump) / fullScale(bitDepth) * 100
}

func fullScale(bitDepth int) float64 {
	if bitDepth <= 0 {
		bitDepth = defaultBitDepth
	}
	return float64(int64(1)<<(bitDepth-1) - 1)
}

func inRange(i, n int) bool { return i >= 0 && i < n }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func truncate(v float64) int { return int(v) }

// roundHalfEven rounds ties to even: 2.5 becomes 2, 3.5 becomes 4.
func roundHalfEven(v float64) int { return int(math.RoundToEven(v)) }
