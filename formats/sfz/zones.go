// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/zone"
)

// DefaultSampleRate is assumed when a sample's rate cannot be probed.
const DefaultSampleRate = 44100

// Loop modes.
const (
	LoopNone       = "no_loop"
	LoopOneShot    = "one_shot"
	LoopContinuous = "loop_continuous"
	LoopSustain    = "loop_sustain"
)

// Env supplies the file system view BuildZones works against.
type Env struct {
	// BaseDir is the folder sample paths are relative to.
	BaseDir string
	// Exists reports whether a sample file is present. Nil checks the disk.
	Exists func(path string) bool
	// SampleRate probes a sample. Nil or a failing probe yields
	// DefaultSampleRate.
	SampleRate func(path string) (int, error)
	Logger     *slog.Logger
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// BuildZones turns every region carrying a sample opcode into a zone.
// Regions without a pitch are skipped with a warning. Missing sample files
// are reported together after all regions were looked at.
func BuildZones(doc *Document, env Env) ([]zone.Zone, error) {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	exists := env.Exists
	if exists == nil {
		exists = fileExists
	}

	defaultPath := doc.DefaultPath()

	var (
		zones   []zone.Zone
		missing []string
	)
	for _, region := range doc.regions {
		sample, ok := region["sample"]
		if !ok {
			continue
		}

		rel := normalizeSeparators(sample)
		if defaultPath != "" {
			rel = path.Join(defaultPath, rel)
		}
		full := filepath.Clean(filepath.Join(env.BaseDir, filepath.FromSlash(rel)))

		if !exists(full) {
			logger.Warn("sample not found", "sample", rel, "resolved", full)
			missing = append(missing, rel)
			continue
		}

		z, ok, err := regionZone(region, rel, full)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Warn("region has no pitch, skipping", "sample", rel)
			continue
		}

		z.OriginalRate = DefaultSampleRate
		if env.SampleRate != nil {
			if rate, err := env.SampleRate(full); err == nil && rate > 0 {
				z.OriginalRate = rate
			} else if err != nil {
				logger.Debug("sample rate probe failed", "sample", rel, "err", err)
			}
		}

		zones = append(zones, z)
	}

	if len(missing) > 0 {
		return nil, &errs.MissingSamplesError{Missing: missing}
	}

	zone.Arrange(zones)
	return zones, nil
}

// regionZone reports ok == false when the region has no resolvable pitch.
func regionZone(region Opcodes, rel, full string) (zone.Zone, bool, error) {
	var pitch int
	var ok bool
	if v, has := region.Get("pitch_keycenter", "key"); has {
		pitch, ok = ParseNote(v)
	}
	if !ok {
		return zone.Zone{}, false, nil
	}

	ints := intReader{ops: region}
	transpose := ints.get(0, "transpose")
	minVel := ints.get(zone.MinVelocity, "lovel")
	maxVel := ints.get(zone.MaxVelocity, "hivel")
	seq := ints.get(-1, "seq_position")
	trimStart := ints.get(0, "offset")
	trimEnd := ints.get(0, "end")
	loopStart := ints.get(0, "loop_start", "loopstart")
	loopEnd := ints.get(0, "loop_end", "loopend")

	var crossfade time.Duration
	if v, has := region["loop_crossfade"]; has {
		sec, err := strconv.ParseFloat(v, 64)
		if err != nil {
			ints.err = fmt.Errorf("%w: loop_crossfade=%q", ErrBadOpcode, v)
		}
		crossfade = time.Duration(int(sec*1000)) * time.Millisecond
	}
	if ints.err != nil {
		return zone.Zone{}, false, fmt.Errorf("region %s: %w", rel, ints.err)
	}

	mode, has := region.Get("loop_mode", "loopmode")
	if !has {
		mode = LoopNone
	}

	rr := zone.NoRoundRobin
	if seq > 0 {
		rr = seq - 1
	}

	return zone.Zone{
		Pitch:                pitch,
		KeyCenter:            float64(pitch - transpose),
		MinVelocity:          minVel,
		MaxVelocity:          maxVel,
		SourcePath:           full,
		SampleName:           path.Base(rel),
		TrimStart:            trimStart,
		TrimEnd:              trimEnd,
		HasLoop:              mode == LoopContinuous || mode == LoopSustain,
		LoopStart:            loopStart,
		LoopEnd:              loopEnd,
		LoopCrossfade:        crossfade,
		KeepLoopingOnRelease: mode == LoopContinuous,
		RoundRobin:           rr,
	}, true, nil
}

// intReader parses integer opcodes and remembers the first failure.
type intReader struct {
	ops Opcodes
	err error
}

func (r *intReader) get(def int, keys ...string) int {
	v, ok := r.ops.Get(keys...)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("%w: %s=%q", ErrBadOpcode, keys[0], v)
		}
		return def
	}
	return n
}
