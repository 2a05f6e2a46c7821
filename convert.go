// SPDX-License-Identifier: EPL-2.0

package elmconv

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ik5/elmconv/elmulti"
	"github.com/ik5/elmconv/errs"
	"github.com/ik5/elmconv/formats/wav"
	"github.com/ik5/elmconv/loop"
	"github.com/ik5/elmconv/thin"
	"github.com/ik5/elmconv/zone"
)

// Converter turns instruments into mappings. It holds no per-conversion
// state, so one Converter may run several conversions at once.
type Converter struct {
	Transcoder Transcoder
	Inspector  Inspector
	// Normalizer is only needed when Options.Normalize is set.
	Normalizer Normalizer
	Logger     *slog.Logger
}

// NewConverter returns a Converter taking every collaborator from b.
func NewConverter(b Backend, logger *slog.Logger) *Converter {
	return &Converter{
		Transcoder: b,
		Inspector:  b,
		Normalizer: b,
		Logger:     logger,
	}
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// sample is a zone on its way to the mapping.
type sample struct {
	zone       zone.Zone
	file       string
	path       string
	ratio      float64
	outputRate int
}

// Preview loads input and reports what thinning with opts would do,
// without writing anything.
func (c *Converter) Preview(input string, opts thin.Options) (thin.Preview, error) {
	_, zones, err := LoadInstrument(input, c.Inspector, c.logger())
	if err != nil {
		return thin.Preview{}, err
	}
	return thin.NewPreview(zones, opts)
}

// Convert converts the instrument at input into outDir/<name>/. Parameter
// problems are reported before anything is read or written.
func (c *Converter) Convert(input, outDir string, opts Options) (*Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	log := c.logger().With(slog.String("input", input))
	stats := &Stats{}

	name, zones, err := LoadInstrument(input, c.Inspector, log)
	if err != nil {
		return stats, err
	}

	if opts.Thin != nil {
		res, err := thin.Apply(zones, *opts.Thin)
		if err != nil {
			return stats, err
		}
		zones = res.Zones
		stats.recordThin(*opts.Thin, res)
		log.Info("thinning applied",
			slog.Int("original_pitches", res.OriginalPitches),
			slog.Int("result_pitches", res.ResultPitches),
			slog.Int("original_interval", res.OriginalInterval),
			slog.Int("result_interval", res.ResultInterval))
	}

	fullName := opts.Prefix + name
	nameWarning, err := elmulti.ValidateName(fullName)
	if err != nil {
		return stats, err
	}
	if nameWarning != "" {
		log.Warn(nameWarning, slog.String("name", fullName))
	}

	safe := elmulti.SanitizeName(fullName)
	dir := filepath.Join(outDir, safe)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, fmt.Errorf("creating output directory: %w", err)
	}

	summary := Summary{
		Input:       input,
		Name:        fullName,
		OutputDir:   dir,
		Document:    filepath.Join(dir, safe+elmulti.Ext),
		TargetRate:  opts.TargetRate,
		NameWarning: nameWarning,
	}

	samples, err := c.transcode(log, stats, &summary, zones, safe, dir, opts)
	if err != nil {
		return stats, err
	}

	if opts.Normalize {
		if err := c.normalize(log, stats, samples, opts.NormalizeDB); err != nil {
			return stats, err
		}
	}

	entries := make([]elmulti.Entry, 0, len(samples))
	for i := range samples {
		entries = append(entries, c.resolve(log, stats, &samples[i], opts))
	}

	doc := elmulti.Build(fullName, entries)
	if err := doc.WriteFile(summary.Document); err != nil {
		return stats, err
	}

	summary.Samples = len(samples)
	summary.KeyZones = len(doc.KeyZones)
	summary.VelocityLayers = doc.LayerCount()
	for _, z := range zones {
		if z.IsRoundRobin() {
			summary.RoundRobin++
		}
	}

	stats.FilesProcessed++
	stats.Instruments = append(stats.Instruments, summary)

	log.Info("converted",
		slog.String("output", dir),
		slog.Int("samples", summary.Samples),
		slog.Int("key_zones", summary.KeyZones),
		slog.Int("velocity_layers", summary.VelocityLayers))

	return stats, nil
}

// transcode writes one WAV per zone. Files already present in dir are kept
// as they are.
func (c *Converter) transcode(log *slog.Logger, stats *Stats, summary *Summary, zones []zone.Zone, safe, dir string, opts Options) ([]sample, error) {
	namer := elmulti.NewNamer(safe)
	samples := make([]sample, 0, len(zones))

	for _, z := range zones {
		s := sample{zone: z, file: namer.Next(z)}
		s.path = filepath.Join(dir, s.file)

		if _, err := os.Stat(s.path); err == nil {
			s.ratio = 1
			s.outputRate = z.OriginalRate
			if opts.TargetRate > 0 {
				s.outputRate = opts.TargetRate
			}
			stats.TotalSamples++
			log.Debug("exists", slog.String("file", s.file))
			samples = append(samples, s)
			continue
		}

		res, err := c.Transcoder.Transcode(z.SourcePath, s.path, opts.TargetRate)
		if err != nil {
			if errors.Is(err, errs.ErrConversion) {
				return nil, fmt.Errorf("converting %s: %w", z.SourcePath, err)
			}
			return nil, fmt.Errorf("%w: converting %s: %w", errs.ErrConversion, z.SourcePath, err)
		}

		stats.TotalSamples++
		s.outputRate = res.OutputRate
		s.ratio = 1
		if res.OriginalRate > 0 {
			s.ratio = float64(res.OutputRate) / float64(res.OriginalRate)
		}

		if res.OriginalRate != res.OutputRate {
			stats.ResampledSamples++
			summary.Resampled++
			log.Info("resampled", slog.String("file", s.file),
				slog.Int("from", res.OriginalRate), slog.Int("to", res.OutputRate))

			if opts.AccurateRatio {
				if r, ok := c.measuredRatio(z.SourcePath, s.path); ok {
					s.ratio = r
				}
			}
		} else {
			log.Info("converted sample", slog.String("file", s.file))
		}

		samples = append(samples, s)
	}
	return samples, nil
}

// measuredRatio compares the frame counts of the source and output files.
func (c *Converter) measuredRatio(src, out string) (float64, bool) {
	orig, err := c.Inspector.SampleCount(src)
	if err != nil || orig <= 0 {
		return 0, false
	}
	n, err := c.Inspector.SampleCount(out)
	if err != nil || n <= 0 {
		return 0, false
	}
	return float64(n) / float64(orig), true
}

// normalize runs before loop resolution so loop analysis sees the final
// sample values.
func (c *Converter) normalize(log *slog.Logger, stats *Stats, samples []sample, targetDB float64) error {
	if c.Normalizer == nil {
		return fmt.Errorf("%w: normalization requested without a normalizer", errs.ErrValidation)
	}

	for _, s := range samples {
		gain, err := c.Normalizer.Normalize(s.path, targetDB)
		if err != nil {
			if errors.Is(err, errs.ErrToolNotFound) {
				return err
			}
			log.Warn("normalization failed", slog.String("file", s.file), slog.Any("error", err))
			stats.Warn(s.file, "normalization failed")
			continue
		}
		if math.Abs(gain) > 0.1 {
			stats.NormalizedSamples++
			log.Info("normalized", slog.String("file", s.file), slog.Float64("gain_db", gain))
		}
	}
	return nil
}

// resolve rescales the loop and trim positions of s, embeds its smpl
// chunk and returns its mapping entry.
func (c *Converter) resolve(log *slog.Logger, stats *Stats, s *sample, opts Options) elmulti.Entry {
	z := &s.zone
	in := loop.Input{Ratio: s.ratio}

	count, err := c.Inspector.SampleCount(s.path)
	if err != nil {
		log.Debug("sample count unknown", slog.String("file", s.file), slog.Any("error", err))
	}
	in.SampleCount = count

	if z.HasLoop {
		stats.LoopsWithLoop++

		if s.ratio != 1 {
			pcm, err := c.Inspector.Decode(s.path)
			switch {
			case err == nil:
				in.Samples = pcm.Mono()
				in.BitDepth = pcm.BitDepth
			case opts.OptimizeLoops:
				stats.Warn(s.file, "loop optimization failed")
				log.Warn("reading samples failed", slog.String("file", s.file), slog.Any("error", err))
			default:
				log.Debug("reading samples failed", slog.String("file", s.file), slog.Any("error", err))
			}
		}
	} else {
		stats.LoopsWithoutLoop++
	}

	rep := loop.Resolve(z, in, opts.LoopConfig())
	switch rep.Mode {
	case loop.ModeSingleCycle:
		stats.LoopsSingleCycle++
		log.Debug("single-cycle loop", slog.String("file", s.file), slog.Int("length", z.LoopLength()))
	case loop.ModeNormal:
		stats.LoopsNormal++
	}
	if rep.Optimized {
		stats.LoopsOptimized++
		log.Debug("loop optimized", slog.String("file", s.file),
			slog.Int("diff_before", rep.DiffBefore), slog.Int("diff_after", rep.DiffAfter))
	}
	for _, w := range rep.Warnings {
		stats.Warn(s.file, w)
		log.Warn(w, slog.String("file", s.file))
	}

	if opts.EmbedLoop {
		spec := wav.SamplerSpec{RootNote: int(math.RoundToEven(z.KeyCenter))}
		if z.HasLoop {
			spec.Loop = &wav.Loop{Start: z.LoopStart, End: z.LoopEnd}
		}
		if err := wav.EmbedSampler(s.path, spec); err != nil {
			stats.Warn(s.file, "smpl embedding failed")
			log.Warn("smpl embedding failed", slog.String("file", s.file), slog.Any("error", err))
		}
	}

	slot := elmulti.Slot{
		Sample:    s.file,
		TrimStart: z.TrimStart,
		TrimEnd:   z.TrimEnd,
	}
	if z.HasLoop {
		slot.Loop = true
		slot.LoopStart = z.LoopStart
		slot.LoopEnd = z.LoopEnd
		slot.LoopCrossfade = int(z.LoopCrossfade/time.Millisecond) * (s.outputRate / 1000)
		slot.KeepLoopingOnRelease = z.KeepLoopingOnRelease
	}

	return elmulti.Entry{
		Pitch:       z.Pitch,
		KeyCenter:   z.KeyCenter,
		MinVelocity: z.MinVelocity,
		Slot:        slot,
	}
}
