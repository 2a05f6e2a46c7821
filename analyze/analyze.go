// SPDX-License-Identifier: EPL-2.0

package analyze

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ik5/elmconv/elmulti"
	"github.com/ik5/elmconv/formats/wav"
	"github.com/ik5/elmconv/loop"
)

// ErrNoMapping is returned for a directory without a mapping document.
var ErrNoMapping = errors.New("no " + elmulti.Ext + " file found")

// Status grades a seam.
type Status int

const (
	Excellent Status = iota
	Good
	Fair
	Poor
)

// StatusOf grades a seam jump given in percent of full scale.
func StatusOf(percent float64) Status {
	switch {
	case percent < 0.1:
		return Excellent
	case percent < 1:
		return Good
	case percent < 5:
		return Fair
	default:
		return Poor
	}
}

func (s Status) String() string {
	switch s {
	case Excellent:
		return "EXCELLENT"
	case Good:
		return "GOOD"
	case Fair:
		return "FAIR"
	default:
		return "POOR"
	}
}

// Pitch is the tone a loop produces when it is one cycle long.
type Pitch struct {
	Freq  float64
	MIDI  int
	Cents float64
}

// PitchOf derives the pitch of a length-sample cycle at rate Hz.
func PitchOf(length, rate int) (Pitch, bool) {
	if length <= 0 || rate <= 0 {
		return Pitch{}, false
	}
	freq := float64(rate) / float64(length)
	midi := 69 + 12*math.Log2(freq/440)
	note := math.RoundToEven(midi)
	return Pitch{Freq: freq, MIDI: int(note), Cents: (midi - note) * 100}, true
}

// Sample is the result for one slot.
type Sample struct {
	Name string
	Loop bool

	Start, End int
	Length     int
	Rate       int
	Jump       int
	Percent    float64
	Pitch      Pitch
	HasPitch   bool

	// HasSampler is false when the WAV carries no smpl chunk.
	HasSampler         bool
	SamplerStart       int
	SamplerEnd         int
	SamplerLoop        bool
	SamplerMatchesLoop bool

	Err error
}

// Instrument is the result for one converted instrument directory.
type Instrument struct {
	Name     string
	Document string
	Samples  []Sample

	HasLoops bool
	// MaxPercent is the worst seam and Worst the slot it belongs to.
	MaxPercent float64
	Worst      string
	// LoopLength and SingleCycle describe the first looped slot.
	LoopLength  int
	SingleCycle bool
	Pitch       *Pitch

	Err error
}

// Status grades the worst seam of the instrument.
func (in Instrument) Status() Status { return StatusOf(in.MaxPercent) }

// Mismatches counts looped slots whose smpl chunk disagrees with the mapping.
func (in Instrument) Mismatches() int {
	n := 0
	for _, s := range in.Samples {
		if s.Loop && s.Err == nil && !s.SamplerMatchesLoop {
			n++
		}
	}
	return n
}

// Analyzer inspects converted instruments.
type Analyzer struct {
	// SingleCycleThreshold is the longest loop treated as one cycle.
	SingleCycleThreshold int
	Logger               *slog.Logger
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Dir analyzes the instrument in dir, using the first mapping document
// found there.
func (a *Analyzer) Dir(dir string) (Instrument, error) {
	docs, err := filepath.Glob(filepath.Join(dir, "*"+elmulti.Ext))
	if err != nil {
		return Instrument{}, err
	}
	if len(docs) == 0 {
		return Instrument{Name: filepath.Base(dir)}, fmt.Errorf("%s: %w", dir, ErrNoMapping)
	}
	slices.Sort(docs)

	doc, err := elmulti.ReadFile(docs[0])
	if err != nil {
		return Instrument{Name: filepath.Base(dir)}, err
	}

	res := Instrument{
		Name:     strings.TrimSuffix(filepath.Base(docs[0]), elmulti.Ext),
		Document: docs[0],
	}
	log := a.logger().With(slog.String("instrument", res.Name))

	for _, slot := range doc.Slots() {
		s := Sample{Name: slot.Sample, Loop: slot.Loop}
		if slot.Loop {
			res.HasLoops = true
			s.Start, s.End = slot.LoopStart, slot.LoopEnd
			s.Length = s.End - s.Start + 1
			if res.LoopLength == 0 {
				res.LoopLength = s.Length
				res.SingleCycle = s.Length <= a.SingleCycleThreshold
			}

			if s.Err = inspect(&s, filepath.Join(dir, slot.Sample)); s.Err != nil {
				log.Warn("sample not analyzed", slog.String("sample", slot.Sample), slog.Any("error", s.Err))
				res.Samples = append(res.Samples, s)
				continue
			}

			if res.Worst == "" || s.Percent > res.MaxPercent {
				res.MaxPercent, res.Worst = s.Percent, s.Name
			}
			if res.Pitch == nil && s.HasPitch {
				p := s.Pitch
				res.Pitch = &p
			}
			log.Debug("seam", slog.String("sample", s.Name), slog.Int("jump", s.Jump),
				slog.Float64("percent", s.Percent), slog.Bool("smpl_match", s.SamplerMatchesLoop))
		}
		res.Samples = append(res.Samples, s)
	}
	return res, nil
}

// Tree analyzes every subdirectory of parent in name order. Directories
// that fail carry their error in Instrument.Err.
func (a *Analyzer) Tree(parent string) ([]Instrument, error) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil, err
	}

	var out []Instrument
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		res, err := a.Dir(filepath.Join(parent, e.Name()))
		if err != nil {
			res.Err = err
		}
		out = append(out, res)
	}
	return out, nil
}

// SortBy orders results by "name", "diff" (worst first) or "length"
// (longest loop first).
func SortBy(results []Instrument, key string) error {
	var fn func(a, b Instrument) int
	switch key {
	case "", "name":
		fn = func(a, b Instrument) int { return cmp.Compare(a.Name, b.Name) }
	case "diff":
		fn = func(a, b Instrument) int { return cmp.Compare(b.MaxPercent, a.MaxPercent) }
	case "length":
		fn = func(a, b Instrument) int { return cmp.Compare(b.LoopLength, a.LoopLength) }
	default:
		return fmt.Errorf("unknown sort key %q, want name, diff or length", key)
	}
	slices.SortStableFunc(results, fn)
	return nil
}

func inspect(s *Sample, path string) error {
	pcm, err := wav.ReadPCMFile(path)
	if err != nil {
		return err
	}
	frames := pcm.Mono()
	if s.Start < 0 {
		return fmt.Errorf("loop-start %d is negative", s.Start)
	}
	if s.End >= len(frames) || s.End < s.Start {
		return fmt.Errorf("loop-end %d outside %d frames", s.End, len(frames))
	}

	s.Rate = pcm.SampleRate
	s.Jump = loop.Seam(frames, s.Start, s.End)
	s.Percent = loop.SeamPercent(s.Jump, pcm.BitDepth)
	s.Pitch, s.HasPitch = PitchOf(s.Length, pcm.SampleRate)

	info, err := wav.ReadSampler(path)
	switch {
	case errors.Is(err, wav.ErrNoSampler):
		return nil
	case err != nil:
		return err
	}
	s.HasSampler = true
	if len(info.Loops) > 0 {
		s.SamplerLoop = true
		s.SamplerStart = int(info.Loops[0].Start)
		s.SamplerEnd = int(info.Loops[0].End)
	}
	s.SamplerMatchesLoop = s.SamplerLoop && s.SamplerStart == s.Start && s.SamplerEnd == s.End
	return nil
}
