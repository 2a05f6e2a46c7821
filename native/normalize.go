// SPDX-License-Identifier: EPL-2.0

package native

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/ik5/elmconv/formats/wav"
	"github.com/ik5/elmconv/utils"
)

// MinGainDB is the smallest gain Normalize applies.
const MinGainDB = 0.1

// PeakDB returns the peak level of p in dBFS, or -Inf for silence.
func PeakDB(p *wav.PCM) float64 {
	peak := 0
	for _, v := range p.Data {
		peak = max(peak, v, -v)
	}
	if peak == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(float64(peak)/float64(utils.FullScale(p.BitDepth)))
}

// Normalize scales the WAV file at path so its peak sits at targetDB dBFS
// and rewrites it as 24-bit. Silent files and gains below MinGainDB are
// left untouched.
func (c *Codec) Normalize(path string, targetDB float64) (float64, error) {
	p, err := wav.ReadPCMFile(path)
	if err != nil {
		return 0, err
	}

	peak := PeakDB(p)
	if math.IsInf(peak, -1) {
		return 0, nil
	}

	gain := targetDB - peak
	if math.Abs(gain) < MinGainDB {
		return 0, nil
	}

	factor := float32(math.Pow(10, gain/20))
	for i, v := range p.Data {
		p.Data[i] = utils.FloatToPCM(utils.PCMToFloat(v, p.BitDepth)*factor, OutputBitDepth)
	}
	p.BitDepth = OutputBitDepth

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".norm")
	if err := wav.WritePCMFile(tmp, p); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("replacing %s: %w", path, err)
	}

	c.logger.Debug("normalized",
		slog.String("file", path),
		slog.Float64("peak_db", peak),
		slog.Float64("gain_db", gain))

	return gain, nil
}
