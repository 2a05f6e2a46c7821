// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Convert chains the stages needed to bring src to targetRate, folding to
// one channel when mono is set. A targetRate of 0 keeps the source rate.
// Stages that would be no-ops are left out.
func Convert(src Source, targetRate int, mono bool) (Source, error) {
	if targetRate < 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidRate
	}

	out := src
	if targetRate != 0 && targetRate != src.SampleRate() {
		out = NewResampler(out, targetRate)
	}
	if mono && out.Channels() > 1 {
		out = NewMonoMixer(out)
	}
	return out, nil
}

// ReadAll drains src and returns every interleaved sample it produced.
func ReadAll(src Source) ([]float32, error) {
	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	if ch := src.Channels(); ch > 1 {
		size -= size % ch
		if size == 0 {
			size = ch
		}
	}

	var out []float32
	buf := make([]float32, size)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("%w", err)
		}
	}
}
