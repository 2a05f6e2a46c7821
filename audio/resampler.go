// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/elmconv/utils"
)

// Resampler streams src at a new sample rate using Catmull-Rom
// interpolation. It preserves the channel count and applies a one-pole
// low-pass before interpolating when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	// win holds the frames at t-1, t0, t+1 and t+2 around pos; have marks
	// which of them came from the source rather than edge padding.
	win  [4][]float32
	have [4]bool
	pos  float64

	srcBuf         []float32
	bufPos, bufLen int
	srcEOF         bool
	started, done  bool

	filter bool
	alpha  float32
	state  []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		srcBuf:   make([]float32, 1024*channels),
		state:    make([]float32, channels),
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	if step > 1 {
		// cutoff at the destination Nyquist frequency
		r.filter = true
		r.alpha = float32(1 - math.Exp(-2*math.Pi*0.5/step))
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Ratio is the output rate divided by the input rate.
func (r *Resampler) Ratio() float64 { return 1 / r.step }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.bufPos+r.channels > r.bufLen {
		if r.srcEOF {
			return false, nil
		}

		rem := copy(r.srcBuf, r.srcBuf[r.bufPos:r.bufLen])
		n, err := r.src.ReadSamples(r.srcBuf[rem:])
		r.bufPos, r.bufLen = 0, rem+n

		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(dst, r.srcBuf[r.bufPos:r.bufPos+r.channels])
	r.bufPos += r.channels
	return true, nil
}

// load fills window slot i from the source, repeating slot i-1 at the end
// of the stream.
func (r *Resampler) load(i int) error {
	ok, err := r.nextFrame(r.win[i])
	if err != nil {
		return err
	}
	r.have[i] = ok
	if !ok {
		copy(r.win[i], r.win[i-1])
		return nil
	}

	if r.filter {
		for c, x := range r.win[i] {
			y := r.alpha*x + (1-r.alpha)*r.state[c]
			r.win[i][c] = y
			r.state[c] = y
		}
	}
	return nil
}

func (r *Resampler) prime() error {
	r.started = true

	ok, err := r.nextFrame(r.win[1])
	if err != nil {
		return err
	}
	if !ok {
		r.done = true
		return io.EOF
	}

	r.have[1] = true
	copy(r.state, r.win[1])
	copy(r.win[0], r.win[1])
	r.have[0] = true

	if err := r.load(2); err != nil {
		return err
	}
	return r.load(3)
}

func (r *Resampler) advance() error {
	r.win[0], r.win[1], r.win[2], r.win[3] = r.win[1], r.win[2], r.win[3], r.win[0]
	r.have[0], r.have[1], r.have[2] = r.have[1], r.have[2], r.have[3]
	return r.load(3)
}

// ReadSamples produces samples at the destination rate. len(dst) must be
// a multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.done {
		return 0, io.EOF
	}
	if !r.started {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.have[1] {
			r.done = true
			break
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}

		written++
		r.pos += r.step
	}

	if r.done {
		if written == 0 {
			return 0, io.EOF
		}
		return written * r.channels, io.EOF
	}
	return written * r.channels, nil
}
