// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/elmconv/audio"
	"github.com/ik5/elmconv/utils"
)

// go-mp3 always produces 16-bit little-endian stereo
const (
	channels    = 2
	sampleBytes = 2
	frameBytes  = channels * sampleBytes
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	pending    int // bytes of a split sample carried from the last read
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / sampleBytes }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * sampleBytes
	if cap(s.buf) < need {
		grown := make([]byte, need)
		copy(grown, s.buf[:s.pending])
		s.buf = grown
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf[s.pending:need])
	n += s.pending

	samples := n / sampleBytes
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[i*sampleBytes:]))
		dst[i] = utils.PCMToFloat(int(v), 16)
	}

	s.pending = copy(s.buf, s.buf[samples*sampleBytes:n])

	if samples == 0 && err == nil {
		return 0, nil
	}
	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("%w", err)
	}
	return samples, err
}

// Decoder reads MPEG-1/2 Layer III audio.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}

// Probe decodes the stream headers of r. The frame count comes from the
// decoded length, which go-mp3 computes by scanning every frame.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	info := audio.Info{SampleRate: dec.SampleRate(), Channels: channels}
	if l := dec.Length(); l > 0 {
		info.Frames = int(l / frameBytes)
	}
	return info, nil
}
