// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/elmconv/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 * s.channels }

// ReadSamples decodes straight into dst. oggvorbis counts interleaved
// values, and reads whole frames when len(dst) is a multiple of Channels.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	size := len(dst) - len(dst)%s.channels
	if size == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	n, err := s.dec.Read(dst[:size])
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}
	return n, err
}

// Decoder reads Ogg Vorbis streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}

// Probe reads the identification header and the granule position of the
// last page.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	return audio.Info{
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
		Frames:     int(max(dec.Length(), 0)),
	}, nil
}
