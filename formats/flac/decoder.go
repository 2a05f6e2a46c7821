// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/elmconv/audio"
	"github.com/ik5/elmconv/utils"
)

// frameReader is an interface for flac.Stream to allow testing
type frameReader interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	stream     frameReader
	closer     io.Closer
	sampleRate int
	channels   int
	bitDepth   int

	// interleaved samples of the current frame not yet handed out
	pending []float32
	eof     bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 * s.channels }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// fill decodes the next frame into pending.
func (s *source) fill() error {
	f, err := s.stream.ParseNext()
	if err != nil {
		return err
	}

	if len(f.Subframes) < s.channels {
		return fmt.Errorf("%w: frame has %d subframes, want %d", ErrNotFLACFile, len(f.Subframes), s.channels)
	}

	frames := len(f.Subframes[0].Samples)
	s.pending = s.pending[:0]
	for i := range frames {
		for ch := range s.channels {
			v := f.Subframes[ch].Samples[i]
			s.pending = append(s.pending, utils.PCMToFloat(int(v), s.bitDepth))
		}
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	written := 0
	for written < len(dst) {
		if len(s.pending) == 0 {
			if s.eof {
				break
			}
			if err := s.fill(); err == io.EOF {
				s.eof = true
				break
			} else if err != nil {
				return written, fmt.Errorf("%w", err)
			}
		}

		n := copy(dst[written:], s.pending)
		s.pending = s.pending[n:]
		written += n
	}

	if written == 0 && s.eof && len(dst) > 0 {
		return 0, io.EOF
	}
	return written, nil
}

// Decoder reads FLAC streams with github.com/mewkiz/flac.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFLACFile, err)
	}

	info := stream.Info
	return &source{
		stream:     stream,
		closer:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}

// Probe reads the STREAMINFO block. Frames is 0 when the encoder did not
// record a total.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	stream, err := flac.New(r)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w: %w", ErrNotFLACFile, err)
	}
	defer stream.Close()

	return audio.Info{
		SampleRate: int(stream.Info.SampleRate),
		Channels:   int(stream.Info.NChannels),
		Frames:     int(stream.Info.NSamples),
	}, nil
}
