// SPDX-License-Identifier: EPL-2.0

package native

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ik5/elmconv"
	"github.com/ik5/elmconv/audio"
	"github.com/ik5/elmconv/formats/aiff"
	"github.com/ik5/elmconv/formats/flac"
	"github.com/ik5/elmconv/formats/mp3"
	"github.com/ik5/elmconv/formats/vorbis"
	"github.com/ik5/elmconv/formats/wav"
	"github.com/ik5/elmconv/utils"
)

// OutputBitDepth is the depth of every file Codec writes.
const OutputBitDepth = 24

// NewRegistry returns a registry holding every decoder this module ships.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(wav.Decoder{}, "wav", "wave")
	r.Register(aiff.Decoder{}, "aif", "aiff", "aifc")
	r.Register(mp3.Decoder{}, "mp3")
	r.Register(vorbis.Decoder{}, "ogg", "oga")
	r.Register(flac.Decoder{}, "flac")
	return r
}

// Config configures a Codec.
type Config struct {
	// Mono folds multichannel sources to one channel.
	Mono bool
	// Registry overrides the decoders in use. Nil means NewRegistry().
	Registry *audio.Registry
	Logger   *slog.Logger
}

// Codec is an in-process elmconv.Backend.
type Codec struct {
	registry *audio.Registry
	mono     bool
	logger   *slog.Logger
}

var _ elmconv.Backend = (*Codec)(nil)

func New(cfg Config) *Codec {
	c := &Codec{
		registry: cfg.Registry,
		mono:     cfg.Mono,
		logger:   cfg.Logger,
	}
	if c.registry == nil {
		c.registry = NewRegistry()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

func (c *Codec) decoder(path string) (audio.Decoder, error) {
	dec, ok := c.registry.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, filepath.Ext(path))
	}
	return dec, nil
}

// open decodes path. The caller closes both the file and the source.
func (c *Codec) open(path string) (*os.File, audio.Source, error) {
	dec, err := c.decoder(path)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, src, nil
}

// Transcode decodes src, resamples it to targetRate and writes a 24-bit
// WAV to dst.
func (c *Codec) Transcode(src, dst string, targetRate int) (elmconv.Transcoded, error) {
	f, in, err := c.open(src)
	if err != nil {
		return elmconv.Transcoded{}, err
	}
	defer f.Close()
	defer in.Close()

	out, err := audio.Convert(in, targetRate, c.mono)
	if err != nil {
		return elmconv.Transcoded{}, fmt.Errorf("%s: %w", src, err)
	}

	samples, err := audio.ReadAll(out)
	if err != nil {
		return elmconv.Transcoded{}, fmt.Errorf("%s: %w", src, err)
	}

	pcm := &wav.PCM{
		Data:       make([]int, len(samples)),
		Channels:   out.Channels(),
		SampleRate: out.SampleRate(),
		BitDepth:   OutputBitDepth,
	}
	for i, v := range samples {
		pcm.Data[i] = utils.FloatToPCM(v, OutputBitDepth)
	}

	if err := wav.WritePCMFile(dst, pcm); err != nil {
		return elmconv.Transcoded{}, err
	}

	c.logger.Debug("transcoded",
		slog.String("file", src),
		slog.Int("original_rate", in.SampleRate()),
		slog.Int("output_rate", out.SampleRate()),
		slog.Int("frames", pcm.Frames()))

	return elmconv.Transcoded{OriginalRate: in.SampleRate(), OutputRate: out.SampleRate()}, nil
}

// probe reads the stream layout from the container headers, falling back
// to a full decode when the decoder cannot probe or the container does not
// record a length.
func (c *Codec) probe(path string) (audio.Info, error) {
	dec, err := c.decoder(path)
	if err != nil {
		return audio.Info{}, err
	}

	if p, ok := dec.(audio.Prober); ok {
		f, err := os.Open(path)
		if err != nil {
			return audio.Info{}, err
		}
		info, err := p.Probe(f)
		f.Close()
		if err == nil && info.Frames > 0 {
			return info, nil
		}
		c.logger.Debug("probe incomplete, decoding", slog.String("file", path), slog.Any("error", err))
	}

	return c.measure(path)
}

func (c *Codec) measure(path string) (audio.Info, error) {
	f, src, err := c.open(path)
	if err != nil {
		return audio.Info{}, err
	}
	defer f.Close()
	defer src.Close()

	info := audio.Info{SampleRate: src.SampleRate(), Channels: src.Channels()}
	buf := make([]float32, 8192-8192%max(info.Channels, 1))
	values := 0
	for {
		n, err := src.ReadSamples(buf)
		values += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return info, fmt.Errorf("%s: %w", path, err)
		}
	}
	info.Frames = values / max(info.Channels, 1)
	return info, nil
}

func (c *Codec) SampleRate(path string) (int, error) {
	info, err := c.probe(path)
	if err != nil {
		return 0, err
	}
	return info.SampleRate, nil
}

// SampleCount returns the number of frames in path.
func (c *Codec) SampleCount(path string) (int, error) {
	info, err := c.probe(path)
	if err != nil {
		return 0, err
	}
	return info.Frames, nil
}

// Decode reads the integer PCM data of the WAV file at path.
func (c *Codec) Decode(path string) (*wav.PCM, error) {
	return wav.ReadPCMFile(path)
}
