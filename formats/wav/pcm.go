// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	gowav "github.com/go-audio/wav"
)

// PCM is a fully decoded integer PCM stream. Data is interleaved and
// signed at BitDepth.
type PCM struct {
	Data       []int
	Channels   int
	SampleRate int
	BitDepth   int
}

// Frames returns the number of sample frames.
func (p *PCM) Frames() int {
	if p.Channels <= 0 {
		return 0
	}
	return len(p.Data) / p.Channels
}

// Mono returns one value per frame, averaging channels.
func (p *PCM) Mono() []int {
	if p.Channels <= 1 {
		return p.Data
	}

	out := make([]int, p.Frames())
	for i := range out {
		sum := 0
		for c := range p.Channels {
			sum += p.Data[i*p.Channels+c]
		}
		out[i] = sum / p.Channels
	}
	return out
}

// ReadPCM decodes all PCM data from rs.
func ReadPCM(rs io.ReadSeeker) (*PCM, error) {
	dec, err := open(rs)
	if err != nil {
		return nil, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPCMData, err)
	}

	p := &PCM{
		Data:       buf.Data,
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
	}
	if p.BitDepth == 8 {
		for i, v := range p.Data {
			p.Data[i] = signed(v, 8)
		}
	}
	return p, nil
}

// ReadPCMFile is ReadPCM on the file at path.
func ReadPCMFile(path string) (*PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ReadPCM(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Info is the stream layout of a WAV file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
}

// Probe reads the fmt and data headers of rs without decoding samples.
// Unlike ReadPCM it accepts any format tag.
func Probe(rs io.ReadSeeker) (Info, error) {
	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil || dec.NumChans == 0 {
		return Info{}, ErrNotWavFile
	}

	info := Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}

	if err := dec.FwdToPCM(); err != nil {
		return info, fmt.Errorf("%w: %w", ErrNoPCMData, err)
	}

	frameSize := info.Channels * ((info.BitDepth + 7) / 8)
	if frameSize > 0 {
		info.Frames = int(dec.PCMLen()) / frameSize
	}
	return info, nil
}

// ProbeFile is Probe on the file at path.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	info, err := Probe(f)
	if err != nil {
		return info, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}
