// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/riff"
	gowav "github.com/go-audio/wav"
)

// ErrNoSampler is returned by ReadSampler for a WAV without a smpl chunk.
var ErrNoSampler = errors.New("no smpl chunk")

// DefaultSamplerRate is used for the sample period when the fmt chunk is
// missing or unreadable.
const DefaultSamplerRate = 48000

var smplID = [4]byte{'s', 'm', 'p', 'l'}

// Loop is a forward loop in sample frames, end inclusive.
type Loop struct {
	Start int
	End   int
}

// SamplerSpec is what EmbedSampler writes into the smpl chunk.
type SamplerSpec struct {
	RootNote int
	Loop     *Loop
}

type rawChunk struct {
	id   [4]byte
	data []byte
}

// EmbedSampler rewrites the WAV at path with a smpl chunk built from spec,
// replacing any existing one. The file is replaced atomically.
func EmbedSampler(path string, spec SamplerSpec) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	chunks, err := readChunks(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	rate := DefaultSamplerRate
	kept := chunks[:0]
	for _, c := range chunks {
		switch {
		case c.id == smplID:
			continue
		case c.id == riff.FmtID && len(c.data) >= 8:
			if r := binary.LittleEndian.Uint32(c.data[4:8]); r > 0 {
				rate = int(r)
			}
		}
		kept = append(kept, c)
	}

	kept = append(kept, rawChunk{id: smplID, data: encodeSampler(samplerInfo(spec, rate))})

	out := new(bytes.Buffer)
	out.Write(riff.RiffID[:])
	out.Write([]byte{0, 0, 0, 0})
	out.Write(riff.WavFormatID[:])
	for _, c := range kept {
		out.Write(c.id[:])
		binary.Write(out, binary.LittleEndian, uint32(len(c.data)))
		out.Write(c.data)
		if len(c.data)%2 == 1 {
			out.WriteByte(0)
		}
	}
	b := out.Bytes()
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(b)-8))

	return replaceFile(path, b)
}

// readChunks splits a RIFF/WAVE body into its chunks. Trailing bytes too
// short for a chunk header are dropped.
func readChunks(data []byte) ([]rawChunk, error) {
	r := bytes.NewReader(data)
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil || p.Format != riff.WavFormatID {
		return nil, ErrNotWavFile
	}

	var chunks []rawChunk
	for r.Len() >= 8 {
		id, size, err := p.IDnSize()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}

		n := min(int(size), r.Len())
		body := make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		if size%2 == 1 && r.Len() > 0 {
			r.ReadByte()
		}
		chunks = append(chunks, rawChunk{id: id, data: body})
	}
	return chunks, nil
}

func samplerInfo(spec SamplerSpec, rate int) *gowav.SamplerInfo {
	info := &gowav.SamplerInfo{
		SamplePeriod:  uint32(math.Round(1e9 / float64(rate))),
		MIDIUnityNote: uint32(max(0, min(127, spec.RootNote))),
	}
	if spec.Loop != nil {
		info.NumSampleLoops = 1
		info.Loops = []*gowav.SampleLoop{{
			Start: uint32(max(0, spec.Loop.Start)),
			End:   uint32(max(0, spec.Loop.End)),
		}}
	}
	return info
}

// encodeSampler lays out info the way gowav.DecodeSamplerChunk reads it,
// including the sampler data word before the loops.
func encodeSampler(info *gowav.SamplerInfo) []byte {
	b := new(bytes.Buffer)
	b.Write(info.Manufacturer[:])
	b.Write(info.Product[:])
	for _, v := range []uint32{
		info.SamplePeriod,
		info.MIDIUnityNote,
		info.MIDIPitchFraction,
		info.SMPTEFormat,
		info.SMPTEOffset,
		uint32(len(info.Loops)),
		0,
	} {
		binary.Write(b, binary.LittleEndian, v)
	}

	for _, l := range info.Loops {
		b.Write(l.CuePointID[:])
		for _, v := range []uint32{l.Type, l.Start, l.End, l.Fraction, l.PlayCount} {
			binary.Write(b, binary.LittleEndian, v)
		}
	}
	return b.Bytes()
}

func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".smpl-*.wav")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadSampler returns the smpl chunk of the WAV at path.
func ReadSampler(path string) (*gowav.SamplerInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := gowav.NewDecoder(f)
	dec.ReadMetadata()
	if err := dec.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if dec.Metadata == nil || dec.Metadata.SamplerInfo == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSampler)
	}
	return dec.Metadata.SamplerInfo, nil
}
