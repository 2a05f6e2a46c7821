// SPDX-License-Identifier: EPL-2.0

package exs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MaxFileSize bounds the instrument buffer.
const MaxFileSize = 1 << 20

// secondaryMagic sits at offset 16 of a little-endian header chunk.
var secondaryMagic = []byte("TBOS")

// Instrument is the parsed chunk graph of an EXS24 file.
type Instrument struct {
	// Chunks holds every chunk in file order, unknown ones included.
	Chunks []Chunk

	Zones   []*Zone
	Groups  []*Group
	Samples []*Sample
}

// CheckMagic classifies the first bytes of a buffer.
func CheckMagic(data []byte) error {
	if len(data) < ChunkHeaderSize {
		return ErrNotEXSFile
	}

	le := binary.LittleEndian.Uint32(data)
	if le == sigHeader || le == sigHeaderNew {
		return nil
	}

	be := binary.BigEndian.Uint32(data)
	if be == sigHeader || be == sigHeaderNew {
		return ErrBigEndian
	}

	if !bytes.Equal(data[16:20], secondaryMagic) {
		return ErrNotEXSFile
	}
	return nil
}

// Parse walks every chunk of data.
func Parse(data []byte) (*Instrument, error) {
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if err := CheckMagic(data); err != nil {
		return nil, err
	}

	inst := &Instrument{}
	for offset := 0; offset+8 <= len(data); {
		sig := binary.LittleEndian.Uint32(data[offset:])
		declared := int64(binary.LittleEndian.Uint32(data[offset+4:]))
		end := min(int64(offset)+ChunkHeaderSize+declared, int64(len(data)))

		v := view(data[offset:int(end)])
		c := readCommon(v, offset)

		ch, err := decodeChunk(sig, v, c)
		if err != nil {
			return nil, fmt.Errorf("%s chunk at offset %d: %w", kindOf(sig), offset, err)
		}
		inst.add(ch)

		offset = int(end)
	}

	return inst, nil
}

func decodeChunk(sig uint32, v view, c Common) (Chunk, error) {
	switch kindOf(sig) {
	case KindHeader:
		return &Header{Common: c}, nil
	case KindZone:
		return decodeZone(v, c)
	case KindGroup:
		return decodeGroup(v, c), nil
	case KindSample:
		return decodeSample(v, c)
	case KindParam:
		return &Param{Common: c}, nil
	default:
		return &Unknown{Common: c, Signature: sig}, nil
	}
}

func (inst *Instrument) add(ch Chunk) {
	inst.Chunks = append(inst.Chunks, ch)

	switch c := ch.(type) {
	case *Zone:
		inst.Zones = append(inst.Zones, c)
	case *Group:
		inst.Groups = append(inst.Groups, c)
	case *Sample:
		inst.Samples = append(inst.Samples, c)
	}
}

// GroupOf resolves a zone's group reference. A negative reference means the
// last group; an out of range one yields nil.
func (inst *Instrument) GroupOf(z *Zone) *Group {
	idx := z.Group
	if idx < 0 {
		idx = len(inst.Groups) - 1
	}
	if idx < 0 || idx >= len(inst.Groups) {
		return nil
	}
	return inst.Groups[idx]
}

// SampleOf resolves a zone's sample reference.
func (inst *Instrument) SampleOf(z *Zone) (*Sample, error) {
	if z.SampleIndex < 0 || z.SampleIndex >= len(inst.Samples) {
		return nil, fmt.Errorf("%w: index %d of %d (zone %q)", ErrSampleIndex, z.SampleIndex, len(inst.Samples), z.Name)
	}
	return inst.Samples[z.SampleIndex], nil
}
