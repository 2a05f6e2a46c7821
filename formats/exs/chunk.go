// SPDX-License-Identifier: EPL-2.0

package exs

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// ChunkHeaderSize is the fixed part of every chunk. The declared size stored
// in a chunk excludes it.
const ChunkHeaderSize = 84

// Kind identifies a chunk type.
type Kind uint8

const (
	KindHeader Kind = iota
	KindZone
	KindGroup
	KindSample
	KindParam
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindZone:
		return "zone"
	case KindGroup:
		return "group"
	case KindSample:
		return "sample"
	case KindParam:
		return "param"
	default:
		return "unknown"
	}
}

// Signatures come in an old and a new variant that differ only in bit 30.
const (
	sigHeader    uint32 = 0x00000101
	sigHeaderNew uint32 = 0x40000101
	sigNewFlag   uint32 = 0x40000000
	sigBaseMask  uint32 = 0x00FFFFFF
	sigBase      uint32 = 0x00000101
)

// kindOf maps a little-endian signature onto a Kind.
func kindOf(sig uint32) Kind {
	sig &^= sigNewFlag
	if sig&sigBaseMask != sigBase {
		return KindUnknown
	}

	k := Kind(sig >> 24)
	if k > KindParam {
		return KindUnknown
	}
	return k
}

// Chunk is one parsed record of an instrument. The set of implementations is
// closed: *Header, *Zone, *Group, *Sample, *Param and *Unknown.
type Chunk interface {
	Kind() Kind
	// Size is the full chunk length including the fixed header.
	Size() int
	chunk()
}

// Common holds the fields every chunk shares.
type Common struct {
	Offset int
	Length int
	ID     uint32
	Name   string
}

func (c Common) Size() int { return c.Length }
func (Common) chunk()      {}

type Header struct{ Common }

func (*Header) Kind() Kind { return KindHeader }

type Param struct{ Common }

func (*Param) Kind() Kind { return KindParam }

// Unknown keeps only the size of a chunk with an unrecognized signature so
// the walk can step over it.
type Unknown struct {
	Common
	Signature uint32
}

func (*Unknown) Kind() Kind { return KindUnknown }

// Zone maps a key and velocity range onto a sample.
type Zone struct {
	Common

	PitchTrackingOff bool
	OneShot          bool

	RootNote  int
	FineTune  int
	Pan       int
	Volume    int
	StartNote int
	EndNote   int
	MinVel    int
	MaxVel    int

	SampleStart int
	SampleEnd   int
	LoopStart   int
	LoopEnd     int
	// LoopCrossfade is in milliseconds.
	LoopCrossfade int

	LoopOn             bool
	LoopEqualPower     bool
	PlayToEndOnRelease bool

	// Group is the raw group reference. Negative means the last group.
	Group       int
	SampleIndex int
}

func (*Zone) Kind() Kind { return KindZone }

// Zone field offsets relative to the chunk start.
const (
	zoneFlags       = 84
	zoneRootNote    = 85
	zoneFineTune    = 86
	zonePan         = 87
	zoneVolume      = 88
	zoneStartNote   = 90
	zoneEndNote     = 91
	zoneMinVel      = 93
	zoneMaxVel      = 94
	zoneSampleStart = 96
	zoneSampleEnd   = 100
	zoneLoopStart   = 104
	zoneLoopEnd     = 108
	zoneLoopXfade   = 112
	zoneLoopOpts    = 117
	zoneGroup       = 172
	zoneSampleIndex = 176
	zoneMinLength   = zoneSampleIndex + 4
)

// EnableBy values of a group.
const (
	EnableByNone uint8 = iota
	EnableByNote
	EnableByRoundRobin
	EnableByControl
	EnableByBend
	EnableByChannel
	EnableByArticulation
	EnableByTempo
)

// Group carries playback settings shared by its zones.
type Group struct {
	Common

	Polyphony int
	Trigger   int
	Output    int
	// Sequence is the round-robin position, -1 when absent.
	Sequence int
	EnableBy uint8
}

func (*Group) Kind() Kind { return KindGroup }

// IsRoundRobin reports whether the group alternates its zones.
func (g *Group) IsRoundRobin() bool { return g.EnableBy == EnableByRoundRobin }

const (
	groupPolyphony = 86
	groupTrigger   = 157
	groupOutput    = 158
	groupSequence  = 164
	groupEnableBy  = 168
)

// Sample describes an audio file referenced by zones.
type Sample struct {
	Common

	Length   int
	Rate     int
	BitDepth int
	// FilePath is the folder or full path the producer recorded.
	FilePath string
	// FileName falls back to the chunk name when the field is empty.
	FileName string
}

func (*Sample) Kind() Kind { return KindSample }

const (
	sampleLength    = 88
	sampleRate      = 92
	sampleBitDepth  = 96
	sampleFilePath  = 164
	sampleFileName  = 420
	samplePathBytes = 256
	sampleMinLength = sampleBitDepth + 1
)

// view is a bounds-checked window over one chunk. Reads past the end return
// ok == false instead of panicking.
type view []byte

func (v view) u8(off int) (uint8, bool) {
	if off < 0 || off >= len(v) {
		return 0, false
	}
	return v[off], true
}

func (v view) u32(off int) (uint32, bool) {
	if off < 0 || off+4 > len(v) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(v[off:]), true
}

func (v view) s32(off int) (int32, bool) {
	u, ok := v.u32(off)
	return int32(u), ok
}

// str decodes a NUL terminated field, replacing invalid UTF-8.
func (v view) str(off, n int) string {
	if off >= len(v) {
		return ""
	}
	raw := v[off:min(off+n, len(v))]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToValidUTF8(string(raw), "\uFFFD")
}

func readCommon(v view, offset int) Common {
	id, _ := v.u32(8)
	return Common{
		Offset: offset,
		Length: len(v),
		ID:     id,
		Name:   v.str(20, ChunkHeaderSize-20),
	}
}

func decodeZone(v view, c Common) (*Zone, error) {
	if len(v) < zoneMinLength {
		return nil, ErrTruncatedChunk
	}

	flags, _ := v.u8(zoneFlags)
	opts, _ := v.u8(zoneLoopOpts)
	sbyte := func(off int) int { b, _ := v.u8(off); return int(int8(b)) }
	ubyte := func(off int) int { b, _ := v.u8(off); return int(b) }
	sint := func(off int) int { n, _ := v.s32(off); return int(n) }
	sampleIdx, _ := v.u32(zoneSampleIndex)

	return &Zone{
		Common:             c,
		PitchTrackingOff:   flags&0x01 != 0,
		OneShot:            flags&0x02 != 0,
		RootNote:           ubyte(zoneRootNote),
		FineTune:           sbyte(zoneFineTune),
		Pan:                sbyte(zonePan),
		Volume:             sbyte(zoneVolume),
		StartNote:          ubyte(zoneStartNote),
		EndNote:            ubyte(zoneEndNote),
		MinVel:             ubyte(zoneMinVel),
		MaxVel:             ubyte(zoneMaxVel),
		SampleStart:        sint(zoneSampleStart),
		SampleEnd:          sint(zoneSampleEnd),
		LoopStart:          sint(zoneLoopStart),
		LoopEnd:            sint(zoneLoopEnd),
		LoopCrossfade:      sint(zoneLoopXfade),
		LoopOn:             opts&0x01 != 0,
		LoopEqualPower:     opts&0x02 != 0,
		PlayToEndOnRelease: opts&0x04 != 0,
		Group:              sint(zoneGroup),
		SampleIndex:        int(sampleIdx),
	}, nil
}

// decodeGroup never fails: producers disagree on how long a group chunk is,
// so missing fields fall back to defaults.
func decodeGroup(v view, c Common) *Group {
	g := &Group{Common: c, Sequence: -1, EnableBy: EnableByNone}

	if b, ok := v.u8(groupPolyphony); ok {
		g.Polyphony = int(b)
	}
	if b, ok := v.u8(groupTrigger); ok {
		g.Trigger = int(b)
	}
	if b, ok := v.u8(groupOutput); ok {
		g.Output = int(b)
	}
	if n, ok := v.s32(groupSequence); ok {
		g.Sequence = int(n)
	}
	if b, ok := v.u8(groupEnableBy); ok {
		g.EnableBy = b
	}
	return g
}

func decodeSample(v view, c Common) (*Sample, error) {
	if len(v) < sampleMinLength {
		return nil, ErrTruncatedChunk
	}

	length, _ := v.s32(sampleLength)
	rate, _ := v.s32(sampleRate)
	depth, _ := v.u8(sampleBitDepth)

	s := &Sample{
		Common:   c,
		Length:   int(length),
		Rate:     int(rate),
		BitDepth: int(depth),
		FilePath: v.str(sampleFilePath, samplePathBytes),
		FileName: v.str(sampleFileName, samplePathBytes),
	}
	if s.FileName == "" {
		s.FileName = c.Name
	}
	return s, nil
}
