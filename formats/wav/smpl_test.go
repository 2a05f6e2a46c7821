// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "s.wav")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbedSampler_Loop(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, createWAVFile(44100, 1, make([]int16, 100)))

	spec := SamplerSpec{RootNote: 60, Loop: &Loop{Start: 10, End: 90}}
	if err := EmbedSampler(path, spec); err != nil {
		t.Fatalf("EmbedSampler() error = %v", err)
	}

	info, err := ReadSampler(path)
	if err != nil {
		t.Fatalf("ReadSampler() error = %v", err)
	}
	if info.MIDIUnityNote != 60 {
		t.Errorf("MIDIUnityNote = %d, want 60", info.MIDIUnityNote)
	}
	if info.SamplePeriod != 22676 {
		t.Errorf("SamplePeriod = %d, want 22676", info.SamplePeriod)
	}
	if info.NumSampleLoops != 1 || len(info.Loops) != 1 {
		t.Fatalf("loops = %d/%d, want 1", info.NumSampleLoops, len(info.Loops))
	}
	if l := info.Loops[0]; l.Start != 10 || l.End != 90 || l.Type != 0 {
		t.Errorf("loop = %+v, want forward 10..90", *l)
	}

	// audio is untouched
	p, err := ReadPCMFile(path)
	if err != nil {
		t.Fatalf("ReadPCMFile() error = %v", err)
	}
	if p.Frames() != 100 {
		t.Errorf("Frames() = %d, want 100", p.Frames())
	}
}

func TestEmbedSampler_ReplacesExisting(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, buildWAV(
		fmtChunk(1, 1, 48000, 16),
		chunkSpec{"odd!", []byte{1, 2, 3}},
		dataChunk16(1, 2, 3),
	))

	if err := EmbedSampler(path, SamplerSpec{RootNote: 40, Loop: &Loop{Start: 0, End: 2}}); err != nil {
		t.Fatal(err)
	}
	if err := EmbedSampler(path, SamplerSpec{RootNote: 72}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(data, []byte("smpl")); n != 1 {
		t.Errorf("smpl chunks = %d, want 1", n)
	}
	if size := binary.LittleEndian.Uint32(data[4:8]); int(size) != len(data)-8 {
		t.Errorf("RIFF size = %d, want %d", size, len(data)-8)
	}

	info, err := ReadSampler(path)
	if err != nil {
		t.Fatalf("ReadSampler() error = %v", err)
	}
	if info.MIDIUnityNote != 72 || info.NumSampleLoops != 0 {
		t.Errorf("sampler = note %d, %d loops; want note 72, no loops", info.MIDIUnityNote, info.NumSampleLoops)
	}
	if info.SamplePeriod != 20833 {
		t.Errorf("SamplePeriod = %d, want 20833", info.SamplePeriod)
	}
}

func TestEmbedSampler_DefaultRate(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, buildWAV(chunkSpec{"data", []byte{0, 0}}))
	if err := EmbedSampler(path, SamplerSpec{RootNote: 200}); err != nil {
		t.Fatalf("EmbedSampler() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	i := bytes.Index(data, []byte("smpl"))
	if i < 0 {
		t.Fatal("no smpl chunk written")
	}
	body := data[i+8:]
	if period := binary.LittleEndian.Uint32(body[8:12]); period != 20833 {
		t.Errorf("period = %d, want 20833", period)
	}
	if note := binary.LittleEndian.Uint32(body[12:16]); note != 127 {
		t.Errorf("unity note = %d, want 127 (clamped)", note)
	}
}

func TestEmbedSampler_SamplePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate int
		want uint32
	}{
		{rate: 44100, want: 22676},
		{rate: 48000, want: 20833},
		{rate: 96000, want: 10417},
		{rate: 22050, want: 45351},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.rate), func(t *testing.T) {
			t.Parallel()

			path := writeTemp(t, buildWAV(fmtChunk(1, 1, tt.rate, 16), dataChunk16(0, 0)))
			if err := EmbedSampler(path, SamplerSpec{RootNote: 60}); err != nil {
				t.Fatalf("EmbedSampler() error = %v", err)
			}
			info, err := ReadSampler(path)
			if err != nil {
				t.Fatalf("ReadSampler() error = %v", err)
			}
			if info.SamplePeriod != tt.want {
				t.Errorf("SamplePeriod = %d, want %d", info.SamplePeriod, tt.want)
			}
		})
	}
}

func TestEmbedSampler_NotWAV(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, []byte("definitely not a wav"))
	if err := EmbedSampler(path, SamplerSpec{}); !errors.Is(err, ErrNotWavFile) {
		t.Errorf("EmbedSampler() error = %v, want ErrNotWavFile", err)
	}
}

func TestReadSampler_Missing(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, createWAVFile(8000, 1, []int16{1}))
	if _, err := ReadSampler(path); !errors.Is(err, ErrNoSampler) {
		t.Errorf("ReadSampler() error = %v, want ErrNoSampler", err)
	}
}
