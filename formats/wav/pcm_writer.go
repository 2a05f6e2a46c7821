// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
)

const writeChunkFrames = 8192

// WritePCM writes p as a canonical 44-byte-header PCM WAV. BitDepth must
// be 16 or 24.
func WritePCM(w io.Writer, p *PCM) error {
	if p.Channels <= 0 || p.SampleRate <= 0 || len(p.Data)%p.Channels != 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidFormat, p.Channels, p.SampleRate)
	}

	var put func(dst []byte, v int)
	switch p.BitDepth {
	case 16:
		put = func(dst []byte, v int) {
			binary.LittleEndian.PutUint16(dst, uint16(int16(clampInt(v, 16))))
		}
	case 24:
		put = func(dst []byte, v int) {
			copy(dst, goaudio.Int32toInt24LEBytes(int32(clampInt(v, 24))))
		}
	default:
		return fmt.Errorf("%w: %d bits", ErrInvalidFormat, p.BitDepth)
	}

	width := p.BitDepth / 8
	numChannels := uint16(p.Channels)
	blockAlign := numChannels * uint16(width)
	byteRate := uint32(p.SampleRate) * uint32(blockAlign)
	dataSize := uint32(len(p.Data) * width)
	riffSize := 36 + dataSize

	header := make([]byte, 44)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], pcmFormat)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(p.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], uint16(p.BitDepth))

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	if len(p.Data) == 0 {
		return nil
	}

	step := writeChunkFrames * p.Channels
	buf := make([]byte, min(len(p.Data), step)*width)

	for i := 0; i < len(p.Data); i += step {
		chunk := p.Data[i:min(i+step, len(p.Data))]
		buf = buf[:len(chunk)*width]

		for j, v := range chunk {
			put(buf[j*width:(j+1)*width], v)
		}

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// WritePCMFile creates path and writes p to it.
func WritePCMFile(path string, p *PCM) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WritePCM(f, p); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func clampInt(v, bits int) int {
	hi := 1<<(bits-1) - 1
	lo := -(1 << (bits - 1))
	return max(lo, min(hi, v))
}
