// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/elmconv/formats/wav"
)

// Example_decoding decodes a 24-bit WAV into float samples.
func Example_decoding() {
	pcm := &wav.PCM{Data: []int{0, 4194304, -8388608}, Channels: 1, SampleRate: 48000, BitDepth: 24}
	data := new(bytes.Buffer)
	if err := wav.WritePCM(data, pcm); err != nil {
		fmt.Printf("Write error: %v\n", err)
		return
	}

	source, err := wav.Decoder{}.Decode(bytes.NewReader(data.Bytes()))
	if err != nil {
		fmt.Printf("Decode error: %v\n", err)
		return
	}

	buf := make([]float32, 8)
	n, err := source.ReadSamples(buf)
	if err != nil && err != io.EOF {
		fmt.Printf("Read error: %v\n", err)
		return
	}

	fmt.Printf("Sample rate: %d Hz\n", source.SampleRate())
	fmt.Println(buf[:n])
	// Output:
	// Sample rate: 48000 Hz
	// [0 0.5 -1]
}

// ExampleProbe reads the layout of a file without decoding it.
func ExampleProbe() {
	pcm := &wav.PCM{Data: make([]int, 2*44100), Channels: 2, SampleRate: 44100, BitDepth: 16}
	data := new(bytes.Buffer)
	wav.WritePCM(data, pcm)

	info, err := wav.Probe(bytes.NewReader(data.Bytes()))
	if err != nil {
		fmt.Printf("Probe error: %v\n", err)
		return
	}

	fmt.Printf("%d Hz, %d ch, %d bit, %d frames\n", info.SampleRate, info.Channels, info.BitDepth, info.Frames)
	// Output: 44100 Hz, 2 ch, 16 bit, 44100 frames
}

// Example_errorNotWAV shows handling of invalid WAV files.
func Example_errorNotWAV() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("This is not a WAV file")))

	if errors.Is(err, wav.ErrNotWavFile) {
		fmt.Println("Detected: Not a valid WAV file")
	}
	// Output: Detected: Not a valid WAV file
}
