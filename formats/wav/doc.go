// SPDX-License-Identifier: EPL-2.0

// Package wav reads, writes and annotates WAV files.
//
// Decoding is built on github.com/go-audio/wav and accepts integer PCM at
// 8, 16, 24 and 32 bits with any number of channels. Decoder adapts a file
// to audio.Source; ReadPCM returns the raw integer frames, which loop
// point refinement works on directly.
//
//	p, err := wav.ReadPCMFile("cello-c3.wav")
//	if err != nil {
//	    // Handle error
//	}
//	mono := p.Mono()
//
// Probe reports sample rate, channel count, bit depth and frame count
// without touching the audio data.
//
// # Writing
//
// WritePCM emits a canonical 44-byte header followed by 16 or 24-bit
// little-endian samples, written in chunks of 8192 frames.
//
// # Sampler metadata
//
// EmbedSampler adds a smpl chunk carrying the MIDI unity note and at most
// one forward loop, replacing any smpl chunk already present. Other chunks
// are copied through unchanged. ReadSampler reads it back.
//
//	err := wav.EmbedSampler(path, wav.SamplerSpec{
//	    RootNote: 60,
//	    Loop:     &wav.Loop{Start: 1200, End: 48000},
//	})
package wav
