// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives behind the in-process
// transcoder.
//
// A Source yields interleaved float32 samples in [-1, 1]. Format decoders
// under formats/ produce Sources; a Registry maps file extensions to those
// decoders:
//
//	reg := audio.NewRegistry()
//	reg.Register(wav.Decoder{}, "wav", "wave")
//	dec, ok := reg.ForPath("Cello C3.wav")
//
// # Conversion
//
// Resampler changes the sample rate with Catmull-Rom interpolation,
// low-passing first when the rate goes down. MonoMixer averages all
// channels into one. Convert chains whichever of the two are needed:
//
//	out, err := audio.Convert(src, 48000, false)
//	samples, err := audio.ReadAll(out)
//
// The resampler produces ceil(frames * dst / src) output frames, which
// keeps loop points scaled by the same ratio inside the rendered file.
package audio
