// SPDX-License-Identifier: EPL-2.0

// Package native transcodes, inspects and normalizes sample files without
// any external tool.
//
// Sources are decoded through an audio.Registry holding the WAV, AIFF, MP3,
// Ogg Vorbis and FLAC decoders, brought to the target rate with the cubic
// audio.Resampler and written as 24-bit PCM WAV. Quality is below a
// dedicated resampler such as soxr, which is why the ffmpeg package remains
// the default backend.
package native
