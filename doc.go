// SPDX-License-Identifier: EPL-2.0

// Package elmconv converts sampled instruments in EXS24 (.exs) and SFZ
// (.sfz) format to Elektron multi-sample mappings (.elmulti) with one
// 24-bit WAV per zone.
//
// A Converter loads an instrument into zones, optionally thins its pitches,
// transcodes every zone's sample through a Transcoder, rescales trims and
// loops to the new rate and writes the mapping next to the samples. Loop
// and root note information is also embedded in each WAV's smpl chunk.
//
// Audio work is delegated to a Backend. The ffmpeg package drives the
// external tool with the soxr resampler; the native package does the same
// in process:
//
//	tool, err := ffmpeg.New(ffmpeg.Config{})
//	if err != nil {
//	    return err
//	}
//	conv := elmconv.NewConverter(tool, slog.Default())
//	stats, err := conv.Convert("Piano.exs", "out", elmconv.DefaultOptions())
//
// Errors fall in the categories of package errs. Problems that do not stop
// a conversion end up as warnings in Stats.
package elmconv
