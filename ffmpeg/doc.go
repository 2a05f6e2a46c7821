// SPDX-License-Identifier: EPL-2.0

// Package ffmpeg drives the ffmpeg and ffprobe executables as the default
// transcoding backend.
//
// Resampling uses the soxr resampler, so CheckSoxr must pass before any
// conversion. Missing executables and missing soxr support are reported as
// errs.ErrToolNotFound; InstallHint turns them into instructions for the
// user.
package ffmpeg
