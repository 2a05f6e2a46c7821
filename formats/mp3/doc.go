// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always outputs interleaved 16-bit stereo, so mono files come back
// with both channels equal. Reads that split a sample across calls are
// carried over to the next ReadSamples.
package mp3
