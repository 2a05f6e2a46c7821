// SPDX-License-Identifier: EPL-2.0

package elmconv

import "github.com/ik5/elmconv/formats/wav"

// Transcoded reports the rates of a transcoded file.
type Transcoded struct {
	OriginalRate int
	OutputRate   int
}

// Transcoder converts a source audio file to a 24-bit PCM WAV at dst. A
// targetRate of 0 keeps the source rate.
type Transcoder interface {
	Transcode(src, dst string, targetRate int) (Transcoded, error)
}

// Inspector reads sample-level information from audio files.
type Inspector interface {
	SampleRate(path string) (int, error)
	SampleCount(path string) (int, error)
	// Decode returns the integer PCM data of a WAV file.
	Decode(path string) (*wav.PCM, error)
}

// Normalizer raises or lowers the peak of a WAV file in place to targetDB
// dBFS. It returns the applied gain in dB, 0 when nothing changed.
type Normalizer interface {
	Normalize(path string, targetDB float64) (float64, error)
}

// Backend bundles the collaborators a Converter needs.
type Backend interface {
	Transcoder
	Inspector
	Normalizer
}
