// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files through github.com/mewkiz/flac. Many SFZ
// libraries ship their samples as FLAC; the in-process transcoder uses
// this package to render them to 24-bit WAV.
package flac
