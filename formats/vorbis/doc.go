// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files through
// github.com/jfreymuth/oggvorbis. Samples arrive as float32 already, so
// the source hands the caller's buffer straight to the library.
package vorbis
