// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF sample files through
// github.com/go-audio/aiff. Sample libraries authored on macOS often ship
// their zones as AIFF; the in-process transcoder reads them with Decoder
// and sizes them with Decoder.Probe, which reports the frame count stored
// in the COMM chunk.
package aiff
