// SPDX-License-Identifier: EPL-2.0

// Package exs reads Logic EXS24 sampler instruments.
//
// An instrument is a flat little-endian sequence of chunks. Every chunk
// starts with an 84-byte header (signature, declared size, id, name) and the
// declared size counts only the bytes after it. Zone, group and sample
// chunks are collected in file order; zones point at samples and groups by
// index.
//
//	data, _ := os.ReadFile("Piano.exs")
//	inst, err := exs.Parse(data)
//	if errors.Is(err, errs.ErrUnsupportedFormat) {
//	    // big-endian instrument
//	}
//	zones, err := inst.BuildZones(func(s *exs.Sample) (string, bool) {
//	    return exs.FindSample(dir, "Piano", s)
//	})
//
// Load combines the steps for a file on disk.
//
// # Errors
//
// Malformed input wraps errs.ErrFormat. Big-endian files wrap
// errs.ErrUnsupportedFormat and non-EXS buffers wrap errs.ErrInvalidFormat.
// Missing sample files are collected into one *errs.MissingSamplesError.
package exs
