// SPDX-License-Identifier: EPL-2.0

// Package loop recomputes loop and trim points after a sample was resampled.
//
// Loop points are inclusive on both ends, so a loop from 100 to 101 is two
// samples long. Two strategies exist:
//
//   - Single-cycle loops (short loops holding one waveform period) keep
//     their length exact, because an error of one sample is audible as a
//     pitch shift. The start is scaled and the end is derived from it.
//   - Normal loops scale both endpoints independently and may be moved by
//     a few samples to the pair with the smallest amplitude jump.
//
// Resolve never fails. Out of range positions are clamped (loop end) or
// dropped (trims) and each adjustment is reported as a warning.
package loop
