// SPDX-License-Identifier: EPL-2.0

// Package analyze checks converted instruments for loop seams.
//
// For every looped slot of a mapping it reads the WAV, measures the jump
// between the loop's last and first sample the same way loop.Optimize
// scores candidates, and compares the mapping's loop points with the smpl
// chunk embedded in the file.
package analyze
