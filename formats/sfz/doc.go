// SPDX-License-Identifier: EPL-2.0

// Package sfz reads SFZ instruments.
//
// SFZ is plain text made of headers (<control>, <global>, <master>,
// <group>, <region>) each followed by key=value opcodes. A region inherits
// the opcodes of the most recent global, master and group scopes:
//
//	<group> lovel=0 hivel=63 loop_mode=loop_continuous
//	<region> sample=piano_c4_soft.wav key=c4
//	<region> sample=piano_d4_soft.wav key=62 hivel=70
//
// Parse is pure and works on text. BuildZones resolves sample paths and
// converts regions into zone records; Load does both for a file on disk.
package sfz
