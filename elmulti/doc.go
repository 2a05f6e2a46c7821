// SPDX-License-Identifier: EPL-2.0

// Package elmulti writes and reads Elektron multi-sample mapping documents
// and names the WAV files they refer to.
//
// A document groups sample slots into key zones, one per pitch, and
// velocity layers, one per distinct minimum velocity at that pitch:
//
//	# ELEKTRON MULTI-SAMPLE MAPPING FORMAT
//	version = 0
//	name = 'Piano'
//
//	[[key-zones]]
//	pitch = 60
//	key-center = 60.0
//
//	[[key-zones.velocity-layers]]
//	velocity = 0.49411765
//	strategy = 'Forward'
//
//	[[key-zones.velocity-layers.sample-slots]]
//	sample = 'Piano-000-060-c3.wav'
//	loop-mode = 'Off'
package elmulti
