// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FullScale is the magnitude of the most negative sample at bitDepth.
// Unknown depths are treated as 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8, 16, 24, 32:
		return float32(int64(1) << (bitDepth - 1))
	default:
		return 32768.0
	}
}

// PCMToFloat maps a signed integer sample to [-1, 1).
func PCMToFloat(v, bitDepth int) float32 {
	return float32(v) / FullScale(bitDepth)
}

// FloatToPCM clamps x to [-1, 1] and scales it to a signed sample at
// bitDepth, rounding to nearest.
func FloatToPCM(x float32, bitDepth int) int {
	scale := float64(FullScale(bitDepth))
	v := math.Round(float64(x) * scale)
	return int(max(-scale, min(scale-1, v)))
}
