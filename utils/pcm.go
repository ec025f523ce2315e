// SPDX-License-Identifier: EPL-2.0

package utils

// Full scale values for signed integer PCM at common bit depths.
const (
	FullScale8  float32 = 128.0
	FullScale16 float32 = 32768.0
	FullScale24 float32 = 8388608.0
	FullScale32 float32 = 2147483648.0
)

// Float32ToInt16 clamps x to [-1, 1] and scales it to 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	x = Clamp(x)

	// 32767 for the positive side avoids wrapping at +1.0
	return int16(x * 32767.0)
}

// Int16ToFloat32 normalizes a 16-bit PCM sample to [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / FullScale16
}

// FullScale returns the normalization divisor for bitDepth.
// Unknown depths are treated as 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return FullScale8
	case 24:
		return FullScale24
	case 32:
		return FullScale32
	default:
		return FullScale16
	}
}

// Clamp limits x to the normalized sample range.
func Clamp(x float32) float32 {
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}
	return x
}
