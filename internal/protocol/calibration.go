package protocol

import "math"

// EncodeCalibration converts a calibration percentage (spec.md §4.7:
// "encoded amount floor(v·100+10000) as big-endian 16-bit") into the
// two payload bytes UpdateCalibrationX/Y carry in p0, p1.
//
// spec.md's worked example (§8 scenario 6) asserts literal bytes
// 0x21, 0xEA for v=-12.34, but its own prose computes
// floor(-12.34*100+10000) = 8766 = 0x223E, not 0x21EA — the two
// numbers in the spec text disagree with each other. This
// implementation follows the formula, not the inconsistent literal
// bytes; see DESIGN.md's Open Question decisions.
func EncodeCalibration(v float64) (p0, p1 byte) {
	raw := uint16(math.Floor(v*100 + 10000))
	return byte(raw >> 8), byte(raw)
}

// DecodeCalibration is EncodeCalibration's inverse: spec.md §4.7
// "decode (v−10000)/100" applied to the big-endian uint16 a
// RequestCalibrationX/Y response carries.
func DecodeCalibration(p0, p1 byte) float64 {
	raw := uint16(p0)<<8 | uint16(p1)
	return (float64(raw) - 10000) / 100
}
