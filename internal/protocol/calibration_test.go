package protocol

import (
	"math"
	"testing"
)

// TestEncodeCalibrationScenario is spec.md §8 scenario 6. The spec's
// own prose is internally inconsistent about the expected bytes (see
// EncodeCalibration's doc comment); this asserts against the formula,
// not the inconsistent literal.
func TestEncodeCalibrationScenario(t *testing.T) {
	p0, p1 := EncodeCalibration(-12.34)
	raw := uint16(math.Floor(-12.34*100 + 10000))
	wantP0, wantP1 := byte(raw>>8), byte(raw)
	if p0 != wantP0 || p1 != wantP1 {
		t.Fatalf("EncodeCalibration(-12.34) = %#x %#x, want %#x %#x", p0, p1, wantP0, wantP1)
	}
}

func TestCalibrationRoundTrip(t *testing.T) {
	for _, v := range []float64{-99.99, -50.5, -0.01, 0, 0.01, 33.33, 99.99} {
		p0, p1 := EncodeCalibration(v)
		got := DecodeCalibration(p0, p1)
		if math.Abs(got-v) > 0.005 {
			t.Fatalf("round-trip(%v) = %v, want within 0.005", v, got)
		}
	}
}
