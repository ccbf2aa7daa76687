// Package transform implements the 3x3 projective homography used to map
// between camera-pixel quadrilaterals and the centred percentage space the
// rest of the vision pipeline reasons in.
package transform

import "github.com/barrelcam/lightgun-driver/internal/geometry"

// affineEpsilon bounds the |Σ(-1)^i x_i| test used to detect the affine
// special case in unitSquareToQuad (spec.md §4.2).
const affineEpsilon = 1e-13

// referenceSquare is the fixed (0,0),(99,0),(99,99),(0,99) square spec.md
// §4.2 maps every quad from. Its own unit-square-to-square homography is
// always affine (it is axis-aligned and starts at the origin), so its
// adjoint reduces to a constant scale-by-99 matrix; squareScaleAdjoint is
// that matrix, precomputed once and reused by every MapSquareToQuad call.
var referenceSquare = [4]geometry.Point{{X: 0, Y: 0}, {X: 99, Y: 0}, {X: 99, Y: 99}, {X: 0, Y: 99}}

var squareScaleAdjoint = unitSquareToQuad(referenceSquare).adjoint()

// Homography is a 3x3 projective transform, stored as the row-major
// matrix coefficients used throughout the closed-form derivation in
// spec.md §4.2.
type Homography struct {
	m00, m01, m02 float64
	m10, m11, m12 float64
	m20, m21, m22 float64
}

// Apply maps (x, y) through the homography, returning the transformed
// point and the perspective denominator w. The caller is responsible
// for ensuring the source quad is non-degenerate; this mirrors spec.md
// §4.2's "no explicit guard" division.
func (h Homography) Apply(x, y float64) (px, py, w float64) {
	w = h.m02*x + h.m12*y + h.m22
	px = (h.m00*x + h.m10*y + h.m20) / w
	py = (h.m01*x + h.m11*y + h.m21) / w
	return px, py, w
}

// adjoint returns the adjoint (transpose of the cofactor matrix) of h,
// used to build the inverse of a projective transform without a general
// matrix inverse (spec.md §4.2's MapQuadToQuad).
func (h Homography) adjoint() Homography {
	return Homography{
		m00: h.m11*h.m22 - h.m12*h.m21,
		m10: h.m12*h.m20 - h.m10*h.m22,
		m20: h.m10*h.m21 - h.m11*h.m20,
		m01: h.m02*h.m21 - h.m01*h.m22,
		m11: h.m00*h.m22 - h.m02*h.m20,
		m21: h.m01*h.m20 - h.m00*h.m21,
		m02: h.m01*h.m12 - h.m02*h.m11,
		m12: h.m02*h.m10 - h.m00*h.m12,
		m22: h.m00*h.m11 - h.m01*h.m10,
	}
}

// times returns h * other.
func (h Homography) times(other Homography) Homography {
	return Homography{
		m00: h.m00*other.m00 + h.m10*other.m01 + h.m20*other.m02,
		m10: h.m00*other.m10 + h.m10*other.m11 + h.m20*other.m12,
		m20: h.m00*other.m20 + h.m10*other.m21 + h.m20*other.m22,
		m01: h.m01*other.m00 + h.m11*other.m01 + h.m21*other.m02,
		m11: h.m01*other.m10 + h.m11*other.m11 + h.m21*other.m12,
		m21: h.m01*other.m20 + h.m11*other.m21 + h.m21*other.m22,
		m02: h.m02*other.m00 + h.m12*other.m01 + h.m22*other.m02,
		m12: h.m02*other.m10 + h.m12*other.m11 + h.m22*other.m12,
		m22: h.m02*other.m20 + h.m12*other.m21 + h.m22*other.m22,
	}
}

// unitSquareToQuad computes the homography mapping the true unit square
// (0,0),(1,0),(1,1),(0,1) onto q, via the standard closed-form: the
// affine case is detected by |Σ(-1)^i x_i| < 1e-13 on both axes,
// otherwise the 2x2 perspective system is solved directly.
func unitSquareToQuad(q [4]geometry.Point) Homography {
	x0, y0 := float64(q[0].X), float64(q[0].Y)
	x1, y1 := float64(q[1].X), float64(q[1].Y)
	x2, y2 := float64(q[2].X), float64(q[2].Y)
	x3, y3 := float64(q[3].X), float64(q[3].Y)

	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3

	if absf(dx3) < affineEpsilon && absf(dy3) < affineEpsilon {
		return Homography{
			m00: x1 - x0, m10: x2 - x1, m20: x0,
			m01: y1 - y0, m11: y2 - y1, m21: y0,
			m02: 0, m12: 0, m22: 1,
		}
	}

	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	denominator := dx1*dy2 - dx2*dy1
	m02 := (dx3*dy2 - dx2*dy3) / denominator
	m12 := (dx1*dy3 - dx3*dy1) / denominator
	return Homography{
		m00: x1 - x0 + m02*x1, m10: x3 - x0 + m12*x3, m20: x0,
		m01: y1 - y0 + m02*y1, m11: y3 - y0 + m12*y3, m21: y0,
		m02: m02, m12: m12, m22: 1,
	}
}

// MapSquareToQuad returns the homography mapping the reference square
// (0,0),(99,0),(99,99),(0,99) onto q (spec.md §4.2). It composes the
// unit-square closed form for q with the fixed unit-to-reference-square
// scale, so callers may apply it directly to coordinates in the 0-99
// range rather than to the true unit square.
func MapSquareToQuad(q [4]geometry.Point) Homography {
	return unitSquareToQuad(q).times(squareScaleAdjoint)
}

// MapQuadToQuad composes the homography mapping quad a onto quad b as
// MapSquareToQuad(b) * adj(MapSquareToQuad(a)) (spec.md §4.2), routing
// through the shared reference square.
func MapQuadToQuad(a, b [4]geometry.Point) Homography {
	return MapSquareToQuad(b).times(MapSquareToQuad(a).adjoint())
}

// GetXY returns the camera-space pixel corresponding to a screen-space
// percentage point (xPct, yPct), forward-mapped through the reference
// square centred on corners (spec.md §4.2: "forward map, centred" — the
// percentage is offset into the square's 0-99 range by adding 50 to
// each axis before mapping).
func GetXY(corners [4]geometry.Point, xPct, yPct float64) (px, py float64) {
	px, py, _ = MapSquareToQuad(corners).Apply(xPct+50, yPct+50)
	return px, py
}

// GetXYBack returns the screen-space percentage of the camera pixel
// (x, y) inside the quad corners, using the inverse (quad-to-square)
// homography (spec.md §4.2). It is the exact inverse of GetXY: for any
// non-degenerate quad, GetXYBack(corners, GetXY(corners, px, py)...)
// recovers (px, py).
func GetXYBack(corners [4]geometry.Point, x, y float64) (xPct, yPct float64) {
	sx, sy, _ := MapSquareToQuad(corners).adjoint().Apply(x, y)
	return sx - 50, sy - 50
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
