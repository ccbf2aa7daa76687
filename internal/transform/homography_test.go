package transform

import (
	"math"
	"testing"

	"github.com/barrelcam/lightgun-driver/internal/geometry"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestGetXYBackInvertsGetXYRectangle(t *testing.T) {
	corners := [4]geometry.Point{{X: 100, Y: 100}, {X: 500, Y: 100}, {X: 500, Y: 400}, {X: 100, Y: 400}}

	for _, pct := range [][2]float64{{0, 0}, {-25, 10}, {40, -40}, {49, 49}, {-49, -49}} {
		px, py := GetXY(corners, pct[0], pct[1])
		gotX, gotY := GetXYBack(corners, px, py)
		if !almostEqual(gotX, pct[0], 1e-6) || !almostEqual(gotY, pct[1], 1e-6) {
			t.Fatalf("round trip failed for %v: got (%v, %v) via pixel (%v, %v)", pct, gotX, gotY, px, py)
		}
	}
}

func TestGetXYBackInvertsGetXYPerspective(t *testing.T) {
	corners := [4]geometry.Point{{X: 50, Y: 300}, {X: 400, Y: 50}, {X: 600, Y: 350}, {X: 250, Y: 500}}

	for _, pct := range [][2]float64{{0, 0}, {-10, 15}, {20, -5}} {
		px, py := GetXY(corners, pct[0], pct[1])
		gotX, gotY := GetXYBack(corners, px, py)
		if !almostEqual(gotX, pct[0], 1e-6) || !almostEqual(gotY, pct[1], 1e-6) {
			t.Fatalf("round trip failed for %v: got (%v, %v) via pixel (%v, %v)", pct, gotX, gotY, px, py)
		}
	}
}

func TestMapSquareToQuadMapsCorners(t *testing.T) {
	corners := [4]geometry.Point{{X: 100, Y: 100}, {X: 500, Y: 100}, {X: 500, Y: 400}, {X: 100, Y: 400}}
	h := MapSquareToQuad(corners)

	cases := []struct {
		sx, sy   float64
		wantX    float64
		wantY    float64
	}{
		{0, 0, 100, 100},
		{99, 0, 500, 100},
		{99, 99, 500, 400},
		{0, 99, 100, 400},
	}
	for _, c := range cases {
		px, py, _ := h.Apply(c.sx, c.sy)
		if !almostEqual(px, c.wantX, 1e-9) || !almostEqual(py, c.wantY, 1e-9) {
			t.Fatalf("Apply(%v,%v) = (%v,%v), want (%v,%v)", c.sx, c.sy, px, py, c.wantX, c.wantY)
		}
	}
}

func TestMapQuadToQuadIdentity(t *testing.T) {
	corners := [4]geometry.Point{{X: 10, Y: 20}, {X: 90, Y: 15}, {X: 95, Y: 80}, {X: 5, Y: 85}}
	h := MapQuadToQuad(corners, corners)

	px, py, _ := h.Apply(300, 250)
	if !almostEqual(px, 300, 1e-6) || !almostEqual(py, 250, 1e-6) {
		t.Fatalf("MapQuadToQuad(a, a) should be the identity, got (%v, %v)", px, py)
	}
}
