package shape

import (
	"testing"

	"github.com/barrelcam/lightgun-driver/internal/geometry"
)

func samplePerimeter(corners []geometry.Point, step int) []geometry.Point {
	var pts []geometry.Point
	n := len(corners)
	for i := 0; i < n; i++ {
		a := corners[i]
		b := corners[(i+1)%n]
		dx := b.X - a.X
		dy := b.Y - a.Y
		length := a.Distance(b)
		steps := int(length) / step
		if steps < 1 {
			steps = 1
		}
		for s := 0; s < steps; s++ {
			t := float64(s) / float64(steps)
			pts = append(pts, geometry.Point{
				X: a.X + int(t*float64(dx)),
				Y: a.Y + int(t*float64(dy)),
			})
		}
	}
	return pts
}

func TestIsConvexPolygonRectangleFits(t *testing.T) {
	corners := []geometry.Point{{X: 100, Y: 100}, {X: 500, Y: 100}, {X: 500, Y: 400}, {X: 100, Y: 400}}
	pts := samplePerimeter(corners, 5)

	fits, simplified, err := IsConvexPolygon(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fits {
		t.Fatal("expected a clean rectangle perimeter to fit")
	}
	if len(simplified) != 4 {
		t.Fatalf("expected 4 simplified corners, got %d: %v", len(simplified), simplified)
	}
}

func TestIsConvexPolygonNoisyPointsDoNotFit(t *testing.T) {
	corners := []geometry.Point{{X: 100, Y: 100}, {X: 500, Y: 100}, {X: 500, Y: 400}, {X: 100, Y: 400}}
	pts := samplePerimeter(corners, 5)
	// Scatter a chunk of the cloud far off the true perimeter.
	for i := range pts {
		if i%4 == 0 {
			pts[i].X += 80
			pts[i].Y += 80
		}
	}

	fits, _, err := IsConvexPolygon(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fits {
		t.Fatal("expected a heavily distorted cloud not to fit")
	}
}

func TestInteriorAngleRightAngle(t *testing.T) {
	a := geometry.Point{X: 0, Y: 0}
	b := geometry.Point{X: 10, Y: 0}
	c := geometry.Point{X: 10, Y: 10}
	got := interiorAngle(a, b, c)
	if got < 89.9 || got > 90.1 {
		t.Fatalf("expected ~90 degrees, got %v", got)
	}
}
