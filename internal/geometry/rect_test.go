package geometry

import (
	"errors"
	"testing"
)

func TestBoundingRectEmptyCloud(t *testing.T) {
	_, err := BoundingRect(nil)
	if !errors.Is(err, ErrEmptyCloud) {
		t.Fatalf("expected ErrEmptyCloud, got %v", err)
	}
}

func TestBoundingRect(t *testing.T) {
	pts := []Point{{10, 10}, {50, 5}, {30, 40}, {12, 38}}
	got, err := BoundingRect(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Rect{X: 10, Y: 5, W: 40, H: 35}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRectClamp(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, W: 100, H: 100}
	r := Rect{X: -10, Y: 90, W: 30, H: 30}
	got := r.Clamp(bounds)
	want := Rect{X: 0, Y: 90, W: 20, H: 10}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	if !r.Contains(Point{0, 0}) {
		t.Fatal("expected top-left corner to be contained")
	}
	if r.Contains(Point{10, 10}) {
		t.Fatal("bottom-right edge is exclusive and should not be contained")
	}
}
