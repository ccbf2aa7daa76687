package geometry

import "testing"

func TestPointArithmetic(t *testing.T) {
	a := Point{10, 20}
	b := Point{3, 4}

	if got := a.Add(b); got != (Point{13, 24}) {
		t.Fatalf("Add: got %v", got)
	}
	if got := a.Sub(b); got != (Point{7, 16}) {
		t.Fatalf("Sub: got %v", got)
	}
	if got := a.MulScalar(2); got != (Point{20, 40}) {
		t.Fatalf("MulScalar: got %v", got)
	}
	if got := a.DivScalar(2); got != (Point{5, 10}) {
		t.Fatalf("DivScalar: got %v", got)
	}
}

func TestPointDistance(t *testing.T) {
	a := Point{0, 0}
	b := Point{3, 4}
	if got := a.Distance(b); got != 5 {
		t.Fatalf("Distance: got %v, want 5", got)
	}
}

func TestPointEqual(t *testing.T) {
	if !(Point{1, 2}.Equal(Point{1, 2})) {
		t.Fatal("expected equal points to compare equal")
	}
	if (Point{1, 2}.Equal(Point{1, 3})) {
		t.Fatal("expected different points to compare unequal")
	}
}
