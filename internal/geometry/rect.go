package geometry

import "errors"

// ErrEmptyCloud is returned by point-cloud queries given no input points.
var ErrEmptyCloud = errors.New("geometry: empty point cloud")

// Rect is an axis-aligned integer rectangle described by its top-left
// corner and its width/height.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Area() int { return r.W * r.H }

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether p lies within r: the left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Clamp returns the intersection of r and bounds; r is shrunk, never
// translated. A rectangle wholly outside bounds comes back with zero
// width or height.
func (r Rect) Clamp(bounds Rect) Rect {
	x0, y0 := r.X, r.Y
	x1, y1 := r.Right(), r.Bottom()
	if x0 < bounds.X {
		x0 = bounds.X
	}
	if y0 < bounds.Y {
		y0 = bounds.Y
	}
	if x1 > bounds.Right() {
		x1 = bounds.Right()
	}
	if y1 > bounds.Bottom() {
		y1 = bounds.Bottom()
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Center returns the integer-rounded centre point of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// BoundingRect computes the smallest axis-aligned rectangle enclosing
// every point in the cloud. It errors on an empty cloud (spec.md §4.1,
// §7 boundary case).
func BoundingRect(points []Point) (Rect, error) {
	if len(points) == 0 {
		return Rect{}, ErrEmptyCloud
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, nil
}
