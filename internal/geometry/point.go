// Package geometry provides the 2D integer point primitives and
// point-cloud search routines the vision pipeline builds on: bounding
// boxes, furthest-point queries, and quadrilateral corner recovery from
// an unordered cloud of edge points.
package geometry

import "math"

// Point is an integer 2D coordinate in camera-pixel space.
type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) MulScalar(s int) Point { return Point{p.X * s, p.Y * s} }
func (p Point) DivScalar(s int) Point { return Point{p.X / s, p.Y / s} }

func (p Point) Equal(q Point) bool { return p.X == q.X && p.Y == q.Y }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
