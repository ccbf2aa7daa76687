// Package shape implements the polygon simplification and convex-quad
// fit test the frame processor uses to decide whether a blob's edge
// points actually trace the screen border (spec.md §4.4).
package shape

import (
	"math"

	"github.com/barrelcam/lightgun-driver/internal/geometry"
)

// interiorAngleDropDegrees is the threshold above which a vertex is
// considered flat enough to drop during simplification.
const interiorAngleDropDegrees = 160.0

// minFitTolerance is the floor on the mean-perpendicular-distance fit
// test, below which the tolerance never shrinks regardless of bbox size.
const minFitTolerance = 0.5

// fitToleranceFactor scales the fit tolerance by the polygon's average
// bounding-box dimension.
const fitToleranceFactor = 0.03

// IsConvexPolygon recovers corners from edgePoints, simplifies away
// near-flat vertices, and tests whether the result is a good fit for
// the original point cloud (spec.md §4.4). It returns whether the fit
// holds and the simplified corner list (typically 4 points).
func IsConvexPolygon(edgePoints []geometry.Point) (bool, []geometry.Point, error) {
	corners, err := geometry.FindQuadrilateralCorners(edgePoints)
	if err != nil {
		return false, nil, err
	}

	simplified := simplify(corners)

	bounds, err := geometry.BoundingRect(edgePoints)
	if err != nil {
		return false, nil, err
	}
	tolerance := math.Max(minFitTolerance, fitToleranceFactor*float64(bounds.W+bounds.H)/2)

	fits := meanPerpendicularDistance(edgePoints, simplified) <= tolerance
	return fits, simplified, nil
}

// simplify walks corners in order, dropping any vertex whose interior
// angle exceeds 160 degrees, without ever reducing below 4 points while
// points remain to inspect (spec.md §4.4 step 2).
func simplify(corners []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(corners))
	copy(out, corners)

	i := 0
	for len(out) > 4 && i < len(out) {
		n := len(out)
		prev := out[(i-1+n)%n]
		cur := out[i]
		next := out[(i+1)%n]
		if interiorAngle(prev, cur, next) > interiorAngleDropDegrees {
			out = append(out[:i], out[i+1:]...)
			continue
		}
		i++
	}
	return out
}

// interiorAngle returns the interior angle at b formed by the segment
// a-b-c, in degrees.
func interiorAngle(a, b, c geometry.Point) float64 {
	v1x, v1y := float64(a.X-b.X), float64(a.Y-b.Y)
	v2x, v2y := float64(c.X-b.X), float64(c.Y-b.Y)
	len1 := math.Hypot(v1x, v1y)
	len2 := math.Hypot(v2x, v2y)
	if len1 == 0 || len2 == 0 {
		return 180
	}
	cos := (v1x*v2x + v1y*v2y) / (len1 * len2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// meanPerpendicularDistance computes, for every point in cloud, the
// minimum perpendicular distance to any side of polygon, then averages
// across the cloud (spec.md §4.4 step 3). Vertical sides are handled as
// |x - x_side|, matching the spec's special case for undefined slope.
func meanPerpendicularDistance(cloud []geometry.Point, polygon []geometry.Point) float64 {
	if len(polygon) < 2 {
		return math.MaxFloat64
	}
	var total float64
	for _, p := range cloud {
		best := math.MaxFloat64
		n := len(polygon)
		for i := 0; i < n; i++ {
			a := polygon[i]
			b := polygon[(i+1)%n]
			d := pointToSegmentDistance(p, a, b)
			if d < best {
				best = d
			}
		}
		total += best
	}
	return total / float64(len(cloud))
}

func pointToSegmentDistance(p, a, b geometry.Point) float64 {
	if a.X == b.X {
		return math.Abs(float64(p.X - a.X))
	}
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	px, py := float64(p.X), float64(p.Y)
	abx, aby := bx-ax, by-ay
	length := math.Hypot(abx, aby)
	cross := abx*(py-ay) - aby*(px-ax)
	return math.Abs(cross) / length
}
