package geometry

import "math"

// FurthestFrom returns the point in the cloud with the largest distance
// from ref. The cloud must be non-empty.
func FurthestFrom(points []Point, ref Point) Point {
	best := points[0]
	bestDist := ref.Distance(best)
	for _, p := range points[1:] {
		if d := ref.Distance(p); d > bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

// signedDistance returns the signed perpendicular distance of p from the
// line through a and b. The sign indicates which side of the line p
// falls on.
func signedDistance(p, a, b Point) float64 {
	abx := float64(b.X - a.X)
	aby := float64(b.Y - a.Y)
	length := math.Sqrt(abx*abx + aby*aby)
	if length == 0 {
		return 0
	}
	cross := abx*float64(p.Y-a.Y) - aby*float64(p.X-a.X)
	return cross / length
}

// furthestFromLine returns the furthest point on each side of line a-b
// (positive- and negative-signed distance respectively), along with
// their signed distances. Either side may have no candidate, signalled
// by a nil point.
func furthestFromLine(points []Point, a, b Point, exclude ...Point) (posP *Point, posD float64, negP *Point, negD float64) {
outer:
	for i := range points {
		p := points[i]
		for _, ex := range exclude {
			if p.Equal(ex) {
				continue outer
			}
		}
		d := signedDistance(p, a, b)
		if d >= 0 {
			if posP == nil || d > posD {
				pp := p
				posP = &pp
				posD = d
			}
		} else {
			if negP == nil || d < negD {
				pp := p
				negP = &pp
				negD = d
			}
		}
	}
	return
}

// FindQuadrilateralCorners recovers 3 or 4 corners from an unordered
// cloud of edge points believed to trace the perimeter of a
// quadrilateral or triangle (spec.md §4.1). The result is ordered with
// the lowest-X (ties broken by lowest-Y) point first, followed by the
// remaining points in counter-clockwise screen order.
func FindQuadrilateralCorners(points []Point) ([]Point, error) {
	bounds, err := BoundingRect(points)
	if err != nil {
		return nil, err
	}
	centre := bounds.Center()
	distortionLimit := 0.1 * float64(bounds.W+bounds.H) / 2

	p1 := FurthestFrom(points, centre)
	p2 := FurthestFrom(points, p1)

	posP, posD, negP, negD := furthestFromLine(points, p1, p2, p1, p2)

	if posP != nil && negP != nil && math.Abs(posD) >= distortionLimit && math.Abs(negD) >= distortionLimit {
		return sortCorners([]Point{p1, p2, *posP, *negP}), nil
	}

	// p1, p2 lie on the same edge. pivot is scaffolding, not itself a
	// final corner: it is the better (larger magnitude) of the two
	// off-line candidates, and anchors the searches below that locate
	// the real third and fourth corners.
	var pivot Point
	switch {
	case posP != nil && negP != nil:
		if math.Abs(posD) >= math.Abs(negD) {
			pivot = *posP
		} else {
			pivot = *negP
		}
	case posP != nil:
		pivot = *posP
	case negP != nil:
		pivot = *negP
	default:
		return nil, ErrEmptyCloud
	}

	// Search for a third corner along the p1-pivot edge, falling back
	// to the p2-pivot edge. If neither turns up a candidate clearing
	// the distortion limit, the cloud is a triangle: p1, p2, pivot.
	third, thirdAnchor, ok := searchThirdCorner(points, p1, p2, pivot, distortionLimit)
	if !ok {
		return sortCorners([]Point{p1, p2, pivot}), nil
	}

	// Search once more for a fourth corner off the pivot-third edge,
	// preferring the candidate farther from the diagonal endpoint that
	// was not used to anchor the third-corner search. If this also
	// fails to clear the limit, fall back to the triangle p1, p2, third.
	unused := p2
	if thirdAnchor.Equal(p2) {
		unused = p1
	}
	exclude := []Point{p1, p2, pivot, third}
	posP2, posD2, negP2, negD2 := furthestFromLine(points, pivot, third, exclude...)

	fourth, fourthOK := pickFarthestFrom(unused, posP2, posD2, negP2, negD2, distortionLimit)
	if !fourthOK {
		return sortCorners([]Point{p1, p2, third}), nil
	}
	return sortCorners([]Point{p1, p2, third, fourth}), nil
}

func searchThirdCorner(points []Point, p1, p2, pivot Point, limit float64) (third Point, anchor Point, ok bool) {
	for _, anchorPt := range []Point{p1, p2} {
		exclude := []Point{p1, p2, pivot}
		posP, posD, negP, negD := furthestFromLine(points, anchorPt, pivot, exclude...)
		cand, candOK := pickBest(posP, posD, negP, negD, limit)
		if candOK {
			return cand, anchorPt, true
		}
	}
	return Point{}, Point{}, false
}

func pickBest(posP *Point, posD float64, negP *Point, negD float64, limit float64) (Point, bool) {
	switch {
	case posP != nil && negP != nil:
		if math.Abs(posD) >= math.Abs(negD) {
			if math.Abs(posD) >= limit {
				return *posP, true
			}
			return Point{}, false
		}
		if math.Abs(negD) >= limit {
			return *negP, true
		}
		return Point{}, false
	case posP != nil:
		if math.Abs(posD) >= limit {
			return *posP, true
		}
	case negP != nil:
		if math.Abs(negD) >= limit {
			return *negP, true
		}
	}
	return Point{}, false
}

// pickFarthestFrom chooses between two line-side candidates, preferring
// whichever is farther from ref, and reports whether the choice clears
// the distortion-limit threshold on its own perpendicular distance.
func pickFarthestFrom(ref Point, posP *Point, posD float64, negP *Point, negD float64, limit float64) (Point, bool) {
	var best *Point
	var bestD float64
	var bestRefDist float64 = -1
	for _, c := range []struct {
		p *Point
		d float64
	}{{posP, posD}, {negP, negD}} {
		if c.p == nil {
			continue
		}
		refDist := ref.Distance(*c.p)
		if refDist > bestRefDist {
			bestRefDist = refDist
			best = c.p
			bestD = c.d
		}
	}
	if best == nil {
		return Point{}, false
	}
	return *best, math.Abs(bestD) >= limit
}

// sortCorners orders corners with the lowest-X (then lowest-Y) point
// first, and the rest counter-clockwise by slope from that point,
// matching spec.md §4.1 step 6.
func sortCorners(corners []Point) []Point {
	n := len(corners)
	firstIdx := 0
	for i := 1; i < n; i++ {
		c := corners[i]
		f := corners[firstIdx]
		if c.X < f.X || (c.X == f.X && c.Y < f.Y) {
			firstIdx = i
		}
	}
	first := corners[firstIdx]
	rest := make([]Point, 0, n-1)
	for i, c := range corners {
		if i != firstIdx {
			rest = append(rest, c)
		}
	}

	slope := func(p Point) float64 {
		dx := float64(p.X - first.X)
		dy := float64(p.Y - first.Y)
		if dx == 0 {
			if dy >= 0 {
				return math.Inf(1)
			}
			return math.Inf(-1)
		}
		return dy / dx
	}

	// Counter-clockwise in screen coordinates (Y grows downward) means
	// increasing slope for points to the right, and points to the left
	// ordered after those to the right with appropriately signed slope.
	scoredPts := make([]cornerScored, len(rest))
	for i, p := range rest {
		scoredPts[i] = cornerScored{p: p, s: slope(p), right: p.X >= first.X}
	}
	for i := 1; i < len(scoredPts); i++ {
		for j := i; j > 0; j-- {
			a, b := scoredPts[j-1], scoredPts[j]
			if cornerLess(b, a) {
				scoredPts[j-1], scoredPts[j] = scoredPts[j], scoredPts[j-1]
			} else {
				break
			}
		}
	}
	out := make([]Point, 0, n)
	out = append(out, first)
	for _, s := range scoredPts {
		out = append(out, s.p)
	}
	return out
}

type cornerScored = struct {
	p     Point
	s     float64
	right bool
}

func cornerLess(a, b cornerScored) bool {
	if a.right != b.right {
		return a.right // points to the right of `first` sort before points to the left
	}
	return a.s < b.s
}
