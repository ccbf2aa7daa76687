package vision

import (
	"math"
	"sort"

	"github.com/barrelcam/lightgun-driver/internal/geometry"
	"github.com/barrelcam/lightgun-driver/internal/settings"
	"github.com/barrelcam/lightgun-driver/internal/transform"
)

// Hand is the resolved corner-permutation hypothesis for a frame
// (spec.md §4.5a).
type Hand int

const (
	HandNone Hand = iota
	HandLeft
	HandRight
)

func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	default:
		return "none"
	}
}

// Corner-permutation tables, indexed into the canonically sorted
// (by X, then by Y) corner list spec.md §4.5a specifies:
// None → (0,1,3,2), Left → (2,0,3,1), Right → (1,3,2,0).
var (
	permNone  = [4]int{0, 1, 3, 2}
	permLeft  = [4]int{2, 0, 3, 1}
	permRight = [4]int{1, 3, 2, 0}
)

func permute(corners [4]geometry.Point, table [4]int) [4]geometry.Point {
	var out [4]geometry.Point
	for i, src := range table {
		out[i] = corners[src]
	}
	return out
}

// ResolveHandedness sorts a frame's corners by X, then by Y, classifies
// them as landscape (None), or picks Left/Right, and returns the sorted
// corners permuted according to the chosen hand (spec.md §4.5a).
//
// calibPixel is the same calibration-offset camera pixel step 7 uses;
// predicting each hand's aim point from it is how auto mode picks
// between Left and Right when the previous frame's accepted point
// gives it something to compare against.
func ResolveHandedness(corners [4]geometry.Point, calibPixel geometry.Point, cfg settings.VideoSettings, lastAccepted *AimPoint) (Hand, [4]geometry.Point) {
	sort.Slice(corners[:], func(i, j int) bool {
		if corners[i].X != corners[j].X {
			return corners[i].X < corners[j].X
		}
		return corners[i].Y < corners[j].Y
	})
	p0, p1, p2 := corners[0], corners[1], corners[2]
	if p0.Distance(p1) > p0.Distance(p2) {
		return HandNone, permute(corners, permNone)
	}

	switch cfg.Handedness {
	case settings.Left:
		return HandLeft, permute(corners, permLeft)
	case settings.Right:
		return HandRight, permute(corners, permRight)
	}

	hand := HandRight
	if lastAccepted != nil && strictlyInsideCentredSquare(*lastAccepted) {
		rightCorners := permute(corners, permRight)
		leftCorners := permute(corners, permLeft)
		rx, ry := transform.GetXYBack(rightCorners, float64(calibPixel.X), float64(calibPixel.Y))
		lx, ly := transform.GetXYBack(leftCorners, float64(calibPixel.X), float64(calibPixel.Y))
		hand = closerHand(*lastAccepted, AimPoint{X: rx, Y: ry}, AimPoint{X: lx, Y: ly})
	}

	if hand == HandLeft {
		return HandLeft, permute(corners, permLeft)
	}
	return HandRight, permute(corners, permRight)
}

func strictlyInsideCentredSquare(p AimPoint) bool {
	return p.X > 0 && p.X < 100 && p.Y > 0 && p.Y < 100
}

// closerHand picks whichever of right, left lands nearer to last on
// the axis on which last lies further from the 50 centre (X on a tie).
// No ±2 dead band around 50 is applied: the axis is chosen by the
// larger deviation alone.
func closerHand(last, right, left AimPoint) Hand {
	useX := math.Abs(last.X-50) >= math.Abs(last.Y-50)
	if useX {
		if math.Abs(right.X-last.X) <= math.Abs(left.X-last.X) {
			return HandRight
		}
		return HandLeft
	}
	if math.Abs(right.Y-last.Y) <= math.Abs(left.Y-last.Y) {
		return HandRight
	}
	return HandLeft
}
