package vision

import (
	"math"

	"github.com/barrelcam/lightgun-driver/internal/settings"
)

// AimPoint is a 2D screen-space percentage (spec.md GLOSSARY: "0..100
// each, representing where the barrel is pointing inside the detected
// screen quadrilateral").
type AimPoint struct {
	X, Y float64
}

// ringBuffer is the five-entry accepted-point history spec.md §9's
// design note calls out as single-writer, single-reader: a plain array
// with a head index.
type ringBuffer struct {
	items  [5]AimPoint
	filled int
	head   int
}

func (r *ringBuffer) push(p AimPoint) {
	r.items[r.head] = p
	r.head = (r.head + 1) % len(r.items)
	if r.filled < len(r.items) {
		r.filled++
	}
}

func (r *ringBuffer) entries() []AimPoint {
	return r.items[:r.filled]
}

// acceptsJitter implements spec.md §4.5 step 8's anti-jitter rule: with
// anti-jitter on, a candidate is accepted only if at least one of the
// ring buffer's entries differs from it by more than
// JitterMoveThreshold on X or Y. An empty buffer always accepts —
// there is nothing yet to suppress against.
func acceptsJitter(r *ringBuffer, candidate AimPoint, cfg settings.VideoSettings) bool {
	if !cfg.UseAntiJitter || r.filled == 0 {
		return true
	}
	for _, p := range r.entries() {
		if math.Abs(p.X-candidate.X) > cfg.JitterMoveThreshold || math.Abs(p.Y-candidate.Y) > cfg.JitterMoveThreshold {
			return true
		}
	}
	return false
}
