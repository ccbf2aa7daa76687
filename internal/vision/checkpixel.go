package vision

import "github.com/barrelcam/lightgun-driver/internal/settings"

// minBrightness is the per-channel floor spec.md §4.5 step 2 requires
// at least one channel to clear before a pixel is even considered as
// border colour.
const minBrightness = 64

// CheckPixel tests whether the pixel at (x, y) in frame qualifies as
// border colour: bright enough (any channel above minBrightness) and
// within FilterRadius of VideoSettings.BorderColour in squared RGB
// distance (spec.md §4.5 step 2).
func CheckPixel(frame Frame, x, y int, cfg settings.VideoSettings) bool {
	if !frame.inBounds(x, y) {
		return false
	}
	r, g, b := frame.at(x, y)
	if r <= minBrightness && g <= minBrightness && b <= minBrightness {
		return false
	}

	dr := float64(r) - float64(cfg.BorderColour.R)
	dg := float64(g) - float64(cfg.BorderColour.G)
	db := float64(b) - float64(cfg.BorderColour.B)
	distSq := dr*dr + dg*dg + db*db
	return distSq <= cfg.FilterRadius*cfg.FilterRadius
}
