package vision

import "github.com/barrelcam/lightgun-driver/internal/settings"

// refineCorner nudges the corner at (x, y) by 0 or 1 pixel in X and Y,
// per the corner-refinement policy table spec.md §8 specifies. idx is
// the corner's position in top-left, top-right, bottom-right,
// bottom-left order. pixelMap[i,j] is CheckPixel(x+i, y+j).
func refineCorner(frame Frame, cfg settings.VideoSettings, idx int, x, y int) (int, int) {
	p00 := CheckPixel(frame, x, y, cfg)
	p10 := CheckPixel(frame, x+1, y, cfg)
	p01 := CheckPixel(frame, x, y+1, cfg)
	p11 := CheckPixel(frame, x+1, y+1, cfg)

	dx, dy := 0, 0
	switch idx {
	case 0: // top-left
		switch {
		case p00 || (p10 && p01):
			// keep
		case p10:
			dx = 1
		case p01:
			dy = 1
		default:
			dx, dy = 1, 1
		}
	case 1: // top-right
		switch {
		case p10:
			dx = 1
		case p00 && p11:
			dx = 1
		case p11:
			dx, dy = 1, 1
		case !p11:
			dy = 1
		}
	case 2: // bottom-right
		switch {
		case p11:
			dx, dy = 1, 1
		case p10 && p01:
			dx, dy = 1, 1
		case p10:
			dx = 1
		case p01:
			dy = 1
		}
	case 3: // bottom-left
		switch {
		case p01:
			dy = 1
		case p00 && p11:
			dy = 1
		case p00:
			// keep
		case p11:
			dx, dy = 1, 1
		default:
			dx = 1
		}
	}
	return x + dx, y + dy
}
