package vision

import (
	"github.com/barrelcam/lightgun-driver/internal/blobs"
	"github.com/barrelcam/lightgun-driver/internal/geometry"
	"github.com/barrelcam/lightgun-driver/internal/settings"
)

// Downsample builds an 8-bpp thresholded image at half the ROI's
// dimensions: each output pixel is 255 if any of its four source
// pixels passes CheckPixel, else 0 (spec.md §4.5 step 2).
func Downsample(frame Frame, roi geometry.Rect, cfg settings.VideoSettings) blobs.Image {
	outW, outH := roi.W/2, roi.H/2
	pixels := make([]byte, outW*outH)

	for oy := 0; oy < outH; oy++ {
		sy := roi.Y + oy*2
		for ox := 0; ox < outW; ox++ {
			sx := roi.X + ox*2
			fg := CheckPixel(frame, sx, sy, cfg) ||
				CheckPixel(frame, sx+1, sy, cfg) ||
				CheckPixel(frame, sx, sy+1, cfg) ||
				CheckPixel(frame, sx+1, sy+1, cfg)
			if fg {
				pixels[oy*outW+ox] = 255
			}
		}
	}

	return blobs.Image{Width: outW, Height: outH, Stride: outW, Format: blobs.Gray8, Pixels: pixels}
}
