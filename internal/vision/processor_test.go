package vision

import (
	"testing"

	"github.com/barrelcam/lightgun-driver/internal/geometry"
	"github.com/barrelcam/lightgun-driver/internal/settings"
)

type fakeSink struct {
	cursorCalls int
	lastPayload [4]byte
	calibX      []float64
	calibY      []float64
}

func (f *fakeSink) CursorOffset(payload [4]byte) error {
	f.cursorCalls++
	f.lastPayload = payload
	return nil
}

func (f *fakeSink) UpdateCalibrationX(v float64) error {
	f.calibX = append(f.calibX, v)
	return nil
}

func (f *fakeSink) UpdateCalibrationY(v float64) error {
	f.calibY = append(f.calibY, v)
	return nil
}

// squareOutlineFrame draws a hollow white rectangle of the given band
// thickness between the outer (x0,y0)-(x1,y1) box and its inset by
// thickness, on a black background, as a BGR24 frame.
func squareOutlineFrame(width, height, x0, y0, x1, y1, thickness int) Frame {
	stride := width * 3
	pixels := make([]byte, stride*height)
	white := func(x, y int) {
		if x < 0 || y < 0 || x >= width || y >= height {
			return
		}
		off := y*stride + x*3
		pixels[off], pixels[off+1], pixels[off+2] = 255, 255, 255
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			onOuterBand := x < x0+thickness || x >= x1-thickness || y < y0+thickness || y >= y1-thickness
			if onOuterBand {
				white(x, y)
			}
		}
	}
	return Frame{Width: width, Height: height, Stride: stride, Format: BGR24, Pixels: pixels}
}

func TestProcessFrameAcceptsCentredSquare(t *testing.T) {
	frame := squareOutlineFrame(200, 200, 40, 40, 160, 160, 10)
	cfg := settings.DefaultVideoSettings()
	sink := &fakeSink{}
	p := NewProcessor(sink, &cfg, nil)

	if err := p.ProcessFrame(frame); err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if sink.cursorCalls != 1 {
		t.Fatalf("expected one CursorOffset call, got %d", sink.cursorCalls)
	}
	if !p.roiValid {
		t.Fatalf("expected ROI to be valid after a successful detection")
	}
	if p.roi.W < frame.Width/8 || p.roi.H < frame.Height/8 {
		t.Fatalf("recomputed ROI %+v smaller than the 1/8-frame floor", p.roi)
	}
}

func TestProcessFrameNoQuadFoundInvalidatesROI(t *testing.T) {
	frame := Frame{Width: 100, Height: 100, Stride: 300, Format: BGR24, Pixels: make([]byte, 300*100)}
	cfg := settings.DefaultVideoSettings()
	sink := &fakeSink{}
	p := NewProcessor(sink, &cfg, nil)
	p.roiValid = true
	p.roi = geometry.Rect{X: 0, Y: 0, W: 100, H: 100}

	err := p.ProcessFrame(frame)
	if err == nil {
		t.Fatalf("expected an error for a blank frame with no border blob")
	}
	if p.roiValid {
		t.Fatalf("expected ROI to be invalidated after a failed detection")
	}
	if sink.cursorCalls != 0 {
		t.Fatalf("expected no CursorOffset call on a failed frame")
	}
}

func TestEncodeCursorOffsetCentreIsZero(t *testing.T) {
	payload := encodeCursorOffset(0, 0)
	if payload != [4]byte{0, 0, 0, 0} {
		t.Fatalf("expected zero payload at the centre, got %v", payload)
	}
}

func TestEncodeCursorOffsetSign(t *testing.T) {
	pos := encodeCursorOffset(50, 0)
	neg := encodeCursorOffset(-50, 0)
	posVal := int16(uint16(pos[0])<<8 | uint16(pos[1]))
	negVal := int16(uint16(neg[0])<<8 | uint16(neg[1]))
	if posVal <= 0 {
		t.Fatalf("expected a positive encoded value for +50%%, got %d", posVal)
	}
	if negVal >= 0 {
		t.Fatalf("expected a negative encoded value for -50%%, got %d", negVal)
	}
	if posVal != -negVal {
		t.Fatalf("expected symmetric encoding, got %d vs %d", posVal, negVal)
	}
}

func TestUpscaleAndTranslate(t *testing.T) {
	corners := [4]geometry.Point{{X: 1, Y: 1}, {X: 10, Y: 1}, {X: 10, Y: 10}, {X: 1, Y: 10}}
	roi := geometry.Rect{X: 20, Y: 30, W: 200, H: 200}
	out := upscaleAndTranslate(corners, roi)
	want := geometry.Point{X: 1*2 + 20, Y: 1*2 + 30}
	if out[0] != want {
		t.Fatalf("upscaleAndTranslate()[0] = %+v, want %+v", out[0], want)
	}
}

func TestRecomputeROIInvalidatesWhenBelowMinFraction(t *testing.T) {
	p := &Processor{}
	frame := Frame{Width: 800, Height: 600}
	tinyCorners := [4]geometry.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	p.recomputeROI(tinyCorners, frame)
	if p.roiValid {
		t.Fatalf("expected a tiny quad's recomputed ROI to be invalid")
	}
}

func TestRecomputeROIExpandsAndClamps(t *testing.T) {
	p := &Processor{}
	frame := Frame{Width: 800, Height: 600}
	corners := [4]geometry.Point{{X: 0, Y: 0}, {X: 700, Y: 0}, {X: 700, Y: 500}, {X: 0, Y: 500}}
	p.recomputeROI(corners, frame)
	if !p.roiValid {
		t.Fatalf("expected a frame-filling quad's ROI to be valid")
	}
	if p.roi.X < 0 || p.roi.Y < 0 || p.roi.Right() > frame.Width || p.roi.Bottom() > frame.Height {
		t.Fatalf("expected the recomputed ROI to stay clamped to the frame, got %+v", p.roi)
	}
}
