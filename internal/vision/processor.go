package vision

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/barrelcam/lightgun-driver/internal/blobs"
	"github.com/barrelcam/lightgun-driver/internal/geometry"
	"github.com/barrelcam/lightgun-driver/internal/settings"
	"github.com/barrelcam/lightgun-driver/internal/shape"
	"github.com/barrelcam/lightgun-driver/internal/transform"
)

// ErrNoQuadFound is returned by ProcessFrame when no blob in the
// thresholded frame passes the convex-quad fit test.
var ErrNoQuadFound = errors.New("vision: no blob fit a convex quadrilateral")

// wideROIThreshold is the ROI width above which MinW/MinH for size
// filtering doubles (spec.md §4.5 step 3: "ROI width > 600 ? 30 : 15").
const wideROIThreshold = 600

// roiExpansion is the fractional padding applied to the bounding box
// of the detected quad when recomputing the ROI for the next frame
// (spec.md §4.5 step 8: "expanded by 15% on each side").
const roiExpansion = 0.15

// roiMinFraction is the minimum ROI dimension, as a fraction of the
// full frame dimension, for the recomputed ROI to be considered valid.
const roiMinFraction = 1.0 / 8

// DeviceSink is the narrow collaborator the frame processor needs from
// the protocol engine: pushing cursor offsets and calibration updates.
// Accepting an interface rather than *protocol.Engine directly avoids
// the cyclic session reference design note "Cyclic references" warns
// about.
type DeviceSink interface {
	CursorOffset(payload [4]byte) error
	UpdateCalibrationX(v float64) error
	UpdateCalibrationY(v float64) error
}

// Processor runs the per-frame pipeline (spec.md §4.5): one Counter is
// reused across frames, and the ROI, ring buffer, and handedness
// history persist between calls. Not safe for concurrent use — the
// camera callback is expected to invoke ProcessFrame from one thread
// at a time (spec.md §5).
type Processor struct {
	Settings *settings.VideoSettings
	sink     DeviceSink
	logger   *logrus.Entry

	counter  blobs.Counter
	roi      geometry.Rect
	roiValid bool

	ring         ringBuffer
	lastAccepted *AimPoint
	lastHand     Hand

	// calibX, calibY are the last calibration percentages pushed to the
	// device (spec.md §4.5 step 7). The processor tracks its own copy
	// rather than reading it back from the device, mirroring how the
	// camera loop owns this state between frames.
	calibX, calibY float64
}

// NewProcessor returns a Processor with no ROI history — the first
// ProcessFrame call will use the full frame as ROI.
func NewProcessor(sink DeviceSink, cfg *settings.VideoSettings, logger *logrus.Entry) *Processor {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger()).WithField("component", "vision")
	}
	return &Processor{Settings: cfg, sink: sink, logger: logger}
}

// ProcessFrame runs one pass of the pipeline over frame: threshold,
// label, fit, refine, resolve handedness, map to screen percentage,
// suppress jitter, and recompute the ROI.
func (p *Processor) ProcessFrame(frame Frame) error {
	if !p.roiValid {
		p.roi = geometry.Rect{X: 0, Y: 0, W: frame.Width, H: frame.Height}
	}

	thresholded := Downsample(frame, p.roi, *p.Settings)

	minWH := 15
	if p.roi.W > wideROIThreshold {
		minWH = 30
	}
	p.counter.Threshold = [3]byte{127, 127, 127}
	p.counter.FilterBlobs = true
	p.counter.CoupledSizeFiltering = true
	p.counter.MinW, p.counter.MinH = minWH, minWH
	p.counter.MaxW, p.counter.MaxH = thresholded.Width, thresholded.Height

	if err := p.counter.ProcessImage(thresholded); err != nil {
		p.roiValid = false
		return err
	}

	winner, err := p.pickWinningBlob()
	if err != nil {
		p.roiValid = false
		return err
	}

	fullRes := upscaleAndTranslate(winner, p.roi)
	refined := p.refineCorners(frame, fullRes)

	halfW, halfH := float64(frame.Width)/2, float64(frame.Height)/2
	calibPixel := geometry.Point{
		X: int(halfW + p.calibX/100*halfW*2),
		Y: int(halfH + p.calibY/100*halfH*2),
	}

	hand, finalCorners := ResolveHandedness(refined, calibPixel, *p.Settings, p.lastAccepted)
	p.lastHand = hand
	p.logger.Debugf("resolved handedness=%d", hand)

	xPct, yPct := transform.GetXYBack(finalCorners, float64(calibPixel.X), float64(calibPixel.Y))

	centrePx, centrePy := transform.GetXY(finalCorners, 0, p.Settings.YSightOffset)
	p.updateCalibration(centrePx, centrePy, halfW, halfH)

	if xPct <= -50 || xPct >= 150 || yPct <= -50 || yPct >= 150 {
		p.roiValid = false
		return nil
	}

	candidate := AimPoint{X: xPct, Y: yPct}
	if !acceptsJitter(&p.ring, candidate, *p.Settings) {
		return nil
	}

	if err := p.sink.CursorOffset(encodeCursorOffset(xPct, yPct)); err != nil {
		return err
	}
	p.ring.push(candidate)
	p.lastAccepted = &candidate

	p.recomputeROI(finalCorners, frame)
	return nil
}

// pickWinningBlob returns the largest-bounding-box-area blob whose
// edge points pass the convex-quad fit test (and, if configured, the
// aim-point pre-filter), in the half-resolution ROI's own coordinates.
func (p *Processor) pickWinningBlob() ([4]geometry.Point, error) {
	found, err := p.counter.Blobs()
	if err != nil {
		return [4]geometry.Point{}, err
	}

	var best [4]geometry.Point
	bestArea := -1
	haveWinner := false

	for _, b := range found {
		edges, err := p.counter.EdgePoints(b)
		if err != nil {
			continue
		}
		ok, corners, err := shape.IsConvexPolygon(edges)
		if err != nil || !ok || len(corners) != 4 {
			continue
		}
		var quad [4]geometry.Point
		copy(quad[:], corners)

		if p.Settings.OnlyMatchWherePointing {
			aimX, aimY := transform.GetXYBack(quad, 0, 0)
			if aimX < 0 || aimX > 100 || aimY < p.Settings.YSightOffset || aimY > 100+p.Settings.YSightOffset {
				continue
			}
		}

		if b.Rect.Area() > bestArea {
			bestArea = b.Rect.Area()
			best = quad
			haveWinner = true
		}
	}

	if !haveWinner {
		return [4]geometry.Point{}, ErrNoQuadFound
	}
	return best, nil
}

func upscaleAndTranslate(corners [4]geometry.Point, roi geometry.Rect) [4]geometry.Point {
	var out [4]geometry.Point
	for i, c := range corners {
		out[i] = geometry.Point{X: c.X*2 + roi.X, Y: c.Y*2 + roi.Y}
	}
	return out
}

func (p *Processor) refineCorners(frame Frame, corners [4]geometry.Point) [4]geometry.Point {
	var out [4]geometry.Point
	for i, c := range corners {
		x, y := refineCorner(frame, *p.Settings, i, c.X, c.Y)
		out[i] = geometry.Point{X: x, Y: y}
	}
	return out
}

// updateCalibration pushes a new calibration offset to the device,
// derived as the inverse of the calibPixel formula ProcessFrame uses
// to compute calibPixel from CalibrationX/Y.
func (p *Processor) updateCalibration(centrePx, centrePy, halfW, halfH float64) {
	newX := (centrePx - halfW) / halfW * 50
	newY := (centrePy - halfH) / halfH * 50
	_ = p.sink.UpdateCalibrationX(newX)
	_ = p.sink.UpdateCalibrationY(newY)
	p.calibX, p.calibY = newX, newY
}

// encodeCursorOffset converts a percentage aim point to the 16-bit
// signed cursor-offset payload spec.md §4.5 step 8 specifies:
// pct/100 * 32767, big-endian, X in p0/p1 and Y in p2/p3.
func encodeCursorOffset(xPct, yPct float64) [4]byte {
	dx := int16(xPct / 100 * 32767)
	dy := int16(yPct / 100 * 32767)
	return [4]byte{byte(uint16(dx) >> 8), byte(uint16(dx)), byte(uint16(dy) >> 8), byte(uint16(dy))}
}

// recomputeROI expands the detected quad's bounding box by 15% on each
// side, clamps to the frame, and validates it covers at least 1/8 of
// each frame dimension (spec.md §4.5 step 8).
func (p *Processor) recomputeROI(corners [4]geometry.Point, frame Frame) {
	bounds, err := geometry.BoundingRect(corners[:])
	if err != nil {
		p.roiValid = false
		return
	}

	padX := int(math.Round(float64(bounds.W) * roiExpansion))
	padY := int(math.Round(float64(bounds.H) * roiExpansion))
	expanded := geometry.Rect{X: bounds.X - padX, Y: bounds.Y - padY, W: bounds.W + 2*padX, H: bounds.H + 2*padY}

	frameRect := geometry.Rect{X: 0, Y: 0, W: frame.Width, H: frame.Height}
	clamped := expanded.Clamp(frameRect)

	minW := int(float64(frame.Width) * roiMinFraction)
	minH := int(float64(frame.Height) * roiMinFraction)
	if clamped.W < minW || clamped.H < minH {
		p.roiValid = false
		return
	}
	p.roi = clamped
	p.roiValid = true
}

// Snapshot is a read-only view of the processor's between-frames state,
// for diagnostics (e.g. internal/statusapi's GET /status).
type Snapshot struct {
	ROI          geometry.Rect
	ROIValid     bool
	Hand         Hand
	LastAccepted *AimPoint
}

// Snapshot returns the processor's current ROI, handedness, and last
// accepted aim point.
func (p *Processor) Snapshot() Snapshot {
	return Snapshot{ROI: p.roi, ROIValid: p.roiValid, Hand: p.lastHand, LastAccepted: p.lastAccepted}
}
