// Package settings holds the value objects that configure a session's
// vision pipeline (spec.md §3's VideoSettings).
package settings

// Handedness selects which hand orientation the corner-permutation step
// in the frame processor should assume (spec.md §4.5a).
type Handedness int

const (
	Auto Handedness = iota
	Left
	Right
)

// RGB is an 8-bit-per-channel colour value.
type RGB struct {
	R, G, B byte
}

// defaultFilterRadius is VideoSettings' factory default FilterRadius
// (spec.md §3: "filter radius ... default 50").
const defaultFilterRadius = 50.0

// VideoSettings is the per-session vision configuration: the border
// colour the blob counter searches for, how closely a pixel must match
// it, the user's handedness preference, and the jitter-suppression and
// sight-offset tuning the frame processor reads every frame.
type VideoSettings struct {
	BorderColour RGB
	// FilterRadius is the Euclidean RGB-space distance threshold a
	// pixel's colour must fall within to count as border colour.
	FilterRadius float64

	Handedness             Handedness
	OnlyMatchWherePointing bool

	UseAntiJitter       bool
	JitterMoveThreshold float64 // percent

	// YSightOffset is a percent offset derived from physical TV size,
	// applied when computing the detected quad's forward-mapped centre.
	YSightOffset float64
}

// DefaultVideoSettings returns the factory-default VideoSettings.
func DefaultVideoSettings() VideoSettings {
	return VideoSettings{
		BorderColour:        RGB{R: 255, G: 255, B: 255},
		FilterRadius:        defaultFilterRadius,
		Handedness:          Auto,
		UseAntiJitter:       true,
		JitterMoveThreshold: 0.5,
		YSightOffset:        0,
	}
}
