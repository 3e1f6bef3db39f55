package gaze

import "math"

const (
	maxFocusRadius   = 80.0
	focusShrink      = 20.0
	transitionBand   = 60.0
	transitionGrowth = 20.0
	blurBand         = 100.0
)

// Region is the area around a fixation that the display adapts.
type Region struct {
	CenterX          float64
	CenterY          float64
	FocusRadius      float64 // px, fully clear
	TransitionRadius float64 // px
	BlurRadius       float64 // px, outer de-crowded zone
	FixationDuration float64 // ms
}

// ComputeRegion sizes the region from the fixation's dwell time: the longer
// the reader dwells, the tighter the focus circle and the wider the
// transition band. normMs is the dwell time at which both saturate.
func ComputeRegion(f Fixation, normMs float64) Region {
	if !positive(normMs) {
		normMs = DefaultRegionDurationNormMs
	}
	factor := durationFactor(f.Duration, normMs)
	focus := maxFocusRadius - focusShrink*factor
	transition := focus + transitionBand + transitionGrowth*factor
	return Region{
		CenterX:          f.X,
		CenterY:          f.Y,
		FocusRadius:      focus,
		TransitionRadius: transition,
		BlurRadius:       transition + blurBand,
		FixationDuration: f.Duration,
	}
}

// durationFactor maps a dwell time onto [0, 1].
func durationFactor(durationMs, normMs float64) float64 {
	if math.IsNaN(durationMs) || durationMs <= 0 {
		return 0
	}
	if math.IsInf(durationMs, 1) {
		return 1
	}
	return math.Min(1, durationMs/normMs)
}
