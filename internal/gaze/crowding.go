package gaze

import (
	"math"
	"strings"
)

// Intensity selects how aggressively crowding is reduced.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// HighlightColor is the background tint of the fixated region, a soft yellow.
const HighlightColor = "#FFF9C4"

const (
	minPeripheryOpacity = 0.3
	maxHighlightOpacity = 0.5
)

// ParseIntensity normalizes s; unknown values map to medium.
func ParseIntensity(s string) Intensity {
	switch Intensity(strings.ToLower(strings.TrimSpace(s))) {
	case IntensityLow:
		return IntensityLow
	case IntensityHigh:
		return IntensityHigh
	default:
		return IntensityMedium
	}
}

// Multiplier scales every de-crowding parameter.
func (i Intensity) Multiplier() float64 {
	switch i {
	case IntensityLow:
		return 0.5
	case IntensityHigh:
		return 1.5
	default:
		return 1.0
	}
}

// Crowding holds typographic adjustments for the text around a fixation.
type Crowding struct {
	LetterSpacingBoost float64 // em
	WordSpacingBoost   float64 // em
	LineHeightBoost    float64 // line-height multiplier delta
	PeripheryOpacity   float64 // [0.3, 1]
	FocusFontScale     float64 // >= 1
	HighlightColor     string
	HighlightOpacity   float64 // [0, 0.5]
}

// ReduceCrowding derives de-crowding parameters for region. Longer dwell
// increases every adjustment until normMs, after which they saturate.
// Spacing and scale are rounded to 3 decimals, opacities to 2.
func ReduceCrowding(region Region, intensity Intensity, normMs float64) Crowding {
	if !positive(normMs) {
		normMs = DefaultCrowdingDurationNormMs
	}
	mult := intensity.Multiplier()
	factor := durationFactor(region.FixationDuration, normMs)

	periphery := round(math.Max(minPeripheryOpacity, 1.0-0.4*mult*factor), 2)
	highlight := round(math.Min(maxHighlightOpacity, 0.2*mult*(1+factor)), 2)
	return Crowding{
		LetterSpacingBoost: round(0.05*mult*(1+factor), 3),
		WordSpacingBoost:   round(0.12*mult*(1+factor), 3),
		LineHeightBoost:    round(0.15*mult*(1+0.5*factor), 3),
		PeripheryOpacity:   clamp(periphery, minPeripheryOpacity, 1),
		FocusFontScale:     math.Max(1, round(1.0+0.08*mult*factor, 3)),
		HighlightColor:     HighlightColor,
		HighlightOpacity:   clamp(highlight, 0, maxHighlightOpacity),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
