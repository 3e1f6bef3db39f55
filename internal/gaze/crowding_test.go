package gaze

import (
	"math"
	"testing"
)

func TestParseIntensity(t *testing.T) {
	tests := map[string]Intensity{
		"low":     IntensityLow,
		" HIGH ":  IntensityHigh,
		"medium":  IntensityMedium,
		"":        IntensityMedium,
		"extreme": IntensityMedium,
	}
	for in, want := range tests {
		if got := ParseIntensity(in); got != want {
			t.Fatalf("ParseIntensity(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReduceCrowdingUnknownIntensityIsMedium(t *testing.T) {
	region := Region{FixationDuration: 300}
	got := ReduceCrowding(region, Intensity("bogus"), DefaultCrowdingDurationNormMs)
	want := ReduceCrowding(region, IntensityMedium, DefaultCrowdingDurationNormMs)
	if got != want {
		t.Fatalf("unknown intensity = %+v, want medium %+v", got, want)
	}
}

func TestReduceCrowdingSaturatedMedium(t *testing.T) {
	got := ReduceCrowding(Region{FixationDuration: 800}, IntensityMedium, DefaultCrowdingDurationNormMs)
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"letter spacing", got.LetterSpacingBoost, 0.1},
		{"word spacing", got.WordSpacingBoost, 0.24},
		{"line height", got.LineHeightBoost, 0.225},
		{"periphery opacity", got.PeripheryOpacity, 0.6},
		{"focus font scale", got.FocusFontScale, 1.08},
		{"highlight opacity", got.HighlightOpacity, 0.4},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Fatalf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if got.HighlightColor != HighlightColor {
		t.Fatalf("highlight color = %q, want %q", got.HighlightColor, HighlightColor)
	}
}

func TestReduceCrowdingNoDwell(t *testing.T) {
	got := ReduceCrowding(Region{}, IntensityLow, DefaultCrowdingDurationNormMs)
	if got.PeripheryOpacity != 1 {
		t.Fatalf("periphery opacity = %v, want 1", got.PeripheryOpacity)
	}
	if got.FocusFontScale != 1 {
		t.Fatalf("focus font scale = %v, want 1", got.FocusFontScale)
	}
	if math.Abs(got.LetterSpacingBoost-0.025) > 1e-9 {
		t.Fatalf("letter spacing = %v, want 0.025", got.LetterSpacingBoost)
	}
}

func TestReduceCrowdingBounds(t *testing.T) {
	for _, intensity := range []Intensity{IntensityLow, IntensityMedium, IntensityHigh} {
		for _, duration := range []float64{0, 50, 400, 800, 5000} {
			got := ReduceCrowding(Region{FixationDuration: duration}, intensity, DefaultCrowdingDurationNormMs)
			if got.PeripheryOpacity < 0.3 || got.PeripheryOpacity > 1 {
				t.Fatalf("%s/%v: periphery opacity %v outside [0.3, 1]", intensity, duration, got.PeripheryOpacity)
			}
			if got.HighlightOpacity < 0 || got.HighlightOpacity > 0.5 {
				t.Fatalf("%s/%v: highlight opacity %v outside [0, 0.5]", intensity, duration, got.HighlightOpacity)
			}
			if got.FocusFontScale < 1 {
				t.Fatalf("%s/%v: focus font scale %v below 1", intensity, duration, got.FocusFontScale)
			}
		}
	}
}

func TestReduceCrowdingMonotonicInIntensity(t *testing.T) {
	levels := []Intensity{IntensityLow, IntensityMedium, IntensityHigh}
	for _, duration := range []float64{0, 100, 400, 800, 2000} {
		var prev *Crowding
		for _, level := range levels {
			cur := ReduceCrowding(Region{FixationDuration: duration}, level, DefaultCrowdingDurationNormMs)
			if prev != nil {
				if cur.LetterSpacingBoost < prev.LetterSpacingBoost ||
					cur.WordSpacingBoost < prev.WordSpacingBoost ||
					cur.LineHeightBoost < prev.LineHeightBoost ||
					cur.FocusFontScale < prev.FocusFontScale ||
					cur.HighlightOpacity < prev.HighlightOpacity {
					t.Fatalf("duration %v: %s %+v weaker than previous level %+v", duration, level, cur, *prev)
				}
				// Periphery opacity is a reduction: stronger intensity dims more.
				if cur.PeripheryOpacity > prev.PeripheryOpacity {
					t.Fatalf("duration %v: %s periphery opacity %v above previous %v", duration, level, cur.PeripheryOpacity, prev.PeripheryOpacity)
				}
			}
			c := cur
			prev = &c
		}
	}
}
