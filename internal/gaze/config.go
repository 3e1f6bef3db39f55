package gaze

// Session configuration defaults.
const (
	DefaultFixationThresholdPx   = 30.0
	DefaultFixationMinDurationMs = 100.0
	DefaultSmoothingWindow       = 5
	DefaultCrowdingIntensity     = IntensityMedium
)

// Lower bounds applied when clamping client-supplied values. The threshold
// floors only replace zero or negative values; any positive value above them
// is kept as sent.
const (
	MinFixationThresholdPx   = 0.001
	MinFixationMinDurationMs = 0.001
	MinSmoothingWindow       = 1
)

// Config is the client-tunable part of a session.
type Config struct {
	FixationThresholdPx   float64
	FixationMinDurationMs float64
	SmoothingWindow       int
	CrowdingIntensity     Intensity
}

// DefaultConfig returns the configuration a new session starts with.
func DefaultConfig() Config {
	return Config{
		FixationThresholdPx:   DefaultFixationThresholdPx,
		FixationMinDurationMs: DefaultFixationMinDurationMs,
		SmoothingWindow:       DefaultSmoothingWindow,
		CrowdingIntensity:     DefaultCrowdingIntensity,
	}
}

// Clamp forces out-of-range values into bounds instead of rejecting them.
// Non-finite thresholds fall back to defaults; the smoothing window is kept
// within [1, maxWindow].
func (c Config) Clamp(maxWindow int) Config {
	if maxWindow < MinSmoothingWindow {
		maxWindow = DefaultBufferCapacity
	}
	c.FixationThresholdPx = clampThreshold(c.FixationThresholdPx, DefaultFixationThresholdPx, MinFixationThresholdPx)
	c.FixationMinDurationMs = clampThreshold(c.FixationMinDurationMs, DefaultFixationMinDurationMs, MinFixationMinDurationMs)
	c.SmoothingWindow = min(max(c.SmoothingWindow, MinSmoothingWindow), maxWindow)
	c.CrowdingIntensity = ParseIntensity(string(c.CrowdingIntensity))
	return c
}

func clampThreshold(v, fallback, floor float64) float64 {
	if !finite(v) {
		return fallback
	}
	if v < floor {
		return floor
	}
	return v
}
