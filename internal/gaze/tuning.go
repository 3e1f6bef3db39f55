package gaze

// Tuning holds the empirical constants of the pipeline.
type Tuning struct {
	// BufferCapacity bounds the per-session sample history (~2s at 60Hz).
	BufferCapacity int
	// VelocityScale converts the spatial threshold (px) into a velocity
	// cutoff (px/s): cutoff = threshold × VelocityScale.
	VelocityScale float64
	// DispersionWindow is how many recent points the dispersion fallback inspects.
	DispersionWindow int
	// MinElapsedMs floors inter-sample time for velocity computation.
	MinElapsedMs float64
	// RegionDurationNormMs is the dwell time at which the focus region is tightest.
	RegionDurationNormMs float64
	// CrowdingDurationNormMs is the dwell time at which de-crowding saturates.
	CrowdingDurationNormMs float64
}

const (
	DefaultBufferCapacity         = 120
	DefaultVelocityScale          = 30.0
	DefaultDispersionWindow       = 10
	DefaultMinElapsedMs           = 1.0
	DefaultRegionDurationNormMs   = 500.0
	DefaultCrowdingDurationNormMs = 800.0
)

// DefaultTuning returns the constants the display front end was calibrated against.
func DefaultTuning() Tuning {
	return Tuning{
		BufferCapacity:         DefaultBufferCapacity,
		VelocityScale:          DefaultVelocityScale,
		DispersionWindow:       DefaultDispersionWindow,
		MinElapsedMs:           DefaultMinElapsedMs,
		RegionDurationNormMs:   DefaultRegionDurationNormMs,
		CrowdingDurationNormMs: DefaultCrowdingDurationNormMs,
	}
}

// normalized replaces unusable values with defaults.
func (t Tuning) normalized() Tuning {
	d := DefaultTuning()
	if t.BufferCapacity < 2 {
		t.BufferCapacity = d.BufferCapacity
	}
	if !positive(t.VelocityScale) {
		t.VelocityScale = d.VelocityScale
	}
	if t.DispersionWindow < 2 {
		t.DispersionWindow = d.DispersionWindow
	}
	if !positive(t.MinElapsedMs) {
		t.MinElapsedMs = d.MinElapsedMs
	}
	if !positive(t.RegionDurationNormMs) {
		t.RegionDurationNormMs = d.RegionDurationNormMs
	}
	if !positive(t.CrowdingDurationNormMs) {
		t.CrowdingDurationNormMs = d.CrowdingDurationNormMs
	}
	return t
}
