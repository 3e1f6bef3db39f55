package gaze

import "math"

// Detector segments a smoothed sample window into a fixation using a
// velocity threshold (I-VT) with a dispersion fallback (I-DT).
type Detector struct {
	thresholdPx      float64
	minDurationMs    float64
	velocityScale    float64
	dispersionWindow int
	minElapsedMs     float64
}

// NewDetector builds a detector for cfg using the given tuning constants.
func NewDetector(cfg Config, tuning Tuning) *Detector {
	cfg = cfg.Clamp(tuning.BufferCapacity)
	tuning = tuning.normalized()
	return &Detector{
		thresholdPx:      cfg.FixationThresholdPx,
		minDurationMs:    cfg.FixationMinDurationMs,
		velocityScale:    tuning.VelocityScale,
		dispersionWindow: tuning.DispersionWindow,
		minElapsedMs:     tuning.MinElapsedMs,
	}
}

// VelocityCutoff is the px/s speed at or above which a pair breaks a run.
func (d *Detector) VelocityCutoff() float64 {
	return d.thresholdPx * d.velocityScale
}

// Detect returns the fixation to report for points, if any. A candidate run
// shorter than the configured minimum duration is not reported.
func (d *Detector) Detect(points []Sample) (Fixation, bool) {
	candidate, ok := d.Candidate(points)
	if !ok || candidate.Duration < d.minDurationMs {
		return Fixation{}, false
	}
	return candidate, true
}

// Candidate returns the fixation run found in points regardless of duration.
func (d *Detector) Candidate(points []Sample) (Fixation, bool) {
	if len(points) < 2 {
		return Fixation{}, false
	}
	run := d.velocityRun(points)
	if run == nil {
		run = d.dispersionRun(points)
	}
	if len(run) < 2 {
		return Fixation{}, false
	}

	cx, cy := centroid(run)
	first, last := run[0], run[len(run)-1]
	duration := math.Max(0, last.Timestamp-first.Timestamp)
	if !finite(cx) || !finite(cy) || !finite(duration) {
		return Fixation{}, false
	}
	return Fixation{
		X:         cx,
		Y:         cy,
		Duration:  duration,
		StartTime: first.Timestamp,
		EndTime:   last.Timestamp,
	}, true
}

// velocityRun returns the first contiguous run of below-cutoff pairs. Only
// the earliest run in the window is considered; a fast pair before any run
// has started is skipped, a fast pair after one has started ends the scan.
func (d *Detector) velocityRun(points []Sample) []Sample {
	cutoff := d.VelocityCutoff()
	start, end := -1, -1
	for i := 1; i < len(points); i++ {
		if d.velocity(points[i-1], points[i]) < cutoff {
			if start < 0 {
				start = i - 1
			}
			end = i
			continue
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return nil
	}
	return points[start : end+1]
}

// dispersionRun accepts the most recent points when they all lie within the
// spatial threshold of their centroid.
func (d *Detector) dispersionRun(points []Sample) []Sample {
	recent := points[max(0, len(points)-d.dispersionWindow):]
	cx, cy := centroid(recent)
	maxDist := 0.0
	for _, p := range recent {
		maxDist = math.Max(maxDist, distance(cx, cy, p.X, p.Y))
	}
	// NaN distances fail the test.
	if !(maxDist <= d.thresholdPx) {
		return nil
	}
	return recent
}

// velocity in px/s; elapsed time is floored so repeated or out-of-order
// timestamps never divide by zero.
func (d *Detector) velocity(a, b Sample) float64 {
	elapsed := math.Max(d.minElapsedMs, b.Timestamp-a.Timestamp)
	return distance(a.X, a.Y, b.X, b.Y) / elapsed * 1000
}
