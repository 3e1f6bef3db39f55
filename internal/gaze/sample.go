package gaze

import (
	"math"
	"strconv"

	apperrors "github.com/louisbranch/wit/internal/platform/errors"
)

// ErrInvalidSample matches any rejected sample via errors.Is.
var ErrInvalidSample = apperrors.New(apperrors.CodeInvalidSample, "gaze sample rejected")

// MaxSampleMagnitude bounds accepted coordinates and timestamps. It is far
// beyond any screen or epoch-millisecond value, and small enough that sums over
// a full buffer and pairwise differences stay finite.
const MaxSampleMagnitude = 1e15

// Sample is one gaze coordinate reported by the tracker.
type Sample struct {
	X         float64
	Y         float64
	Timestamp float64 // ms
}

// Fixation is a run of samples that stayed within the velocity or
// dispersion threshold long enough to count as sustained gaze.
type Fixation struct {
	X         float64 // centroid
	Y         float64
	Duration  float64 // ms
	StartTime float64 // ms
	EndTime   float64 // ms
}

// NewSample validates coordinates and timestamp. Values must be finite and
// within MaxSampleMagnitude.
func NewSample(x, y, timestamp float64) (Sample, error) {
	if !bounded(x) || !bounded(y) {
		return Sample{}, apperrors.WithMetadata(
			apperrors.CodeInvalidSample,
			"gaze coordinates must be finite numbers within range",
			map[string]string{
				"x": strconv.FormatFloat(x, 'g', -1, 64),
				"y": strconv.FormatFloat(y, 'g', -1, 64),
			},
		)
	}
	if !bounded(timestamp) {
		return Sample{}, apperrors.WithMetadata(
			apperrors.CodeInvalidSample,
			"gaze timestamp must be a finite number within range",
			map[string]string{"timestamp": strconv.FormatFloat(timestamp, 'g', -1, 64)},
		)
	}
	return Sample{X: x, Y: y, Timestamp: timestamp}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func bounded(v float64) bool {
	return finite(v) && math.Abs(v) <= MaxSampleMagnitude
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

func distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}

func centroid(points []Sample) (float64, float64) {
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return sx / n, sy / n
}
