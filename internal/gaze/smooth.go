package gaze

// Smooth applies a centered moving average to samples. The neighborhood of
// index i is [i-w/2, i+w/2] clipped to the slice, where w is window capped at
// len(samples); near the edges the neighborhood shrinks instead of padding.
// Each output keeps the timestamp of its input.
func Smooth(samples []Sample, window int) []Sample {
	n := len(samples)
	if n == 0 {
		return nil
	}
	if window < 1 {
		window = 1
	}
	if window > n {
		window = n
	}
	half := window / 2

	// Prefix sums keep this O(n) regardless of window size.
	sumX := make([]float64, n+1)
	sumY := make([]float64, n+1)
	for i, s := range samples {
		sumX[i+1] = sumX[i] + s.X
		sumY[i+1] = sumY[i] + s.Y
	}

	out := make([]Sample, n)
	for i := range samples {
		start := max(0, i-half)
		end := min(n, i+half+1)
		count := float64(end - start)
		out[i] = Sample{
			X:         (sumX[end] - sumX[start]) / count,
			Y:         (sumY[end] - sumY[start]) / count,
			Timestamp: samples[i].Timestamp,
		}
	}
	return out
}
