package strategy

import "math"

// rollingMeanPartial computes a rolling arithmetic mean of the given width.
// At the start of the series, partial windows use all available points
// instead of producing undefined values.
func rollingMeanPartial(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// rollingMeanStd computes rolling mean and sample standard deviation over a
// full window of the given width. Outputs at indices before window-1 are NaN
// (insufficient lookback).
func rollingMeanStd(values []float64, window int) (means, stds []float64) {
	means = make([]float64, len(values))
	stds = make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			means[i] = math.NaN()
			stds[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(window)
		sumSq := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			sumSq += d * d
		}
		means[i] = mean
		stds[i] = math.Sqrt(sumSq / float64(window-1))
	}
	return means, stds
}
