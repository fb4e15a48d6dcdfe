// Package smoothing computes the centered moving average drawn over the
// incoming transaction rate.
package smoothing

import (
	"math"

	"txgraph/internal/models"
)

// WindowFraction is the share of the series covered by one averaging window.
// 5% keeps the trend readable across every time window offered.
const WindowFraction = 0.05

// WindowLength returns the nominal window length for a series of n samples.
// Tiny series would yield a zero window; it is clamped to 1.
func WindowLength(n int) int {
	w := int(math.Ceil(float64(n) * WindowFraction))
	if w < 1 {
		return 1
	}
	return w
}

// Center returns the half-width of a window of the given length
func Center(windowLen int) int {
	return windowLen / 2
}

// Smooth returns the centered moving average of series.
//
// The result has one slot per input sample. Only slots in [center, N-center)
// are defined; each holds the timestamp of the sample it is centered on and
// the sum of the 2*center+1 surrounding values divided by the nominal window
// length. For even window lengths the divisor is one larger than the number
// of summed samples; this matches the averages the chart has always shown.
func Smooth(series models.Series) models.MovingAverage {
	n := len(series)
	ma := models.NewMovingAverage(n)
	if n == 0 {
		return ma
	}

	windowLen := WindowLength(n)
	center := Center(windowLen)
	divisor := float64(windowLen)

	for i := center; i < n-center; i++ {
		sum := 0.0
		for j := i - center; j <= i+center; j++ {
			sum += series[j].Value
		}
		ma.Set(i, series[i].Timestamp, sum/divisor)
	}

	return ma
}
