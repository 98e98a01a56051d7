package window

import "math"

// ReferenceScaling returns the squared sum of a symmetric Hann envelope of the
// given length.
//
// The result depends on length only, never on the window actually applied to
// the signal. Magnitudes normalized with it are level-correct for Hann and
// biased for every other window (for example Rectangular reads about 6 dB hot
// and Flattop about 7.3 dB low). Use WindowScaling when levels must agree
// across windows. Lengths below 3 yield 0.
func ReferenceScaling(length int) float64 {
	if length <= 1 {
		return 0
	}

	m := float64(length - 1)

	sum := 0.0
	for i := range length {
		sum += 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/m))
	}

	return sum * sum
}

// WindowScaling returns the squared coherent sum of the given coefficients.
func WindowScaling(coeffs []float64) float64 {
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum * sum
}
