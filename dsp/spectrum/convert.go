package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// SplitComplex writes the first half of the spectrum in the packed complex
// layout: dst[i] = Re(bin i) and dst[i+n/2] = Im(bin i) for i in [0, n/2),
// where n = len(bins) and bin i is read from bins[perm[i]].
//
// dst must hold at least n values; perm must have length n.
func SplitComplex(dst []float64, bins []complex128, perm Permutation) {
	half := len(bins) / 2
	for i := range half {
		c := bins[perm[i]]
		dst[i] = real(c)
		dst[i+half] = imag(c)
	}
}

// CompensatedMagnitude writes sqrt(2*(re^2+im^2)/scaling) for every bin of
// the full spectrum into dst, in ascending-frequency order.
//
// re and im are scratch slices of at least len(bins) values; dst must hold at
// least len(bins) values. scaling must be > 0.
func CompensatedMagnitude(dst []float64, bins []complex128, perm Permutation, scaling float64, re, im []float64) {
	n := len(bins)
	re = re[:n]
	im = im[:n]
	dst = dst[:n]

	for i := range n {
		c := bins[perm[i]]
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(dst, re, im)
	vecmath.ScaleBlock(dst, dst, math.Sqrt(2/scaling))
}
