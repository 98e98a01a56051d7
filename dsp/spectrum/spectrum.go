package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// PowerFromParts computes |X[k]|^2 = re[k]^2 + im[k]^2 into dst.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}

// BinFrequency returns the center frequency in Hz of bin k for an FFT of
// size fftSize at sampleRate.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return 0
	}

	return float64(k) * sampleRate / float64(fftSize)
}

// FrequencyBin returns the nearest bin index for freqHz, clamped to
// [0, fftSize/2].
func FrequencyBin(freqHz float64, fftSize int, sampleRate float64) int {
	if fftSize <= 0 || sampleRate <= 0 {
		return 0
	}

	k := int(math.Round(freqHz * float64(fftSize) / sampleRate))

	return min(max(k, 0), fftSize/2)
}

// ToDecibels converts linear magnitudes to dB (20*log10) into dst, clamping
// results below floorDB. dst and mag must have the same length; they may
// alias.
func ToDecibels(dst, mag []float64, floorDB float64) {
	floor := math.Pow(10, floorDB/20)
	for i, m := range mag {
		if m <= floor {
			dst[i] = floorDB
			continue
		}

		dst[i] = 20 * math.Log10(m)
	}
}
