package spectrum

import "math"

// DefaultRolloff is the energy fraction used by [Describe] for the rolloff
// frequency.
const DefaultRolloff = 0.85

// Shape holds spectral shape descriptors of one magnitude frame.
type Shape struct {
	// Centroid is the magnitude-weighted mean frequency in Hz.
	Centroid float64 `json:"centroid_hz" yaml:"centroid_hz"`
	// Spread is the magnitude-weighted standard deviation around Centroid.
	Spread float64 `json:"spread_hz" yaml:"spread_hz"`
	// Flatness is the Wiener entropy in [0, 1], DC excluded.
	Flatness float64 `json:"flatness" yaml:"flatness"`
	// Rolloff is the frequency below which DefaultRolloff of the energy lies.
	Rolloff float64 `json:"rolloff_hz" yaml:"rolloff_hz"`
	// Bandwidth is the -3 dB width around the strongest bin in Hz.
	Bandwidth float64 `json:"bandwidth_hz" yaml:"bandwidth_hz"`
}

// Describe computes the shape of mag, where mag[k] is the magnitude of bin k
// of an FFT of size fftSize. mag usually holds the lower half of a MagPhase
// packet; any prefix of the bins works. Frames with fewer than two bins or
// no energy yield a zero Shape.
func Describe(mag []float64, fftSize int, sampleRate float64) Shape {
	if len(mag) < 2 || fftSize <= 0 {
		return Shape{}
	}

	var sum, energy float64
	for _, v := range mag {
		sum += v
		energy += v * v
	}

	if sum == 0 {
		return Shape{}
	}

	c := Centroid(mag, fftSize, sampleRate)

	return Shape{
		Centroid:  c,
		Spread:    spread(mag, fftSize, sampleRate, c, sum),
		Flatness:  Flatness(mag),
		Rolloff:   rolloff(mag, fftSize, sampleRate, DefaultRolloff, energy),
		Bandwidth: Bandwidth(mag, fftSize, sampleRate),
	}
}

// Centroid returns sum(f_k * |X_k|) / sum(|X_k|) in Hz.
func Centroid(mag []float64, fftSize int, sampleRate float64) float64 {
	var sum, weighted float64
	for k, v := range mag {
		sum += v
		weighted += BinFrequency(k, fftSize, sampleRate) * v
	}

	if sum == 0 {
		return 0
	}

	return weighted / sum
}

func spread(mag []float64, fftSize int, sampleRate, centroid, sum float64) float64 {
	var acc float64
	for k, v := range mag {
		d := BinFrequency(k, fftSize, sampleRate) - centroid
		acc += d * d * v
	}

	return math.Sqrt(acc / sum)
}

// Flatness returns exp(mean(log|X_k|)) / mean(|X_k|) over bins 1..len-1.
// A single zero bin makes the geometric mean, and so the result, zero.
func Flatness(mag []float64) float64 {
	if len(mag) < 2 {
		return 0
	}

	var lin, logSum float64
	for _, v := range mag[1:] {
		if v <= 0 {
			return 0
		}

		lin += v
		logSum += math.Log(v)
	}

	n := float64(len(mag) - 1)

	return math.Exp(logSum/n) / (lin / n)
}

// Rolloff returns the frequency of the first bin at which the cumulative
// energy reaches fraction of the total.
func Rolloff(mag []float64, fftSize int, sampleRate, fraction float64) float64 {
	var energy float64
	for _, v := range mag {
		energy += v * v
	}

	return rolloff(mag, fftSize, sampleRate, fraction, energy)
}

func rolloff(mag []float64, fftSize int, sampleRate, fraction, energy float64) float64 {
	if len(mag) == 0 || energy == 0 {
		return 0
	}

	threshold := fraction * energy
	cum := 0.0

	for k, v := range mag {
		cum += v * v
		if cum >= threshold {
			return BinFrequency(k, fftSize, sampleRate)
		}
	}

	return BinFrequency(len(mag)-1, fftSize, sampleRate)
}

// Bandwidth returns the distance in Hz between the -3 dB crossings on either
// side of the strongest bin, linearly interpolated between bins. A side
// without a crossing extends to the first or last bin.
func Bandwidth(mag []float64, fftSize int, sampleRate float64) float64 {
	if len(mag) < 2 {
		return 0
	}

	peak := 0
	for k, v := range mag {
		if v > mag[peak] {
			peak = k
		}
	}

	if mag[peak] == 0 {
		return 0
	}

	threshold := mag[peak] / math.Sqrt2
	last := len(mag) - 1

	lower := BinFrequency(0, fftSize, sampleRate)
	for k := peak; k >= 1; k-- {
		if mag[k-1] <= threshold {
			lower = crossing(k-1, k, mag[k-1], mag[k], threshold, fftSize, sampleRate)
			break
		}
	}

	upper := BinFrequency(last, fftSize, sampleRate)
	for k := peak; k < last; k++ {
		if mag[k+1] <= threshold {
			upper = crossing(k, k+1, mag[k], mag[k+1], threshold, fftSize, sampleRate)
			break
		}
	}

	return max(upper-lower, 0)
}

func crossing(lo, hi int, magLo, magHi, threshold float64, fftSize int, sampleRate float64) float64 {
	fLo := BinFrequency(lo, fftSize, sampleRate)
	fHi := BinFrequency(hi, fftSize, sampleRate)

	if magHi == magLo {
		return (fLo + fHi) / 2
	}

	t := (threshold - magLo) / (magHi - magLo)

	return fLo + t*(fHi-fLo)
}
