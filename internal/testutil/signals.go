// Package testutil holds deterministic signals and tolerance checks shared by
// the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// BinSine returns a sine that completes exactly bin periods every frameSize
// samples, so a rectangular frame puts all of its energy into bins bin and
// frameSize-bin.
func BinSine(bin, frameSize int, amplitude float64, length int) []float64 {
	return DeterministicSine(float64(bin), float64(frameSize), amplitude, length)
}

// BinCosine is BinSine shifted by a quarter period.
func BinCosine(bin, frameSize int, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * float64(bin) / float64(frameSize)
	for i := range out {
		out[i] = amplitude * math.Cos(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at pos. Out-of-range positions yield
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Interleave packs planar channels frame by frame. The result is as long as
// the shortest channel allows.
func Interleave(planar ...[]float64) []float64 {
	if len(planar) == 0 {
		return nil
	}

	n := len(planar[0])
	for _, ch := range planar[1:] {
		n = min(n, len(ch))
	}

	out := make([]float64, 0, n*len(planar))
	for i := range n {
		for _, ch := range planar {
			out = append(out, ch[i])
		}
	}
	return out
}
