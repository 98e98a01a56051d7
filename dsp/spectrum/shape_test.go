package spectrum

import (
	"math"
	"testing"
)

// 16-point FFT at 1600 Hz: 100 Hz per bin.
const (
	shapeFFTSize    = 16
	shapeSampleRate = 1600
)

func TestDescribeSingleBin(t *testing.T) {
	mag := make([]float64, shapeFFTSize/2)
	mag[3] = 2

	s := Describe(mag, shapeFFTSize, shapeSampleRate)

	if math.Abs(s.Centroid-300) > 1e-9 {
		t.Fatalf("Centroid=%f want=300", s.Centroid)
	}

	if s.Spread != 0 {
		t.Fatalf("Spread=%f want=0", s.Spread)
	}

	if s.Flatness != 0 {
		t.Fatalf("Flatness=%f want=0 for a spectrum with empty bins", s.Flatness)
	}

	if s.Rolloff != 300 {
		t.Fatalf("Rolloff=%f want=300", s.Rolloff)
	}

	want := 200 * (1 - 1/math.Sqrt2)
	if math.Abs(s.Bandwidth-want) > 1e-9 {
		t.Fatalf("Bandwidth=%f want=%f", s.Bandwidth, want)
	}
}

func TestDescribeFlat(t *testing.T) {
	mag := make([]float64, shapeFFTSize/2)
	for i := range mag {
		mag[i] = 0.25
	}

	s := Describe(mag, shapeFFTSize, shapeSampleRate)

	if math.Abs(s.Centroid-350) > 1e-9 {
		t.Fatalf("Centroid=%f want=350", s.Centroid)
	}

	if want := 100 * math.Sqrt(5.25); math.Abs(s.Spread-want) > 1e-9 {
		t.Fatalf("Spread=%f want=%f", s.Spread, want)
	}

	if math.Abs(s.Flatness-1) > 1e-12 {
		t.Fatalf("Flatness=%f want=1", s.Flatness)
	}

	// 85% of eight equal bins is reached at the seventh.
	if s.Rolloff != 600 {
		t.Fatalf("Rolloff=%f want=600", s.Rolloff)
	}

	if s.Bandwidth != 700 {
		t.Fatalf("Bandwidth=%f want=700", s.Bandwidth)
	}
}

func TestDescribeDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		mag     []float64
		fftSize int
	}{
		{name: "empty", mag: nil, fftSize: 16},
		{name: "single bin", mag: []float64{1}, fftSize: 2},
		{name: "silent", mag: make([]float64, 8), fftSize: 16},
		{name: "bad fft size", mag: []float64{1, 2, 3}, fftSize: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := Describe(tt.mag, tt.fftSize, shapeSampleRate); s != (Shape{}) {
				t.Fatalf("Describe=%+v want zero Shape", s)
			}
		})
	}
}

func TestFlatnessOrdersToneBelowNoise(t *testing.T) {
	tone := []float64{0, 0.01, 0.01, 1, 0.01, 0.01, 0.01, 0.01}
	noise := []float64{0, 0.9, 1.1, 1, 0.95, 1.05, 1, 0.98}

	ft := Flatness(tone)
	fn := Flatness(noise)

	if ft >= fn {
		t.Fatalf("tone flatness %f should be below noise flatness %f", ft, fn)
	}

	if fn < 0.99 || fn > 1 {
		t.Fatalf("noise flatness=%f want close to 1", fn)
	}
}

func TestRolloffFraction(t *testing.T) {
	mag := []float64{1, 1, 1, 1}

	tests := []struct {
		fraction float64
		want     float64
	}{
		{0.25, 0},
		{0.5, 100},
		{0.85, 300},
		{1, 300},
	}

	for _, tt := range tests {
		if got := Rolloff(mag, 16, 1600, tt.fraction); got != tt.want {
			t.Fatalf("Rolloff(%g)=%f want=%f", tt.fraction, got, tt.want)
		}
	}

	if got := Rolloff(make([]float64, 4), 16, 1600, 0.85); got != 0 {
		t.Fatalf("Rolloff of silence=%f want=0", got)
	}
}

func TestBandwidthInterpolates(t *testing.T) {
	// Symmetric triangle around bin 4; crossings halfway between bins 3-4 and 4-5
	// when the neighbours sit at 2*threshold - peak.
	peak := 1.0
	threshold := peak / math.Sqrt2
	side := 2*threshold - peak
	mag := []float64{0, 0, 0, side, peak, side, 0, 0}

	got := Bandwidth(mag, shapeFFTSize, shapeSampleRate)
	if math.Abs(got-100) > 1e-9 {
		t.Fatalf("Bandwidth=%f want=100", got)
	}
}

func TestCentroidMatchesBinFrequency(t *testing.T) {
	for k := 1; k < 8; k++ {
		mag := make([]float64, 8)
		mag[k] = 1

		want := BinFrequency(k, shapeFFTSize, shapeSampleRate)
		if got := Centroid(mag, shapeFFTSize, shapeSampleRate); got != want {
			t.Fatalf("bin %d: Centroid=%f want=%f", k, got, want)
		}
	}
}
