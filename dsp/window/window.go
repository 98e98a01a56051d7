package window

import (
	"math"
	"strings"
)

// Type identifies a window function.
//
// The numeric values are stable and match the order in which analyzer front
// ends list the windows.
type Type int

const (
	TypeHann Type = iota
	TypeBlackmanHarris
	TypeHamming
	TypeFlatTop
	TypeRectangular

	numTypes
)

// Metadata holds published spectral properties of a window type.
type Metadata struct {
	Name            string
	ENBW            float64
	HighestSidelobe float64
	CoherentGain    float64
}

var (
	hannCoeffs           = []float64{0.5, -0.5}
	hammingCoeffs        = []float64{0.54, -0.46}
	blackmanHarrisCoeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	flatTopCoeffs        = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

var metadataByType = map[Type]Metadata{
	TypeHann:           {Name: "Hann", ENBW: 1.5, HighestSidelobe: -31.5, CoherentGain: 0.5},
	TypeBlackmanHarris: {Name: "BlackmanHarris", ENBW: 2.0044, HighestSidelobe: -92, CoherentGain: 0.35875},
	TypeHamming:        {Name: "Hamming", ENBW: 1.3628, HighestSidelobe: -42.7, CoherentGain: 0.54},
	TypeFlatTop:        {Name: "Flattop", ENBW: 3.7702, HighestSidelobe: -93, CoherentGain: 0.21557895},
	TypeRectangular:    {Name: "Rectangular", ENBW: 1, HighestSidelobe: -13.3, CoherentGain: 1},
}

// Valid reports whether t names a supported window.
func (t Type) Valid() bool {
	return t >= 0 && t < numTypes
}

// String returns the display name of t.
func (t Type) String() string {
	if m, ok := metadataByType[t]; ok {
		return m.Name
	}

	return "Unknown"
}

// Types returns all supported window types in display order.
func Types() []Type {
	out := make([]Type, 0, numTypes)
	for t := Type(0); t < numTypes; t++ {
		out = append(out, t)
	}

	return out
}

// Names returns the display names of all supported windows in display order.
func Names() []string {
	out := make([]string, 0, numTypes)
	for _, t := range Types() {
		out = append(out, t.String())
	}

	return out
}

// ParseType resolves a window name case-insensitively. Dashes, underscores
// and spaces are ignored, so "blackman-harris" and "BlackmanHarris" match.
func ParseType(name string) (Type, error) {
	key := normalizeName(name)
	for _, t := range Types() {
		if normalizeName(t.String()) == key {
			return t, nil
		}
	}

	// Common alternative spelling.
	if key == "hanning" {
		return TypeHann, nil
	}

	return 0, unknownNameError(name)
}

// Info returns static metadata for a window type.
func Info(t Type) Metadata {
	if m, ok := metadataByType[t]; ok {
		return m
	}

	return Metadata{}
}

// Generate returns symmetric window coefficients of the given length, using
// M = length-1 as the cosine period.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	fill(out, t)

	return out
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0

	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

// CoherentGain returns sum(w[n]) / N, the DC response of the window.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs)), nil
}

func fill(dst []float64, t Type) {
	if t == TypeRectangular {
		for i := range dst {
			dst[i] = 1
		}

		return
	}

	coeffs := coeffsFor(t)
	for i := range dst {
		dst[i] = cosineFromCoeffs(samplePosition(i, len(dst)), coeffs)
	}
}

func coeffsFor(t Type) []float64 {
	switch t {
	case TypeHann:
		return hannCoeffs
	case TypeBlackmanHarris:
		return blackmanHarrisCoeffs
	case TypeHamming:
		return hammingCoeffs
	case TypeFlatTop:
		return flatTopCoeffs
	default:
		return []float64{1}
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}

	return float64(n) / float64(size-1)
}

func normalizeName(s string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}
