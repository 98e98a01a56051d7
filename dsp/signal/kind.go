package signal

import (
	"fmt"
	"strings"
)

// Kind selects a test signal shape.
type Kind int

const (
	KindSine Kind = iota
	KindNoise
	KindImpulse
	KindDC
	KindSweep
	KindMultisine
)

var kindNames = map[Kind]string{
	KindSine:      "sine",
	KindNoise:     "noise",
	KindImpulse:   "impulse",
	KindDC:        "dc",
	KindSweep:     "sweep",
	KindMultisine: "multisine",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a signal name case-insensitively.
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == key {
			return k, nil
		}
	}
	return 0, fmt.Errorf("signal: unknown kind %q", name)
}

// Spec describes one test signal.
type Spec struct {
	Kind      Kind
	Frequency float64
	Amplitude float64
	// EndFrequency is the final frequency of a sweep.
	EndFrequency float64
	// Tones is the number of harmonics of a multisine, starting at
	// Frequency.
	Tones int
}

// Generate renders spec into samples values. Impulses are placed at the
// first sample.
func (g *Generator) Generate(spec Spec, samples int) ([]float64, error) {
	switch spec.Kind {
	case KindSine:
		return g.Sine(spec.Frequency, spec.Amplitude, samples)
	case KindNoise:
		return g.WhiteNoise(spec.Amplitude, samples)
	case KindImpulse:
		return g.Impulse(spec.Amplitude, samples, 0)
	case KindDC:
		return g.DC(spec.Amplitude, samples)
	case KindSweep:
		return g.LinearSweep(spec.Frequency, spec.EndFrequency, spec.Amplitude, samples)
	case KindMultisine:
		return g.Harmonics(spec.Frequency, spec.Tones, spec.Amplitude, samples)
	default:
		return nil, fmt.Errorf("signal: unknown kind %v", spec.Kind)
	}
}

// GeneratePlanar renders one signal per channel. Channel ch uses
// Frequency*(ch+1) and noise seed Seed()+ch, so channels are distinguishable.
func (g *Generator) GeneratePlanar(spec Spec, channels, samples int) ([][]float64, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("signal: channels must be > 0: %d", channels)
	}

	seed := g.seed
	defer func() { g.seed = seed }()

	out := make([][]float64, channels)
	for ch := range out {
		s := spec
		s.Frequency = spec.Frequency * float64(ch+1)
		s.EndFrequency = spec.EndFrequency * float64(ch+1)
		g.seed = seed + int64(ch)

		data, err := g.Generate(s, samples)
		if err != nil {
			return nil, err
		}
		out[ch] = data
	}
	return out, nil
}
