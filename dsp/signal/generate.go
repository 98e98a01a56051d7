package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultSampleRate is used when no sample rate option is given.
const DefaultSampleRate = 48000.0

// Generator creates deterministic test signals.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(rate float64) Option {
	return func(g *Generator) {
		g.sampleRate = rate
	}
}

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		sampleRate: DefaultSampleRate,
		seed:       1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// SetSeed changes the noise seed.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.sampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.sampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// Multisine sums equal-amplitude sines. The peak of the sum never exceeds
// amplitude.
func (g *Generator) Multisine(freqsHz []float64, amplitude float64, samples int) ([]float64, error) {
	if len(freqsHz) == 0 {
		return nil, fmt.Errorf("multisine needs at least one frequency")
	}

	out := make([]float64, samples)
	per := amplitude / float64(len(freqsHz))

	for _, f := range freqsHz {
		s, err := g.Sine(f, per, samples)
		if err != nil {
			return nil, err
		}

		for i, v := range s {
			out[i] += v
		}
	}

	return out, nil
}

// Harmonics renders a multisine with tones at f0, 2*f0, ... tones*f0.
func (g *Generator) Harmonics(f0 float64, tones int, amplitude float64, samples int) ([]float64, error) {
	if tones <= 0 {
		return nil, fmt.Errorf("harmonics tones must be > 0: %d", tones)
	}

	freqs := make([]float64, tones)
	for k := range freqs {
		freqs[k] = f0 * float64(k+1)
	}

	return g.Multisine(freqs, amplitude, samples)
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Impulse generates a single impulse of the given amplitude at pos.
func (g *Generator) Impulse(amplitude float64, samples, pos int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	if pos < 0 || pos >= samples {
		return nil, fmt.Errorf("impulse position out of range: %d", pos)
	}
	out := make([]float64, samples)
	out[pos] = amplitude
	return out, nil
}

// DC generates a constant signal.
func (g *Generator) DC(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("dc samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = amplitude
	}
	return out, nil
}

// LinearSweep generates a sine whose frequency rises linearly from startHz
// to endHz over the signal.
func (g *Generator) LinearSweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sweep samples must be > 0: %d", samples)
	}
	if g.sampleRate <= 0 {
		return nil, fmt.Errorf("sweep sample rate must be > 0: %f", g.sampleRate)
	}
	out := make([]float64, samples)
	duration := float64(samples) / g.sampleRate
	rate := (endHz - startHz) / duration
	for i := range out {
		t := float64(i) / g.sampleRate
		out[i] = amplitude * math.Sin(2*math.Pi*(startHz*t+0.5*rate*t*t))
	}
	return out, nil
}

// Normalize scales every channel in place by one common gain so that the
// largest absolute sample equals targetPeak. Silent input is left untouched.
func Normalize(planar [][]float64, targetPeak float64) error {
	if targetPeak <= 0 {
		return fmt.Errorf("normalize target peak must be > 0: %f", targetPeak)
	}

	peak := 0.0
	for _, ch := range planar {
		for _, v := range ch {
			peak = max(peak, math.Abs(v))
		}
	}

	if peak == 0 {
		return nil
	}

	gain := targetPeak / peak
	for _, ch := range planar {
		for i := range ch {
			ch[i] *= gain
		}
	}

	return nil
}
