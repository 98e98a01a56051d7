package cli

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-stft/dsp/spectrum"
	"github.com/cwbudde/algo-stft/dsp/stft"
	"github.com/cwbudde/algo-stft/dsp/transport"
)

// Averaging selects how received frames are combined.
type Averaging int

const (
	// AverageLinear averages magnitudes.
	AverageLinear Averaging = iota
	// AverageRMS averages power and reports its square root, so noise reads
	// at its RMS level.
	AverageRMS
)

func (a Averaging) String() string {
	switch a {
	case AverageLinear:
		return "linear"
	case AverageRMS:
		return "rms"
	default:
		return fmt.Sprintf("Averaging(%d)", int(a))
	}
}

// ParseAveraging resolves "linear" or "rms".
func ParseAveraging(name string) (Averaging, error) {
	switch name {
	case "linear", "":
		return AverageLinear, nil
	case "rms", "power":
		return AverageRMS, nil
	default:
		return 0, fmt.Errorf("cli: unknown averaging %q", name)
	}
}

// accumulator averages the compensated magnitude of every received packet
// over bins [0, N/2).
type accumulator struct {
	averaging Averaging
	gain      float64
	sums      [][]float64
	mag       []float64
	received  int

	keep      bool
	snapshots []transport.Snapshot
}

func newAccumulator(cfg stft.Config, scaling float64, averaging Averaging, keep bool) *accumulator {
	half := cfg.FrameSize / 2

	sums := make([][]float64, cfg.Channels)
	for ch := range sums {
		sums[ch] = make([]float64, half)
	}

	gain := 0.0
	if scaling > 0 {
		gain = math.Sqrt(2 / scaling)
	}

	return &accumulator{
		averaging: averaging,
		gain:      gain,
		sums:      sums,
		mag:       make([]float64, half),
		keep:      keep,
	}
}

func (a *accumulator) add(p *transport.Packet) {
	half := len(a.mag)

	for ch := range min(p.Channels, len(a.sums)) {
		data := p.Channel(ch)

		switch {
		case p.Layout == spectrum.LayoutComplex && a.averaging == AverageRMS:
			spectrum.PowerFromParts(a.mag, data[:half], data[half:2*half])
			vecmath.ScaleBlock(a.mag, a.mag, a.gain*a.gain)
		case p.Layout == spectrum.LayoutComplex:
			spectrum.MagnitudeFromParts(a.mag, data[:half], data[half:2*half])
			vecmath.ScaleBlock(a.mag, a.mag, a.gain)
		default:
			copy(a.mag, data[:half])
			if a.averaging == AverageRMS {
				vecmath.MulBlockInPlace(a.mag, a.mag)
			}
		}

		vecmath.AddBlockInPlace(a.sums[ch], a.mag)
	}

	if a.keep {
		a.snapshots = append(a.snapshots, p.Snapshot())
	}

	a.received++
}

// mean returns the average magnitude spectrum of channel ch.
func (a *accumulator) mean(ch int) []float64 {
	out := make([]float64, len(a.sums[ch]))
	if a.received == 0 {
		return out
	}

	vecmath.ScaleBlock(out, a.sums[ch], 1/float64(a.received))

	if a.averaging == AverageRMS {
		for i, v := range out {
			out[i] = math.Sqrt(v)
		}
	}

	return out
}
