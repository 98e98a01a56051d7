package stft

import (
	"fmt"

	"github.com/cwbudde/algo-stft/dsp/spectrum"
	"github.com/cwbudde/algo-stft/dsp/window"
)

// OutputType selects the packet layout.
type OutputType = spectrum.Layout

const (
	// OutputComplex packs Re(bin 0..N/2) followed by Im(bin 0..N/2).
	OutputComplex = spectrum.LayoutComplex
	// OutputMagPhase packs window-compensated magnitudes of all N bins.
	OutputMagPhase = spectrum.LayoutMagPhase
)

// ScalingMode selects the magnitude normalization used by OutputMagPhase.
type ScalingMode int

const (
	// ScalingReference normalizes by the squared sum of a Hann envelope of
	// the frame size, whatever window is selected.
	ScalingReference ScalingMode = iota
	// ScalingSelectedWindow normalizes by the squared sum of the selected
	// window.
	ScalingSelectedWindow
)

func (m ScalingMode) String() string {
	switch m {
	case ScalingReference:
		return "reference"
	case ScalingSelectedWindow:
		return "window"
	default:
		return fmt.Sprintf("ScalingMode(%d)", int(m))
	}
}

// ParseScalingMode resolves "reference" or "window".
func ParseScalingMode(name string) (ScalingMode, error) {
	switch name {
	case "reference", "":
		return ScalingReference, nil
	case "window", "selected-window":
		return ScalingSelectedWindow, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrScalingMode, name)
	}
}

const (
	// MinFrameSize is the smallest supported frame size. Below it the
	// symmetric Hann reference envelope sums to zero.
	MinFrameSize = 4
	// DefaultMaxFrameSize is the default frame size capacity.
	DefaultMaxFrameSize = 4096
	// DefaultMaxOverlap is the default number of slot buffers.
	DefaultMaxOverlap = 8
	// DefaultMaxChannels is the default channel capacity.
	DefaultMaxChannels = 1
)

// FrameSizes lists the frame sizes offered by analyzer front ends.
var FrameSizes = []int{128, 256, 512, 1024, 2048, 4096}

// Config is the runtime analysis configuration.
type Config struct {
	FrameSize int
	Overlap   int
	Channels  int
	Window    window.Type
	Output    OutputType
}

// DefaultConfig returns a mono 1024-point Hann analysis with overlap 2 and
// magnitude output.
func DefaultConfig() Config {
	return Config{
		FrameSize: 1024,
		Overlap:   2,
		Channels:  1,
		Window:    window.TypeHann,
		Output:    OutputMagPhase,
	}
}

// Hop returns the number of samples between consecutive frame completions.
// A valid Config has an overlap that divides the frame size, so the hop is
// exact.
func (c Config) Hop() int {
	if c.Overlap <= 0 {
		return 0
	}

	return c.FrameSize / c.Overlap
}

// Capacity bounds every buffer a Sender allocates at construction.
type Capacity struct {
	MaxChannels  int
	MaxFrameSize int
	MaxOverlap   int
}

// DefaultCapacity returns the default capacity.
func DefaultCapacity() Capacity {
	return Capacity{
		MaxChannels:  DefaultMaxChannels,
		MaxFrameSize: DefaultMaxFrameSize,
		MaxOverlap:   DefaultMaxOverlap,
	}
}

// Validate checks the capacity itself.
func (c Capacity) Validate() error {
	if c.MaxChannels <= 0 {
		return fmt.Errorf("%w: max channels must be > 0: %d", ErrCapacity, c.MaxChannels)
	}

	if c.MaxFrameSize < MinFrameSize || !isPowerOf2(c.MaxFrameSize) {
		return fmt.Errorf("%w: max frame size must be a power of two >= %d: %d",
			ErrCapacity, MinFrameSize, c.MaxFrameSize)
	}

	if c.MaxOverlap <= 0 {
		return fmt.Errorf("%w: max overlap must be > 0: %d", ErrCapacity, c.MaxOverlap)
	}

	return nil
}

// ValidateConfig checks cfg against the capacity and returns the first violation.
func (c Capacity) ValidateConfig(cfg Config) error {
	if cfg.FrameSize <= 0 || !isPowerOf2(cfg.FrameSize) {
		return fmt.Errorf("%w: %d", ErrFrameSizeNotPowerOfTwo, cfg.FrameSize)
	}

	if cfg.FrameSize < MinFrameSize || cfg.FrameSize > c.MaxFrameSize {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrFrameSizeRange, cfg.FrameSize, MinFrameSize, c.MaxFrameSize)
	}

	maxOverlap := min(c.MaxOverlap, cfg.FrameSize)
	if cfg.Overlap < 1 || cfg.Overlap > maxOverlap {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrOverlap, cfg.Overlap, maxOverlap)
	}

	if cfg.FrameSize%cfg.Overlap != 0 {
		return fmt.Errorf("%w: %d does not divide frame size %d", ErrOverlap, cfg.Overlap, cfg.FrameSize)
	}

	if cfg.Channels < 1 || cfg.Channels > c.MaxChannels {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrChannels, cfg.Channels, c.MaxChannels)
	}

	if !cfg.Window.Valid() {
		return fmt.Errorf("%w: %d", ErrWindowType, int(cfg.Window))
	}

	if !cfg.Output.Valid() {
		return fmt.Errorf("%w: %d", ErrOutputType, int(cfg.Output))
	}

	return nil
}

func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
