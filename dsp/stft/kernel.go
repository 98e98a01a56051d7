package stft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-stft/dsp/spectrum"
)

// Kernel is an in-place forward complex FFT.
//
// Prepare is called outside the real-time path whenever the frame size
// changes and may allocate. Forward is called from the audio callback and
// must not allocate or block. Ordering reports where bin k ends up in the
// transformed buffer.
type Kernel interface {
	Prepare(size int) error
	Forward(buf []complex128) error
	Ordering() spectrum.Ordering
}

// AlgoFFTKernel runs forward transforms with algo-fft plans. Plans are
// cached per size, so switching back to an earlier frame size does not
// allocate a new plan.
type AlgoFFTKernel struct {
	plans map[int]*algofft.Plan[complex128]
	plan  *algofft.Plan[complex128]
	size  int
}

// NewAlgoFFTKernel returns an unprepared algo-fft kernel.
func NewAlgoFFTKernel() *AlgoFFTKernel {
	return &AlgoFFTKernel{plans: make(map[int]*algofft.Plan[complex128])}
}

// Prepare selects (and if needed creates) the plan for size.
func (k *AlgoFFTKernel) Prepare(size int) error {
	plan, ok := k.plans[size]
	if !ok {
		var err error

		plan, err = algofft.NewPlan64(size)
		if err != nil {
			return fmt.Errorf("stft: failed to create FFT plan: %w", err)
		}

		k.plans[size] = plan
	}

	k.plan = plan
	k.size = size

	return nil
}

// Forward transforms buf in place.
func (k *AlgoFFTKernel) Forward(buf []complex128) error {
	if k.plan == nil || len(buf) != k.size {
		return ErrKernelSize
	}

	return k.plan.Forward(buf, buf)
}

// Ordering reports natural bin order.
func (k *AlgoFFTKernel) Ordering() spectrum.Ordering { return spectrum.OrderNatural }

// GonumKernel runs forward transforms with gonum's complex FFT.
type GonumKernel struct {
	ffts map[int]*fourier.CmplxFFT
	fft  *fourier.CmplxFFT
}

// NewGonumKernel returns an unprepared gonum kernel.
func NewGonumKernel() *GonumKernel {
	return &GonumKernel{ffts: make(map[int]*fourier.CmplxFFT)}
}

// Prepare selects (and if needed creates) the transform for size.
func (k *GonumKernel) Prepare(size int) error {
	if size <= 0 {
		return fmt.Errorf("stft: invalid FFT size: %d", size)
	}

	fft, ok := k.ffts[size]
	if !ok {
		fft = fourier.NewCmplxFFT(size)
		k.ffts[size] = fft
	}

	k.fft = fft

	return nil
}

// Forward transforms buf in place.
func (k *GonumKernel) Forward(buf []complex128) error {
	if k.fft == nil || len(buf) != k.fft.Len() {
		return ErrKernelSize
	}

	k.fft.Coefficients(buf, buf)

	return nil
}

// Ordering reports natural bin order.
func (k *GonumKernel) Ordering() spectrum.Ordering { return spectrum.OrderNatural }

// ParseKernel returns a new kernel by name: "algofft" (default) or "gonum".
func ParseKernel(name string) (Kernel, error) {
	switch name {
	case "algofft", "algo-fft", "":
		return NewAlgoFFTKernel(), nil
	case "gonum":
		return NewGonumKernel(), nil
	default:
		return nil, fmt.Errorf("stft: unknown FFT kernel %q", name)
	}
}
