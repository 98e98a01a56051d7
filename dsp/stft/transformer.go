package stft

import (
	"fmt"

	"github.com/cwbudde/algo-stft/dsp/spectrum"
)

// Transformer turns a completed frame into one packed output channel:
// forward FFT in place, reordering to ascending frequency, then conversion
// to the selected layout.
type Transformer struct {
	kernel  Kernel
	perms   *spectrum.PermutationCache
	perm    spectrum.Permutation
	size    int
	output  OutputType
	scaling float64

	re []float64
	im []float64
}

// NewTransformer allocates scratch space for frames of up to maxFrameSize bins.
func NewTransformer(kernel Kernel, maxFrameSize int) (*Transformer, error) {
	if kernel == nil {
		return nil, fmt.Errorf("stft: kernel must not be nil")
	}

	if maxFrameSize <= 0 {
		return nil, fmt.Errorf("%w: transformer size %d", ErrCapacity, maxFrameSize)
	}

	return &Transformer{
		kernel: kernel,
		perms:  spectrum.NewPermutationCache(kernel.Ordering()),
		output: OutputMagPhase,
		re:     make([]float64, maxFrameSize),
		im:     make([]float64, maxFrameSize),
	}, nil
}

// Prepare readies the kernel and permutation lookup for frames of size bins.
func (t *Transformer) Prepare(size int) error {
	if size > len(t.re) {
		return fmt.Errorf("%w: %d exceeds %d", ErrFrameSizeRange, size, len(t.re))
	}

	if err := t.kernel.Prepare(size); err != nil {
		return err
	}

	perm, err := t.perms.Prepare(size)
	if err != nil {
		return fmt.Errorf("stft: %w", err)
	}

	t.perm = perm
	t.size = size

	return nil
}

// SetOutput selects the output layout.
func (t *Transformer) SetOutput(o OutputType) { t.output = o }

// SetScaling sets the magnitude normalization constant.
func (t *Transformer) SetScaling(s float64) { t.scaling = s }

// Output returns the output layout.
func (t *Transformer) Output() OutputType { return t.output }

// Scaling returns the magnitude normalization constant.
func (t *Transformer) Scaling() float64 { return t.scaling }

// Transform runs the kernel on bins in place and writes the converted frame
// into dst[:len(bins)]. len(bins) must equal the prepared size.
func (t *Transformer) Transform(bins []complex128, dst []float64) error {
	if len(bins) != t.size || len(dst) < t.size {
		return ErrKernelSize
	}

	if err := t.kernel.Forward(bins); err != nil {
		return err
	}

	switch t.output {
	case OutputComplex:
		spectrum.SplitComplex(dst, bins, t.perm)
	default:
		spectrum.CompensatedMagnitude(dst, bins, t.perm, t.scaling, t.re, t.im)
	}

	return nil
}
