package stft

import "errors"

var (
	// ErrFrameSizeNotPowerOfTwo is returned for frame sizes that are not a power of two.
	ErrFrameSizeNotPowerOfTwo = errors.New("stft: frame size must be a power of two")
	// ErrFrameSizeRange is returned for frame sizes outside [MinFrameSize, capacity].
	ErrFrameSizeRange = errors.New("stft: frame size out of range")
	// ErrOverlap is returned for overlap factors outside [1, min(capacity, frame size)]
	// or that do not divide the frame size.
	ErrOverlap = errors.New("stft: overlap out of range")
	// ErrChannels is returned for channel counts outside [1, capacity].
	ErrChannels = errors.New("stft: channel count out of range")
	// ErrWindowType is returned for unsupported window types.
	ErrWindowType = errors.New("stft: unsupported window type")
	// ErrOutputType is returned for unsupported output layouts.
	ErrOutputType = errors.New("stft: unsupported output type")
	// ErrScalingMode is returned for unsupported scaling modes.
	ErrScalingMode = errors.New("stft: unsupported scaling mode")
	// ErrCapacity is returned for invalid construction-time capacities.
	ErrCapacity = errors.New("stft: invalid capacity")
	// ErrBusy is returned when a reconfiguration races with sample processing.
	ErrBusy = errors.New("stft: sender is processing")
	// ErrKernelSize is returned by kernels asked to transform a buffer whose
	// length differs from the prepared size.
	ErrKernelSize = errors.New("stft: buffer length does not match prepared FFT size")
)
