// Package stft streams multichannel audio through overlapping windowed FFT
// frames and publishes one packed spectrum packet per completed frame.
//
// A Sender is driven from the audio callback with ProcessSamples (planar
// blocks) or ProcessInterleaved. Each call windows every incoming sample
// into Overlap staggered analysis frames; frame k starts k*FrameSize/Overlap
// samples after frame 0, so once the first frame has filled, a packet is
// produced every FrameSize/Overlap samples. Completed frames are transformed
// by a Kernel, reordered into ascending frequency, converted to the
// configured Output layout and handed to a Transport, by default a bounded
// transport.Queue drained by a UI goroutine.
//
// The processing calls never block, lock or allocate. Reconfiguration
// (Configure, Reconfigure, SetWindowType, SetOutputType, SetScalingMode,
// Reset) may allocate and is mutually exclusive with processing through an
// atomic handshake: reconfiguring while a block is being processed fails
// with ErrBusy, and a block arriving during reconfiguration is skipped.
// Every change of frame size, overlap or channel count discards all
// partially accumulated frames.
//
// Magnitudes in the MagPhase layout are normalized as
// sqrt(2*|X[k]|^2 / S) where S is, by default, the squared sum of a Hann
// envelope of the frame size regardless of the selected window (see
// window.ReferenceScaling). Levels are therefore only calibrated for the
// Hann window; ScalingSelectedWindow opts into window-specific scaling.
package stft
