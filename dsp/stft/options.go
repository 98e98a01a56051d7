package stft

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-stft/dsp/transport"
)

// Transport receives completed packets. Acquire and Publish are called from
// the audio callback and must not block or allocate. Acquire returns nil
// when the frame has to be dropped.
type Transport interface {
	Acquire() *transport.Packet
	Publish(p *transport.Packet)
	Discard(p *transport.Packet)
}

// Option configures a Sender.
type Option func(*options)

type options struct {
	capacity    Capacity
	kernel      Kernel
	transport   Transport
	queueDepth  int
	queuePolicy transport.Policy
	scaling     ScalingMode
	logger      logrus.FieldLogger
}

func defaultOptions() options {
	return options{
		capacity:    DefaultCapacity(),
		queueDepth:  transport.DefaultDepth,
		queuePolicy: transport.DropNewest,
		scaling:     ScalingReference,
	}
}

// WithCapacity sets the construction-time buffer capacities.
func WithCapacity(maxChannels, maxFrameSize, maxOverlap int) Option {
	return func(o *options) {
		o.capacity = Capacity{
			MaxChannels:  maxChannels,
			MaxFrameSize: maxFrameSize,
			MaxOverlap:   maxOverlap,
		}
	}
}

// WithKernel replaces the default algo-fft kernel.
func WithKernel(k Kernel) Option {
	return func(o *options) {
		if k != nil {
			o.kernel = k
		}
	}
}

// WithTransport publishes packets to t instead of an internal queue.
func WithTransport(t Transport) Option {
	return func(o *options) {
		if t != nil {
			o.transport = t
		}
	}
}

// WithQueue configures the internal queue used when no transport is given.
func WithQueue(depth int, policy transport.Policy) Option {
	return func(o *options) {
		if depth > 0 {
			o.queueDepth = depth
		}
		o.queuePolicy = policy
	}
}

// WithScalingMode selects the magnitude normalization.
func WithScalingMode(m ScalingMode) Option {
	return func(o *options) {
		o.scaling = m
	}
}

// WithLogger sets the logger used for reconfiguration events. Nothing is
// logged from the processing path.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
