package stft

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-stft/dsp/transport"
	"github.com/cwbudde/algo-stft/dsp/window"
)

const (
	stateIdle int32 = iota
	stateProcessing
	stateReconfiguring
)

// Stats reports Sender counters. All counters are cumulative.
type Stats struct {
	// Frames counts completed slots.
	Frames uint64
	// Published counts packets handed to the transport.
	Published uint64
	// Dropped counts completed slots for which the transport had no packet.
	Dropped uint64
	// KernelErrors counts frames discarded because the transform failed or
	// the packet was too small for the frame.
	KernelErrors uint64
	// SkippedBlocks counts processing calls that arrived during
	// reconfiguration.
	SkippedBlocks uint64
	// RejectedBlocks counts processing calls with fewer channels than
	// configured.
	RejectedBlocks uint64
}

// Sender is the real-time STFT pipeline.
type Sender struct {
	capacity Capacity
	cfg      Config
	scaling  ScalingMode

	bank        *FrameBank
	table       *window.Table
	transformer *Transformer
	transport   Transport
	queue       *transport.Queue
	log         logrus.FieldLogger

	// frame gathers one sample per channel for planar input.
	frame    []float64
	sequence uint64

	state atomic.Int32

	frames         atomic.Uint64
	published      atomic.Uint64
	dropped        atomic.Uint64
	kernelErrors   atomic.Uint64
	skippedBlocks  atomic.Uint64
	rejectedBlocks atomic.Uint64
}

// New validates cfg, allocates every buffer for the configured capacity and
// returns a ready Sender. Invalid configuration is reported here and never
// corrected.
func New(cfg Config, opts ...Option) (*Sender, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if err := o.capacity.Validate(); err != nil {
		return nil, err
	}

	if err := o.capacity.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	if o.scaling != ScalingReference && o.scaling != ScalingSelectedWindow {
		return nil, fmt.Errorf("%w: %v", ErrScalingMode, o.scaling)
	}

	if o.kernel == nil {
		o.kernel = NewAlgoFFTKernel()
	}

	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}

	c := o.capacity

	bank, err := NewFrameBank(c.MaxChannels, c.MaxFrameSize, c.MaxOverlap)
	if err != nil {
		return nil, err
	}

	table, err := window.NewTable(c.MaxFrameSize)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	transformer, err := NewTransformer(o.kernel, c.MaxFrameSize)
	if err != nil {
		return nil, err
	}

	s := &Sender{
		capacity:    c,
		scaling:     o.scaling,
		bank:        bank,
		table:       table,
		transformer: transformer,
		transport:   o.transport,
		log:         o.logger,
		frame:       make([]float64, c.MaxChannels),
	}

	if s.transport == nil {
		q, err := transport.NewQueue(o.queueDepth, c.MaxChannels, c.MaxFrameSize, o.queuePolicy)
		if err != nil {
			return nil, fmt.Errorf("stft: %w", err)
		}

		s.queue = q
		s.transport = q
	}

	if err := s.apply(cfg, true); err != nil {
		return nil, err
	}

	return s, nil
}

// Config returns the active configuration.
func (s *Sender) Config() Config { return s.cfg }

// Capacity returns the construction-time capacity.
func (s *Sender) Capacity() Capacity { return s.capacity }

// ScalingMode returns the magnitude normalization mode.
func (s *Sender) ScalingMode() ScalingMode { return s.scaling }

// Scaling returns the active magnitude normalization constant.
func (s *Sender) Scaling() float64 { return s.transformer.Scaling() }

// Window returns the active window coefficients. The slice is overwritten by
// the next reconfiguration.
func (s *Sender) Window() []float64 { return s.table.Coefficients() }

// Queue returns the internal packet queue, or nil when a custom transport
// was supplied with WithTransport.
func (s *Sender) Queue() *transport.Queue { return s.queue }

// Stats returns a snapshot of the counters.
func (s *Sender) Stats() Stats {
	return Stats{
		Frames:         s.frames.Load(),
		Published:      s.published.Load(),
		Dropped:        s.dropped.Load(),
		KernelErrors:   s.kernelErrors.Load(),
		SkippedBlocks:  s.skippedBlocks.Load(),
		RejectedBlocks: s.rejectedBlocks.Load(),
	}
}

// Configure changes the frame geometry and modes, keeping the channel count.
func (s *Sender) Configure(frameSize, overlap int, w window.Type, out OutputType) error {
	cfg := s.cfg
	cfg.FrameSize = frameSize
	cfg.Overlap = overlap
	cfg.Window = w
	cfg.Output = out

	return s.Reconfigure(cfg)
}

// Reconfigure applies cfg. Changing FrameSize, Overlap or Channels discards
// every partially accumulated frame.
func (s *Sender) Reconfigure(cfg Config) error {
	if err := s.capacity.ValidateConfig(cfg); err != nil {
		return err
	}

	return s.reconfigure(func() error {
		geometry := cfg.FrameSize != s.cfg.FrameSize ||
			cfg.Overlap != s.cfg.Overlap ||
			cfg.Channels != s.cfg.Channels

		return s.apply(cfg, geometry)
	})
}

// SetWindowType switches the analysis window and recomputes the window table
// and scaling. Frame geometry and accumulated samples are kept.
func (s *Sender) SetWindowType(w window.Type) error {
	if !w.Valid() {
		return fmt.Errorf("%w: %d", ErrWindowType, int(w))
	}

	return s.reconfigure(func() error {
		cfg := s.cfg
		cfg.Window = w

		return s.apply(cfg, false)
	})
}

// SetOutputType switches the packet layout.
func (s *Sender) SetOutputType(out OutputType) error {
	if !out.Valid() {
		return fmt.Errorf("%w: %d", ErrOutputType, int(out))
	}

	return s.reconfigure(func() error {
		s.cfg.Output = out
		s.transformer.SetOutput(out)
		s.log.WithField("output", out.String()).Debug("stft: output type changed")

		return nil
	})
}

// SetScalingMode switches the magnitude normalization.
func (s *Sender) SetScalingMode(m ScalingMode) error {
	if m != ScalingReference && m != ScalingSelectedWindow {
		return fmt.Errorf("%w: %v", ErrScalingMode, m)
	}

	return s.reconfigure(func() error {
		s.scaling = m
		s.updateScaling()

		return nil
	})
}

// Reset discards all partially accumulated frames.
func (s *Sender) Reset() error {
	return s.reconfigure(func() error {
		s.bank.Clear()
		return nil
	})
}

func (s *Sender) reconfigure(fn func() error) error {
	if !s.state.CompareAndSwap(stateIdle, stateReconfiguring) {
		return ErrBusy
	}
	defer s.state.Store(stateIdle)

	return fn()
}

// apply installs cfg. It must only run while no block is being processed.
func (s *Sender) apply(cfg Config, resetFrames bool) error {
	if resetFrames {
		if err := s.transformer.Prepare(cfg.FrameSize); err != nil {
			return err
		}

		if err := s.bank.Resize(cfg.FrameSize, cfg.Overlap); err != nil {
			return err
		}
	}

	if err := s.table.Compute(cfg.Window, cfg.FrameSize); err != nil {
		return fmt.Errorf("stft: %w", err)
	}

	s.cfg = cfg
	s.transformer.SetOutput(cfg.Output)
	s.updateScaling()

	s.log.WithFields(logrus.Fields{
		"frame_size": cfg.FrameSize,
		"overlap":    cfg.Overlap,
		"channels":   cfg.Channels,
		"window":     cfg.Window.String(),
		"output":     cfg.Output.String(),
		"scaling":    s.transformer.Scaling(),
		"reset":      resetFrames,
	}).Debug("stft: configured")

	return nil
}

func (s *Sender) updateScaling() {
	switch s.scaling {
	case ScalingSelectedWindow:
		s.transformer.SetScaling(window.WindowScaling(s.table.Coefficients()))
	default:
		s.transformer.SetScaling(window.ReferenceScaling(s.cfg.FrameSize))
	}
}

// ProcessSamples ingests a planar block: block[ch][i] is sample i of channel
// ch. Every configured channel must be present; the block length is the
// shortest channel. It returns the number of packets published.
//
// ProcessSamples never blocks, locks or allocates. A call that overlaps a
// reconfiguration is skipped and returns 0.
func (s *Sender) ProcessSamples(block [][]float64) int {
	if !s.state.CompareAndSwap(stateIdle, stateProcessing) {
		s.skippedBlocks.Add(1)
		return 0
	}
	defer s.state.Store(stateIdle)

	channels := s.cfg.Channels
	if len(block) < channels {
		s.rejectedBlocks.Add(1)
		return 0
	}

	n := len(block[0])
	for ch := 1; ch < channels; ch++ {
		n = min(n, len(block[ch]))
	}

	frame := s.frame[:channels]
	published := 0

	for i := range n {
		for ch := range frame {
			frame[ch] = block[ch][i]
		}

		published += s.tick(frame)
	}

	return published
}

// ProcessInterleaved ingests an interleaved block of Channels samples per
// frame. Trailing samples that do not form a full frame are ignored. It
// returns the number of packets published.
func (s *Sender) ProcessInterleaved(buf []float64) int {
	if !s.state.CompareAndSwap(stateIdle, stateProcessing) {
		s.skippedBlocks.Add(1)
		return 0
	}
	defer s.state.Store(stateIdle)

	channels := s.cfg.Channels
	published := 0

	for off := 0; off+channels <= len(buf); off += channels {
		published += s.tick(buf[off : off+channels])
	}

	return published
}

// tick windows one sample per channel into every active slot.
func (s *Sender) tick(frame []float64) int {
	b := s.bank
	win := s.table.Coefficients()
	frameSize := b.frameSize
	published := 0

	for k := 0; k < b.active; k++ {
		sl := &b.slots[k]
		if sl.delay > 0 {
			sl.delay--
			continue
		}

		w := win[sl.cursor]
		for ch, x := range frame {
			sl.bins[ch][sl.cursor] = complex(x*w, 0)
		}

		sl.cursor++
		if sl.cursor == frameSize {
			sl.cursor = 0
			if s.emit(k) {
				published++
			}
		}
	}

	return published
}

// emit transforms every channel of slot k into a packet and publishes it.
func (s *Sender) emit(k int) bool {
	s.frames.Add(1)

	seq := s.sequence
	s.sequence++

	p := s.transport.Acquire()
	if p == nil {
		s.dropped.Add(1)
		return false
	}

	channels := s.cfg.Channels
	frameSize := s.bank.frameSize

	if !p.Prepare(channels, frameSize, s.cfg.Output) {
		s.kernelErrors.Add(1)
		s.transport.Discard(p)
		return false
	}

	p.Sequence = seq
	p.Slot = k

	for ch := range channels {
		if err := s.transformer.Transform(s.bank.Bins(k, ch), p.Channel(ch)); err != nil {
			s.kernelErrors.Add(1)
			s.transport.Discard(p)
			return false
		}
	}

	s.transport.Publish(p)
	s.published.Add(1)

	return true
}
