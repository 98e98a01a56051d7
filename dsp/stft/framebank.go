package stft

import "fmt"

// slot is one overlapping analysis frame.
type slot struct {
	cursor int
	// delay counts the samples left before the slot starts accumulating.
	delay int
	bins  [][]complex128
}

// FrameBank is a fixed arena of overlapping analysis frames. All memory is
// allocated by NewFrameBank; Resize only re-slices and clears it.
type FrameBank struct {
	slots     []slot
	active    int
	frameSize int
	channels  int
}

// NewFrameBank allocates maxOverlap slots, each holding maxChannels complex
// buffers of maxFrameSize bins.
func NewFrameBank(maxChannels, maxFrameSize, maxOverlap int) (*FrameBank, error) {
	if maxChannels <= 0 || maxFrameSize <= 0 || maxOverlap <= 0 {
		return nil, fmt.Errorf("%w: frame bank %d channels x %d bins x %d slots",
			ErrCapacity, maxChannels, maxFrameSize, maxOverlap)
	}

	backing := make([]complex128, maxOverlap*maxChannels*maxFrameSize)

	b := &FrameBank{
		slots:    make([]slot, maxOverlap),
		channels: maxChannels,
	}

	off := 0
	for k := range b.slots {
		b.slots[k].bins = make([][]complex128, maxChannels)
		for ch := range b.slots[k].bins {
			b.slots[k].bins[ch] = backing[off : off+maxFrameSize : off+maxFrameSize]
			off += maxFrameSize
		}
	}

	return b, nil
}

// Resize activates overlap slots of frameSize bins, zeroes every bin,
// resets every cursor to 0 and staggers slot k to start k*frameSize/overlap
// samples after slot 0.
//
// Resize must not run concurrently with sample processing.
func (b *FrameBank) Resize(frameSize, overlap int) error {
	if overlap < 1 || overlap > len(b.slots) {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrOverlap, overlap, len(b.slots))
	}

	if frameSize < 1 || frameSize > b.MaxFrameSize() {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrFrameSizeRange, frameSize, b.MaxFrameSize())
	}

	if frameSize%overlap != 0 {
		return fmt.Errorf("%w: %d does not divide frame size %d", ErrOverlap, overlap, frameSize)
	}

	b.frameSize = frameSize
	b.active = overlap
	b.Clear()

	return nil
}

// Clear zeroes all bins and restarts every active slot at its staggered
// start position.
func (b *FrameBank) Clear() {
	hop := 0
	if b.active > 0 {
		hop = b.frameSize / b.active
	}

	for k := range b.slots {
		s := &b.slots[k]
		s.cursor = 0
		s.delay = 0
		if k < b.active {
			s.delay = k * hop
		}

		for _, bins := range s.bins {
			clear(bins)
		}
	}
}

// Active returns the number of active slots (the overlap factor).
func (b *FrameBank) Active() int { return b.active }

// FrameSize returns the active frame size.
func (b *FrameBank) FrameSize() int { return b.frameSize }

// MaxFrameSize returns the bin capacity of each buffer.
func (b *FrameBank) MaxFrameSize() int {
	if len(b.slots) == 0 || len(b.slots[0].bins) == 0 {
		return 0
	}

	return cap(b.slots[0].bins[0])
}

// MaxOverlap returns the slot capacity.
func (b *FrameBank) MaxOverlap() int { return len(b.slots) }

// MaxChannels returns the channel capacity.
func (b *FrameBank) MaxChannels() int { return b.channels }

// Cursor returns the write position of slot k.
func (b *FrameBank) Cursor(k int) int { return b.slots[k].cursor }

// Bins returns the active bins of slot k, channel ch.
func (b *FrameBank) Bins(k, ch int) []complex128 {
	return b.slots[k].bins[ch][:b.frameSize]
}
