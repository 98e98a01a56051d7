package transport

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// Policy selects what happens when the consumer falls behind.
type Policy int

const (
	// DropNewest discards the packet that does not fit.
	DropNewest Policy = iota
	// DropOldest recycles the oldest queued packet.
	DropOldest
)

func (p Policy) String() string {
	switch p {
	case DropNewest:
		return "drop-newest"
	case DropOldest:
		return "drop-oldest"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy resolves "drop-newest" or "drop-oldest".
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "drop-newest", "newest", "":
		return DropNewest, nil
	case "drop-oldest", "oldest":
		return DropOldest, nil
	default:
		return 0, fmt.Errorf("transport: unknown overflow policy %q", name)
	}
}

// DefaultDepth is the default number of packets the queue can hold.
const DefaultDepth = 64

// ErrClosed is returned by Next once the queue is closed and drained.
var ErrClosed = errors.New("transport: queue closed")

// Stats reports queue counters.
type Stats struct {
	Published uint64
	Dropped   uint64
	Pending   int
}

// Queue is a bounded SPSC packet channel with a fixed packet pool.
type Queue struct {
	policy Policy
	depth  int

	free  chan *Packet
	ready chan *Packet

	closed    atomic.Bool
	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewQueue allocates a queue holding up to depth packets, each sized for
// maxChannels channels of maxLength values.
func NewQueue(depth, maxChannels, maxLength int, policy Policy) (*Queue, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("transport: depth must be > 0: %d", depth)
	}

	if maxChannels <= 0 || maxLength <= 0 {
		return nil, fmt.Errorf("transport: packet capacity must be > 0: %d channels x %d values",
			maxChannels, maxLength)
	}

	if policy != DropNewest && policy != DropOldest {
		return nil, fmt.Errorf("transport: invalid overflow policy: %v", policy)
	}

	// One extra packet for the producer to fill and one for the consumer to
	// read while the ready channel is full.
	poolSize := depth + 2

	q := &Queue{
		policy: policy,
		depth:  depth,
		free:   make(chan *Packet, poolSize),
		ready:  make(chan *Packet, depth),
	}

	for range poolSize {
		q.free <- newPacket(maxChannels, maxLength)
	}

	return q, nil
}

// Policy returns the overflow policy.
func (q *Queue) Policy() Policy { return q.policy }

// Depth returns the queue capacity in packets.
func (q *Queue) Depth() int { return q.depth }

// Acquire returns an empty packet for the producer to fill, or nil when the
// frame has to be dropped. It never blocks.
func (q *Queue) Acquire() *Packet {
	select {
	case p := <-q.free:
		return p
	default:
	}

	// A closed queue keeps its backlog for the consumer to drain.
	if q.policy == DropOldest && !q.closed.Load() {
		select {
		case p, ok := <-q.ready:
			if ok {
				q.dropped.Add(1)
				return p
			}
		default:
		}
	}

	q.dropped.Add(1)

	return nil
}

// Publish hands a filled packet to the consumer. Ownership of p passes to
// the queue. It never blocks.
func (q *Queue) Publish(p *Packet) {
	if p == nil {
		return
	}

	if q.closed.Load() {
		q.recycle(p)
		return
	}

	select {
	case q.ready <- p:
		q.published.Add(1)
		return
	default:
	}

	if q.policy == DropOldest {
		select {
		case old := <-q.ready:
			q.recycle(old)
		default:
		}

		select {
		case q.ready <- p:
			q.published.Add(1)
			q.dropped.Add(1)
			return
		default:
		}
	}

	q.dropped.Add(1)
	q.recycle(p)
}

// Discard returns an acquired packet without publishing it.
func (q *Queue) Discard(p *Packet) {
	if p != nil {
		q.recycle(p)
	}
}

// Close marks the end of the stream. It must be called from the producer
// goroutine; packets published afterwards are discarded. Queued packets can
// still be drained.
func (q *Queue) Close() {
	if q.closed.CompareAndSwap(false, true) {
		close(q.ready)
	}
}

// C exposes the receive side for select loops. Received packets must be
// passed to Release.
func (q *Queue) C() <-chan *Packet { return q.ready }

// Next blocks until a packet is available, ctx is done, or the queue is
// closed and drained.
func (q *Queue) Next(ctx context.Context) (*Packet, error) {
	select {
	case p, ok := <-q.ready:
		if !ok {
			return nil, ErrClosed
		}
		return p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryNext returns a queued packet without blocking.
func (q *Queue) TryNext() (*Packet, bool) {
	select {
	case p, ok := <-q.ready:
		return p, ok
	default:
		return nil, false
	}
}

// Release returns a consumed packet to the pool.
func (q *Queue) Release(p *Packet) {
	if p != nil {
		q.recycle(p)
	}
}

// Stats returns a snapshot of the queue counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Published: q.published.Load(),
		Dropped:   q.dropped.Load(),
		Pending:   len(q.ready),
	}
}

func (q *Queue) recycle(p *Packet) {
	select {
	case q.free <- p:
	default:
		// Not one of ours or released twice; the pool is already full.
	}
}
