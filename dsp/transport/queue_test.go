package transport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-stft/dsp/spectrum"
)

func publishFrame(t *testing.T, q *Queue, seq uint64) bool {
	t.Helper()

	p := q.Acquire()
	if p == nil {
		return false
	}

	require.True(t, p.Prepare(1, 4, spectrum.LayoutComplex))
	p.Sequence = seq
	p.Channel(0)[0] = float64(seq)
	q.Publish(p)

	return true
}

func TestNewQueueValidation(t *testing.T) {
	_, err := NewQueue(0, 1, 8, DropNewest)
	assert.Error(t, err)

	_, err = NewQueue(4, 0, 8, DropNewest)
	assert.Error(t, err)

	_, err = NewQueue(4, 1, 0, DropNewest)
	assert.Error(t, err)

	_, err = NewQueue(4, 1, 8, Policy(9))
	assert.Error(t, err)

	q, err := NewQueue(4, 2, 8, DropOldest)
	require.NoError(t, err)
	assert.Equal(t, 4, q.Depth())
	assert.Equal(t, DropOldest, q.Policy())
}

func TestQueueFIFO(t *testing.T) {
	q, err := NewQueue(8, 1, 4, DropNewest)
	require.NoError(t, err)

	for seq := range uint64(5) {
		require.True(t, publishFrame(t, q, seq))
	}

	for seq := range uint64(5) {
		p, err := q.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, seq, p.Sequence)
		assert.Equal(t, float64(seq), p.Channel(0)[0])
		q.Release(p)
	}

	_, ok := q.TryNext()
	assert.False(t, ok)

	st := q.Stats()
	assert.Equal(t, uint64(5), st.Published)
	assert.Equal(t, uint64(0), st.Dropped)
	assert.Equal(t, 0, st.Pending)
}

func TestQueueDropNewestKeepsBacklog(t *testing.T) {
	q, err := NewQueue(2, 1, 4, DropNewest)
	require.NoError(t, err)

	for seq := range uint64(6) {
		publishFrame(t, q, seq)
	}

	st := q.Stats()
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, uint64(4), st.Dropped)

	p, ok := q.TryNext()
	require.True(t, ok)
	assert.Equal(t, uint64(0), p.Sequence)
	q.Release(p)

	p, ok = q.TryNext()
	require.True(t, ok)
	assert.Equal(t, uint64(1), p.Sequence)
	q.Release(p)
}

func TestQueueDropOldestKeepsLatest(t *testing.T) {
	q, err := NewQueue(2, 1, 4, DropOldest)
	require.NoError(t, err)

	for seq := range uint64(6) {
		require.True(t, publishFrame(t, q, seq))
	}

	st := q.Stats()
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, uint64(4), st.Dropped)

	p, ok := q.TryNext()
	require.True(t, ok)
	assert.Equal(t, uint64(4), p.Sequence)
	q.Release(p)

	p, ok = q.TryNext()
	require.True(t, ok)
	assert.Equal(t, uint64(5), p.Sequence)
	q.Release(p)
}

func TestQueueProducerNeverAllocates(t *testing.T) {
	q, err := NewQueue(4, 2, 64, DropOldest)
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(100, func() {
		p := q.Acquire()
		if p == nil {
			return
		}
		p.Prepare(2, 64, spectrum.LayoutMagPhase)
		q.Publish(p)
	})
	assert.Zero(t, allocs)
}

func TestQueueCloseDrains(t *testing.T) {
	q, err := NewQueue(4, 1, 4, DropNewest)
	require.NoError(t, err)

	require.True(t, publishFrame(t, q, 1))
	q.Close()
	q.Close()

	// Published after close: discarded, not delivered.
	p := q.Acquire()
	require.NotNil(t, p)
	q.Publish(p)

	got, err := q.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Sequence)
	q.Release(got)

	_, err = q.Next(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueueDropOldestAfterCloseKeepsBacklog(t *testing.T) {
	q, err := NewQueue(1, 1, 4, DropOldest)
	require.NoError(t, err)

	require.True(t, publishFrame(t, q, 7))

	// Exhaust the pool so the next Acquire has to steal or drop.
	held := []*Packet{q.Acquire(), q.Acquire()}
	require.NotNil(t, held[0])
	require.NotNil(t, held[1])

	q.Close()

	assert.Nil(t, q.Acquire())
	assert.Equal(t, uint64(1), q.Stats().Dropped)

	p, ok := q.TryNext()
	require.True(t, ok)
	assert.Equal(t, uint64(7), p.Sequence)
	q.Release(p)

	_, ok = q.TryNext()
	assert.False(t, ok)

	for _, h := range held {
		q.Discard(h)
	}

	// The pool refilled; a closed queue still hands out packets but
	// discards whatever is published.
	p = q.Acquire()
	require.NotNil(t, p)
	q.Publish(p)
	assert.Equal(t, uint64(1), q.Stats().Published)
	assert.Equal(t, uint64(1), q.Stats().Dropped)
}

func TestQueueNextHonoursContext(t *testing.T) {
	q, err := NewQueue(4, 1, 4, DropNewest)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = q.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueConcurrentProducerConsumer(t *testing.T) {
	q, err := NewQueue(8, 1, 16, DropNewest)
	require.NoError(t, err)

	const frames = 2000

	var (
		wg       sync.WaitGroup
		received int
		lastSeq  uint64
		ordered  = true
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for p := range q.C() {
			if received > 0 && p.Sequence <= lastSeq {
				ordered = false
			}
			lastSeq = p.Sequence
			received++
			q.Release(p)
		}
	}()

	for seq := uint64(1); seq <= frames; seq++ {
		p := q.Acquire()
		if p == nil {
			continue
		}
		p.Prepare(1, 16, spectrum.LayoutComplex)
		p.Sequence = seq
		q.Publish(p)
	}
	q.Close()
	wg.Wait()

	st := q.Stats()
	assert.True(t, ordered, "packets must arrive in publish order")
	assert.Equal(t, uint64(received), st.Published)
	assert.Equal(t, uint64(frames), st.Published+st.Dropped)
}

func TestPacketPrepareAndSnapshot(t *testing.T) {
	p := newPacket(2, 8)
	assert.Equal(t, 2, p.MaxChannels())
	assert.Equal(t, 8, p.MaxLength())

	assert.False(t, p.Prepare(3, 8, spectrum.LayoutComplex))
	assert.False(t, p.Prepare(1, 9, spectrum.LayoutComplex))
	require.True(t, p.Prepare(2, 4, spectrum.LayoutMagPhase))

	copy(p.Channel(0), []float64{1, 2, 3, 4})
	copy(p.Channel(1), []float64{5, 6, 7, 8})
	p.Sequence = 7
	p.Slot = 1

	s := p.Snapshot()
	assert.Equal(t, "MagPhase", s.Layout)
	assert.Equal(t, uint64(7), s.Sequence)
	assert.Equal(t, 1, s.Slot)
	assert.Equal(t, [][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}}, s.Data)

	p.Channel(0)[0] = 42
	assert.Equal(t, 1.0, s.Data[0][0], "snapshot must not alias the packet")
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("drop-oldest")
	require.NoError(t, err)
	assert.Equal(t, DropOldest, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DropNewest, p)

	_, err = ParsePolicy("block")
	assert.Error(t, err)

	assert.Equal(t, "drop-newest", DropNewest.String())
}
