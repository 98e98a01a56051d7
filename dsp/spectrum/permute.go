package spectrum

import (
	"fmt"
	"math/bits"
)

// Ordering describes where an FFT backend stores bin k in its output buffer.
type Ordering int

const (
	// OrderNatural backends store bin k at index k.
	OrderNatural Ordering = iota
	// OrderBitReversed backends store bin k at the bit-reversed index of k,
	// as in-place decimation-in-frequency kernels do when they skip the
	// final reordering pass.
	OrderBitReversed
)

func (o Ordering) String() string {
	switch o {
	case OrderNatural:
		return "natural"
	case OrderBitReversed:
		return "bit-reversed"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// Permutation maps ascending-frequency bin indices to backend buffer indices:
// bin k of the spectrum lives at buf[p[k]].
type Permutation []int

// NewPermutation builds the lookup for an FFT of size n with the given backend
// ordering. n must be a power of two.
func NewPermutation(n int, order Ordering) (Permutation, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("spectrum: permutation size must be a power of two: %d", n)
	}

	p := make(Permutation, n)
	switch order {
	case OrderNatural:
		for k := range p {
			p[k] = k
		}
	case OrderBitReversed:
		shift := bits.UintSize - bits.TrailingZeros(uint(n))
		for k := range p {
			p[k] = int(bits.Reverse(uint(k)) >> shift)
		}
	default:
		return nil, fmt.Errorf("spectrum: unknown bin ordering: %v", order)
	}

	return p, nil
}

// PermutationCache holds one Permutation per FFT size for a fixed ordering.
//
// Call Prepare outside the real-time path and keep the returned table.
type PermutationCache struct {
	order  Ordering
	tables map[int]Permutation
}

// NewPermutationCache returns an empty cache for the given backend ordering.
func NewPermutationCache(order Ordering) *PermutationCache {
	return &PermutationCache{order: order, tables: make(map[int]Permutation)}
}

// Prepare builds and stores the permutation for size n if it is missing.
func (c *PermutationCache) Prepare(n int) (Permutation, error) {
	if p, ok := c.tables[n]; ok {
		return p, nil
	}

	p, err := NewPermutation(n, c.order)
	if err != nil {
		return nil, err
	}

	c.tables[n] = p

	return p, nil
}
