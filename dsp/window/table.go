package window

import "fmt"

// Table caches the coefficients of one window function at one length.
//
// The backing array is allocated once for the maximum length, so Compute
// replaces the coefficients in place without allocating.
type Table struct {
	typ    Type
	coeffs []float64
	buf    []float64
}

// NewTable allocates a table that can hold windows of up to maxLength
// coefficients.
func NewTable(maxLength int) (*Table, error) {
	if err := validateLength(maxLength); err != nil {
		return nil, err
	}

	return &Table{buf: make([]float64, maxLength)}, nil
}

// Compute regenerates the table for window t with the given length.
func (tb *Table) Compute(t Type, length int) error {
	if err := validateLength(length); err != nil {
		return err
	}

	if length > len(tb.buf) {
		return fmt.Errorf("window size %d exceeds table capacity %d", length, len(tb.buf))
	}

	if !t.Valid() {
		return fmt.Errorf("window type %d: %w", int(t), ErrUnknownType)
	}

	tb.coeffs = tb.buf[:length]
	tb.typ = t
	fill(tb.coeffs, t)

	return nil
}

// Coefficients returns the current coefficients. The slice aliases the table
// and is overwritten by the next Compute.
func (tb *Table) Coefficients() []float64 { return tb.coeffs }

// At returns coefficient i.
func (tb *Table) At(i int) float64 { return tb.coeffs[i] }

// Len returns the current window length.
func (tb *Table) Len() int { return len(tb.coeffs) }

// Cap returns the maximum window length the table can hold.
func (tb *Table) Cap() int { return len(tb.buf) }

// Type returns the window type of the current coefficients.
func (tb *Table) Type() Type { return tb.typ }
