package spectrum

import (
	"fmt"
	"strings"
)

// Layout identifies how a packed spectrum frame is laid out.
type Layout int

const (
	// LayoutComplex packs Re(bin 0..n/2) followed by Im(bin 0..n/2).
	LayoutComplex Layout = iota
	// LayoutMagPhase holds window-compensated magnitudes for all n bins.
	// Despite the name no phase is produced.
	LayoutMagPhase
)

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool {
	return l == LayoutComplex || l == LayoutMagPhase
}

func (l Layout) String() string {
	switch l {
	case LayoutComplex:
		return "Complex"
	case LayoutMagPhase:
		return "MagPhase"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout resolves a layout name case-insensitively.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "complex":
		return LayoutComplex, nil
	case "magphase", "mag-phase", "mag_phase", "magnitude":
		return LayoutMagPhase, nil
	default:
		return 0, fmt.Errorf("spectrum: unknown layout %q", name)
	}
}
