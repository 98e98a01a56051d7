// Package spectrum provides FFT-adjacent spectrum-domain utilities.
//
// The package does not implement an FFT. It operates on complex bins
// produced by external FFT backends: it restores ascending-frequency order
// from backend-specific bin orderings, converts bins into the packed layouts
// consumed by spectrum displays, and maps bins to frequencies and levels.
//
// The conversion functions write into caller-provided slices and never
// allocate, so they are safe to call from a real-time audio callback.
package spectrum
