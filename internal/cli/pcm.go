package cli

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReadPCM decodes raw little-endian float32 interleaved samples into planar
// channels. A trailing partial frame is ignored.
func ReadPCM(r io.Reader, channels int) ([][]float64, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("cli: channels must be > 0: %d", channels)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cli: failed to read PCM: %w", err)
	}

	frameBytes := 4 * channels
	frames := len(raw) / frameBytes
	if frames == 0 {
		return nil, fmt.Errorf("cli: PCM input holds no complete frame")
	}

	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}

	for i := range frames {
		for ch := range channels {
			off := i*frameBytes + 4*ch
			out[ch][i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[off:])))
		}
	}

	return out, nil
}
