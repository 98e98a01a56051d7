package stft

import (
	"testing"

	"github.com/cwbudde/algo-stft/dsp/window"
	"github.com/cwbudde/algo-stft/internal/testutil"
)

func BenchmarkProcessSamples(b *testing.B) {
	for _, frameSize := range []int{256, 1024, 4096} {
		b.Run(itoa(frameSize), func(b *testing.B) {
			cfg := Config{FrameSize: frameSize, Overlap: 2, Channels: 2, Window: window.TypeHann, Output: OutputMagPhase}

			s, err := New(cfg, WithCapacity(2, 4096, 2))
			if err != nil {
				b.Fatal(err)
			}

			q := s.Queue()
			block := [][]float64{
				testutil.DeterministicSine(1000, 48000, 1, 512),
				testutil.DeterministicNoise(1, 1, 512),
			}

			b.ReportAllocs()
			b.SetBytes(int64(8 * 2 * len(block[0])))
			b.ResetTimer()

			for range b.N {
				s.ProcessSamples(block)

				for {
					p, ok := q.TryNext()
					if !ok {
						break
					}
					q.Release(p)
				}
			}
		})
	}
}
