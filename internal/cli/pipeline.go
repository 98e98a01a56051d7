package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-stft/dsp/signal"
	"github.com/cwbudde/algo-stft/dsp/stft"
	"github.com/cwbudde/algo-stft/dsp/transport"
	"github.com/cwbudde/algo-stft/internal/config"
)

// loadSamples returns planar input for every configured channel, normalized
// when input.normalize is set.
func loadSamples(cfg *config.Config) ([][]float64, error) {
	samples, err := readSamples(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Input.Normalize > 0 {
		if err := signal.Normalize(samples, cfg.Input.Normalize); err != nil {
			return nil, fmt.Errorf("cli: %w", err)
		}
	}

	return samples, nil
}

func readSamples(cfg *config.Config) ([][]float64, error) {
	channels := cfg.Analysis.Channels

	if cfg.Input.File != "" {
		f, err := os.Open(cfg.Input.File)
		if err != nil {
			return nil, fmt.Errorf("cli: failed to open input: %w", err)
		}
		defer f.Close()

		return ReadPCM(f, channels)
	}

	spec, err := cfg.Input.SignalSpec()
	if err != nil {
		return nil, err
	}

	g := signal.NewGenerator(
		signal.WithSampleRate(cfg.Input.SampleRate),
		signal.WithSeed(cfg.Input.Seed),
	)

	samples, err := g.GeneratePlanar(spec, channels, cfg.Input.Samples())
	if err != nil {
		return nil, fmt.Errorf("cli: %w", err)
	}

	return samples, nil
}

// Run streams the configured input through a Sender. A producer goroutine
// feeds callback-sized blocks, the way an audio thread would, while a
// consumer goroutine drains the packet queue.
func Run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Report, error) {
	sc, err := cfg.Analysis.Stft()
	if err != nil {
		return nil, err
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	opts = append(opts, stft.WithLogger(log))

	sender, err := stft.New(sc, opts...)
	if err != nil {
		return nil, err
	}

	samples, err := loadSamples(cfg)
	if err != nil {
		return nil, err
	}

	averaging, err := ParseAveraging(cfg.Report.Average)
	if err != nil {
		return nil, err
	}

	total := len(samples[0])
	q := sender.Queue()
	acc := newAccumulator(sc, sender.Scaling(), averaging, cfg.Report.Packets)
	meters := make([]signal.LevelMeter, len(samples))

	log.WithFields(logrus.Fields{
		"file":        cfg.Input.File,
		"signal":      cfg.Input.Signal,
		"samples":     total,
		"block_size":  cfg.Input.BlockSize,
		"sample_rate": cfg.Input.SampleRate,
	}).Info("starting analysis")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer q.Close()

		block := make([][]float64, len(samples))
		for off := 0; off < total; off += cfg.Input.BlockSize {
			if err := ctx.Err(); err != nil {
				return err
			}

			end := min(off+cfg.Input.BlockSize, total)
			for ch := range block {
				block[ch] = samples[ch][off:end]
				meters[ch].Update(block[ch])
			}

			sender.ProcessSamples(block)
		}

		return nil
	})

	g.Go(func() error {
		for {
			p, err := q.Next(ctx)
			if errors.Is(err, transport.ErrClosed) {
				return nil
			}
			if err != nil {
				return err
			}

			acc.add(p)
			q.Release(p)
		}
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cli: analysis aborted: %w", err)
	}

	st := sender.Stats()

	log.WithFields(logrus.Fields{
		"frames":        st.Frames,
		"received":      acc.received,
		"dropped":       q.Stats().Dropped,
		"kernel_errors": st.KernelErrors,
	}).Info("analysis finished")

	levels := make([]signal.Level, len(meters))
	for ch := range meters {
		levels[ch] = meters[ch].Result()
	}

	return buildReport(cfg, sender, total, levels, acc), nil
}
