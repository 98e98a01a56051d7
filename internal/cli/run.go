package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze a generated test signal or a raw float32 PCM file",
		Example: `  specsend run --signal sine --frequency 1000
  specsend run --frame-size 2048 --overlap 4 --window blackman-harris -o json
  specsend run --input capture.f32 --channels 2 --sample-rate 44100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			report, err := Run(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			return report.Write(cmd.OutOrStdout(), cfg.OutputFormat)
		},
	}

	v := a.v
	f := cmd.Flags()

	f.Int("frame-size", v.GetInt("analysis.frame_size"), "FFT frame size (power of two)")
	f.Int("overlap", v.GetInt("analysis.overlap"), "number of overlapping frames")
	f.Int("channels", v.GetInt("analysis.channels"), "number of channels")
	f.String("window", v.GetString("analysis.window"), "window function")
	f.String("layout", v.GetString("analysis.output"), "packet layout (Complex, MagPhase)")
	f.String("scaling", v.GetString("analysis.scaling"), "magnitude scaling (reference, window)")
	f.String("kernel", v.GetString("analysis.kernel"), "FFT kernel (algofft, gonum)")

	f.Int("max-channels", v.GetInt("capacity.max_channels"), "channel capacity")
	f.Int("max-frame-size", v.GetInt("capacity.max_frame_size"), "frame size capacity")
	f.Int("max-overlap", v.GetInt("capacity.max_overlap"), "overlap capacity")

	f.Int("queue-depth", v.GetInt("queue.depth"), "packet queue depth")
	f.String("queue-policy", v.GetString("queue.policy"), "overflow policy (drop-newest, drop-oldest)")

	f.StringP("input", "i", v.GetString("input.file"), "raw little-endian float32 interleaved PCM file")
	f.String("signal", v.GetString("input.signal"), "test signal (sine, noise, impulse, dc, sweep, multisine)")
	f.Float64("frequency", v.GetFloat64("input.frequency"), "test signal frequency in Hz (sweep start)")
	f.Float64("end-frequency", v.GetFloat64("input.end_frequency"), "sweep end frequency in Hz")
	f.Float64("amplitude", v.GetFloat64("input.amplitude"), "test signal amplitude")
	f.Int64("seed", v.GetInt64("input.seed"), "noise seed")
	f.Int("tones", v.GetInt("input.tones"), "multisine harmonic count")
	f.Float64("sample-rate", v.GetFloat64("input.sample_rate"), "sample rate in Hz")
	f.Duration("duration", v.GetDuration("input.duration"), "test signal duration")
	f.Int("block-size", v.GetInt("input.block_size"), "samples per processing block")
	f.Float64("normalize", v.GetFloat64("input.normalize"), "scale input to this peak before analysis (0 = off)")

	f.Int("peaks", v.GetInt("report.peaks"), "peaks to report per channel")
	f.Float64("min-frequency", v.GetFloat64("report.min_frequency"), "lowest reported frequency in Hz")
	f.Float64("max-frequency", v.GetFloat64("report.max_frequency"), "highest reported frequency in Hz")
	f.Float64("floor-db", v.GetFloat64("report.floor_db"), "level floor in dB")
	f.Bool("packets", v.GetBool("report.packets"), "include every received packet in json/yaml output")
	f.String("average", v.GetString("report.average"), "spectrum averaging (linear, rms)")

	return cmd
}
