package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cwbudde/algo-stft/dsp/window"
)

// WindowInfo describes one window type at a given length.
type WindowInfo struct {
	Key              string  `json:"key" yaml:"key"`
	Name             string  `json:"name" yaml:"name"`
	Size             int     `json:"size" yaml:"size"`
	CoherentGain     float64 `json:"coherent_gain" yaml:"coherent_gain"`
	ENBW             float64 `json:"enbw" yaml:"enbw"`
	HighestSidelobe  float64 `json:"highest_sidelobe_db" yaml:"highest_sidelobe_db"`
	ReferenceScaling float64 `json:"reference_scaling" yaml:"reference_scaling"`
	WindowScaling    float64 `json:"window_scaling" yaml:"window_scaling"`
}

// DescribeWindows measures every supported window at the given length.
func DescribeWindows(size int) ([]WindowInfo, error) {
	if size < 2 {
		return nil, fmt.Errorf("cli: window size must be >= 2: %d", size)
	}

	lower := cases.Lower(language.Und)
	ref := window.ReferenceScaling(size)

	var out []WindowInfo
	for _, t := range window.Types() {
		coeffs := window.Generate(t, size)

		gain, err := window.CoherentGain(coeffs)
		if err != nil {
			return nil, err
		}

		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return nil, err
		}

		out = append(out, WindowInfo{
			Key:              lower.String(t.String()),
			Name:             t.String(),
			Size:             size,
			CoherentGain:     gain,
			ENBW:             enbw,
			HighestSidelobe:  window.Info(t).HighestSidelobe,
			ReferenceScaling: ref,
			WindowScaling:    window.WindowScaling(coeffs),
		})
	}

	return out, nil
}

func (a *app) newWindowsCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List window functions with their spectral properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			infos, err := DescribeWindows(size)
			if err != nil {
				return err
			}

			return writeWindows(cmd.OutOrStdout(), cfg.OutputFormat, infos)
		},
	}

	cmd.Flags().IntVar(&size, "size", 1024, "window length in samples")

	return cmd
}

func writeWindows(w io.Writer, format string, infos []WindowInfo) error {
	if format != "table" {
		return encode(w, format, infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Key\tWindow\tSize\tCoherent Gain\tENBW [bins]\tSidelobe [dB]\tScaling (ref)\tScaling (window)")
	fmt.Fprintln(tw, "---\t------\t----\t-------------\t-----------\t-------------\t-------------\t----------------")

	for _, in := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.6f\t%.4f\t%.1f\t%.6g\t%.6g\n",
			in.Key, in.Name, in.Size, in.CoherentGain, in.ENBW, in.HighestSidelobe,
			in.ReferenceScaling, in.WindowScaling)
	}

	return tw.Flush()
}
