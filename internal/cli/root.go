// Package cli implements the specsend command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-stft/internal/config"
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":      "log_level",
	"log-format":     "log_format",
	"output":         "output_format",
	"frame-size":     "analysis.frame_size",
	"overlap":        "analysis.overlap",
	"channels":       "analysis.channels",
	"window":         "analysis.window",
	"layout":         "analysis.output",
	"scaling":        "analysis.scaling",
	"kernel":         "analysis.kernel",
	"max-channels":   "capacity.max_channels",
	"max-frame-size": "capacity.max_frame_size",
	"max-overlap":    "capacity.max_overlap",
	"queue-depth":    "queue.depth",
	"queue-policy":   "queue.policy",
	"input":          "input.file",
	"signal":         "input.signal",
	"frequency":      "input.frequency",
	"end-frequency":  "input.end_frequency",
	"amplitude":      "input.amplitude",
	"seed":           "input.seed",
	"tones":          "input.tones",
	"sample-rate":    "input.sample_rate",
	"duration":       "input.duration",
	"block-size":     "input.block_size",
	"normalize":      "input.normalize",
	"peaks":          "report.peaks",
	"min-frequency":  "report.min_frequency",
	"max-frequency":  "report.max_frequency",
	"floor-db":       "report.floor_db",
	"packets":        "report.packets",
	"average":        "report.average",
}

type app struct {
	v          *viper.Viper
	configFile string
}

// NewRootCommand builds the specsend command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:   "specsend",
		Short: "Real-time STFT spectrum sender",
		Long: `specsend streams multichannel audio through an overlapped short-time
Fourier transform and hands the spectra to a consumer over a bounded queue,
the way an audio plugin feeds its spectrum display.

Settings are read, in increasing priority, from built-in defaults, a YAML
config file, SPECSEND_* environment variables and command line flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (YAML)")
	pf.String("log-level", a.v.GetString("log_level"), "log level (debug, info, warn, error)")
	pf.String("log-format", a.v.GetString("log_format"), "log format (text, json)")
	pf.StringP("output", "o", a.v.GetString("output_format"), "output format (table, json, yaml)")

	cmd.AddCommand(a.newRunCommand(), a.newWindowsCommand())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if err := config.ReadFile(a.v, a.configFile); err != nil {
		return err
	}

	return bindFlags(cmd.Flags(), a.v)
}

// bindFlags binds each known flag to its configuration key. Flags only
// override the file and environment when set explicitly.
func bindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	var lastErr error

	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}

		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

func (a *app) load(stderr io.Writer) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(a.v)
	if err != nil {
		return nil, nil, err
	}

	log, err := cfg.NewLogger(stderr)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}
