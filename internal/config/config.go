// Package config loads specsend settings from defaults, a YAML file,
// SPECSEND_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-stft/dsp/signal"
	"github.com/cwbudde/algo-stft/dsp/spectrum"
	"github.com/cwbudde/algo-stft/dsp/stft"
	"github.com/cwbudde/algo-stft/dsp/transport"
	"github.com/cwbudde/algo-stft/dsp/window"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SPECSEND"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config represents the application configuration
type Config struct {
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	OutputFormat string `mapstructure:"output_format"`

	Analysis AnalysisConfig `mapstructure:"analysis"`
	Capacity CapacityConfig `mapstructure:"capacity"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Input    InputConfig    `mapstructure:"input"`
	Report   ReportConfig   `mapstructure:"report"`
}

// AnalysisConfig holds the runtime STFT settings
type AnalysisConfig struct {
	FrameSize int    `mapstructure:"frame_size"`
	Overlap   int    `mapstructure:"overlap"`
	Channels  int    `mapstructure:"channels"`
	Window    string `mapstructure:"window"`
	Output    string `mapstructure:"output"`
	Scaling   string `mapstructure:"scaling"`
	Kernel    string `mapstructure:"kernel"`
}

// CapacityConfig bounds the buffers allocated at startup
type CapacityConfig struct {
	MaxChannels  int `mapstructure:"max_channels"`
	MaxFrameSize int `mapstructure:"max_frame_size"`
	MaxOverlap   int `mapstructure:"max_overlap"`
}

// QueueConfig configures the packet queue between sender and consumer
type QueueConfig struct {
	Depth  int    `mapstructure:"depth"`
	Policy string `mapstructure:"policy"`
}

// InputConfig selects the sample source
type InputConfig struct {
	// File is a raw little-endian float32 interleaved PCM file. When empty
	// a test signal is generated.
	File         string        `mapstructure:"file"`
	Signal       string        `mapstructure:"signal"`
	Frequency    float64       `mapstructure:"frequency"`
	EndFrequency float64       `mapstructure:"end_frequency"`
	Amplitude    float64       `mapstructure:"amplitude"`
	Seed         int64         `mapstructure:"seed"`
	Tones        int           `mapstructure:"tones"`
	SampleRate   float64       `mapstructure:"sample_rate"`
	Duration     time.Duration `mapstructure:"duration"`
	BlockSize    int           `mapstructure:"block_size"`
	// Normalize scales the input to this peak before analysis. 0 disables it.
	Normalize    float64       `mapstructure:"normalize"`
}

// ReportConfig shapes the run report
type ReportConfig struct {
	Peaks        int     `mapstructure:"peaks"`
	MinFrequency float64 `mapstructure:"min_frequency"`
	MaxFrequency float64 `mapstructure:"max_frequency"`
	FloorDB      float64 `mapstructure:"floor_db"`
	Packets      bool    `mapstructure:"packets"`
	// Average is "linear" (mean magnitude) or "rms" (root of mean power).
	Average      string  `mapstructure:"average"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	def := stft.DefaultConfig()
	capacity := stft.DefaultCapacity()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("output_format", "table")

	v.SetDefault("analysis.frame_size", def.FrameSize)
	v.SetDefault("analysis.overlap", def.Overlap)
	v.SetDefault("analysis.channels", def.Channels)
	v.SetDefault("analysis.window", def.Window.String())
	v.SetDefault("analysis.output", def.Output.String())
	v.SetDefault("analysis.scaling", stft.ScalingReference.String())
	v.SetDefault("analysis.kernel", "algofft")

	v.SetDefault("capacity.max_channels", 2)
	v.SetDefault("capacity.max_frame_size", capacity.MaxFrameSize)
	v.SetDefault("capacity.max_overlap", capacity.MaxOverlap)

	v.SetDefault("queue.depth", transport.DefaultDepth)
	v.SetDefault("queue.policy", transport.DropNewest.String())

	v.SetDefault("input.file", "")
	v.SetDefault("input.signal", signal.KindSine.String())
	v.SetDefault("input.frequency", 1000.0)
	v.SetDefault("input.end_frequency", 20000.0)
	v.SetDefault("input.amplitude", 1.0)
	v.SetDefault("input.seed", 1)
	v.SetDefault("input.tones", 3)
	v.SetDefault("input.sample_rate", signal.DefaultSampleRate)
	v.SetDefault("input.duration", time.Second)
	v.SetDefault("input.block_size", 512)
	v.SetDefault("input.normalize", 0.0)

	v.SetDefault("report.peaks", 3)
	v.SetDefault("report.min_frequency", 20.0)
	v.SetDefault("report.max_frequency", 20000.0)
	v.SetDefault("report.floor_db", -90.0)
	v.SetDefault("report.packets", false)
	v.SetDefault("report.average", "linear")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	return v
}

// ReadFile merges a YAML config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field and returns the first violation.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json: %q", ErrInvalid, c.LogFormat)
	}

	switch c.OutputFormat {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("%w: output_format must be table, json or yaml: %q", ErrInvalid, c.OutputFormat)
	}

	capacity, err := c.Capacity.Stft()
	if err != nil {
		return fmt.Errorf("%w: capacity: %w", ErrInvalid, err)
	}

	sc, err := c.Analysis.Stft()
	if err != nil {
		return fmt.Errorf("%w: analysis: %w", ErrInvalid, err)
	}

	if err := capacity.ValidateConfig(sc); err != nil {
		return fmt.Errorf("%w: analysis: %w", ErrInvalid, err)
	}

	if _, err := c.Options(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := c.Input.validate(); err != nil {
		return fmt.Errorf("%w: input: %w", ErrInvalid, err)
	}

	if c.Report.Peaks < 0 {
		return fmt.Errorf("%w: report.peaks must be >= 0: %d", ErrInvalid, c.Report.Peaks)
	}

	if c.Report.MinFrequency < 0 || c.Report.MaxFrequency <= c.Report.MinFrequency {
		return fmt.Errorf("%w: report frequency range [%g, %g] is empty",
			ErrInvalid, c.Report.MinFrequency, c.Report.MaxFrequency)
	}

	if c.Report.FloorDB >= 0 {
		return fmt.Errorf("%w: report.floor_db must be < 0: %g", ErrInvalid, c.Report.FloorDB)
	}

	switch c.Report.Average {
	case "linear", "rms":
	default:
		return fmt.Errorf("%w: report.average must be linear or rms: %q", ErrInvalid, c.Report.Average)
	}

	return nil
}

func (in InputConfig) validate() error {
	if in.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be > 0: %g", in.SampleRate)
	}

	if in.BlockSize <= 0 {
		return fmt.Errorf("block_size must be > 0: %d", in.BlockSize)
	}

	if in.Normalize < 0 {
		return fmt.Errorf("normalize must be >= 0: %g", in.Normalize)
	}

	if in.File != "" {
		return nil
	}

	kind, err := signal.ParseKind(in.Signal)
	if err != nil {
		return err
	}

	if kind == signal.KindMultisine && in.Tones <= 0 {
		return fmt.Errorf("tones must be > 0: %d", in.Tones)
	}

	if in.Duration <= 0 {
		return fmt.Errorf("duration must be > 0: %s", in.Duration)
	}

	if in.Amplitude < 0 {
		return fmt.Errorf("amplitude must be >= 0: %g", in.Amplitude)
	}

	return nil
}

// Samples returns the number of generated samples per channel.
func (in InputConfig) Samples() int {
	return int(math.Round(in.Duration.Seconds() * in.SampleRate))
}

// SignalSpec converts the generator settings.
func (in InputConfig) SignalSpec() (signal.Spec, error) {
	kind, err := signal.ParseKind(in.Signal)
	if err != nil {
		return signal.Spec{}, err
	}

	return signal.Spec{
		Kind:         kind,
		Frequency:    in.Frequency,
		EndFrequency: in.EndFrequency,
		Amplitude:    in.Amplitude,
		Tones:        in.Tones,
	}, nil
}

// Stft converts the analysis section into a sender configuration.
func (a AnalysisConfig) Stft() (stft.Config, error) {
	w, err := window.ParseType(a.Window)
	if err != nil {
		return stft.Config{}, err
	}

	out, err := spectrum.ParseLayout(a.Output)
	if err != nil {
		return stft.Config{}, err
	}

	return stft.Config{
		FrameSize: a.FrameSize,
		Overlap:   a.Overlap,
		Channels:  a.Channels,
		Window:    w,
		Output:    out,
	}, nil
}

// Stft converts the capacity section.
func (c CapacityConfig) Stft() (stft.Capacity, error) {
	capacity := stft.Capacity{
		MaxChannels:  c.MaxChannels,
		MaxFrameSize: c.MaxFrameSize,
		MaxOverlap:   c.MaxOverlap,
	}

	return capacity, capacity.Validate()
}

// Options builds the sender options for kernel, scaling, capacity and queue.
func (c *Config) Options() ([]stft.Option, error) {
	kernel, err := stft.ParseKernel(c.Analysis.Kernel)
	if err != nil {
		return nil, err
	}

	scaling, err := stft.ParseScalingMode(c.Analysis.Scaling)
	if err != nil {
		return nil, err
	}

	policy, err := transport.ParsePolicy(c.Queue.Policy)
	if err != nil {
		return nil, err
	}

	if c.Queue.Depth <= 0 {
		return nil, fmt.Errorf("queue.depth must be > 0: %d", c.Queue.Depth)
	}

	return []stft.Option{
		stft.WithCapacity(c.Capacity.MaxChannels, c.Capacity.MaxFrameSize, c.Capacity.MaxOverlap),
		stft.WithKernel(kernel),
		stft.WithScalingMode(scaling),
		stft.WithQueue(c.Queue.Depth, policy),
	}, nil
}

// NewLogger builds a logger writing to w with the configured level and format.
func (c *Config) NewLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)

	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log, nil
}
