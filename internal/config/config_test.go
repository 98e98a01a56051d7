package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-stft/dsp/signal"
	"github.com/cwbudde/algo-stft/dsp/stft"
	"github.com/cwbudde/algo-stft/dsp/window"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "table", cfg.OutputFormat)
	assert.Equal(t, 512, cfg.Input.BlockSize)
	assert.Equal(t, time.Second, cfg.Input.Duration)
	assert.Equal(t, 48000, cfg.Input.Samples())
	assert.Equal(t, 3, cfg.Input.Tones)
	assert.Zero(t, cfg.Input.Normalize)
	assert.Equal(t, "linear", cfg.Report.Average)

	sc, err := cfg.Analysis.Stft()
	require.NoError(t, err)
	assert.Equal(t, stft.DefaultConfig(), sc)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	s, err := stft.New(sc, opts...)
	require.NoError(t, err)
	assert.Equal(t, 64, s.Queue().Depth())
}

func TestReadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specsend.yaml")
	yaml := `
log_level: debug
output_format: yaml
analysis:
  frame_size: 256
  overlap: 4
  channels: 2
  window: blackman-harris
  output: complex
  scaling: window
  kernel: gonum
queue:
  depth: 8
  policy: drop-oldest
input:
  signal: noise
  duration: 250ms
  sample_rate: 44100
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	v := New()
	require.NoError(t, ReadFile(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)

	sc, err := cfg.Analysis.Stft()
	require.NoError(t, err)
	assert.Equal(t, stft.Config{
		FrameSize: 256,
		Overlap:   4,
		Channels:  2,
		Window:    window.TypeBlackmanHarris,
		Output:    stft.OutputComplex,
	}, sc)

	assert.Equal(t, 250*time.Millisecond, cfg.Input.Duration)
	assert.Equal(t, 11025, cfg.Input.Samples())

	spec, err := cfg.Input.SignalSpec()
	require.NoError(t, err)
	assert.Equal(t, signal.KindNoise, spec.Kind)

	opts, err := cfg.Options()
	require.NoError(t, err)

	s, err := stft.New(sc, opts...)
	require.NoError(t, err)
	assert.Equal(t, stft.ScalingSelectedWindow, s.ScalingMode())
	assert.Equal(t, 8, s.Queue().Depth())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SPECSEND_ANALYSIS_FRAME_SIZE", "2048")
	t.Setenv("SPECSEND_OUTPUT_FORMAT", "json")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, 2048, cfg.Analysis.FrameSize)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestReadFileMissing(t *testing.T) {
	err := ReadFile(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	require.NoError(t, ReadFile(New(), ""))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"log level", "log_level", "loud"},
		{"log format", "log_format", "xml"},
		{"output format", "output_format", "csv"},
		{"frame size", "analysis.frame_size", 1000},
		{"frame size above capacity", "analysis.frame_size", 8192},
		{"overlap", "analysis.overlap", 0},
		{"overlap not dividing frame size", "analysis.overlap", 3},
		{"frame size below minimum", "analysis.frame_size", 2},
		{"channels", "analysis.channels", 3},
		{"window", "analysis.window", "kaiser"},
		{"output", "analysis.output", "phase"},
		{"scaling", "analysis.scaling", "peak"},
		{"kernel", "analysis.kernel", "fftw"},
		{"capacity", "capacity.max_frame_size", 3000},
		{"queue depth", "queue.depth", 0},
		{"queue policy", "queue.policy", "block"},
		{"signal", "input.signal", "square"},
		{"duration", "input.duration", "0s"},
		{"block size", "input.block_size", 0},
		{"sample rate", "input.sample_rate", 0},
		{"normalize", "input.normalize", -1.0},
		{"average", "report.average", "peak"},
		{"peaks", "report.peaks", -1},
		{"frequency range", "report.max_frequency", 10.0},
		{"floor", "report.floor_db", 3.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New()
			v.Set(tc.key, tc.val)

			_, err := Load(v)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestMultisineTones(t *testing.T) {
	v := New()
	v.Set("input.signal", "multisine")
	v.Set("input.tones", 5)

	cfg, err := Load(v)
	require.NoError(t, err)

	spec, err := cfg.Input.SignalSpec()
	require.NoError(t, err)
	assert.Equal(t, signal.KindMultisine, spec.Kind)
	assert.Equal(t, 5, spec.Tones)

	v.Set("input.tones", 0)
	_, err = Load(v)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestFileInputSkipsGeneratorChecks(t *testing.T) {
	v := New()
	v.Set("input.file", "samples.f32")
	v.Set("input.signal", "unused")

	_, err := Load(v)
	require.NoError(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"

	var buf bytes.Buffer

	log, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("frame_size", 1024).Debug("configured")
	assert.Contains(t, buf.String(), `"frame_size":1024`)

	cfg.LogLevel = "nope"
	_, err = cfg.NewLogger(&buf)
	require.Error(t, err)
}
