package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-stft/dsp/signal"
	"github.com/cwbudde/algo-stft/dsp/spectrum"
	"github.com/cwbudde/algo-stft/dsp/stft"
	"github.com/cwbudde/algo-stft/dsp/transport"
	"github.com/cwbudde/algo-stft/internal/config"
)

// Report summarizes one analysis run.
type Report struct {
	Analysis AnalysisSummary      `json:"analysis" yaml:"analysis"`
	Input    InputSummary         `json:"input" yaml:"input"`
	Counters Counters             `json:"counters" yaml:"counters"`
	Channels []ChannelReport      `json:"channels" yaml:"channels"`
	Packets  []transport.Snapshot `json:"packets,omitempty" yaml:"packets,omitempty"`
}

// AnalysisSummary echoes the effective sender settings.
type AnalysisSummary struct {
	FrameSize   int     `json:"frame_size" yaml:"frame_size"`
	Overlap     int     `json:"overlap" yaml:"overlap"`
	Hop         int     `json:"hop" yaml:"hop"`
	Channels    int     `json:"channels" yaml:"channels"`
	Window      string  `json:"window" yaml:"window"`
	Output      string  `json:"output" yaml:"output"`
	ScalingMode string  `json:"scaling_mode" yaml:"scaling_mode"`
	Scaling     float64 `json:"scaling" yaml:"scaling"`
	Kernel      string  `json:"kernel" yaml:"kernel"`
	QueueDepth  int     `json:"queue_depth" yaml:"queue_depth"`
	QueuePolicy string  `json:"queue_policy" yaml:"queue_policy"`
	Average     string  `json:"average" yaml:"average"`
}

// InputSummary describes the analyzed samples.
type InputSummary struct {
	File       string  `json:"file,omitempty" yaml:"file,omitempty"`
	Signal     string  `json:"signal,omitempty" yaml:"signal,omitempty"`
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate"`
	Samples    int     `json:"samples" yaml:"samples"`
	BlockSize  int     `json:"block_size" yaml:"block_size"`
	Normalize  float64 `json:"normalize,omitempty" yaml:"normalize,omitempty"`
}

// Counters merges sender and queue statistics.
type Counters struct {
	Frames         uint64 `json:"frames" yaml:"frames"`
	Published      uint64 `json:"published" yaml:"published"`
	Received       int    `json:"received" yaml:"received"`
	Dropped        uint64 `json:"dropped" yaml:"dropped"`
	KernelErrors   uint64 `json:"kernel_errors" yaml:"kernel_errors"`
	SkippedBlocks  uint64 `json:"skipped_blocks" yaml:"skipped_blocks"`
	RejectedBlocks uint64 `json:"rejected_blocks" yaml:"rejected_blocks"`
}

// ChannelReport describes the input level and averaged spectrum of one
// channel.
type ChannelReport struct {
	Channel int            `json:"channel" yaml:"channel"`
	Level   signal.Level   `json:"level" yaml:"level"`
	Shape   spectrum.Shape `json:"shape" yaml:"shape"`
	Peaks   []Peak         `json:"peaks" yaml:"peaks"`
}

// Peak is one local maximum of the averaged magnitude spectrum.
type Peak struct {
	Bin         int     `json:"bin" yaml:"bin"`
	FrequencyHz float64 `json:"frequency_hz" yaml:"frequency_hz"`
	Magnitude   float64 `json:"magnitude" yaml:"magnitude"`
	Decibels    float64 `json:"db" yaml:"db"`
}

func buildReport(cfg *config.Config, s *stft.Sender, samples int, levels []signal.Level, acc *accumulator) *Report {
	sc := s.Config()
	st := s.Stats()
	q := s.Queue()

	r := &Report{
		Analysis: AnalysisSummary{
			FrameSize:   sc.FrameSize,
			Overlap:     sc.Overlap,
			Hop:         sc.Hop(),
			Channels:    sc.Channels,
			Window:      sc.Window.String(),
			Output:      sc.Output.String(),
			ScalingMode: s.ScalingMode().String(),
			Scaling:     s.Scaling(),
			Kernel:      cfg.Analysis.Kernel,
			QueueDepth:  q.Depth(),
			QueuePolicy: q.Policy().String(),
			Average:     acc.averaging.String(),
		},
		Input: InputSummary{
			File:       cfg.Input.File,
			SampleRate: cfg.Input.SampleRate,
			Samples:    samples,
			BlockSize:  cfg.Input.BlockSize,
			Normalize:  cfg.Input.Normalize,
		},
		Counters: Counters{
			Frames:         st.Frames,
			Published:      q.Stats().Published,
			Received:       acc.received,
			Dropped:        q.Stats().Dropped,
			KernelErrors:   st.KernelErrors,
			SkippedBlocks:  st.SkippedBlocks,
			RejectedBlocks: st.RejectedBlocks,
		},
		Packets: acc.snapshots,
	}

	if cfg.Input.File == "" {
		r.Input.Signal = cfg.Input.Signal
	}

	for ch := range sc.Channels {
		mag := acc.mean(ch)

		level := levels[ch]
		level.RMSdB = max(level.RMSdB, cfg.Report.FloorDB)
		level.PeakdB = max(level.PeakdB, cfg.Report.FloorDB)

		r.Channels = append(r.Channels, ChannelReport{
			Channel: ch,
			Level:   level,
			Shape:   spectrum.Describe(mag, sc.FrameSize, cfg.Input.SampleRate),
			Peaks:   findPeaks(mag, sc.FrameSize, cfg.Input.SampleRate, cfg.Report),
		})
	}

	return r
}

// findPeaks returns up to rc.Peaks local maxima of mag inside the report
// frequency range, strongest first. Peaks at or below the dB floor are
// skipped.
func findPeaks(mag []float64, frameSize int, sampleRate float64, rc config.ReportConfig) []Peak {
	db := make([]float64, len(mag))
	spectrum.ToDecibels(db, mag, rc.FloorDB)

	lo := spectrum.FrequencyBin(rc.MinFrequency, frameSize, sampleRate)
	hi := min(spectrum.FrequencyBin(rc.MaxFrequency, frameSize, sampleRate), len(mag)-1)

	var peaks []Peak
	for k := lo; k <= hi; k++ {
		if db[k] <= rc.FloorDB {
			continue
		}

		if k > 0 && mag[k-1] > mag[k] {
			continue
		}

		if k+1 < len(mag) && mag[k+1] >= mag[k] {
			continue
		}

		peaks = append(peaks, Peak{
			Bin:         k,
			FrequencyHz: spectrum.BinFrequency(k, frameSize, sampleRate),
			Magnitude:   mag[k],
			Decibels:    db[k],
		})
	}

	slices.SortStableFunc(peaks, func(a, b Peak) int {
		switch {
		case a.Magnitude > b.Magnitude:
			return -1
		case a.Magnitude < b.Magnitude:
			return 1
		default:
			return 0
		}
	})

	if len(peaks) > rc.Peaks {
		peaks = peaks[:rc.Peaks]
	}

	return peaks
}

// Write renders r as "table", "json" or "yaml".
func (r *Report) Write(w io.Writer, format string) error {
	if format == "table" {
		return r.writeTable(w)
	}

	return encode(w, format, r)
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("cli: unknown output format %q", format)
	}
}

func (r *Report) writeTable(w io.Writer) error {
	title := cases.Title(language.English)
	a := r.Analysis
	c := r.Counters

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if r.Input.File != "" {
		fmt.Fprintf(tw, "Input\t%s\n", r.Input.File)
	} else {
		fmt.Fprintf(tw, "Signal\t%s\n", title.String(r.Input.Signal))
	}
	fmt.Fprintf(tw, "Samples\t%d @ %g Hz, blocks of %d\n", r.Input.Samples, r.Input.SampleRate, r.Input.BlockSize)
	fmt.Fprintf(tw, "Frame\t%d, overlap %d (hop %d), %d channel(s)\n", a.FrameSize, a.Overlap, a.Hop, a.Channels)
	fmt.Fprintf(tw, "Window\t%s, %s output, %s scaling %.6g\n", a.Window, a.Output, a.ScalingMode, a.Scaling)
	fmt.Fprintf(tw, "Queue\t%d packets, %s\n", a.QueueDepth, a.QueuePolicy)
	fmt.Fprintf(tw, "Average\t%s\n", a.Average)
	fmt.Fprintf(tw, "Frames\t%d completed, %d published, %d received, %d dropped\n",
		c.Frames, c.Published, c.Received, c.Dropped)

	if c.KernelErrors > 0 {
		fmt.Fprintf(tw, "Kernel errors\t%d\n", c.KernelErrors)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Channel\tRMS [dB]\tPeak [dB]\tCrest\tCentroid [Hz]\tRolloff [Hz]\tFlatness")
	fmt.Fprintln(tw, "-------\t--------\t---------\t-----\t-------------\t------------\t--------")

	for _, ch := range r.Channels {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.3f\t%.1f\t%.1f\t%.4f\n", ch.Channel,
			ch.Level.RMSdB, ch.Level.PeakdB, ch.Level.CrestFactor,
			ch.Shape.Centroid, ch.Shape.Rolloff, ch.Shape.Flatness)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Channel\tBin\tFrequency [Hz]\tMagnitude\tLevel [dB]")
	fmt.Fprintln(tw, "-------\t---\t--------------\t---------\t----------")

	for _, ch := range r.Channels {
		for _, p := range ch.Peaks {
			fmt.Fprintf(tw, "%d\t%d\t%.1f\t%.6f\t%.2f\n", ch.Channel, p.Bin, p.FrequencyHz, p.Magnitude, p.Decibels)
		}
	}

	return tw.Flush()
}
