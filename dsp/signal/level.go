package signal

import "math"

// Level holds time-domain level statistics of a signal.
type Level struct {
	Samples       int     `json:"samples" yaml:"samples"`
	DC            float64 `json:"dc" yaml:"dc"`
	RMS           float64 `json:"rms" yaml:"rms"`
	RMSdB         float64 `json:"rms_db" yaml:"rms_db"`
	Peak          float64 `json:"peak" yaml:"peak"`
	PeakdB        float64 `json:"peak_db" yaml:"peak_db"`
	CrestFactor   float64 `json:"crest_factor" yaml:"crest_factor"`
	ZeroCrossings int     `json:"zero_crossings" yaml:"zero_crossings"`
}

// LevelMeter accumulates Level statistics across blocks. The zero value is
// ready to use.
type LevelMeter struct {
	n             int
	mean          float64
	sumSq         float64
	peak          float64
	last          float64
	zeroCrossings int
}

// Update adds a block of samples.
func (m *LevelMeter) Update(samples []float64) {
	for _, x := range samples {
		m.n++
		m.mean += (x - m.mean) / float64(m.n)
		m.sumSq += x * x
		m.peak = max(m.peak, math.Abs(x))

		if m.n > 1 && m.last*x < 0 {
			m.zeroCrossings++
		}

		m.last = x
	}
}

// Result returns the statistics of every sample seen since the last Reset.
// Levels in dB are -Inf for silence and floorDB is not applied.
func (m *LevelMeter) Result() Level {
	l := Level{
		Samples:       m.n,
		DC:            m.mean,
		Peak:          m.peak,
		PeakdB:        AmplitudeToDB(m.peak),
		RMSdB:         math.Inf(-1),
		ZeroCrossings: m.zeroCrossings,
	}

	if m.n == 0 {
		return l
	}

	l.RMS = math.Sqrt(m.sumSq / float64(m.n))
	l.RMSdB = AmplitudeToDB(l.RMS)

	if l.RMS > 0 {
		l.CrestFactor = l.Peak / l.RMS
	}

	return l
}

// Reset clears the meter.
func (m *LevelMeter) Reset() {
	*m = LevelMeter{}
}

// Measure returns the Level of a single buffer.
func Measure(samples []float64) Level {
	var m LevelMeter
	m.Update(samples)

	return m.Result()
}

// AmplitudeToDB returns 20*log10(|a|), or -Inf for zero.
func AmplitudeToDB(a float64) float64 {
	a = math.Abs(a)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}
