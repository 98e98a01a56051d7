package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-stft/internal/testutil"
)

func TestMeasureSine(t *testing.T) {
	// 64 full periods keep the mean at zero.
	x := testutil.DeterministicSine(1000, 64000, 0.5, 4096)
	l := Measure(x)

	if l.Samples != 4096 {
		t.Fatalf("Samples=%d want=4096", l.Samples)
	}

	if math.Abs(l.RMS-0.5/math.Sqrt2) > 1e-9 {
		t.Fatalf("RMS=%f want=%f", l.RMS, 0.5/math.Sqrt2)
	}

	if math.Abs(l.Peak-0.5) > 1e-9 {
		t.Fatalf("Peak=%f want=0.5", l.Peak)
	}

	if math.Abs(l.CrestFactor-math.Sqrt2) > 1e-6 {
		t.Fatalf("CrestFactor=%f want=sqrt(2)", l.CrestFactor)
	}

	if math.Abs(l.DC) > 1e-9 {
		t.Fatalf("DC=%g want=0", l.DC)
	}

	if math.Abs(l.PeakdB-AmplitudeToDB(0.5)) > 1e-9 {
		t.Fatalf("PeakdB=%f want=%f", l.PeakdB, AmplitudeToDB(0.5))
	}
}

func TestMeasureDC(t *testing.T) {
	l := Measure(testutil.DC(-0.25, 100))

	if math.Abs(l.DC+0.25) > 1e-12 {
		t.Fatalf("DC=%f want=-0.25", l.DC)
	}

	if math.Abs(l.CrestFactor-1) > 1e-12 {
		t.Fatalf("CrestFactor=%f want=1", l.CrestFactor)
	}

	if l.ZeroCrossings != 0 {
		t.Fatalf("ZeroCrossings=%d want=0", l.ZeroCrossings)
	}
}

func TestMeasureSilence(t *testing.T) {
	for _, x := range [][]float64{nil, make([]float64, 16)} {
		l := Measure(x)

		if !math.IsInf(l.RMSdB, -1) || !math.IsInf(l.PeakdB, -1) {
			t.Fatalf("silence levels = %f/%f dB, want -Inf", l.RMSdB, l.PeakdB)
		}

		if l.CrestFactor != 0 {
			t.Fatalf("CrestFactor=%f want=0", l.CrestFactor)
		}
	}
}

func TestLevelMeterBlocksMatchWhole(t *testing.T) {
	x := testutil.DeterministicNoise(7, 1, 1000)
	want := Measure(x)

	var m LevelMeter
	for off := 0; off < len(x); off += 96 {
		m.Update(x[off:min(off+96, len(x))])
	}

	got := m.Result()
	if got.Samples != want.Samples || got.ZeroCrossings != want.ZeroCrossings || got.Peak != want.Peak {
		t.Fatalf("block result %+v differs from whole-buffer result %+v", got, want)
	}

	if math.Abs(got.RMS-want.RMS) > 1e-12 || math.Abs(got.DC-want.DC) > 1e-12 {
		t.Fatalf("block RMS/DC %f/%f want %f/%f", got.RMS, got.DC, want.RMS, want.DC)
	}

	m.Reset()
	if r := m.Result(); r.Samples != 0 || r.Peak != 0 {
		t.Fatalf("Reset left %+v", r)
	}
}

func TestZeroCrossingsAcrossBlocks(t *testing.T) {
	var m LevelMeter
	m.Update([]float64{1, -1})
	m.Update([]float64{1})
	m.Update([]float64{0, -1})

	// 0 does not count as a sign change on either side.
	if got := m.Result().ZeroCrossings; got != 2 {
		t.Fatalf("ZeroCrossings=%d want=2", got)
	}
}
