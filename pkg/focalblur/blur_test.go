package focalblur

import (
	"math/rand"
	"testing"

	"github.com/df07/povcore/pkg/core"
)

func constTrace(c core.Vec3, transmit float64) TraceFunc {
	return func(px, py float64, lens core.Vec2) (Sample, bool) {
		return Sample{Color: c, Transmit: transmit}, true
	}
}

func TestRunWithZeroApertureTracesExactlyOnce(t *testing.T) {
	calls := 0
	trace := func(px, py float64, lens core.Vec2) (Sample, bool) {
		calls++
		return Sample{Color: core.NewVec3(0.5, 0.5, 0.5)}, true
	}
	s := New(trace, Config{Aperture: 0, BlurSamples: 16, Confidence: 0.9, Variance: 0.01})

	color, _, n := s.Run(10, 10)
	if calls != 1 || n != 1 {
		t.Errorf("expected exactly 1 trace call for aperture 0, got calls=%d n=%d", calls, n)
	}
	if color != (core.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("color = %v, want (0.5,0.5,0.5)", color)
	}
}

func TestRunWithUniformColorConvergesBeforeExhaustingSamples(t *testing.T) {
	trace := constTrace(core.NewVec3(0.3, 0.3, 0.3), 0)
	s := New(trace, Config{
		Aperture:    1.0,
		BlurSamples: 37,
		Confidence:  0.9,
		Variance:    0.01,
		Rng:         rand.New(rand.NewSource(7)),
	})

	_, _, n := s.Run(5, 5)
	if n >= 37 {
		t.Errorf("expected early exit on a uniform-color frame, traced all %d samples", n)
	}
	if n < 2 {
		t.Errorf("expected at least one batch before convergence, got n=%d", n)
	}
}

func TestRunTracesAllSamplesOnHighVarianceInput(t *testing.T) {
	i := 0
	trace := func(px, py float64, lens core.Vec2) (Sample, bool) {
		i++
		if i%2 == 0 {
			return Sample{Color: core.NewVec3(1, 1, 1)}, true
		}
		return Sample{Color: core.Vec3{}}, true
	}
	s := New(trace, Config{
		Aperture:    1.0,
		BlurSamples: 7,
		Confidence:  0.9,
		Variance:    0.0001,
		Rng:         rand.New(rand.NewSource(3)),
	})

	_, _, n := s.Run(0, 0)
	if n != 7 {
		t.Errorf("expected all 7 samples traced under alternating black/white input, got n=%d", n)
	}
}

func TestRunHandlesMissAsTransmissiveBlack(t *testing.T) {
	trace := func(px, py float64, lens core.Vec2) (Sample, bool) {
		return Sample{}, false
	}
	s := New(trace, Config{Aperture: 0.5, BlurSamples: 4, Confidence: 0.9, Variance: 0.01})

	color, transmit, n := s.Run(0, 0)
	if color != (core.Vec3{}) {
		t.Errorf("color = %v, want black", color)
	}
	if transmit != 1 {
		t.Errorf("transmit = %f, want 1 (fully transmissive on a miss)", transmit)
	}
	if n != 4 {
		t.Errorf("expected all 4 corner samples traced, got n=%d", n)
	}
}

func TestSampleThresholdsSingleSampleIsZero(t *testing.T) {
	th := sampleThresholds(1, 0.01, 0.9)
	if len(th) != 1 || th[0] != 0 {
		t.Errorf("sampleThresholds(1, ...) = %v, want [0]", th)
	}
}

func TestSampleThresholdsEmptyForZeroSamples(t *testing.T) {
	if th := sampleThresholds(0, 0.01, 0.9); th != nil {
		t.Errorf("sampleThresholds(0, ...) = %v, want nil", th)
	}
}

func TestChiSquareInverseIsPositiveAndDecreasingInP(t *testing.T) {
	low := chiSquareInverse(4, 0.1)
	high := chiSquareInverse(4, 0.9)
	if low <= 0 || high <= 0 {
		t.Fatalf("chiSquareInverse should return positive quantiles, got low=%f high=%f", low, high)
	}
	if high >= low {
		t.Errorf("chiSquareInverse(df, 0.9) should be smaller than chiSquareInverse(df, 0.1) (larger tail mass -> smaller threshold), got low=%f high=%f", low, high)
	}
}

func TestVarianceOfConstantSamplesIsZero(t *testing.T) {
	v := variance(4*9, 4*3, 4) // four samples all equal to 3
	if v < -1e-9 || v > 1e-9 {
		t.Errorf("variance of constant samples = %f, want ~0", v)
	}
}
