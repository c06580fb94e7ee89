package focalblur

import (
	"math/rand"

	"github.com/df07/povcore/pkg/core"
	"gonum.org/v1/gonum/stat/distuv"
)

// SubPixelGridSize is the jittered sub-pixel grid focal_blur chooses a
// location from before applying aperture jitter, independent of the
// aperture sample count (spec.md §4.7: "sub_pixel_grid × sub_pixel_grid
// jittered sub-pixel grid").
const SubPixelGridSize = 16

// Sample is the per-ray trace result focal blur accumulates variance
// over. Transmit is carried alongside color because the termination test
// requires variance on "all four channels (including transmittance)"
// (spec.md §4.7), and core.Vec3 alone only carries RGB.
type Sample struct {
	Color    core.Vec3
	Transmit float64
}

// TraceFunc shoots a primary ray built from a (px+dx, py+dy) pixel-space
// offset plus an aperture-space lens offset, returning the traced sample.
// ok=false means the camera rejected this pixel location (e.g. fisheye
// outside the unit disk) and contributes a fully-transmissive black
// sample, matching the reference renderer's miss handling.
type TraceFunc func(px, py float64, lensOffset core.Vec2) (Sample, bool)

// Config bundles the focal-blur sampler's tunables (spec.md §4.7).
type Config struct {
	Aperture    float64 // lens diameter; 0 disables focal blur
	BlurSamples int     // max rays per pixel
	Confidence  float64 // e.g. 0.9; probability mass the early-exit test must clear
	Variance    float64 // a priori per-channel variance threshold before scaling
	Rng         *rand.Rand
}

// Sampler drives the aperture-sample confidence-test loop over a Trace
// callback.
type Sampler struct {
	Trace TraceFunc
	Cfg   Config

	grid       []core.Vec2
	batches    []int
	maxJitter  float64
	thresholds []float64
}

// New builds a Sampler, precomputing the aperture grid and the per-sample
// confidence thresholds once up front — the same "constants precomputed
// once" discipline pkg/sampler's Camera uses for its own per-frame setup.
func New(trace TraceFunc, cfg Config) *Sampler {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(1))
	}
	s := &Sampler{Trace: trace, Cfg: cfg}
	s.grid, s.batches, s.maxJitter = apertureGrid(cfg.BlurSamples, cfg.Rng)
	s.thresholds = sampleThresholds(cfg.BlurSamples, cfg.Variance, cfg.Confidence)
	return s
}

// sampleThresholds builds the per-sample-count early-exit variance bound:
// T1 = variance / chiSquareInverse(n-1, confidence), then
// threshold[i] = T1 * chiSquareInverse(i+1, confidence), matching the
// reference renderer's Sample_Threshold table (RENDER.C, trace_pixel
// init).
func sampleThresholds(n int, variance, confidence float64) []float64 {
	if n <= 0 {
		return nil
	}
	thresholds := make([]float64, n)
	if n == 1 {
		thresholds[0] = 0
		return thresholds
	}
	t1 := variance / chiSquareInverse(float64(n-1), confidence)
	for i := 0; i < n; i++ {
		thresholds[i] = t1 * chiSquareInverse(float64(i+1), confidence)
	}
	return thresholds
}

// chiSquareInverse returns x such that P(X > x) = p for a chi-square
// distribution with df degrees of freedom (the Cephes chdtri the
// reference renderer calls), expressed via gonum's CDF-quantile
// convention: Quantile(1-p) is the x with CDF(x) = 1-p, i.e. the upper
// tail beyond x has mass p.
func chiSquareInverse(df, p float64) float64 {
	return distuv.ChiSquared{K: df}.Quantile(1 - p)
}

// Run performs the batch-by-batch confidence-test loop: shoot samples in
// groups sized by the grid's batch schedule (falling back to quartets once
// the schedule is exhausted), accumulate running sum and sum-of-squares
// per channel, and stop once every channel's variance clears its
// threshold for the current sample count — or once BlurSamples is
// exhausted.
func (s *Sampler) Run(px, py float64) (core.Vec3, float64, int) {
	if s.Cfg.BlurSamples <= 0 || s.Cfg.Aperture == 0 {
		sample, _ := s.Trace(px, py, core.Vec2{})
		return sample.Color, sample.Transmit, 1
	}

	var colorSum, colorSqSum core.Vec3
	var transmitSum, transmitSqSum float64
	n := 0
	level := 0

	for n < len(s.grid) {
		batch := 4
		if level < len(s.batches) && s.batches[level] > 0 {
			batch = s.batches[level]
			level++
		}

		for i := 0; i < batch && n < len(s.grid); i++ {
			lens := s.jitteredLens(n)
			dx, dy := s.jitteredSubPixel()

			sample, ok := s.Trace(px+dx, py+dy, lens)
			if !ok {
				sample = Sample{Transmit: 1}
			}

			colorSum = colorSum.Add(sample.Color)
			colorSqSum = colorSqSum.Add(squareVec(sample.Color))
			transmitSum += sample.Transmit
			transmitSqSum += sample.Transmit * sample.Transmit
			n++
		}

		if s.converged(n, colorSum, colorSqSum, transmitSum, transmitSqSum) {
			break
		}
	}

	fn := float64(n)
	return colorSum.Multiply(1 / fn), transmitSum / fn, n
}

// converged reports whether the per-channel variance at sample count n has
// fallen below this run's threshold for n-1 (spec.md §4.7 termination).
func (s *Sampler) converged(n int, colorSum, colorSqSum core.Vec3, transmitSum, transmitSqSum float64) bool {
	if n < 2 || n > len(s.thresholds) {
		return false
	}
	threshold := s.thresholds[n-1]
	fn := float64(n)

	vr := variance(colorSqSum.X, colorSum.X, fn)
	vg := variance(colorSqSum.Y, colorSum.Y, fn)
	vb := variance(colorSqSum.Z, colorSum.Z, fn)
	vt := variance(transmitSqSum, transmitSum, fn)

	return vr < threshold && vg < threshold && vb < threshold && vt < threshold
}

func variance(sqSum, sum, n float64) float64 {
	mean := sum / n
	return (sqSum/n - mean*mean) / n
}

func squareVec(v core.Vec3) core.Vec3 {
	return core.NewVec3(v.X*v.X, v.Y*v.Y, v.Z*v.Z)
}

// jitteredLens returns the aperture-space offset for the i-th sample: its
// precomputed grid position plus a per-sample jitter bounded by
// maxJitter, scaled by the lens radius.
func (s *Sampler) jitteredLens(i int) core.Vec2 {
	r := s.Cfg.Aperture * 0.5
	xjit := s.maxJitter * (2*s.Cfg.Rng.Float64() - 1)
	yjit := s.maxJitter * (2*s.Cfg.Rng.Float64() - 1)
	return core.Vec2{
		X: r * (s.grid[i].X + xjit),
		Y: r * (s.grid[i].Y + yjit),
	}
}

// jitteredSubPixel picks a random cell of the sub_pixel_grid × sub_pixel_grid
// grid and jitters within it, independent of the aperture sample grid
// (spec.md §4.7).
func (s *Sampler) jitteredSubPixel() (float64, float64) {
	dxi := s.Cfg.Rng.Intn(SubPixelGridSize)
	dyi := s.Cfg.Rng.Intn(SubPixelGridSize)

	dx := float64(2*dxi+1)/float64(2*SubPixelGridSize) - 0.5
	dy := float64(2*dyi+1)/float64(2*SubPixelGridSize) - 0.5

	dx += (s.Cfg.Rng.Float64() - 0.5) / SubPixelGridSize
	dy += (s.Cfg.Rng.Float64() - 0.5) / SubPixelGridSize

	return dx, dy
}
