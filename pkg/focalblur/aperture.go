// Package focalblur implements the focal-blur sampler (spec.md §4.7):
// variance-driven aperture sampling with early exit, built as a driver over
// a raytracer.Tracer-shaped trace callback the same way pkg/sampler is.
package focalblur

import (
	"math"

	"github.com/df07/povcore/pkg/core"
)

// The standard grid is the 2x2 corner grid, or, once blur_samples reaches
// their size, the largest of three hexagonal grids, which then replaces the
// 2x2 grid; any remaining samples beyond the chosen standard grid are
// filled from a uniform sub-grid. Coordinates and per-batch sample counts below are taken
// directly from the reference renderer's aperture tables.
const (
	hexGrid2Size = 7
	hexGrid3Size = 19
	hexGrid4Size = 37
)

var cornerGrid = []core.Vec2{
	{X: -0.25, Y: 0.25},
	{X: 0.25, Y: 0.25},
	{X: -0.25, Y: -0.25},
	{X: 0.25, Y: -0.25},
}

const hexJitter2 = 0.144338

var hexGrid2 = []core.Vec2{
	{X: -0.288675, Y: 0.000000},
	{X: 0.000000, Y: 0.000000},
	{X: 0.288675, Y: 0.000000},
	{X: -0.144338, Y: 0.250000},
	{X: -0.144338, Y: -0.250000},
	{X: 0.144338, Y: 0.250000},
	{X: 0.144338, Y: -0.250000},
}

var hexGrid2Batches = []int{7}

const hexJitter3 = 0.096225

var hexGrid3 = []core.Vec2{
	{X: -0.192450, Y: 0.333333},
	{X: -0.192450, Y: -0.333333},
	{X: 0.192450, Y: 0.333333},
	{X: 0.192450, Y: -0.333333},
	{X: 0.384900, Y: 0.000000},
	{X: -0.384900, Y: 0.000000},
	{X: 0.000000, Y: 0.000000},

	{X: 0.000000, Y: 0.333333},
	{X: 0.000000, Y: -0.333333},
	{X: -0.288675, Y: 0.166667},
	{X: -0.288675, Y: -0.166667},
	{X: 0.288675, Y: 0.166667},
	{X: 0.288675, Y: -0.166667},

	{X: -0.096225, Y: 0.166667},
	{X: -0.096225, Y: -0.166667},
	{X: 0.096225, Y: 0.166667},
	{X: 0.096225, Y: -0.166667},
	{X: -0.192450, Y: 0.000000},
	{X: 0.192450, Y: 0.000000},
}

var hexGrid3Batches = []int{7, 6, 6}

const hexJitter4 = 0.0721688

var hexGrid4 = []core.Vec2{
	{X: 0.000000, Y: 0.000000},
	{X: -0.216506, Y: 0.375000},
	{X: 0.216506, Y: -0.375000},
	{X: -0.216506, Y: -0.375000},
	{X: 0.216506, Y: 0.375000},
	{X: -0.433013, Y: 0.000000},
	{X: 0.433013, Y: 0.000000},

	{X: -0.144338, Y: 0.250000},
	{X: 0.144338, Y: -0.250000},
	{X: -0.144338, Y: -0.250000},
	{X: 0.144338, Y: 0.250000},
	{X: -0.288675, Y: 0.000000},
	{X: 0.288675, Y: 0.000000},

	{X: -0.072169, Y: 0.125000},
	{X: 0.072169, Y: -0.125000},
	{X: -0.072169, Y: -0.125000},
	{X: 0.072169, Y: 0.125000},
	{X: -0.144338, Y: 0.000000},
	{X: 0.144338, Y: 0.000000},

	{X: -0.360844, Y: 0.125000},
	{X: -0.360844, Y: -0.125000},
	{X: 0.360844, Y: 0.125000},
	{X: 0.360844, Y: -0.125000},

	{X: -0.288675, Y: 0.250000},
	{X: -0.288675, Y: -0.250000},
	{X: 0.288675, Y: 0.250000},
	{X: 0.288675, Y: -0.250000},

	{X: -0.072169, Y: 0.375000},
	{X: -0.072169, Y: -0.375000},
	{X: 0.072169, Y: 0.375000},
	{X: 0.072169, Y: -0.375000},

	{X: -0.216506, Y: 0.125000},
	{X: -0.216506, Y: -0.125000},
	{X: 0.216506, Y: 0.125000},
	{X: 0.216506, Y: -0.125000},

	{X: 0.000000, Y: 0.250000},
	{X: 0.000000, Y: -0.250000},
}

var hexGrid4Batches = []int{7, 6, 6, 4, 4, 4, 4, 2}

// apertureGrid builds the aperture sample positions for blurSamples rays:
// the best-fitting standard grid (2x2, 7-hex, 19-hex, or 37-hex) followed
// by a uniformly distributed fill for any samples beyond it. It returns
// the positions, the per-batch sample-count schedule used by the
// confidence test loop, and the max-jitter value paired with that grid.
func apertureGrid(blurSamples int, rng randSource) ([]core.Vec2, []int, float64) {
	if blurSamples <= 0 {
		return nil, nil, 0
	}

	standard := cornerGrid
	standardBatches := []int{4}
	maxJitter := 1.0 / (2.0 * sqrtInt(blurSamples))

	switch {
	case blurSamples >= hexGrid4Size:
		standard, standardBatches, maxJitter = hexGrid4, hexGrid4Batches, hexJitter4
	case blurSamples >= hexGrid3Size:
		standard, standardBatches, maxJitter = hexGrid3, hexGrid3Batches, hexJitter3
	case blurSamples >= hexGrid2Size:
		standard, standardBatches, maxJitter = hexGrid2, hexGrid2Batches, hexJitter2
	}

	n := len(standard)
	if n > blurSamples {
		n = blurSamples
	}
	grid := make([]core.Vec2, blurSamples)
	copy(grid, standard[:n])

	if blurSamples > len(standard) {
		fillUniform(grid, len(standard), rng)
	}

	batches := standardBatches
	if n < len(standard) {
		batches = []int{n}
	}
	return grid, batches, maxJitter
}

// fillUniform distributes grid[from:] over a uniform sub-grid sized to
// just exceed sqrt(len(grid)), skipping cells the standard grid already
// covers, exactly as the reference renderer's "remaining samples from a
// uniform grid" step does.
func fillUniform(grid []core.Vec2, from int, rng randSource) {
	size := intSqrt(len(grid)) + 1
	if size%2 == 0 {
		size++
	}

	covered := make([][]bool, size)
	for i := range covered {
		covered[i] = make([]bool, size)
	}
	for i := 0; i < from; i++ {
		xi := int((grid[i].X + 0.5) * float64(size))
		yi := int((grid[i].Y + 0.5) * float64(size))
		if xi >= 0 && xi < size && yi >= 0 && yi < size {
			covered[yi][xi] = true
		}
	}

	for i := from; i < len(grid); {
		xi := rng.Intn(size)
		yi := rng.Intn(size)
		if covered[yi][xi] {
			continue
		}
		grid[i] = core.Vec2{
			X: float64(2*xi+1)/float64(2*size) - 0.5,
			Y: float64(2*yi+1)/float64(2*size) - 0.5,
		}
		covered[yi][xi] = true
		i++
	}
}

// randSource is the minimal *rand.Rand surface this package needs,
// narrowed so tests can substitute a deterministic fake.
type randSource interface {
	Intn(n int) int
	Float64() float64
}

func intSqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

func sqrtInt(n int) float64 {
	return math.Sqrt(float64(n))
}
