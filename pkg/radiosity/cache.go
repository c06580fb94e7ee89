// Package radiosity implements the Ward-style irradiance cache (spec.md
// §4.2): compute_ambient's reuse test, hemisphere gather, and the
// preview/final pass state machine that drives brightness normalization.
// It stores accepted samples in an octree spatial index (pkg/octree) and,
// on a cache miss, asks its caller to trace a batch of secondary rays —
// the cache itself never calls into the ray tracer driver directly, which
// keeps the two packages free of an import cycle.
package radiosity

import (
	"math"

	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/octree"
)

// Pass identifies which stage of the radiosity state machine is running.
type Pass int

const (
	// PassPreview gathers at reduced density with a relaxed error bound and
	// accumulates the statistics brightness normalization needs.
	PassPreview Pass = iota
	// PassFinal uses the tight error bound and freezes brightness scale.
	PassFinal
)

// TraceFunc traces a secondary ray for the gather step and reports the
// shaded color along it, the distance to the first hit, and whether
// anything was hit at all (on a miss, gather uses the camera distance, or
// 1e6 when that is not positive, in place of the hit distance; the color
// still enters the mean and the gradient sums).
type TraceFunc func(ray core.Ray) (color core.Vec3, distance float64, hit bool)

// Config holds the tunable irradiance-cache parameters (spec.md §4.2).
type Config struct {
	ErrorBound      float64 // final-pass reuse error bound
	LowErrorFactor  float64 // preview passes multiply ErrorBound by this
	SampleCount     int     // hemisphere sample count at recursion depth 1
	MaxNearest      int     // accepted blocks aggregated per reuse (default 4)
	MinReuseFactor  float64 // floor on harmonic mean distance, × camera distance
	AmbientLight    core.Vec3
}

// DefaultConfig returns the conventional defaults named across spec.md §4.2
// and §9.
func DefaultConfig() Config {
	return Config{
		ErrorBound:     0.25,
		LowErrorFactor: 3.0,
		SampleCount:    729, // 3^6, so depth>1 gathers divide evenly by 3^(depth-1)
		MaxNearest:     4,
		MinReuseFactor: 0.01,
		AmbientLight:   core.NewVec3(1, 1, 1),
	}
}

// Cache is the irradiance cache: an octree of accepted samples plus the
// brightness-normalization and pass state spec.md §4.2 describes.
type Cache struct {
	cfg  Config
	tree *octree.Octree

	pass Pass

	brightness       float64
	brightnessFrozen bool
	previewSum       core.Vec3
	previewCount     int

	gatherCount int // diagnostic counter, scenario 6's "gather counter"
}

// New creates an empty irradiance cache.
func New(cfg Config) *Cache {
	return &Cache{cfg: cfg, tree: octree.New(), brightness: 1.0, pass: PassPreview}
}

// SetPass switches the active pass. Switching into PassFinal freezes the
// brightness scale computed from whatever preview samples were gathered so
// far (spec.md §4.2 "Brightness normalization").
func (c *Cache) SetPass(p Pass) {
	if p == PassFinal && !c.brightnessFrozen {
		c.freezeBrightness()
	}
	c.pass = p
}

func (c *Cache) freezeBrightness() {
	c.brightnessFrozen = true
	if c.previewCount == 0 {
		return
	}
	avg := c.previewSum.Multiply(1.0 / float64(c.previewCount)).MaxComponent()
	target := c.cfg.AmbientLight.MaxComponent()
	if avg <= 1e-8 || target <= 0 {
		return
	}
	c.brightness = target / avg
}

// GatherCount reports how many fresh gathers this cache has performed,
// the counter spec.md §8 scenario 6 checks to confirm reuse took the fast
// path on a second nearby shading point.
func (c *Cache) GatherCount() int { return c.gatherCount }

func (c *Cache) errorBound() float64 {
	if c.pass == PassPreview {
		return c.cfg.ErrorBound * c.cfg.LowErrorFactor
	}
	return c.cfg.ErrorBound
}

// acceptedBlock is a reuse-test candidate that passed every rejection test.
type acceptedBlock struct {
	block     *core.IrradianceBlock
	predicted core.Vec3
	weight    float64
	dist      float64
}

// ComputeAmbient implements compute_ambient: it returns the ambient color
// at point with the given surface normal, reusing nearby cached samples
// when possible and gathering a fresh one otherwise.
//
// depth is the current radiosity recursion depth (gather-of-a-gather);
// cameraDistance is the distance from the camera to point, used to floor
// the harmonic mean distance of a fresh gather.
func (c *Cache) ComputeAmbient(point, normal core.Vec3, depth int, cameraDistance float64, trace TraceFunc) (core.Vec3, bool) {
	eb := c.errorBound()

	var accepted []acceptedBlock
	c.tree.Query(point, 0, func(b *core.IrradianceBlock) bool {
		if a, ok := reuseTest(point, normal, b, eb); ok {
			accepted = append(accepted, a)
		}
		return true
	})

	if len(accepted) > 0 {
		return aggregate(accepted, c.cfg.MaxNearest).Multiply(c.brightness), false
	}

	color := c.gather(point, normal, depth, cameraDistance, trace)
	return color, true
}

// reuseTest implements spec.md §4.2 "Reuse test" for a single candidate
// block.
func reuseTest(point, normal core.Vec3, b *core.IrradianceBlock, errorBound float64) (acceptedBlock, bool) {
	delta := point.Subtract(b.Point)
	d := delta.Length()

	r := b.MeanDistance
	if d > 0 && !b.ToNearestSurface.IsZero() {
		align := delta.Multiply(1 / d).Dot(b.ToNearestSurface)
		if align > 0.7 {
			t := (align - 0.7) / 0.3
			r = b.MeanDistance*(1-t) + b.NearestDistance*t
		}
	}
	if r <= 0 {
		return acceptedBlock{}, false
	}
	if d > r*errorBound {
		return acceptedBlock{}, false
	}

	cosN := math.Max(-1, math.Min(1, normal.Dot(b.Normal)))
	err := d/r + 2*math.Sqrt(math.Max(0, 1-cosN))
	if err >= errorBound {
		return acceptedBlock{}, false
	}

	h := normal.Add(b.Normal)
	if !h.IsZero() {
		h = h.Normalize()
		if delta.Dot(h) < -0.05 {
			return acceptedBlock{}, false
		}
	}

	w := 1 - err/errorBound
	predicted := core.Vec3{
		X: b.Irradiance.X + b.GradientX.X*delta.X + b.GradientY.X*delta.Y + b.GradientZ.X*delta.Z,
		Y: b.Irradiance.Y + b.GradientX.Y*delta.X + b.GradientY.Y*delta.Y + b.GradientZ.Y*delta.Z,
		Z: b.Irradiance.Z + b.GradientX.Z*delta.X + b.GradientY.Z*delta.Y + b.GradientZ.Z*delta.Z,
	}.Clamp(0, 1)

	return acceptedBlock{block: b, predicted: predicted, weight: w, dist: d}, true
}

// aggregate averages the N geometrically-nearest accepted blocks, weighted
// by their reuse-test acceptance weight.
func aggregate(accepted []acceptedBlock, maxNearest int) core.Vec3 {
	sortByDistance(accepted)
	if maxNearest > 0 && len(accepted) > maxNearest {
		accepted = accepted[:maxNearest]
	}

	var sum core.Vec3
	var totalWeight float64
	for _, a := range accepted {
		sum = sum.Add(a.predicted.Multiply(a.weight))
		totalWeight += a.weight
	}
	if totalWeight <= 0 {
		return core.Vec3{}
	}
	return sum.Multiply(1 / totalWeight)
}

func sortByDistance(a []acceptedBlock) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j].dist < a[j-1].dist; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
