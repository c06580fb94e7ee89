// Package shadow implements the per-light visibility query (spec.md §4.3):
// test_shadow and its point/spot/cylinder, area, and fill variants, with
// filtered (colored) shadows through transparent objects and shadow-object
// caching.
package shadow

import (
	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/lights"
)

// Intersector is the narrow collaborator the shadow tester needs from the
// scene's acceleration structure.
type Intersector interface {
	Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool)
}

// LayerFilter evaluates a blocking object's texture in shadow mode at a
// hit point, producing the filter/transmit color that attenuates the
// light through it (spec.md §4.4 "Layered shadow mode"). Pattern and
// pigment evaluation stay external collaborators; this is the seam the
// shading package fills in.
type LayerFilter func(hit *core.Intersection, lightDir core.Vec3) core.Vec3

// Tester computes per-light transmitted color from a surface point.
type Tester struct {
	Scene  Intersector
	Filter LayerFilter
}

// New creates a shadow tester over the given scene intersector and layer
// filter.
func New(scene Intersector, filter LayerFilter) *Tester {
	return &Tester{Scene: scene, Filter: filter}
}

// TestShadow implements test_shadow: the color of light that survives
// transmission from point to the light's position.
func (t *Tester) TestShadow(light core.Light, point core.Vec3) core.Vec3 {
	if light.Kind() == core.LightFill {
		return light.LightColor()
	}

	illum, ok := light.(lights.Illuminator)
	if !ok {
		return light.LightColor()
	}
	dir, dist, intensity := illum.Illuminate(point)
	if intensity <= 0 {
		return core.Vec3{}
	}
	base := light.LightColor().Multiply(intensity)

	if area, ok := light.(*lights.AreaLight); ok {
		return t.blockAreaLight(area, base, point)
	}
	return t.blockPointLight(light, base, point, dir, dist)
}

// blockPointLight implements block_point_light: shadow-cache fast path,
// then a marching intersection loop that accumulates filtered attenuation
// until it drops below black level or the ray reaches the light.
func (t *Tester) blockPointLight(light core.Light, lightColor core.Vec3, point, dir core.Vec3, dist float64) core.Vec3 {
	caching, canCache := light.(core.ShadowCaching)

	if canCache {
		if cached := caching.CachedBlocker(); cached != nil {
			if t.fullyBlocks(cached, point, dir, dist) {
				return core.Vec3{}
			}
		}
	}

	color := lightColor
	origin := point
	remaining := dist
	var firstBlocker core.Shape

	for remaining > core.Epsilon {
		ray := core.NewRay(origin, dir)
		hit, ok := t.Scene.Hit(ray, core.Epsilon, remaining)
		if !ok {
			break
		}

		surf := hit.Object.Surface()
		if !surf.NoShadow {
			color = color.MultiplyVec(t.Filter(hit, dir))
			if firstBlocker == nil {
				firstBlocker = hit.Object
			}
		}

		if color.MaxComponent() < core.BlackLevel {
			if canCache && surf.Opaque && hit.Object == firstBlocker {
				caching.SetCachedBlocker(hit.Object)
			}
			return core.Vec3{}
		}

		origin = hit.Point
		remaining -= hit.T
	}

	return color
}

// fullyBlocks reports whether cached's shadow is still good for this
// light/point pair: it must intersect the ray to the light within range.
func (t *Tester) fullyBlocks(cached core.Shape, point, dir core.Vec3, dist float64) bool {
	ray := core.NewRay(point, dir)
	hit, ok := cached.Hit(ray, core.Epsilon, dist)
	if !ok {
		return false
	}
	surf := cached.Surface()
	return surf.Opaque && !surf.NoShadow && hit.T < dist
}

// blockAreaLight implements block_area_light: the light is treated as a
// size1×size2 grid of cells, each adaptively subdivided by four-corner
// disagreement up to the light's adaptive level, reusing the corner cache
// the AreaLight owns across neighboring cells and recursion levels.
func (t *Tester) blockAreaLight(light *lights.AreaLight, lightColor, point core.Vec3) core.Vec3 {
	cellsU, cellsV := light.Size1, light.Size2
	sub := 1 << light.AdaptiveLevel
	resU, resV := cellsU*sub, cellsV*sub

	var sum core.Vec3
	for i := 0; i < cellsU; i++ {
		for j := 0; j < cellsV; j++ {
			u0, v0 := i*sub, j*sub
			sum = sum.Add(t.sampleAreaRegion(light, lightColor, point, u0, v0, u0+sub, v0+sub, resU, resV, 0))
		}
	}
	return sum.Multiply(1.0 / float64(cellsU*cellsV))
}

// sampleAreaRegion samples the four corners of the (u0,v0)-(u1,v1)
// sub-rectangle (grid coordinates out of a fixed resU×resV finest
// resolution), subdividing when corners disagree and recursion has budget
// left.
func (t *Tester) sampleAreaRegion(light *lights.AreaLight, lightColor, point core.Vec3, u0, v0, u1, v1, resU, resV, level int) core.Vec3 {
	c00 := t.areaSample(light, lightColor, point, u0, v0, resU, resV)
	c10 := t.areaSample(light, lightColor, point, u1, v0, resU, resV)
	c01 := t.areaSample(light, lightColor, point, u0, v1, resU, resV)
	c11 := t.areaSample(light, lightColor, point, u1, v1, resU, resV)

	if level < light.AdaptiveLevel && cornersDisagree(c00, c10, c01, c11) {
		um, vm := (u0+u1)/2, (v0+v1)/2
		q1 := t.sampleAreaRegion(light, lightColor, point, u0, v0, um, vm, resU, resV, level+1)
		q2 := t.sampleAreaRegion(light, lightColor, point, um, v0, u1, vm, resU, resV, level+1)
		q3 := t.sampleAreaRegion(light, lightColor, point, u0, vm, um, v1, resU, resV, level+1)
		q4 := t.sampleAreaRegion(light, lightColor, point, um, vm, u1, v1, resU, resV, level+1)
		return q1.Add(q2).Add(q3).Add(q4).Multiply(0.25)
	}

	return c00.Add(c10).Add(c01).Add(c11).Multiply(0.25)
}

// areaSample fetches (or computes and caches) the shadow color at one grid
// corner (u, v) out of the light's finest resU×resV subdivision.
func (t *Tester) areaSample(light *lights.AreaLight, lightColor, point core.Vec3, u, v, resU, resV int) core.Vec3 {
	if c, ok := light.Cached(u, v); ok {
		return c
	}

	jitterU, jitterV := 0.5, 0.5
	if light.Jitter {
		jitterU, jitterV = pseudoJitter(u), pseudoJitter(v)
	}
	samplePoint := light.Point(u, v, resU, resV, jitterU, jitterV)

	dir, dist := directionAndDistance(samplePoint, point)
	color := t.blockPointLight(light, lightColor, point, dir, dist)
	light.SetCached(u, v, color)
	return color
}

// cornersDisagree reports whether any pair of the four corner colors
// differs by more than 0.1 in the sum-of-abs-channel-differences metric
// (spec.md §4.3 "Area light").
func cornersDisagree(c00, c10, c01, c11 core.Vec3) bool {
	const threshold = 0.1
	corners := [4]core.Vec3{c00, c10, c01, c11}
	for i := 0; i < len(corners); i++ {
		for j := i + 1; j < len(corners); j++ {
			if corners[i].SumAbsDiff(corners[j]) > threshold {
				return true
			}
		}
	}
	return false
}

func directionAndDistance(from, to core.Vec3) (core.Vec3, float64) {
	toLight := from.Subtract(to)
	dist := toLight.Length()
	if dist == 0 {
		return core.Vec3{}, 0
	}
	return toLight.Multiply(1 / dist), dist
}

// pseudoJitter derives a deterministic, stable-looking fractional jitter
// from a grid index so repeated calls for the same (u, v) agree (area-
// light sampling is otherwise cached by value, not reshot per call).
func pseudoJitter(i int) float64 {
	const golden = 0.6180339887498949
	f := float64(i) * golden
	return f - float64(int(f))
}
