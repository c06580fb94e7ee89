package shading

import (
	"math"

	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/shadow"
)

// FilterShadowRay implements spec.md §4.3 "Filter computation"
// (filter_shadow_ray): a structurally-parallel evaluator to the main
// layered loop that produces a per-layer filter color instead of a
// radiance, including the faked-caustics term and interior fade. It
// satisfies shadow.LayerFilter, the seam pkg/shadow calls into.
func (e *Evaluator) FilterShadowRay(hit *core.Intersection, lightDir core.Vec3) core.Vec3 {
	normal := hit.Normal()
	if normal.Dot(lightDir) > 0 {
		normal = normal.Negate()
	}

	surf := hit.Object.Surface()
	var sum core.Vec3
	var totalWeight float64
	sawColor := false

	for _, wt := range surf.Textures {
		layerFilter, layerSaw := filterOneTexture(wt, hit.Point, normal, lightDir, surf.Interior, hit.T)
		if !layerSaw {
			continue
		}
		sawColor = true
		sum = sum.Add(layerFilter.Multiply(wt.Weight))
		totalWeight += wt.Weight
	}

	if !sawColor || totalWeight <= 0 {
		// No valid pigment color was produced anywhere on this object
		// (e.g. every image map missed): zero the filter channel rather
		// than let an uninitialized multiply amplify the light.
		return core.Vec3{}
	}
	return sum.Multiply(1 / totalWeight)
}

// filterOneTexture runs the shadow-mode layer loop for one (texture,
// weight) entry: front-to-back, stopping once |filter|+|transmit| drops
// below black level, accumulating the running filter color.
func filterOneTexture(wt core.WeightedTexture, point, normal, lightDir core.Vec3, interior *core.Interior, depth float64) (core.Vec3, bool) {
	layers := wt.Texture.LayersAt(point)

	running := core.NewVec3(1, 1, 1)
	sawColor := false

	for _, layer := range layers {
		pig := layer.Pigment.At(point)
		if !pig.Valid {
			continue
		}
		sawColor = true

		caustics := 1.0
		if layer.Finish.Caustics > 0 {
			caustics = 1 + math.Pow(math.Abs(normal.Dot(lightDir)), layer.Finish.Caustics)
		}
		filterAmount := pig.Filter * caustics
		transmitAmount := pig.Transmit * caustics

		layerTerm := pig.Color.Multiply(filterAmount).Add(core.NewVec3(transmitAmount, transmitAmount, transmitAmount))
		running = running.MultiplyVec(layerTerm)

		if filterAmount+transmitAmount < core.BlackLevel {
			break
		}
	}

	if interior != nil {
		running = running.Multiply(interior.Fade(depth))
	}

	return running, sawColor
}

var _ shadow.LayerFilter = (*Evaluator)(nil).FilterShadowRay
