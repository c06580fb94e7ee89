package texture

import (
	"sort"

	"github.com/df07/povcore/pkg/core"
)

// Plain is the common texture variant: a front-to-back layer list, composited
// in the shading evaluator exactly as spec.md §4.4 describes.
type Plain struct {
	Layers []core.Layer
}

// NewPlain creates a plain texture from one or more layers, outermost first.
func NewPlain(layers ...core.Layer) *Plain {
	return &Plain{Layers: layers}
}

// LayersAt implements core.Texture. A plain texture is the same at every
// point — its pigments resolve per-point when the evaluator calls them.
func (p *Plain) LayersAt(core.Vec3) []core.Layer { return p.Layers }

// Average composites N sub-textures by averaging their top-layer pigment
// and finish, weighted (spec.md §3 Texture — "average-of-sublist" variant).
// POV-Ray's average map blends fully shaded sub-texture results; since the
// shading evaluator here processes one layer list per texture, Average
// resolves to a single synthetic layer whose pigment is the weighted blend
// of every component's point-pigment and whose finish is the component-wise
// weighted average finish (documented simplification, see DESIGN.md).
type Average struct {
	Components []core.WeightedTexture
}

// NewAverage creates an average-of-sublist texture.
func NewAverage(components ...core.WeightedTexture) *Average {
	return &Average{Components: components}
}

// LayersAt implements core.Texture.
func (a *Average) LayersAt(point core.Vec3) []core.Layer {
	if len(a.Components) == 0 {
		return nil
	}
	totalWeight := 0.0
	for _, c := range a.Components {
		totalWeight += c.Weight
	}
	if totalWeight <= 0 {
		totalWeight = 1
	}

	blended := averagedLayer{}
	for _, c := range a.Components {
		layers := c.Texture.LayersAt(point)
		if len(layers) == 0 {
			continue
		}
		blended.accumulate(layers[0], c.Weight/totalWeight)
	}
	return []core.Layer{blended.layer()}
}

// averagedLayer accumulates a weighted running blend of pigment evaluations
// and finish fields across components.
type averagedLayer struct {
	finish   core.Finish
	pigments []weightedPigment
}

func (b *averagedLayer) accumulate(l core.Layer, w float64) {
	b.finish.Ambient += l.Finish.Ambient * w
	b.finish.Diffuse += l.Finish.Diffuse * w
	b.finish.Brilliance += l.Finish.Brilliance * w
	b.finish.Phong += l.Finish.Phong * w
	b.finish.PhongSize += l.Finish.PhongSize * w
	b.finish.Specular += l.Finish.Specular * w
	b.finish.Roughness += l.Finish.Roughness * w
	b.finish.Metallic += l.Finish.Metallic * w
	b.finish.Reflection = b.finish.Reflection.Add(l.Finish.Reflection.Multiply(w))
	b.finish.ReflectExponent += l.Finish.ReflectExponent * w
	b.finish.Caustics += l.Finish.Caustics * w
	b.finish.Crand += l.Finish.Crand * w

	if l.Pigment != nil {
		b.pigments = append(b.pigments, weightedPigment{pigment: l.Pigment, weight: w})
	}
}

func (b *averagedLayer) layer() core.Layer {
	return core.Layer{Pigment: blendedPigment{parts: b.pigments}, Finish: b.finish}
}

type weightedPigment struct {
	pigment core.Pigment
	weight  float64
}

type blendedPigment struct {
	parts []weightedPigment
}

func (bp blendedPigment) At(point core.Vec3) core.PigmentResult {
	var color core.Vec3
	var filter, transmit float64
	valid := false
	for _, part := range bp.parts {
		r := part.pigment.At(point)
		if !r.Valid {
			continue
		}
		valid = true
		color = color.Add(r.Color.Multiply(part.weight))
		filter += r.Filter * part.weight
		transmit += r.Transmit * part.weight
	}
	return core.PigmentResult{Color: color, Filter: filter, Transmit: transmit, Valid: valid}
}

// MaterialMap selects one of several sub-textures by an integer pattern
// index evaluated at the point — the `image_map {material_map}` variant.
type MaterialMap struct {
	Index    func(core.Vec3) int
	Textures []core.Texture
}

// LayersAt implements core.Texture.
func (m *MaterialMap) LayersAt(point core.Vec3) []core.Layer {
	if len(m.Textures) == 0 || m.Index == nil {
		return nil
	}
	idx := m.Index(point)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.Textures) {
		idx = len(m.Textures) - 1
	}
	return m.Textures[idx].LayersAt(point)
}

// BlendStop is one entry in a Blend texture's pattern-indexed blend map.
type BlendStop struct {
	Value   float64
	Texture core.Texture
}

// Blend picks (and linearly interpolates the top layer's pigment/finish
// between) the two BlendStops bracketing a continuous pattern value — the
// `pigment_map`/`texture_map` variant.
type Blend struct {
	Pattern func(core.Vec3) float64
	Stops   []BlendStop
}

// NewBlend creates a blend texture, sorting stops by value.
func NewBlend(pattern func(core.Vec3) float64, stops ...BlendStop) *Blend {
	sorted := append([]BlendStop(nil), stops...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })
	return &Blend{Pattern: pattern, Stops: sorted}
}

// LayersAt implements core.Texture.
func (bl *Blend) LayersAt(point core.Vec3) []core.Layer {
	if len(bl.Stops) == 0 || bl.Pattern == nil {
		return nil
	}
	v := bl.Pattern(point)
	if len(bl.Stops) == 1 || v <= bl.Stops[0].Value {
		return bl.Stops[0].Texture.LayersAt(point)
	}
	last := bl.Stops[len(bl.Stops)-1]
	if v >= last.Value {
		return last.Texture.LayersAt(point)
	}

	for i := 1; i < len(bl.Stops); i++ {
		lo, hi := bl.Stops[i-1], bl.Stops[i]
		if v <= hi.Value {
			t := (v - lo.Value) / (hi.Value - lo.Value)
			loLayers := lo.Texture.LayersAt(point)
			hiLayers := hi.Texture.LayersAt(point)
			if len(loLayers) == 0 {
				return hiLayers
			}
			if len(hiLayers) == 0 {
				return loLayers
			}
			blended := averagedLayer{}
			blended.accumulate(loLayers[0], 1-t)
			blended.accumulate(hiLayers[0], t)
			return []core.Layer{blended.layer()}
		}
	}
	return last.Texture.LayersAt(point)
}
