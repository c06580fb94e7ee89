// Package shading implements determine_apparent_colour (spec.md §4.4): the
// layered texture evaluator that turns a ray/object intersection into an
// outgoing radiance, including ambient (via pkg/radiosity), per-light
// diffuse/phong/specular/iridescence terms (via pkg/shadow for visibility),
// refraction and reflection.
package shading

import (
	"math"
	"math/rand"

	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/lights"
	"github.com/df07/povcore/pkg/radiosity"
	"github.com/df07/povcore/pkg/shadow"
)

// SecondaryTrace fires a reflection or refraction ray at an already
// incremented recursion level/ADC weight and returns its shaded color. The
// raytracer driver supplies this; shading never calls trace() directly,
// which keeps the two packages from forming an import cycle (the same
// reasoning as radiosity.TraceFunc and shadow.LayerFilter).
type SecondaryTrace func(ray core.Ray) core.Vec3

// Config holds the scene-wide shading parameters spec.md §4.4 and §6 name.
type Config struct {
	AmbientLight core.Vec3
	AtmosphereIOR float64 // index of refraction outside all objects, default 1.0

	// RadiosityTraceLevel is the ray recursion level at which ambient is
	// computed via the irradiance cache; at any other level a flat (1,1,1)
	// ambient color is used instead (spec.md §4.4 step 3).
	RadiosityTraceLevel int
	// MaxRadiosityDepth bounds gather-of-gather recursion depth.
	MaxRadiosityDepth int

	Quality core.Quality
}

// DefaultConfig returns sensible defaults: atmosphere IOR 1.0, radiosity
// active only on primary rays (level 0), gather-of-gather capped at depth 3.
func DefaultConfig() Config {
	return Config{
		AmbientLight:        core.NewVec3(1, 1, 1),
		AtmosphereIOR:       1.0,
		RadiosityTraceLevel: 0,
		MaxRadiosityDepth:   3,
		Quality:             core.DefaultQuality,
	}
}

// Evaluator is the shading evaluator: determine_apparent_colour plus its
// refraction/reflection passes.
type Evaluator struct {
	Cfg     Config
	Ambient *radiosity.Cache
	Shadow  *shadow.Tester

	// AmbientTrace fires the irradiance gather's secondary rays; forwarded
	// verbatim to radiosity.Cache.ComputeAmbient.
	AmbientTrace radiosity.TraceFunc
	// Trace fires reflection/refraction rays.
	Trace SecondaryTrace

	// Rng drives the diffuse term's crand noise (spec.md §4.4 step 4); a
	// nil Rng gets a default seeded source on first use.
	Rng *rand.Rand
}

// rng returns the evaluator's noise source, lazily seeding a default one.
func (e *Evaluator) rng() *rand.Rand {
	if e.Rng == nil {
		e.Rng = rand.New(rand.NewSource(1))
	}
	return e.Rng
}

// reflectionRecord is what the layer loop "remembers" for the reflection
// pass (spec.md §4.4 step 5): the layer's effective normal, the reflection
// coefficient and exponent, how much of the surface's transmittance this
// layer still carries, and the accumulated filter color the refraction
// combine (step 6) needs.
type reflectionRecord struct {
	normal          core.Vec3
	rawNormal       core.Vec3
	reflectionCoef  core.Vec3
	reflectExponent float64
	weight          float64
	filCol          core.Vec3
	filter          float64
	transmit        float64
}

// DetermineApparentColour implements the public contract: the outgoing
// radiance along -eyeRay.Direction at hit.Point, including ambient, direct
// lighting, refraction and reflection. radiosityDepth is the current
// gather-of-gather recursion depth (1 for an ordinary primary/secondary
// shading call; incremented only inside the radiosity gather's own trace
// callback).
func (e *Evaluator) DetermineApparentColour(hit *core.Intersection, eyeRay core.Ray, radiosityDepth int) core.Vec3 {
	rawNormal := hit.Normal()
	eyeDir := eyeRay.Direction
	if rawNormal.Dot(eyeDir) > 0 {
		rawNormal = rawNormal.Negate()
	}

	surf := hit.Object.Surface()
	textures := surf.Textures
	if len(textures) == 0 {
		return core.Vec3{}
	}

	// The per-ray light-tested-at-this-point memo and per-texture working
	// state are local to this call. In the teacher's Go (and POV-Ray's C)
	// these are mutable buffers explicitly saved and restored around
	// recursive calls so sibling invocations don't clobber each other; a Go
	// stack frame's locals already give every call its own copy, so no
	// explicit save/restore is needed here (documented in DESIGN.md).
	lightCache := make(map[core.Light]core.Vec3)

	var result core.Vec3
	var records []reflectionRecord

	for _, wt := range textures {
		color, refl := e.shadeTexture(wt, hit, eyeRay, rawNormal, radiosityDepth, lightCache)
		result = result.Add(color.Multiply(wt.Weight))
		for _, r := range refl {
			r.weight *= wt.Weight
			records = append(records, r)
		}
	}

	reflectRecords := records

	if surf.Interior != nil {
		refr, tir := e.refract(hit, eyeRay, rawNormal, surf.Interior, records)
		result = result.Add(refr)
		if tir && len(reflectRecords) > 0 {
			// TIR already reflected the top layer in refract(); drop it here
			// so the reflection pass below doesn't double-count it.
			reflectRecords = reflectRecords[:len(reflectRecords)-1]
		}
	}

	result = result.Add(e.reflect(hit, eyeRay, rawNormal, reflectRecords))

	return result
}

// shadeTexture runs the layered-evaluation loop (spec.md §4.4 steps 1-6)
// for a single (texture, weight) entry, returning its contribution to the
// outgoing color and the reflection records its layers leave behind.
func (e *Evaluator) shadeTexture(wt core.WeightedTexture, hit *core.Intersection, eyeRay core.Ray, rawNormal core.Vec3, radiosityDepth int, lightCache map[core.Light]core.Vec3) (core.Vec3, []reflectionRecord) {
	layers := wt.Texture.LayersAt(hit.Point)

	var result core.Vec3
	var records []reflectionRecord

	trans := 1.0
	filCol := core.NewVec3(1, 1, 1)
	for _, layer := range layers {
		if trans <= core.BlackLevel {
			break
		}

		normal := rawNormal
		if layer.NormalMap != nil {
			normal = layer.NormalMap.Perturb(rawNormal, hit.Point).Normalize()
		}

		pig := layer.Pigment.At(hit.Point)
		if !pig.Valid {
			// No color produced (e.g. a missed image map): this layer
			// contributes nothing and passes transmittance through
			// unchanged, per spec.md §4.3's analogous "zero the filter
			// channel to prevent spurious amplification" guidance.
			continue
		}
		layCol := pig.Color

		clampedFT := math.Max(0, math.Min(1, pig.Filter+pig.Transmit))
		attenuation := trans * (1 - clampedFT)

		ambCol := core.NewVec3(1, 1, 1)
		if e.ambientEnabled(eyeRay, radiosityDepth) {
			cameraDist := hit.T
			c, _ := e.Ambient.ComputeAmbient(hit.Point, normal, radiosityDepth, cameraDist, e.AmbientTrace)
			ambCol = c
		}
		result = result.Add(layCol.MultiplyVec(e.Cfg.AmbientLight).MultiplyVec(ambCol).Multiply(attenuation * layer.Finish.Ambient))

		result = result.Add(e.directLighting(hit, eyeRay, normal, rawNormal, layCol, layer.Finish, surfaceIsDoubleIlluminate(hit), attenuation, lightCache))

		filCol = filCol.MultiplyVec(layCol)

		records = append(records, reflectionRecord{
			normal:          normal,
			rawNormal:       rawNormal,
			reflectionCoef:  layer.Finish.Reflection,
			reflectExponent: valueOrOne(layer.Finish.ReflectExponent),
			weight:          trans,
			filCol:          filCol,
			filter:          pig.Filter,
			transmit:        pig.Transmit,
		})

		trans *= clampedFT
	}

	return result, records
}

func surfaceIsDoubleIlluminate(hit *core.Intersection) bool {
	return hit.Object.Surface().DoubleIlluminate
}

func valueOrOne(exp float64) float64 {
	if exp <= 0 {
		return 1
	}
	return exp
}

// ambientEnabled reports whether the irradiance cache should be consulted
// at this ray's recursion level (spec.md §4.4 step 3).
func (e *Evaluator) ambientEnabled(eyeRay core.Ray, radiosityDepth int) bool {
	if e.Ambient == nil {
		return false
	}
	if eyeRay.Level != e.Cfg.RadiosityTraceLevel {
		return false
	}
	return radiosityDepth <= e.Cfg.MaxRadiosityDepth
}

// directLighting sums the diffuse/phong/specular/iridescence contribution
// of every non-fill-shadowed light (spec.md §4.4 step 4).
func (e *Evaluator) directLighting(hit *core.Intersection, eyeRay core.Ray, normal, rawNormal, layCol core.Vec3, finish core.Finish, doubleIlluminate bool, attenuation float64, lightCache map[core.Light]core.Vec3) core.Vec3 {
	var result core.Vec3
	if e.Shadow == nil {
		return result
	}

	for _, light := range e.lights() {
		illum, ok := light.(lights.Illuminator)
		if !ok {
			continue
		}
		dir, dist, intensity := illum.Illuminate(hit.Point)
		if intensity <= core.BlackLevel || dist <= 0 {
			continue
		}

		nDotL := normal.Dot(dir)
		if nDotL <= 0 {
			if !doubleIlluminate {
				continue
			}
			nDotL = -nDotL // illuminate the back face as if it were the front
		}

		attenuated, cached := lightCache[light]
		if !cached {
			attenuated = e.Shadow.TestShadow(light, hit.Point).Multiply(intensity)
			lightCache[light] = attenuated
		}
		if attenuated.MaxComponent() < core.BlackLevel {
			continue
		}

		isFill := light.Kind() == core.LightFill

		diffuseIntensity := finish.Diffuse * math.Pow(nDotL, brillianceOrOne(finish.Brilliance)) * attenuation
		if finish.Crand > 0 {
			diffuseIntensity -= e.rng().Float64() * finish.Crand
		}
		diffuse := attenuated.MultiplyVec(layCol).Multiply(diffuseIntensity)
		result = result.Add(diffuse)

		if isFill {
			continue
		}

		view := eyeRay.Direction.Negate()
		reflectDir := eyeRay.Direction.Reflect(normal) // same R as the reflection pass's raw direction

		highlightColor := attenuated
		if finish.Metallic > 0 {
			highlightColor = metallicTint(attenuated, layCol, normal, dir, finish.Metallic)
		}

		if finish.Phong > 0 {
			rDotL := reflectDir.Dot(dir)
			if rDotL > 0 {
				phong := highlightColor.Multiply(finish.Phong * math.Pow(rDotL, finish.PhongSize) * attenuation)
				result = result.Add(phong)
			}
		}

		if finish.Specular > 0 && finish.Roughness > 0 {
			h := view.Add(dir)
			if !h.IsZero() {
				h = h.Normalize()
				hDotN := h.Dot(normal)
				if hDotN > 0 {
					specular := highlightColor.Multiply(finish.Specular * math.Pow(hDotN, 1/finish.Roughness) * attenuation)
					result = result.Add(specular)
				}
			}
		}

		if finish.Iridescence.Amount > 0 {
			result = result.Add(iridescence(finish.Iridescence, normal, dir, attenuated, attenuation))
		}
	}

	return result
}

func brillianceOrOne(b float64) float64 {
	if b <= 0 {
		return 1
	}
	return b
}

// metallicTint implements the Fresnel-like highlight-color substitution
// spec.md §4.4 step 4 names for phong/specular on metallic finishes.
func metallicTint(lightColor, layCol, normal, dir core.Vec3, metallic float64) core.Vec3 {
	cosNL := math.Max(-1, math.Min(1, normal.Dot(dir)))
	x := math.Abs(math.Acos(cosNL)) / (math.Pi / 2)
	f := 0.014567/((x-1.12)*(x-1.12)) - 0.011613
	tint := core.NewVec3(1, 1, 1).Add(layCol.Subtract(core.NewVec3(1, 1, 1)).Multiply(metallic * (1 - f)))
	return lightColor.MultiplyVec(tint)
}

// iridescence implements the thin-film interference term spec.md §4.4 step
// 4 describes: a per-channel phase offset derived from film thickness and
// the light/normal angle, modulated onto the light's attenuated color.
func iridescence(ir core.Iridescence, normal, dir, attenuated core.Vec3, attenuation float64) core.Vec3 {
	cosNL := normal.Dot(dir)
	if cosNL <= 0 {
		return core.Vec3{}
	}
	thickness := ir.FilmThickness
	wavelengths := [3]float64{650, 510, 475} // nm, R/G/B
	var phase [3]float64
	for i, wl := range wavelengths {
		phase[i] = math.Cos(4 * math.Pi * thickness * cosNL / wl)
	}
	tint := core.NewVec3(phase[0], phase[1], phase[2]).Multiply(ir.Amount * attenuation)
	return attenuated.MultiplyVec(tint)
}

// lights returns the lights the shadow tester's scene knows about, in scene
// order. The evaluator doesn't own the light list directly; it is supplied
// via shadow.Tester's scene binding through a small accessor, since
// pkg/shadow already holds the scene reference this needs.
func (e *Evaluator) lights() []core.Light {
	if e.Shadow == nil {
		return nil
	}
	if lister, ok := e.Shadow.Scene.(LightLister); ok {
		return lister.Lights()
	}
	return nil
}

// LightLister is implemented by a scene that can enumerate its lights; the
// shadow tester's Intersector only covers geometry, so shading asks for
// this narrower, separate capability instead of widening that interface.
type LightLister interface {
	Lights() []core.Light
}
