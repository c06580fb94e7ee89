package shading

import (
	"math"

	"github.com/df07/povcore/pkg/core"
)

// reflect implements spec.md §4.4 "Reflection": for every recorded layer
// with a non-zero reflection coefficient, trace a reflection ray and add
// its (possibly per-channel-exponentiated) contribution.
func (e *Evaluator) reflect(hit *core.Intersection, eyeRay core.Ray, rawNormal core.Vec3, records []reflectionRecord) core.Vec3 {
	var result core.Vec3
	for _, r := range records {
		if r.reflectionCoef.IsZero() {
			continue
		}
		result = result.Add(e.reflectOne(hit, eyeRay, rawNormal, r))
	}
	return result
}

// reflectOne traces a single reflection ray for one recorded layer,
// including the corner-case direction handling spec.md §4.4 names: when the
// naive reflection direction ends up behind the raw (geometric) normal, it
// is nudged back above it rather than producing a self-intersecting ray.
// Total internal reflection (spec.md §4.4 "Refraction") reaches this path
// too; it reflects at full strength regardless of the layer's declared
// reflection coefficient, since none of the ray's energy can escape.
func (e *Evaluator) reflectOne(hit *core.Intersection, eyeRay core.Ray, rawNormal core.Vec3, r reflectionRecord) core.Vec3 {
	return e.reflectWithCoef(hit, eyeRay, rawNormal, r, r.reflectionCoef, r.reflectExponent)
}

func (e *Evaluator) reflectWithCoef(hit *core.Intersection, eyeRay core.Ray, rawNormal core.Vec3, r reflectionRecord, coef core.Vec3, exp float64) core.Vec3 {
	if e.Trace == nil {
		return core.Vec3{}
	}

	dir := eyeRay.Direction.Reflect(r.normal)
	if dir.Dot(rawNormal) < 0 {
		if dir.Dot(r.normal) < 0 {
			dir = eyeRay.Direction.Reflect(rawNormal)
		} else {
			dir = dir.Reflect(rawNormal)
		}
	}
	dir = dir.Normalize()

	child := core.Ray{
		Origin:    hit.Point.Add(dir.Multiply(core.Epsilon)),
		Direction: dir,
		Level:     eyeRay.Level + 1,
		Weight:    eyeRay.Weight * math.Max(coef.MaxComponent(), 1e-3),
		Interiors: eyeRay.Interiors,
	}

	returned := e.Trace(child)

	if exp == 1 {
		return core.Vec3{
			X: coef.X * returned.X,
			Y: coef.Y * returned.Y,
			Z: coef.Z * returned.Z,
		}
	}
	return core.Vec3{
		X: coef.X * math.Pow(math.Max(0, returned.X), exp),
		Y: coef.Y * math.Pow(math.Max(0, returned.Y), exp),
		Z: coef.Z * math.Pow(math.Max(0, returned.Z), exp),
	}
}
