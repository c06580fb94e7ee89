package shading

import (
	"math"

	"github.com/df07/povcore/pkg/core"
)

// refract implements spec.md §4.4 "Refraction": determine the IOR ratio
// from the ray's interior stack, bend (or total-internally-reflect) the
// transmitted ray, trace it, and fold the result back in with interior
// fade and the accumulated FilCol combine (attenuation * returned *
// (FilCol_rgb*FilCol_filter + FilCol_transmit)). The second return value
// reports whether the ray total-internally-reflected, so the caller can
// drop the top reflectionRecord before its own reflection pass runs — TIR
// already reflects the top layer here, at full strength.
func (e *Evaluator) refract(hit *core.Intersection, eyeRay core.Ray, rawNormal core.Vec3, interior *core.Interior, records []reflectionRecord) (core.Vec3, bool) {
	if e.Trace == nil || len(records) == 0 {
		return core.Vec3{}, false
	}
	top := records[len(records)-1]
	trans := top.weight
	if trans <= core.BlackLevel {
		return core.Vec3{}, false
	}

	ratio, entering := e.iorRatio(eyeRay, interior)

	var dir core.Vec3
	if math.Abs(ratio-1) < 1e-9 {
		dir = eyeRay.Direction
	} else {
		refracted, ok := eyeRay.Direction.Refract(top.normal, ratio)
		if !ok {
			// Total internal reflection: fall back to the reflection path
			// using the top layer's normal, at full strength regardless of
			// its declared reflection coefficient (spec.md §4.4).
			return e.reflectWithCoef(hit, eyeRay, rawNormal, top, core.NewVec3(1, 1, 1), 1), true
		}
		dir = refracted.Normalize()
	}

	nextInteriors := eyeRay.Interiors
	if entering {
		nextInteriors = nextInteriors.Push(interior)
	} else {
		nextInteriors = nextInteriors.Pop(interior)
	}

	weight := eyeRay.Weight * math.Max(trans, 0) // max(|filter|*max(FilCol_rgb), |transmit|) simplifies to trans here
	child := core.Ray{
		Origin:    hit.Point.Add(dir.Multiply(core.Epsilon)),
		Direction: dir,
		Level:     eyeRay.Level + 1,
		Weight:    weight,
		Interiors: nextInteriors,
	}

	returned := e.Trace(child)
	returned = returned.Multiply(interior.Fade(hit.T))

	combine := top.filCol.Multiply(top.filter).Add(core.NewVec3(top.transmit, top.transmit, top.transmit))
	attenuation := trans
	return returned.MultiplyVec(combine).Multiply(attenuation), false
}

// iorRatio determines eta_in/eta_out from the ray's interior stack
// (spec.md §4.4 "Refraction"): entering from atmosphere uses
// atm_ior/obj_ior, leaving into atmosphere uses obj_ior/atm_ior, and moving
// between two nested interiors uses their direct ratio.
func (e *Evaluator) iorRatio(ray core.Ray, interior *core.Interior) (ratio float64, entering bool) {
	atm := e.Cfg.AtmosphereIOR
	if atm <= 0 {
		atm = 1.0
	}

	current := ray.Interiors.Top()
	switch {
	case current == nil:
		return atm / interior.IOR, true
	case current == interior:
		// Leaving the object the ray currently occupies.
		under := ray.Interiors[:len(ray.Interiors)-1].Top()
		if under == nil {
			return interior.IOR / atm, false
		}
		return interior.IOR / under.IOR, false
	default:
		return current.IOR / interior.IOR, true
	}
}
