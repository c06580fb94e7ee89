// Package lights implements the five light-source variants spec.md §3
// names: point, spot, cylinder, area and fill. Each satisfies core.Light
// (and, where it caches a shadow blocker, core.ShadowCaching); type-specific
// falloff and sampling data lives on the concrete type, the same way the
// teacher's geometry package keeps per-shape data behind a narrow interface
// and lets callers type-assert down for the rest.
package lights

import "github.com/df07/povcore/pkg/core"

// Illuminator is implemented by every concrete light in this package. The
// shading evaluator (§4.4) calls Illuminate to get the direction, distance
// and pre-shadow intensity attenuation from a surface point to the light,
// before handing off to the shadow tester for visibility.
type Illuminator interface {
	core.Light
	// Illuminate returns the unit direction from point toward the light, the
	// distance to travel along it, and the light's own intensity
	// attenuation at that direction (cone falloff, cylinder falloff, …) —
	// before any shadowing or distance-based light fade is applied.
	Illuminate(point core.Vec3) (direction core.Vec3, distance float64, intensity float64)
}

// directionAndDistance is the common first step of Illuminate for every
// light whose samples originate from a single center point.
func directionAndDistance(center, point core.Vec3) (core.Vec3, float64) {
	toLight := center.Subtract(point)
	dist := toLight.Length()
	if dist == 0 {
		return core.Vec3{}, 0
	}
	return toLight.Multiply(1 / dist), dist
}

// smoothstep maps x linearly from [lo,hi] to [0,1], clamped at the ends —
// the cone/cylinder falloff ramp shared by spot and cylinder lights.
func smoothstep(x, lo, hi float64) float64 {
	if hi == lo {
		if x >= hi {
			return 1
		}
		return 0
	}
	t := (x - lo) / (hi - lo)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
