package lights

import "github.com/df07/povcore/pkg/core"

// SpotLight radiates within a cone defined by a direction, an inner
// (full-intensity) half-angle (Radius) and an outer (zero-intensity)
// half-angle (Falloff), with an optional Tightness exponent narrowing the
// beam further.
type SpotLight struct {
	Center    core.Vec3
	ColorVal  core.Vec3
	Direction core.Vec3 // unit vector the spot points along
	Radius    float64   // radians; full intensity within this half-angle
	Falloff   float64   // radians; zero intensity beyond this half-angle
	Tightness float64   // extra cosine-power narrowing, 0 disables it

	cachedBlocker core.Shape
}

// NewSpotLight creates a spot light. direction need not be normalized.
func NewSpotLight(center, color, direction core.Vec3, radius, falloff float64) *SpotLight {
	return &SpotLight{
		Center:    center,
		ColorVal:  color,
		Direction: direction.Normalize(),
		Radius:    radius,
		Falloff:   falloff,
	}
}

func (s *SpotLight) Kind() core.LightKind   { return core.LightSpot }
func (s *SpotLight) LightColor() core.Vec3  { return s.ColorVal }
func (s *SpotLight) LightCenter() core.Vec3 { return s.Center }

// Illuminate implements Illuminator: intensity ramps from 1 inside Radius to
// 0 outside Falloff, then is narrowed further by Tightness if set.
func (s *SpotLight) Illuminate(point core.Vec3) (core.Vec3, float64, float64) {
	dirToPoint, dist := directionAndDistance(s.Center, point)
	if dist == 0 {
		return dirToPoint, dist, 0
	}

	cosAngle := dirToPoint.Negate().Dot(s.Direction)
	if cosAngle <= 0 {
		return dirToPoint, dist, 0
	}

	// angle from the beam axis, via the cosine rather than math.Acos, since
	// Radius/Falloff are compared against cos(angle) monotonically over
	// [0, pi/2).
	cosRadius := cosHalfAngle(s.Radius)
	cosFalloff := cosHalfAngle(s.Falloff)

	intensity := smoothstep(cosAngle, cosFalloff, cosRadius)
	if s.Tightness > 0 {
		intensity *= pow(cosAngle, s.Tightness)
	}
	return dirToPoint, dist, intensity
}

// CachedBlocker implements core.ShadowCaching.
func (s *SpotLight) CachedBlocker() core.Shape { return s.cachedBlocker }

// SetCachedBlocker implements core.ShadowCaching.
func (s *SpotLight) SetCachedBlocker(sh core.Shape) { s.cachedBlocker = sh }
