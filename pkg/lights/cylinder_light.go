package lights

import "github.com/df07/povcore/pkg/core"

// CylinderLight is a spot-like light whose falloff is measured by
// perpendicular distance from the beam axis rather than by angle, giving a
// cylindrical (rather than conical) beam — POV-Ray's `cylinder` light type.
type CylinderLight struct {
	Center    core.Vec3
	ColorVal  core.Vec3
	Direction core.Vec3 // unit axis direction
	Radius    float64   // full intensity within this perpendicular distance
	Falloff   float64   // zero intensity beyond this perpendicular distance

	cachedBlocker core.Shape
}

// NewCylinderLight creates a cylinder light. direction need not be normalized.
func NewCylinderLight(center, color, direction core.Vec3, radius, falloff float64) *CylinderLight {
	return &CylinderLight{
		Center:    center,
		ColorVal:  color,
		Direction: direction.Normalize(),
		Radius:    radius,
		Falloff:   falloff,
	}
}

func (c *CylinderLight) Kind() core.LightKind   { return core.LightCylinder }
func (c *CylinderLight) LightColor() core.Vec3  { return c.ColorVal }
func (c *CylinderLight) LightCenter() core.Vec3 { return c.Center }

// Illuminate implements Illuminator: intensity ramps from 1 inside Radius
// perpendicular distance from the axis to 0 outside Falloff.
func (c *CylinderLight) Illuminate(point core.Vec3) (core.Vec3, float64, float64) {
	dirToPoint, dist := directionAndDistance(c.Center, point)
	if dist == 0 {
		return dirToPoint, dist, 0
	}

	toPoint := point.Subtract(c.Center)
	along := toPoint.Dot(c.Direction)
	perp := toPoint.Subtract(c.Direction.Multiply(along)).Length()

	intensity := 1.0 - smoothstep(perp, c.Radius, c.Falloff)
	return dirToPoint, dist, intensity
}

// CachedBlocker implements core.ShadowCaching.
func (c *CylinderLight) CachedBlocker() core.Shape { return c.cachedBlocker }

// SetCachedBlocker implements core.ShadowCaching.
func (c *CylinderLight) SetCachedBlocker(s core.Shape) { c.cachedBlocker = s }
