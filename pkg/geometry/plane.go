package geometry

import (
	"math"

	"github.com/df07/povcore/pkg/core"
)

// Plane is an infinite plane defined by a point and a unit normal.
type Plane struct {
	Point  core.Vec3
	Normal core.Vec3
	Surf   core.SurfaceProperties
}

// NewPlane creates a plane; normal need not be pre-normalized.
func NewPlane(point, normal core.Vec3, surf core.SurfaceProperties) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Surf: surf}
}

// Hit implements core.Shape.
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	denom := ray.Direction.Dot(p.Normal)
	if math.Abs(denom) < 1e-8 {
		return nil, false
	}
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denom
	if t < tMin || t > tMax {
		return nil, false
	}

	point := ray.At(t)
	normal := p.Normal
	return &core.Intersection{
		Object:     p,
		T:          t,
		Point:      point,
		NormalFunc: func() core.Vec3 { return normal },
	}, true
}

// BoundingBox implements core.Shape. A plane is unbounded along its two
// in-plane axes; BVH construction skips it via boundingSphere's extent
// check when computing the scene's finite radius.
func (p *Plane) BoundingBox() core.AABB {
	const big = 1e8
	return core.NewAABB(core.NewVec3(-big, -big, -big), core.NewVec3(big, big, big))
}

// Surface implements core.Shape.
func (p *Plane) Surface() core.SurfaceProperties { return p.Surf }
