// Package geometry provides the minimal set of concrete primitives —
// sphere, plane, box and triangle — needed to exercise the shading and
// global-illumination core end to end. Full primitive intersection
// (Intersect_BBox_Tree, CSG, blobs, meshes) stays an external collaborator;
// these are thin, consumer-side Shape implementations.
package geometry

import (
	"math"

	"github.com/df07/povcore/pkg/core"
)

// Sphere is a solid sphere of constant radius about a center point.
type Sphere struct {
	Center core.Vec3
	Radius float64
	Surf   core.SurfaceProperties
}

// NewSphere creates a sphere with the given surface properties.
func NewSphere(center core.Vec3, radius float64, surf core.SurfaceProperties) *Sphere {
	return &Sphere{Center: center, Radius: radius, Surf: surf}
}

// Hit implements core.Shape.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(disc)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	point := ray.At(root)
	s0 := s
	return &core.Intersection{
		Object: s0,
		T:      root,
		Point:  point,
		NormalFunc: func() core.Vec3 {
			return point.Subtract(s0.Center).Multiply(1.0 / s0.Radius)
		},
	}, true
}

// BoundingBox implements core.Shape.
func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// Surface implements core.Shape.
func (s *Sphere) Surface() core.SurfaceProperties { return s.Surf }
