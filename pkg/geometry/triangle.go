package geometry

import "github.com/df07/povcore/pkg/core"

// Triangle is a single flat-shaded triangle.
type Triangle struct {
	V0, V1, V2 core.Vec3
	Surf       core.SurfaceProperties

	normal core.Vec3
	bbox   core.AABB
}

// NewTriangle creates a triangle from three vertices, precomputing its
// geometric normal and bounding box.
func NewTriangle(v0, v1, v2 core.Vec3, surf core.SurfaceProperties) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, Surf: surf}
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)
	return t
}

// Hit implements core.Shape using the Möller–Trumbore algorithm.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	const eps = 1e-10
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -eps && a < eps {
		return nil, false // ray parallel to the triangle's plane
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return nil, false
	}

	ttHit := f * edge2.Dot(q)
	if ttHit < tMin || ttHit > tMax {
		return nil, false
	}

	point := ray.At(ttHit)
	normal := t.normal
	return &core.Intersection{
		Object:     t,
		T:          ttHit,
		Point:      point,
		NormalFunc: func() core.Vec3 { return normal },
	}, true
}

// BoundingBox implements core.Shape.
func (t *Triangle) BoundingBox() core.AABB { return t.bbox }

// Surface implements core.Shape.
func (t *Triangle) Surface() core.SurfaceProperties { return t.Surf }
