package geometry

import "github.com/df07/povcore/pkg/core"

// Quad is a planar parallelogram defined by a corner and two edge vectors,
// used directly for scene walls/floors and internally by Box for its faces.
type Quad struct {
	Corner core.Vec3
	U, V   core.Vec3
	Surf   core.SurfaceProperties

	normal core.Vec3
	w      core.Vec3 // cross-product helper for the barycentric-style test below
	bbox   core.AABB
}

// NewQuad creates a quad from a corner and two edge vectors.
func NewQuad(corner, u, v core.Vec3, surf core.SurfaceProperties) *Quad {
	q := &Quad{Corner: corner, U: u, V: v, Surf: surf}
	n := u.Cross(v)
	q.normal = n.Normalize()
	nLenSq := n.Dot(n)
	if nLenSq > 0 {
		q.w = n.Multiply(1.0 / nLenSq)
	}
	q.bbox = core.NewAABBFromPoints(corner, corner.Add(u), corner.Add(v), corner.Add(u).Add(v))
	return q
}

// Hit implements core.Shape.
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	denom := q.normal.Dot(ray.Direction)
	if denom > -1e-10 && denom < 1e-10 {
		return nil, false
	}
	t := q.normal.Dot(q.Corner.Subtract(ray.Origin)) / denom
	if t < tMin || t > tMax {
		return nil, false
	}

	point := ray.At(t)
	planar := point.Subtract(q.Corner)
	alpha := q.w.Dot(planar.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(planar))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	normal := q.normal
	return &core.Intersection{
		Object:     q,
		T:          t,
		Point:      point,
		NormalFunc: func() core.Vec3 { return normal },
	}, true
}

// BoundingBox implements core.Shape.
func (q *Quad) BoundingBox() core.AABB { return q.bbox }

// Surface implements core.Shape.
func (q *Quad) Surface() core.SurfaceProperties { return q.Surf }
