package geometry

import "github.com/df07/povcore/pkg/core"

// Box is an axis-aligned rectangular box built from six Quad faces.
type Box struct {
	Center core.Vec3
	Size   core.Vec3 // half-extents along each axis
	Surf   core.SurfaceProperties

	faces [6]*Quad
	bbox  core.AABB
}

// NewBox creates an axis-aligned box. Size is the half-extent along each
// axis, so Size (1,1,1) produces a 2×2×2 cube.
func NewBox(center, size core.Vec3, surf core.SurfaceProperties) *Box {
	b := &Box{Center: center, Size: size, Surf: surf}
	b.generateFaces()
	return b
}

func (b *Box) generateFaces() {
	c, s := b.Center, b.Size
	min := c.Subtract(s)
	max := c.Add(s)

	dx := core.NewVec3(2*s.X, 0, 0)
	dy := core.NewVec3(0, 2*s.Y, 0)
	dz := core.NewVec3(0, 0, 2*s.Z)

	// Each face's (u, v) order is chosen so u×v points outward.
	b.faces[0] = NewQuad(core.NewVec3(min.X, min.Y, max.Z), dx, dy, b.Surf)          // front  (+Z)
	b.faces[1] = NewQuad(core.NewVec3(max.X, min.Y, min.Z), dx.Negate(), dy, b.Surf) // back   (-Z)
	b.faces[2] = NewQuad(core.NewVec3(max.X, min.Y, min.Z), dy, dz, b.Surf)          // right  (+X)
	b.faces[3] = NewQuad(core.NewVec3(min.X, min.Y, min.Z), dz, dy, b.Surf)          // left   (-X)
	b.faces[4] = NewQuad(core.NewVec3(min.X, max.Y, min.Z), dz, dx, b.Surf)          // top    (+Y)
	b.faces[5] = NewQuad(core.NewVec3(min.X, min.Y, min.Z), dx, dz, b.Surf)          // bottom (-Y)

	b.bbox = core.NewAABB(min, max)
}

// Hit implements core.Shape, testing all six faces and keeping the closest.
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	var closest *core.Intersection
	closestT := tMax
	for _, face := range b.faces {
		if hit, ok := face.Hit(ray, tMin, closestT); ok {
			closestT = hit.T
			closest = hit
			closest.Object = b
		}
	}
	return closest, closest != nil
}

// BoundingBox implements core.Shape.
func (b *Box) BoundingBox() core.AABB { return b.bbox }

// Surface implements core.Shape.
func (b *Box) Surface() core.SurfaceProperties { return b.Surf }
