package core

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates an AABB from explicit min/max corners.
func NewAABB(min, max Vec3) AABB { return AABB{Min: min, Max: max} }

// NewAABBFromPoints returns the smallest AABB containing every given point.
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min.X, max.X = math.Min(min.X, p.X), math.Max(max.X, p.X)
		min.Y, max.Y = math.Min(min.Y, p.Y), math.Max(max.Y, p.Y)
		min.Z, max.Z = math.Min(min.Z, p.Z), math.Max(max.Z, p.Z)
	}
	return AABB{Min: min, Max: max}
}

// Hit tests ray/box intersection with the slab method over [tMin, tMax].
func (a AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		var lo, hi, origin, dir float64
		switch axis {
		case 0:
			lo, hi, origin, dir = a.Min.X, a.Max.X, ray.Origin.X, ray.Direction.X
		case 1:
			lo, hi, origin, dir = a.Min.Y, a.Max.Y, ray.Origin.Y, ray.Direction.Y
		case 2:
			lo, hi, origin, dir = a.Min.Z, a.Max.Z, ray.Origin.Z, ray.Direction.Z
		}

		if math.Abs(dir) < 1e-8 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDir := 1.0 / dir
		t1 := (lo - origin) * invDir
		t2 := (hi - origin) * invDir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// Union returns the smallest AABB containing both a and o.
func (a AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(a.Min.X, o.Min.X), math.Min(a.Min.Y, o.Min.Y), math.Min(a.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(a.Max.X, o.Max.X), math.Max(a.Max.Y, o.Max.Y), math.Max(a.Max.Z, o.Max.Z)},
	}
}

// Center returns the midpoint of the box.
func (a AABB) Center() Vec3 { return a.Min.Add(a.Max).Multiply(0.5) }

// Size returns the per-axis extent of the box.
func (a AABB) Size() Vec3 { return a.Max.Subtract(a.Min) }

// LongestAxis returns the axis (0=X,1=Y,2=Z) with the greatest extent.
func (a AABB) LongestAxis() int {
	s := a.Size()
	if s.X > s.Y && s.X > s.Z {
		return 0
	}
	if s.Y > s.Z {
		return 1
	}
	return 2
}

// Expand returns the box grown by amount in every direction.
func (a AABB) Expand(amount float64) AABB {
	e := NewVec3(amount, amount, amount)
	return AABB{Min: a.Min.Subtract(e), Max: a.Max.Add(e)}
}

// Contains reports whether p lies within the box (inclusive).
func (a AABB) Contains(p Vec3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}
