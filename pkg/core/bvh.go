package core

// BVHNode is one node of the bounding volume hierarchy used for the linear-
// vs-BVH intersection choice in the ray tracer driver (spec.md §4.5,
// "Intersection"). Adapted from the teacher's median-split BVH.
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // non-nil only for leaves
}

// BVH accelerates ray/scene intersection and also exposes the scene's
// finite bounding sphere, used by the irradiance cache's distance-to-camera
// reuse-floor heuristic (spec.md §4.2 "Gather").
type BVH struct {
	Root   *BVHNode
	Center Vec3
	Radius float64
}

const leafThreshold = 8

// NewBVH builds a BVH over shapes by splitting at the spatial midpoint of
// the longest axis of each node's bounds.
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	center, radius := boundingSphere(shapesCopy)
	return &BVH{
		Root:   buildBVH(shapesCopy, 0),
		Center: center,
		Radius: radius,
	}
}

func buildBVH(shapes []Shape, depth int) *BVHNode {
	box := shapes[0].BoundingBox()
	for _, s := range shapes[1:] {
		box = box.Union(s.BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: box, Shapes: shapes}
	}

	axis := box.LongestAxis()
	var lo, hi float64
	switch axis {
	case 0:
		lo, hi = box.Min.X, box.Max.X
	case 1:
		lo, hi = box.Min.Y, box.Max.Y
	default:
		lo, hi = box.Min.Z, box.Max.Z
	}
	if hi <= lo {
		return &BVHNode{BoundingBox: box, Shapes: shapes}
	}
	splitPos := (lo + hi) * 0.5

	var left, right []Shape
	for _, s := range shapes {
		c := s.BoundingBox().Center()
		var v float64
		switch axis {
		case 0:
			v = c.X
		case 1:
			v = c.Y
		default:
			v = c.Z
		}
		if v < splitPos {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &BVHNode{BoundingBox: box, Shapes: shapes}
	}

	return &BVHNode{
		BoundingBox: box,
		Left:        buildBVH(left, depth+1),
		Right:       buildBVH(right, depth+1),
	}
}

// Hit returns the nearest intersection with any shape in the BVH.
func (bvh *BVH) Hit(ray Ray, tMin, tMax float64) (*Intersection, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return hitNode(bvh.Root, ray, tMin, tMax)
}

func hitNode(node *BVHNode, ray Ray, tMin, tMax float64) (*Intersection, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	if node.Shapes != nil {
		var closest *Intersection
		hitAny := false
		closestSoFar := tMax
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
				hitAny = true
				closestSoFar = hit.T
				closest = hit
			}
		}
		return closest, hitAny
	}

	var closest *Intersection
	hitAny := false
	closestSoFar := tMax
	if node.Left != nil {
		if hit, ok := hitNode(node.Left, ray, tMin, closestSoFar); ok {
			hitAny, closestSoFar, closest = true, hit.T, hit
		}
	}
	if node.Right != nil {
		if hit, ok := hitNode(node.Right, ray, tMin, closestSoFar); ok {
			hitAny, closestSoFar, closest = true, hit.T, hit
			_ = closestSoFar
		}
	}
	return closest, hitAny
}

// boundingSphere returns a center/radius bounding the finite geometry in
// shapes, skipping any shape whose extent looks like an unbounded plane.
func boundingSphere(shapes []Shape) (Vec3, float64) {
	var bounds AABB
	has := false
	for _, s := range shapes {
		b := s.BoundingBox()
		size := b.Size()
		if size.X > 1e5 || size.Y > 1e5 || size.Z > 1e5 {
			continue
		}
		if !has {
			bounds, has = b, true
		} else {
			bounds = bounds.Union(b)
		}
	}
	if !has {
		return Vec3{}, 0
	}
	center := bounds.Center()
	radius := bounds.Max.Subtract(center).Length()
	return center, radius
}
