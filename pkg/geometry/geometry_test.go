package geometry

import (
	"math"
	"testing"

	"github.com/df07/povcore/pkg/core"
)

func TestSphereHitFrontFace(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1, core.SurfaceProperties{})
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	hit, ok := s.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("T = %v, want 4.0", hit.T)
	}
	wantNormal := core.NewVec3(0, 0, 1)
	if !hit.Normal().Equals(wantNormal) {
		t.Errorf("normal = %v, want %v", hit.Normal(), wantNormal)
	}
}

func TestSphereMiss(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1, core.SurfaceProperties{})
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))
	if _, ok := s.Hit(ray, 0.001, math.Inf(1)); ok {
		t.Errorf("expected no hit for a ray that misses the sphere")
	}
}

func TestSphereBoundingBox(t *testing.T) {
	s := NewSphere(core.NewVec3(1, 2, 3), 2, core.SurfaceProperties{})
	box := s.BoundingBox()
	if !box.Min.Equals(core.NewVec3(-1, 0, 1)) || !box.Max.Equals(core.NewVec3(3, 4, 5)) {
		t.Errorf("BoundingBox = %v, want min{-1,0,1} max{3,4,5}", box)
	}
}

func TestPlaneHitAndNormal(t *testing.T) {
	p := NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), core.SurfaceProperties{})
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))

	hit, ok := p.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.T-5.0) > 1e-9 {
		t.Errorf("T = %v, want 5.0", hit.T)
	}
	if !hit.Point.Equals(core.Vec3{}) {
		t.Errorf("hit point = %v, want origin", hit.Point)
	}
}

func TestPlaneParallelRayMisses(t *testing.T) {
	p := NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), core.SurfaceProperties{})
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0))
	if _, ok := p.Hit(ray, 0.001, math.Inf(1)); ok {
		t.Errorf("expected no hit for a ray parallel to the plane")
	}
}

func TestTriangleHitInsideAndOutside(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
		core.SurfaceProperties{},
	)

	inside := core.NewRay(core.NewVec3(0, -0.5, -5), core.NewVec3(0, 0, 1))
	if _, ok := tri.Hit(inside, 0.001, math.Inf(1)); !ok {
		t.Errorf("expected a hit through the triangle's interior")
	}

	outside := core.NewRay(core.NewVec3(5, 5, -5), core.NewVec3(0, 0, 1))
	if _, ok := tri.Hit(outside, 0.001, math.Inf(1)); ok {
		t.Errorf("expected no hit outside the triangle")
	}
}

func TestQuadHitWithinBounds(t *testing.T) {
	q := NewQuad(core.NewVec3(-1, -1, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), core.SurfaceProperties{})

	center := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	if _, ok := q.Hit(center, 0.001, math.Inf(1)); !ok {
		t.Errorf("expected a hit through the quad's center")
	}

	miss := core.NewRay(core.NewVec3(5, 5, -5), core.NewVec3(0, 0, 1))
	if _, ok := q.Hit(miss, 0.001, math.Inf(1)); ok {
		t.Errorf("expected no hit outside the quad")
	}
}

func TestBoxHitsNearestFace(t *testing.T) {
	b := NewBox(core.Vec3{}, core.NewVec3(1, 1, 1), core.SurfaceProperties{})
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	hit, ok := b.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("T = %v, want 4.0 (front face at z=-1)", hit.T)
	}
	if hit.Normal().Dot(core.NewVec3(0, 0, -1)) < 0.99 {
		t.Errorf("normal = %v, want approximately {0,0,-1}", hit.Normal())
	}
}

func TestBoxHitReportsBoxAsObject(t *testing.T) {
	b := NewBox(core.Vec3{}, core.NewVec3(1, 1, 1), core.SurfaceProperties{})
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	hit, ok := b.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatalf("expected a hit")
	}
	if hit.Object != core.Shape(b) {
		t.Errorf("Intersection.Object = %v, want the box itself, not the internal quad face", hit.Object)
	}
}

func TestBoxBoundingBoxMatchesHalfExtents(t *testing.T) {
	b := NewBox(core.NewVec3(1, 2, 3), core.NewVec3(1, 2, 3), core.SurfaceProperties{})
	box := b.BoundingBox()
	if !box.Min.Equals(core.Vec3{}) || !box.Max.Equals(core.NewVec3(2, 4, 6)) {
		t.Errorf("BoundingBox = %v, want min{0,0,0} max{2,4,6}", box)
	}
}
