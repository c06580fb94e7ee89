package scene

import (
	"testing"

	"github.com/df07/povcore/pkg/core"
)

type fakeShape struct {
	surf   core.SurfaceProperties
	hit    *core.Intersection
	inside bool
}

func (s *fakeShape) Hit(core.Ray, float64, float64) (*core.Intersection, bool) {
	if s.hit == nil {
		return nil, false
	}
	return s.hit, true
}
func (s *fakeShape) BoundingBox() core.AABB {
	return core.NewAABB(core.NewVec3(-1e6, -1e6, -1e6), core.NewVec3(1e6, 1e6, 1e6))
}
func (s *fakeShape) Surface() core.SurfaceProperties { return s.surf }
func (s *fakeShape) Inside(core.Vec3) bool           { return s.inside }

var _ core.Insider = (*fakeShape)(nil)

func TestNewBuildsBVHAndDefaultsLogger(t *testing.T) {
	shape := &fakeShape{}
	s := New([]core.Shape{shape}, nil, core.DefaultQuality, core.Vec3{}, nil)

	if s.BVH == nil {
		t.Fatalf("New should build a BVH over the given shapes")
	}
	if s.Logger == nil {
		t.Errorf("New should default a nil Logger to a non-nil NopLogger")
	}
}

func TestSceneHitDelegatesToBVH(t *testing.T) {
	hit := &core.Intersection{Point: core.NewVec3(0, 0, 5)}
	shape := &fakeShape{hit: hit}
	s := New([]core.Shape{shape}, nil, core.DefaultQuality, core.Vec3{}, nil)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	got, ok := s.Hit(ray, 0, 1000)
	if !ok {
		t.Fatalf("Hit should report the fake shape's intersection")
	}
	if got.Point != hit.Point {
		t.Errorf("Hit point = %v, want %v", got.Point, hit.Point)
	}
}

func TestSceneLightsReturnsStoredLights(t *testing.T) {
	light := core.NewVec3(1, 1, 1)
	s := New(nil, []core.Light{stubLight{color: light}}, core.DefaultQuality, core.Vec3{}, nil)

	got := s.Lights()
	if len(got) != 1 || got[0].LightColor() != light {
		t.Errorf("Lights() = %v, want one light colored %v", got, light)
	}
}

type stubLight struct{ color core.Vec3 }

func (l stubLight) LightColor() core.Vec3  { return l.color }
func (l stubLight) LightCenter() core.Vec3 { return core.Vec3{} }
func (l stubLight) Kind() core.LightKind   { return core.LightPoint }
