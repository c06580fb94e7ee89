package shadow

import (
	"testing"

	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/lights"
)

// fakeScene is a trivial Intersector backed by a fixed list of hits returned
// in order, one per Hit call regardless of the ray, letting tests script a
// short sequence of blockers along a shadow ray.
type fakeScene struct {
	hits []*core.Intersection
	n    int
}

func (s *fakeScene) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	if s.n >= len(s.hits) {
		return nil, false
	}
	h := s.hits[s.n]
	s.n++
	if h == nil {
		return nil, false
	}
	return h, true
}

type fakeShape struct {
	surf core.SurfaceProperties
}

func (f *fakeShape) Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	return &core.Intersection{Object: f, T: tMin + 0.01, Point: ray.At(tMin + 0.01)}, true
}
func (f *fakeShape) BoundingBox() core.AABB       { return core.AABB{} }
func (f *fakeShape) Surface() core.SurfaceProperties { return f.surf }

func opaqueBlocker() *fakeShape {
	return &fakeShape{surf: core.SurfaceProperties{Opaque: true}}
}

func fullBlockFilter(hit *core.Intersection, dir core.Vec3) core.Vec3 { return core.Vec3{} }
func passThroughFilter(hit *core.Intersection, dir core.Vec3) core.Vec3 {
	return core.NewVec3(1, 1, 1)
}

func TestTestShadowUnblockedPointLight(t *testing.T) {
	light := lights.NewPointLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1))
	scene := &fakeScene{}
	tester := New(scene, passThroughFilter)

	color := tester.TestShadow(light, core.NewVec3(0, 0, 0))
	if color.X != 1 || color.Y != 1 || color.Z != 1 {
		t.Errorf("unblocked point light color = %v, want (1,1,1)", color)
	}
}

func TestTestShadowFullyBlockedByOpaque(t *testing.T) {
	light := lights.NewPointLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1))
	blocker := opaqueBlocker()
	scene := &fakeScene{hits: []*core.Intersection{{Object: blocker, T: 1, Point: core.NewVec3(0, 1, 0)}}}
	tester := New(scene, fullBlockFilter)

	color := tester.TestShadow(light, core.NewVec3(0, 0, 0))
	if color.X != 0 || color.Y != 0 || color.Z != 0 {
		t.Errorf("opaque-blocked light color = %v, want black", color)
	}
}

func TestTestShadowCachesFirstOpaqueBlocker(t *testing.T) {
	light := lights.NewPointLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1))
	blocker := opaqueBlocker()
	scene := &fakeScene{hits: []*core.Intersection{{Object: blocker, T: 1, Point: core.NewVec3(0, 1, 0)}}}
	tester := New(scene, fullBlockFilter)

	tester.TestShadow(light, core.NewVec3(0, 0, 0))
	if light.CachedBlocker() != blocker {
		t.Errorf("expected the fully-occluding opaque blocker to be cached")
	}
}

func TestTestShadowDoesNotCacheNonOpaqueBlocker(t *testing.T) {
	light := lights.NewPointLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1))
	blocker := &fakeShape{surf: core.SurfaceProperties{Opaque: false}}
	scene := &fakeScene{hits: []*core.Intersection{{Object: blocker, T: 1, Point: core.NewVec3(0, 1, 0)}}}
	tester := New(scene, fullBlockFilter)

	tester.TestShadow(light, core.NewVec3(0, 0, 0))
	if light.CachedBlocker() != nil {
		t.Errorf("a non-opaque blocker must never populate the shadow cache")
	}
}

func TestTestShadowNoShadowObjectIsTransparent(t *testing.T) {
	light := lights.NewPointLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1))
	blocker := &fakeShape{surf: core.SurfaceProperties{Opaque: true, NoShadow: true}}
	scene := &fakeScene{hits: []*core.Intersection{{Object: blocker, T: 1, Point: core.NewVec3(0, 1, 0)}}}
	tester := New(scene, fullBlockFilter)

	color := tester.TestShadow(light, core.NewVec3(0, 0, 0))
	if color.X != 1 {
		t.Errorf("a NO_SHADOW object must not attenuate light at all, got %v", color)
	}
}

func TestTestShadowFillLightIsUnshadowed(t *testing.T) {
	light := lights.NewFillLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1))
	blocker := opaqueBlocker()
	scene := &fakeScene{hits: []*core.Intersection{{Object: blocker, T: 1, Point: core.NewVec3(0, 1, 0)}}}
	tester := New(scene, fullBlockFilter)

	color := tester.TestShadow(light, core.NewVec3(0, 0, 0))
	if color.X != 1 {
		t.Errorf("fill lights must never be shadow-tested, got %v", color)
	}
}

func TestTestShadowZeroIntensitySkipsTrace(t *testing.T) {
	light := lights.NewSpotLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1), core.NewVec3(0, -1, 0), 0.1, 0.2)
	scene := &fakeScene{hits: []*core.Intersection{{Object: opaqueBlocker(), T: 1, Point: core.NewVec3(0, 1, 0)}}}
	tester := New(scene, fullBlockFilter)

	// Point far outside the spot cone: intensity should be zero and the
	// shadow tester must not bother tracing at all.
	color := tester.TestShadow(light, core.NewVec3(100, 0, 0))
	if color.X != 0 || color.Y != 0 || color.Z != 0 {
		t.Errorf("outside-cone spot light should return black without tracing, got %v", color)
	}
}

func TestBlockAreaLightAveragesCorners(t *testing.T) {
	light := lights.NewAreaLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, 4), 2, 2)
	scene := &fakeScene{}
	tester := New(scene, passThroughFilter)

	color := tester.TestShadow(light, core.NewVec3(0, 0, 0))
	if color.X != 1 || color.Y != 1 || color.Z != 1 {
		t.Errorf("fully unblocked area light should average to full intensity, got %v", color)
	}
}

func TestBlockAreaLightCachesGridCorners(t *testing.T) {
	light := lights.NewAreaLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, 4), 1, 1)
	scene := &fakeScene{}
	tester := New(scene, passThroughFilter)

	tester.TestShadow(light, core.NewVec3(0, 0, 0))
	if _, ok := light.Cached(0, 0); !ok {
		t.Errorf("sampling the area light grid should populate its corner cache")
	}
}

func TestCornersDisagreeThreshold(t *testing.T) {
	a := core.NewVec3(1, 1, 1)
	b := core.NewVec3(1, 1, 1)
	if cornersDisagree(a, b, a, b) {
		t.Errorf("identical corners must not be flagged as disagreeing")
	}
	c := core.NewVec3(0, 0, 0)
	if !cornersDisagree(a, b, c, b) {
		t.Errorf("a fully-lit vs fully-shadowed corner pair must be flagged as disagreeing")
	}
}
