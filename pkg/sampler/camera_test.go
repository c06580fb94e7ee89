package sampler

import (
	"math"
	"testing"

	"github.com/df07/povcore/pkg/core"
)

func TestPerspectiveCameraCenterRayMatchesDirection(t *testing.T) {
	c := NewCamera(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1.33, 0, 0),
		core.NewVec3(0, 1, 0),
		90, Perspective,
	)

	ray, ok := c.GetRay(50, 50, 100, 100)
	if !ok {
		t.Fatalf("GetRay returned ok=false for a center pixel")
	}
	want := core.NewVec3(0, 0, 1)
	if math.Abs(ray.Direction.X-want.X) > 1e-6 || math.Abs(ray.Direction.Y-want.Y) > 1e-6 {
		t.Errorf("center ray direction = %v, want close to %v", ray.Direction, want)
	}
	if ray.Level != 0 || ray.Weight != 1.0 {
		t.Errorf("primary ray should start at level 0 weight 1.0, got level=%d weight=%f", ray.Level, ray.Weight)
	}
}

func TestOrthographicCameraSharesDirectionAcrossPixels(t *testing.T) {
	c := NewCamera(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		0, Orthographic,
	)

	r1, _ := c.GetRay(10, 50, 100, 100)
	r2, _ := c.GetRay(90, 50, 100, 100)

	if !r1.Direction.Equals(r2.Direction) {
		t.Errorf("orthographic rays should share direction, got %v and %v", r1.Direction, r2.Direction)
	}
	if r1.Origin.Equals(r2.Origin) {
		t.Errorf("orthographic rays should differ in origin across pixels")
	}
}

func TestFisheyeCameraRejectsOutsideUnitDisk(t *testing.T) {
	c := NewCamera(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		180, Fisheye,
	)

	_, ok := c.GetRay(0, 0, 100, 100)
	if ok {
		t.Errorf("fisheye corner pixel should fall outside the unit disk")
	}

	center, ok := c.GetRay(50, 50, 100, 100)
	if !ok {
		t.Fatalf("fisheye center pixel should be inside the unit disk")
	}
	if center.Direction.SumAbsDiff(core.NewVec3(0, 0, 1)) > 1e-6 {
		t.Errorf("fisheye center ray direction = %v, want (0,0,1)", center.Direction)
	}
}

func TestCameraPrepareIsLazyAndResettable(t *testing.T) {
	c := NewCamera(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 1, 0),
		60, Perspective,
	)
	if c.ready {
		t.Fatalf("camera should not precompute constants before the first GetRay")
	}
	c.GetRay(0, 0, 100, 100)
	if !c.ready {
		t.Errorf("camera should precompute constants on first GetRay")
	}
	if c.aspectRatio != 2 {
		t.Errorf("aspectRatio = %f, want 2 (Right length 2 / Up length 1)", c.aspectRatio)
	}

	c.ResetFrame()
	if c.ready {
		t.Errorf("ResetFrame should force constants to be recomputed")
	}
}

func TestCylinder1CameraVariesHorizontallyOnly(t *testing.T) {
	c := NewCamera(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		90, Cylinder1,
	)
	left, _ := c.GetRay(0, 50, 100, 100)
	right, _ := c.GetRay(99, 50, 100, 100)
	if left.Direction.Equals(right.Direction) {
		t.Errorf("cylinder1 camera should vary direction across x")
	}
}

func TestDeflectKeepsFocalPlanePointFixed(t *testing.T) {
	c := NewCamera(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		90, Perspective,
	)
	const focalDistance = 10.0

	ray, ok := c.GetRay(50, 50, 100, 100)
	if !ok {
		t.Fatalf("GetRay returned ok=false")
	}
	focalPoint := ray.Origin.Add(ray.Direction.Multiply(focalDistance))

	deflected := c.Deflect(ray, core.NewVec2(0.3, -0.2), focalDistance)
	if deflected.Origin.Equals(ray.Origin) {
		t.Errorf("Deflect should move the ray origin by the lens offset")
	}

	// The focal plane lies focalDistance ahead, perpendicular to the original
	// ray; the deflected ray crosses it at t = focalDistance / cos(angle).
	tPlane := focalDistance / deflected.Direction.Dot(ray.Direction)
	gotFocal := deflected.Origin.Add(deflected.Direction.Multiply(tPlane))
	if math.Abs(gotFocal.X-focalPoint.X) > 1e-9 ||
		math.Abs(gotFocal.Y-focalPoint.Y) > 1e-9 ||
		math.Abs(gotFocal.Z-focalPoint.Z) > 1e-9 {
		t.Errorf("Deflect should keep the focal-plane point fixed: got %v, want %v", gotFocal, focalPoint)
	}
}

func TestDeflectWithZeroLensOffsetIsIdentity(t *testing.T) {
	c := NewCamera(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		90, Perspective,
	)
	ray, _ := c.GetRay(50, 50, 100, 100)
	deflected := c.Deflect(ray, core.Vec2{}, 10.0)
	if !deflected.Origin.Equals(ray.Origin) {
		t.Errorf("zero lens offset should not move the origin: got %v, want %v", deflected.Origin, ray.Origin)
	}
	if !deflected.Direction.Equals(ray.Direction) {
		t.Errorf("zero lens offset should not change direction: got %v, want %v", deflected.Direction, ray.Direction)
	}
}
