// Package sampler implements the pixel sampler (spec.md §4.6): the camera
// models that map (x, y) to a primary ray, and the non-adaptive, jittered-
// supersampling, adaptive-subdivision and mosaic-preview pixel-visiting
// strategies built on top of a raytracer.Tracer-shaped trace callback.
package sampler

import (
	"math"

	"github.com/df07/povcore/pkg/core"
)

// CameraKind enumerates the camera projections spec.md §4.6 names.
type CameraKind int

const (
	Perspective CameraKind = iota
	Orthographic
	Fisheye
	Omnimax
	Panoramic
	UltraWideAngle
	Cylinder1 // axis in "up" direction
	Cylinder2 // axis in "right" direction
	Cylinder3 // axis in "up" direction, orthogonal in "right"
	Cylinder4 // axis in "right" direction, orthogonal in "up" (supplemented, see DESIGN.md)
)

// Camera holds a camera's placement and projection. Angle is the field of
// view in degrees, used by every non-perspective projection.
type Camera struct {
	Location  core.Vec3
	Direction core.Vec3
	Right     core.Vec3
	Up        core.Vec3
	Angle     float64
	Kind      CameraKind
	NormalMap core.NormalPerturber

	ready       bool
	aspectRatio float64
	dirN        core.Vec3
	rightN      core.Vec3
	upN         core.Vec3
}

// NewCamera creates a camera; Right/Up need not be unit or orthogonal to
// Direction — aspect ratio is derived from their relative lengths before
// they are normalized, exactly as the reference renderer does.
func NewCamera(location, direction, right, up core.Vec3, angle float64, kind CameraKind) *Camera {
	return &Camera{Location: location, Direction: direction, Right: right, Up: up, Angle: angle, Kind: kind}
}

// prepare precomputes the aspect ratio and normalized basis vectors on the
// first call of a frame (spec.md §4.6: "Constants ... are precomputed on
// first call of a frame"), then leaves them untouched until ResetFrame.
func (c *Camera) prepare() {
	if c.ready {
		return
	}
	lr := c.Right.Length()
	lu := c.Up.Length()
	if lu == 0 {
		lu = 1
	}
	c.aspectRatio = lr / lu
	c.dirN = c.Direction.Normalize()
	c.rightN = c.Right.Normalize()
	c.upN = c.Up.Normalize()
	c.ready = true
}

// ResetFrame forces the precomputed constants to be rebuilt on the next
// GetRay call, for use between frames if the camera itself changed.
func (c *Camera) ResetFrame() { c.ready = false }

// GetRay maps screen coordinates (x, y), where x is in [0, width) and y is
// in [0, height) with y=0 at the top, to a primary ray. It returns
// ok=false for fisheye/omnimax pixels outside the projection's visible
// disk, per spec.md §4.6.
func (c *Camera) GetRay(x, y float64, width, height int) (core.Ray, bool) {
	c.prepare()

	x0 := x/float64(width) - 0.5
	y0 := 0.5 - y/float64(height)

	switch c.Kind {
	case Perspective:
		dir := c.Direction.Add(c.Right.Multiply(x0)).Add(c.Up.Multiply(y0))
		return c.finish(c.Location, dir, x0, y0), true

	case Orthographic:
		origin := c.Location.Add(c.Right.Multiply(x0)).Add(c.Up.Multiply(y0))
		return c.finish(origin, c.Direction, x0, y0), true

	case Fisheye, Omnimax:
		return c.fisheyeLike(x0, y0)

	case Panoramic:
		return c.panoramic(x0, y0)

	case UltraWideAngle:
		return c.ultraWide(x0, y0)

	case Cylinder1:
		theta := x0 * c.Angle * math.Pi / 180
		dir := c.rightN.Multiply(math.Sin(theta)).Add(c.upN.Multiply(y0)).Add(c.dirN.Multiply(math.Cos(theta)))
		return c.finish(c.Location, dir, x0, y0), true

	case Cylinder2:
		phi := y0 * c.Angle * math.Pi / 180
		dir := c.rightN.Multiply(x0).Add(c.upN.Multiply(math.Sin(phi))).Add(c.dirN.Multiply(math.Cos(phi)))
		return c.finish(c.Location, dir, x0, y0), true

	case Cylinder3:
		theta := x0 * c.Angle * math.Pi / 180
		dir := c.rightN.Multiply(math.Sin(theta)).Add(c.dirN.Multiply(math.Cos(theta)))
		origin := c.Location.Add(c.Up.Multiply(y0))
		return c.finish(origin, dir, x0, y0), true

	case Cylinder4:
		phi := y0 * c.Angle * math.Pi / 180
		dir := c.upN.Multiply(math.Sin(phi)).Add(c.dirN.Multiply(math.Cos(phi)))
		origin := c.Location.Add(c.Right.Multiply(x0))
		return c.finish(origin, dir, x0, y0), true
	}
	return core.Ray{}, false
}

// fisheyeLike implements the shared fisheye/omnimax polar-coordinate setup
// (spec.md §4.6), differing only in how the radial angle maps to the
// vertical spherical angle.
func (c *Camera) fisheyeLike(x0, y0 float64) (core.Ray, bool) {
	x0 *= 2 * c.aspectRatio
	y0 *= 2

	rad := math.Sqrt(x0*x0 + y0*y0)
	if rad > 1.0 {
		return core.Ray{}, false
	}

	phi := 0.0
	if rad != 0 {
		if x0 < 0 {
			phi = math.Pi - math.Asin(y0/rad)
		} else {
			phi = math.Asin(y0 / rad)
		}
	}

	var vertAngle float64
	if c.Kind == Omnimax {
		vertAngle = 1.411269*rad - 0.09439*rad*rad*rad + 0.25674*math.Pow(rad, 5)
	} else {
		vertAngle = rad * c.Angle * math.Pi / 360
	}

	cx, sx := math.Cos(phi), math.Sin(phi)
	cy, sy := math.Cos(vertAngle), math.Sin(vertAngle)

	if c.Kind == Omnimax && sx*sy < math.Tan(135*math.Pi/180)*cy {
		return core.Ray{}, false
	}

	dir := c.rightN.Multiply(cx * sy).Add(c.upN.Multiply(sx * sy)).Add(c.dirN.Multiply(cy))
	return c.finish(c.Location, dir, x0, y0), true
}

func (c *Camera) panoramic(x0, y0 float64) (core.Ray, bool) {
	u := x0 + 0.5
	theta := (1 - u) * math.Pi
	phi := math.Pi / 2 * (2 * y0)

	cx, sx := math.Cos(theta), math.Sin(theta)
	var ty float64
	if math.Abs(math.Pi/2-math.Abs(phi)) < core.Epsilon {
		if phi > 0 {
			ty = 1e9
		} else {
			ty = -1e9
		}
	} else {
		ty = math.Tan(phi)
	}

	dir := c.rightN.Multiply(cx).Add(c.upN.Multiply(ty)).Add(c.dirN.Multiply(sx))
	return c.finish(c.Location, dir, x0, y0), true
}

func (c *Camera) ultraWide(x0, y0 float64) (core.Ray, bool) {
	ax := x0 * c.Angle / 180
	ay := y0 * c.Angle / 180
	cx, sx := math.Cos(ax), math.Sin(ax)
	cy, sy := math.Cos(ay), math.Sin(ay)

	dir := c.rightN.Multiply(sx).Add(c.upN.Multiply(sy)).Add(c.dirN.Multiply(cx * cy))
	return c.finish(c.Location, dir, x0, y0), true
}

// Deflect applies a focal-blur aperture offset to an already-built primary
// ray (spec.md §4.7): the origin is displaced by lensOffset in the
// camera's right/up basis, and the direction is counter-deflected by the
// same vector, scaled by focalDistance, so the point on the focal plane
// is unchanged. Grounded directly on RENDER.C's jitter_camera_ray.
func (c *Camera) Deflect(ray core.Ray, lensOffset core.Vec2, focalDistance float64) core.Ray {
	c.prepare()
	deflection := c.rightN.Multiply(lensOffset.X).Subtract(c.upN.Multiply(lensOffset.Y))
	origin := ray.Origin.Add(deflection)
	dir := ray.Direction.Multiply(focalDistance).Subtract(deflection).Normalize()
	return core.NewRay(origin, dir)
}

// finish applies the optional camera normal-map perturbation (the
// Camera.Tnormal seam the reference renderer exposes) and normalizes the
// ray direction before returning a primary (level 0, full ADC weight) ray.
func (c *Camera) finish(origin, dir core.Vec3, x0, y0 float64) core.Ray {
	dir = dir.Normalize()
	if c.NormalMap != nil {
		dir = c.NormalMap.Perturb(dir, core.NewVec3(x0, y0, 0)).Normalize()
	}
	return core.NewRay(origin, dir)
}
