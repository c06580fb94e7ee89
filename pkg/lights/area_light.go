package lights

import "github.com/df07/povcore/pkg/core"

// AreaLight is a rectangular light spanning two basis axes, sampled on a
// Size1×Size2 grid by the adaptive shadow tester (spec.md §4.3). It owns
// the grid's sample-result cache so that recursive subdivision can reuse a
// corner already shot by a sibling call rather than re-tracing it.
type AreaLight struct {
	Center   core.Vec3
	ColorVal core.Vec3
	Axis1    core.Vec3 // full extent of the light along its first axis
	Axis2    core.Vec3 // full extent of the light along its second axis
	Size1    int        // grid sample count along Axis1
	Size2    int        // grid sample count along Axis2
	Jitter   bool        // jitter each grid sample within its cell
	AdaptiveLevel int    // max recursive subdivision depth (0 = corners only)

	cachedBlocker core.Shape
	grid          map[areaGridKey]core.Vec3
}

type areaGridKey struct{ U, V int }

// NewAreaLight creates an area light spanning axis1/axis2 from its center,
// with the given grid resolution.
func NewAreaLight(center, color, axis1, axis2 core.Vec3, size1, size2 int) *AreaLight {
	if size1 < 1 {
		size1 = 1
	}
	if size2 < 1 {
		size2 = 1
	}
	return &AreaLight{
		Center: center, ColorVal: color,
		Axis1: axis1, Axis2: axis2,
		Size1: size1, Size2: size2,
	}
}

func (a *AreaLight) Kind() core.LightKind   { return core.LightArea }
func (a *AreaLight) LightColor() core.Vec3  { return a.ColorVal }
func (a *AreaLight) LightCenter() core.Vec3 { return a.Center }

// Illuminate implements Illuminator using the light's geometric center; the
// shadow tester separately samples individual grid points for area-light
// visibility (spec.md §4.3 "Area light").
func (a *AreaLight) Illuminate(point core.Vec3) (core.Vec3, float64, float64) {
	dir, dist := directionAndDistance(a.Center, point)
	return dir, dist, 1.0
}

// CachedBlocker implements core.ShadowCaching.
func (a *AreaLight) CachedBlocker() core.Shape { return a.cachedBlocker }

// SetCachedBlocker implements core.ShadowCaching.
func (a *AreaLight) SetCachedBlocker(s core.Shape) { a.cachedBlocker = s }

// Point returns the world-space sample position for grid coordinates (u, v)
// measured out of resU×resV subdivisions, jittered within its cell by the
// given fractions in [0,1).
func (a *AreaLight) Point(u, v, resU, resV int, jitterU, jitterV float64) core.Vec3 {
	if resU < 1 {
		resU = 1
	}
	if resV < 1 {
		resV = 1
	}
	fu := (float64(u)+jitterU)/float64(resU) - 0.5
	fv := (float64(v)+jitterV)/float64(resV) - 0.5
	return a.Center.Add(a.Axis1.Multiply(fu)).Add(a.Axis2.Multiply(fv))
}

// Cached returns a previously computed sample color at grid coordinates
// (u, v) and whether one exists yet. Grid coordinates are caller-scaled to
// whatever subdivision resolution is in play, so a corner shared between
// recursion levels (e.g. the midpoint of a 4×4 grid and a corner of an 8×8
// one) must be looked up at the same (u, v, resolution) triple it was
// stored under — callers key by the finest resolution in use for a given
// light to keep that consistent.
func (a *AreaLight) Cached(u, v int) (core.Vec3, bool) {
	c, ok := a.grid[areaGridKey{u, v}]
	return c, ok
}

// SetCached stores a computed sample color at grid coordinates (u, v).
func (a *AreaLight) SetCached(u, v int, color core.Vec3) {
	if a.grid == nil {
		a.grid = make(map[areaGridKey]core.Vec3)
	}
	a.grid[areaGridKey{u, v}] = color
}

// Reset clears the grid cache. This is the "first-call initialization"
// spec.md §4.3 describes as flagging the whole grid as uncomputed; a nil
// map expresses "not yet computed" directly rather than via a sentinel
// value in a fixed-size array.
func (a *AreaLight) Reset() { a.grid = nil }
