package lights

import "github.com/df07/povcore/pkg/core"

// PointLight radiates uniformly in all directions from a single center.
type PointLight struct {
	Center   core.Vec3
	ColorVal core.Vec3

	cachedBlocker core.Shape
}

// NewPointLight creates a point light at center with the given color.
func NewPointLight(center, color core.Vec3) *PointLight {
	return &PointLight{Center: center, ColorVal: color}
}

func (p *PointLight) Kind() core.LightKind  { return core.LightPoint }
func (p *PointLight) LightColor() core.Vec3 { return p.ColorVal }
func (p *PointLight) LightCenter() core.Vec3 { return p.Center }

// Illuminate implements Illuminator; a point light has no directional
// falloff of its own.
func (p *PointLight) Illuminate(point core.Vec3) (core.Vec3, float64, float64) {
	dir, dist := directionAndDistance(p.Center, point)
	return dir, dist, 1.0
}

// CachedBlocker implements core.ShadowCaching.
func (p *PointLight) CachedBlocker() core.Shape { return p.cachedBlocker }

// SetCachedBlocker implements core.ShadowCaching.
func (p *PointLight) SetCachedBlocker(s core.Shape) { p.cachedBlocker = s }

// FillLight is unshadowed by convention (spec.md §4.3: "fills are
// unshadowed") and otherwise behaves like a point light.
type FillLight struct {
	Center   core.Vec3
	ColorVal core.Vec3
}

// NewFillLight creates a fill light at center with the given color.
func NewFillLight(center, color core.Vec3) *FillLight {
	return &FillLight{Center: center, ColorVal: color}
}

func (f *FillLight) Kind() core.LightKind   { return core.LightFill }
func (f *FillLight) LightColor() core.Vec3  { return f.ColorVal }
func (f *FillLight) LightCenter() core.Vec3 { return f.Center }

// Illuminate implements Illuminator.
func (f *FillLight) Illuminate(point core.Vec3) (core.Vec3, float64, float64) {
	dir, dist := directionAndDistance(f.Center, point)
	return dir, dist, 1.0
}
