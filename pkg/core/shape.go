package core

import "math"

// Shape is the narrow capability set the core needs from scene geometry —
// primitive intersection, the BVH tree and texture/pattern evaluation live
// outside the core (spec.md §1, §6); the core only ever calls through this
// interface and Intersection.Normal.
type Shape interface {
	// Hit intersects ray against the shape over the parametric range
	// [tMin, tMax], returning the nearest hit.
	Hit(ray Ray, tMin, tMax float64) (*Intersection, bool)
	BoundingBox() AABB
	// Surface returns the object's texture/weight pairs (§4.4 "Texture list")
	// and its optional interior (§3 Surface Interior).
	Surface() SurfaceProperties
}

// SurfaceProperties bundles the per-object shading inputs a Shape exposes:
// the (texture, weight) list that composites into the outgoing radiance,
// the optional interior for refraction/media, and the NoShadow/DoubleIlluminate
// flags from the quality/finish model (spec.md §3, §4.3).
type SurfaceProperties struct {
	Textures          []WeightedTexture
	Interior          *Interior
	NoShadow          bool // object never casts a shadow (NO_SHADOW)
	Opaque            bool // object fully blocks light when it occludes at all
	DoubleIlluminate  bool // illuminate back faces as if they were front faces
}

// WeightedTexture pairs a texture with the blend weight used when a
// primitive (blob, mesh) yields more than one texture at a point.
type WeightedTexture struct {
	Texture Texture
	Weight  float64
}

// Texture is the narrow interface the shading evaluator needs from a
// texture node; concrete layered/average/material-map/blend variants live
// in pkg/texture and satisfy it.
type Texture interface {
	// LayersAt returns the front-to-back layer list for plain textures, or
	// the composited result for average/material-map/blend variants that
	// resolve down to a single effective layer list at a point.
	LayersAt(point Vec3) []Layer
}

// Intersection is the result of a successful Shape.Hit: the object, the
// parametric depth, the world-space hit point and an opaque per-object
// cookie (e.g. a mesh triangle index) threaded through to the normal
// evaluator, which the core treats as an external collaborator.
type Intersection struct {
	Object Shape
	T      float64
	Point  Vec3
	Cookie any

	// NormalFunc resolves the geometric normal at Point using Cookie;
	// supplied by the shape since normal evaluation (and any perturbation
	// from a normal map) is explicitly out of the core's scope.
	NormalFunc func() Vec3
}

// Normal evaluates the geometric (unperturbed) normal at the intersection.
func (i Intersection) Normal() Vec3 {
	if i.NormalFunc == nil {
		return Vec3{}
	}
	return i.NormalFunc()
}

// Interior is a surface interior: refractive index, Beer-like fade falloff,
// caustic strength, hollow flag and an optional media descriptor. An object
// that participates in refraction owns exactly one interior (spec.md §3).
type Interior struct {
	IOR          float64
	FadeDistance float64 // 0 or +Inf means "no fade"
	FadePower    float64
	Caustics     float64
	Hollow       bool
	Media        *MediaDescriptor
}

// MediaDescriptor is an opaque handle to a participating-media configuration;
// the media integrator itself (simulate_media) is an external collaborator.
type MediaDescriptor struct {
	Density float64
	Color   Vec3
}

// Fade returns the Beer-like attenuation factor 1/(1+(depth/fadeDist)^fadePower)
// applied when a ray travels `depth` units inside this interior.
func (in *Interior) Fade(depth float64) float64 {
	if in == nil || in.FadeDistance <= 0 || in.FadePower <= 0 {
		return 1.0
	}
	ratio := depth / in.FadeDistance
	return 1.0 / (1.0 + math.Pow(ratio, in.FadePower))
}

// Insider is implemented by shapes that can answer a point-containment
// query (spec.md §6's `inside(point, object) → bool`, and the narrow Shape
// capability set in §9: {intersect, all_intersections, inside, normal,
// bounds}). Only solid, interior-bearing shapes need it, so it is a
// separate optional interface rather than part of Shape itself — callers
// that need it (scene validation, camera-in-interior checks) type-assert.
type Insider interface {
	Inside(point Vec3) bool
}
