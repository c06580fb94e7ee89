// Package core holds the data model shared by every shading and
// global-illumination component: vectors, rays, bounding volumes and the
// narrow Shape/Interior/Logger interfaces the rest of the module is built
// against.
package core

import (
	"fmt"
	"math"
)

// Vec3 represents a 3D vector, a point, or an RGB color depending on context.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 represents a 2-D vector, used for jitter offsets and grid coordinates.
type Vec2 struct {
	X, Y float64
}

// NewVec3 creates a new Vec3.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// NewVec2 creates a new Vec2.
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec3) String() string {
	return fmt.Sprintf("{%.4g, %.4g, %.4g}", v.X, v.Y, v.Z)
}

// Add returns the sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Subtract returns the difference of two vectors.
func (v Vec3) Subtract(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Multiply returns the vector scaled by a scalar.
func (v Vec3) Multiply(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// MultiplyVec returns the component-wise (Hadamard) product of two vectors.
func (v Vec3) MultiplyVec(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Negate returns the additive inverse of the vector.
func (v Vec3) Negate() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Length returns the Euclidean length of the vector.
func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// LengthSquared returns the squared Euclidean length, avoiding a sqrt.
func (v Vec3) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// AbsDot returns the absolute value of the dot product.
func (v Vec3) AbsDot(o Vec3) float64 { return math.Abs(v.Dot(o)) }

// Cross returns the cross product of two vectors.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns a unit vector in the same direction, or the zero vector
// if this vector has zero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Clamp returns a vector with each component clamped to [minVal, maxVal].
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: math.Max(minVal, math.Min(maxVal, v.X)),
		Y: math.Max(minVal, math.Min(maxVal, v.Y)),
		Z: math.Max(minVal, math.Min(maxVal, v.Z)),
	}
}

// GammaCorrect applies pow(c, 1/gamma) per channel, as done to the final
// plotted pixel when gamma correction is enabled (spec.md §6).
func (v Vec3) GammaCorrect(gamma float64) Vec3 {
	inv := 1.0 / gamma
	return Vec3{math.Pow(math.Max(0, v.X), inv), math.Pow(math.Max(0, v.Y), inv), math.Pow(math.Max(0, v.Z), inv)}
}

// IsZero reports whether every component is exactly zero.
func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// MaxComponent returns the largest of the three channel values.
func (v Vec3) MaxComponent() float64 { return math.Max(v.X, math.Max(v.Y, v.Z)) }

// SumAbsDiff returns the sum-of-absolute-channel-differences, the SMPTE-style
// color distance metric used by the antialiasing and shadow-grid comparisons.
func (v Vec3) SumAbsDiff(o Vec3) float64 {
	return math.Abs(v.X-o.X) + math.Abs(v.Y-o.Y) + math.Abs(v.Z-o.Z)
}

// Equals compares two vectors for equality within a small tolerance.
func (v Vec3) Equals(o Vec3) bool {
	const tol = 1e-9
	return math.Abs(v.X-o.X) < tol && math.Abs(v.Y-o.Y) < tol && math.Abs(v.Z-o.Z) < tol
}

// Reflect returns v reflected about normal n (n need not be unit, but
// normally is): r = v - 2*(v.n)*n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends unit vector uv across a surface with unit normal n using
// Snell's law for the given ratio of refractive indices (ratio = eta_in /
// eta_out). It returns the refracted direction and false when the
// discriminant is negative (total internal reflection).
func (uv Vec3) Refract(n Vec3, ratio float64) (Vec3, bool) {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	t := 1.0 - ratio*ratio*(1.0-cosTheta*cosTheta)
	if t < 0 {
		return Vec3{}, false
	}
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(ratio)
	rOutParallel := n.Multiply(-math.Sqrt(t))
	return rOutPerp.Add(rOutParallel), true
}

// Basis builds an orthonormal (tangent, bitangent) pair perpendicular to a
// unit vector, falling back to a fixed axis when n is nearly aligned with
// the natural choice — the "geometric degeneracy" substitution §7 requires.
func (n Vec3) Basis() (t, b Vec3) {
	fallback := Vec3{1, 0, 0}
	if math.Abs(n.X) > 0.9 {
		fallback = Vec3{0, 1, 0}
	}
	t = fallback.Cross(n).Normalize()
	b = n.Cross(t)
	return t, b
}
