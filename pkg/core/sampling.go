package core

import (
	"math"
	"math/rand"
)

// JitterScale returns the per-sub-sample jitter scale for an n×n
// supersampling grid given a user scale factor (spec.md §4.6
// "Supersampling": JitterScale = user_scale / n).
func JitterScale(userScale float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return userScale / float64(n)
}

// JitterOffset returns a 2-D offset within [-scale/2, scale/2] for sub-pixel
// (sx, sy) of an n×n jittered grid, using rng for the jitter.
func JitterOffset(rng *rand.Rand, sx, sy, n int, scale float64) Vec2 {
	cellSize := 1.0 / float64(n)
	jx := (float64(sx)+rng.Float64())*cellSize - 0.5
	jy := (float64(sy)+rng.Float64())*cellSize - 0.5
	return Vec2{X: jx * scale, Y: jy * scale}
}

// CosineWeightedHemisphere samples a cosine-weighted direction in the
// hemisphere around unit normal n from two uniform [0,1) samples, used by
// the irradiance gather and emission sampling.
func CosineWeightedHemisphere(n Vec3, u1, u2 float64) Vec3 {
	r := math.Sqrt(u1)
	theta := 2 * math.Pi * u2
	x := r * math.Cos(theta)
	y := r * math.Sin(theta)
	z := math.Sqrt(math.Max(0, 1-u1))

	t, b := n.Basis()
	return t.Multiply(x).Add(b.Multiply(y)).Add(n.Multiply(z)).Normalize()
}

// PackedNormal is a unit vector quantized to 8 bits/axis, the wire format
// spec.md §6 uses for the radiosity cache file ("_hex" fields) and §8's
// round-trip property (≤1% directional error).
type PackedNormal [3]byte

// PackNormal encodes a (near-)unit vector as (v+1)/2 per component, scaled
// to a byte, per axis; Unpack inverts it.
func PackNormal(v Vec3) PackedNormal {
	enc := func(c float64) byte {
		c = math.Max(-1, math.Min(1, c))
		return byte(math.Round((c + 1) * 0.5 * 255))
	}
	return PackedNormal{enc(v.X), enc(v.Y), enc(v.Z)}
}

// Unpack decodes a PackedNormal back to a unit vector: (byte/255)*2-1 per
// component, renormalized.
func (p PackedNormal) Unpack() Vec3 {
	dec := func(b byte) float64 { return (float64(b)/255.0)*2 - 1 }
	return Vec3{dec(p[0]), dec(p[1]), dec(p[2])}.Normalize()
}

// QuasiRandomHemisphere returns count cosine-weighted directions above the
// local Z axis using a deterministic low-discrepancy (Hammersley) sequence,
// the "precomputed quasi-random set" spec.md §4.2's gather step calls for.
// Each call with the same count reproduces the same set, which is what lets
// the preview and final passes compare reuse behavior deterministically.
func QuasiRandomHemisphere(count int) []Vec3 {
	dirs := make([]Vec3, count)
	for i := 0; i < count; i++ {
		u1 := (float64(i) + 0.5) / float64(count)
		u2 := vanDerCorput(uint32(i), 2)
		dirs[i] = CosineWeightedHemisphere(Vec3{0, 0, 1}, u1, u2)
	}
	return dirs
}

// vanDerCorput computes the radical-inverse of n in the given base,
// producing the low-discrepancy sequence used for quasi-random sampling.
func vanDerCorput(n uint32, base uint32) float64 {
	inv := 1.0 / float64(base)
	result, f := 0.0, inv
	for n > 0 {
		result += f * float64(n%base)
		n /= base
		f *= inv
	}
	return result
}
