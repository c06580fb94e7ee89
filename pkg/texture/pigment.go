// Package texture implements the pigment, finish and layered-texture
// variants spec.md §3 names, and the minimal concrete pigments (solid,
// checker) needed to exercise the shading pipeline end to end. Pattern
// evaluation proper (Evaluate_TPat) stays an external collaborator — these
// are the thin, consumer-side implementations that call it.
package texture

import (
	"math"

	"github.com/df07/povcore/pkg/core"
)

// Solid is a constant pigment: the same color+filter+transmit everywhere.
type Solid struct {
	Color    core.Vec3
	Filter   float64
	Transmit float64
}

// NewSolid creates an opaque solid-color pigment.
func NewSolid(color core.Vec3) Solid { return Solid{Color: color} }

// At implements core.Pigment.
func (s Solid) At(core.Vec3) core.PigmentResult {
	return core.PigmentResult{Color: s.Color, Filter: s.Filter, Transmit: s.Transmit, Valid: true}
}

// Checker is a 3-D checkerboard pattern alternating between two pigments on
// unit cube cells, the classic procedural pattern every POV-Ray scene file
// uses for test floors (grounded on the teacher's procedural_textures.go
// checkerboard idiom, generalized from image space to world space).
type Checker struct {
	Even, Odd core.Pigment
	Scale     float64 // cell size; 1.0 = unit cubes
}

// NewChecker creates a checker pattern with unit cells.
func NewChecker(even, odd core.Pigment) *Checker {
	return &Checker{Even: even, Odd: odd, Scale: 1.0}
}

// At implements core.Pigment.
func (c *Checker) At(p core.Vec3) core.PigmentResult {
	scale := c.Scale
	if scale <= 0 {
		scale = 1.0
	}
	ix := int(math.Floor(p.X / scale))
	iy := int(math.Floor(p.Y / scale))
	iz := int(math.Floor(p.Z / scale))
	if (ix+iy+iz)%2 == 0 {
		return c.Even.At(p)
	}
	return c.Odd.At(p)
}

// Gradient is a linear blend between two pigments along an axis, between
// two world-space extents — a minimal stand-in for POV-Ray's `gradient`
// pattern.
type Gradient struct {
	From, To core.Pigment
	Axis     core.Vec3 // unit vector defining the gradient direction
	Lo, Hi   float64   // projection range mapped to [0,1]
}

// At implements core.Pigment.
func (g Gradient) At(p core.Vec3) core.PigmentResult {
	proj := p.Dot(g.Axis)
	t := 0.0
	if g.Hi != g.Lo {
		t = (proj - g.Lo) / (g.Hi - g.Lo)
	}
	t = math.Max(0, math.Min(1, t))

	from := g.From.At(p)
	to := g.To.At(p)
	return core.PigmentResult{
		Color:    from.Color.Multiply(1 - t).Add(to.Color.Multiply(t)),
		Filter:   from.Filter*(1-t) + to.Filter*t,
		Transmit: from.Transmit*(1-t) + to.Transmit*t,
		Valid:    from.Valid && to.Valid,
	}
}
