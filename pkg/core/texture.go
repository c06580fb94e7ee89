package core

// PigmentResult is what Compute_Pigment (an external collaborator per
// spec.md §6) returns: a color with its filter/transmit transparency
// channels, or Valid=false when e.g. an image map lookup missed.
type PigmentResult struct {
	Color     Vec3
	Filter    float64
	Transmit  float64
	Valid     bool
}

// Pigment is the narrow interface the core needs from a pigment: evaluate
// color+filter+transmit at a world point. Pattern evaluation (Evaluate_TPat)
// and texture-map parsing are external collaborators; pkg/texture supplies
// the minimal concrete pigments (solid, checker) that exercise this seam.
type Pigment interface {
	At(point Vec3) PigmentResult
}

// NormalPerturber is Perturb_Normal: an external collaborator that bumps a
// geometric normal according to a normal-map pattern at a point.
type NormalPerturber interface {
	Perturb(normal, point Vec3) Vec3
}

// Iridescence holds thin-film interference parameters (spec.md §4.4 step 4).
type Iridescence struct {
	Amount        float64
	FilmThickness float64
	Turbulence    float64
}

// Finish is the non-color component of a texture layer: ambient, diffuse,
// brilliance, phong, specular, reflection and iridescence terms (spec.md §3
// Texture).
type Finish struct {
	Ambient         float64
	Diffuse         float64
	Brilliance      float64 // exponent on |N.L|, default 1
	Phong           float64
	PhongSize       float64
	Specular        float64
	Roughness       float64
	Metallic        float64
	Reflection      Vec3 // per-channel reflection coefficient
	ReflectExponent float64
	Iridescence     Iridescence
	Caustics        float64
	Crand           float64 // diffuse noise amount
}

// Layer is one front-to-back slice of a plain texture: a pigment, a finish
// and an optional normal perturbation (spec.md §3 Texture).
type Layer struct {
	Pigment   Pigment
	Finish    Finish
	NormalMap NormalPerturber
}
