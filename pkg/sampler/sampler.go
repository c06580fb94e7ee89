package sampler

import (
	"math/rand"

	"github.com/df07/povcore/pkg/core"
)

// TraceFunc is the primary-ray entry point a Sampler shoots rays through;
// raytracer.Tracer.TraceColor satisfies it, the same callback-decoupling
// pattern used between pkg/shading, pkg/shadow and pkg/radiosity.
type TraceFunc func(ray core.Ray) core.Vec3

// PlotFunc is spec.md §6's "Produced" scanline callback `plot(x, y, rgba)`.
// Colors are linear (pre gamma-correction/clamping); the final 8/16-bit
// conversion is the output stage's job, not the sampler's.
type PlotFunc func(x, y int, color core.Vec3)

// Config bundles the pixel sampler's tunables (spec.md §4.6).
type Config struct {
	AntialiasThreshold float64 // 0 disables antialiasing entirely
	AntialiasDepth     int     // supersampling/adaptive subdivision depth d
	JitterUserScale    float64 // user_scale feeding JitterScale = user_scale/n
	Adaptive           bool    // adaptive corner-subdivision mode vs. non-adaptive
	FieldRender        bool
	Rng                *rand.Rand
}

// DefaultConfig matches POV-Ray's traditional antialias defaults: a
// moderate threshold, two supersampling levels (4x4), no field rendering.
func DefaultConfig() Config {
	return Config{
		AntialiasThreshold: 0.3,
		AntialiasDepth:      2,
		JitterUserScale:     1.0,
		Rng:                 rand.New(rand.NewSource(1)),
	}
}

// Sampler drives a Camera across an image, in non-adaptive or adaptive
// mode, dispatching primary (and supersampled) rays through Trace.
type Sampler struct {
	Camera *Camera
	Trace  TraceFunc
	Cfg    Config
	Width  int
	Height int
}

// New creates a Sampler for a width×height frame.
func New(camera *Camera, trace TraceFunc, cfg Config, width, height int) *Sampler {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(1))
	}
	return &Sampler{Camera: camera, Trace: trace, Cfg: cfg, Width: width, Height: height}
}

// traceCenter shoots a primary ray through the exact center of pixel
// (px, py); a camera returning ok=false (fisheye/omnimax outside the unit
// disk) contributes black.
func (s *Sampler) traceCenter(px, py int) core.Vec3 {
	ray, ok := s.Camera.GetRay(float64(px)+0.5, float64(py)+0.5, s.Width, s.Height)
	if !ok {
		return core.Vec3{}
	}
	return s.Trace(ray)
}
