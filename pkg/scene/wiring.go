package scene

import (
	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/focalblur"
	"github.com/df07/povcore/pkg/radiosity"
	"github.com/df07/povcore/pkg/raytracer"
	"github.com/df07/povcore/pkg/sampler"
	"github.com/df07/povcore/pkg/shading"
	"github.com/df07/povcore/pkg/shadow"
)

// Pipeline bundles every wired-up core component for one scene, the
// concrete objects cmd/povtrace drives a frame through.
type Pipeline struct {
	Scene   *Scene
	Shadow  *shadow.Tester
	Ambient *radiosity.Cache
	Shading *shading.Evaluator
	Tracer  *raytracer.Tracer
	Sampler *sampler.Sampler
	Blur    *focalblur.Sampler
}

// Build wires Scene, shading.Evaluator, shadow.Tester, radiosity.Cache and
// raytracer.Tracer together, closing the callback seams each package was
// built against:
//
//	evaluator.Shadow.Filter = evaluator.FilterShadowRay  (shadow -> shading)
//	evaluator.Trace         = tracer.TraceColor          (shading -> raytracer)
//	evaluator.AmbientTrace  = tracer.TraceForGather       (radiosity -> raytracer)
//
// This is the first package that imports pkg/shading, pkg/shadow,
// pkg/radiosity and pkg/raytracer together, so it is the only place this
// three/four-way wiring can happen without an import cycle.
func Build(s *Scene, shadingCfg shading.Config, ambientCfg radiosity.Config, tracerCfg raytracer.Config) *Pipeline {
	ambient := radiosity.New(ambientCfg)

	evaluator := &shading.Evaluator{Cfg: shadingCfg, Ambient: ambient}

	tester := shadow.New(s, evaluator.FilterShadowRay)
	evaluator.Shadow = tester

	tracer := raytracer.New(s, evaluator, tracerCfg)
	evaluator.Trace = tracer.TraceColor
	evaluator.AmbientTrace = tracer.TraceForGather

	return &Pipeline{
		Scene:   s,
		Shadow:  tester,
		Ambient: ambient,
		Shading: evaluator,
		Tracer:  tracer,
	}
}

// AttachSampler wires a camera-driven pixel sampler over the pipeline's
// tracer, for non-adaptive/adaptive/mosaic rendering (spec.md §4.6).
func (p *Pipeline) AttachSampler(camera *sampler.Camera, cfg sampler.Config, width, height int) {
	p.Sampler = sampler.New(camera, p.Tracer.TraceColor, cfg, width, height)
}

// AttachFocalBlur wires a focal-blur sampler over the pipeline's camera
// and tracer, for depth-of-field rendering (spec.md §4.7). focalDistance
// is the distance from the camera at which the lens offset is counter-
// deflected so the focal plane stays sharp.
func (p *Pipeline) AttachFocalBlur(camera *sampler.Camera, width, height int, focalDistance float64, cfg focalblur.Config) {
	trace := func(px, py float64, lens core.Vec2) (focalblur.Sample, bool) {
		ray, ok := camera.GetRay(px, py, width, height)
		if !ok {
			return focalblur.Sample{}, false
		}
		ray = camera.Deflect(ray, lens, focalDistance)
		color := p.Tracer.TraceColor(ray)
		return focalblur.Sample{Color: color}, true
	}
	p.Blur = focalblur.New(trace, cfg)
}
