// Package raytracer implements trace() (spec.md §4.5): the recursive entry
// point that intersects a ray against the scene, shades a hit through
// pkg/shading, and applies infinite/finite atmospheric effects on a miss.
// It is also where pkg/radiosity's TraceFunc and pkg/shading's
// SecondaryTrace get their concrete implementations, closing the callback
// seams those packages were built against.
package raytracer

import (
	"math"

	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/radiosity"
	"github.com/df07/povcore/pkg/shading"
)

// Intersector is the narrow scene capability trace() needs: nearest-hit
// intersection, either a linear sweep or a BVH descent, chosen once at
// scene load (spec.md §4.5 "Intersection") — the choice lives in whichever
// concrete type pkg/scene hands us.
type Intersector interface {
	Hit(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool)
}

// AtmosphereFunc applies infinite atmospheric effects (sky, fog) to a ray
// that hit nothing. It is the `simulate_media`-adjacent external
// collaborator spec.md §6 lists as consumed, not implemented, by the core;
// nil means no atmosphere configured, a correct default for scenes that
// don't use one.
type AtmosphereFunc func(ray core.Ray) core.Vec3

// MediaFunc is spec.md §6's `simulate_media(media_list, ray, intersection,
// color, in_shadow)`: an external collaborator that attenuates/adds to a
// traced color for a ray traveling through participating media. hit is nil
// on a miss (infinite media only).
type MediaFunc func(ray core.Ray, hit *core.Intersection, color core.Vec3, inShadow bool, media []*core.MediaDescriptor) core.Vec3

// Config bounds recursion per spec.md §5 "Resource discipline" and §4.5
// "Preconditions checked at entry".
type Config struct {
	MaxTraceLevel int
	ADCBailout    float64
}

// DefaultConfig matches spec.md GLOSSARY/§5's stated defaults.
func DefaultConfig() Config {
	return Config{MaxTraceLevel: core.DefaultMaxTraceLevel, ADCBailout: core.ADCBailout}
}

// Tracer is the recursive trace() driver. Its per-frame task-scoped state
// (highestLevel, adcSaves, radiosityDepth) is exactly the mutable state
// spec.md §5 calls out as process-scoped-but-single-threaded: safe without
// locking because nothing in this model runs concurrently within a frame.
type Tracer struct {
	Scene      Intersector
	Shading    *shading.Evaluator
	Cfg        Config
	Atmosphere AtmosphereFunc
	Media      MediaFunc

	highestLevel   int
	adcSaves       int
	radiosityDepth int
}

// New creates a Tracer. Shading's Trace/AmbientTrace callback fields are
// left for the caller to bind to this Tracer's TraceColor/TraceForGather
// methods after both are constructed — the two-phase wiring every
// callback-decoupled pair in this module uses (pkg/radiosity, pkg/shadow,
// pkg/shading all follow the same shape).
func New(scene Intersector, evaluator *shading.Evaluator, cfg Config) *Tracer {
	return &Tracer{Scene: scene, Shading: evaluator, Cfg: cfg}
}

// ResetFrame clears the per-frame trackers (spec.md §5: "a per-frame
// highest_level tracker"). Call once before rendering each frame/pass.
func (t *Tracer) ResetFrame() {
	t.highestLevel = 0
	t.adcSaves = 0
	t.radiosityDepth = 0
}

// HighestLevel reports the deepest recursion level reached since the last
// ResetFrame, for diagnostics/tuning max_trace_level.
func (t *Tracer) HighestLevel() int { return t.highestLevel }

// ADCSaves reports how many rays were pruned by the ADC bailout test or the
// max trace level test since the last ResetFrame (spec.md §7: "an ADC-saves counter is incremented for
// diagnostics").
func (t *Tracer) ADCSaves() int { return t.adcSaves }

// TraceColor implements shading.SecondaryTrace: the reflection/refraction
// recursion entry point.
func (t *Tracer) TraceColor(ray core.Ray) core.Vec3 {
	return t.Trace(ray)
}

// TraceForGather implements radiosity.TraceFunc: the hemisphere-gather
// secondary-ray entry point. It increments the shared radiosityDepth
// counter for the duration of the nested shading call and restores it
// afterward, mirroring spec.md §4.4's save/restore discipline for the
// ambient-gating depth that has no home on core.Ray itself.
func (t *Tracer) TraceForGather(ray core.Ray) (core.Vec3, float64, bool) {
	if !t.withinBudget(ray) {
		t.adcSaves++
		return core.Vec3{}, 0, false
	}
	t.trackLevel(ray)

	hit, ok := t.Scene.Hit(ray, core.Epsilon, math.Inf(1))
	if !ok {
		return t.onMiss(ray), 0, false
	}

	t.radiosityDepth++
	color := t.onHit(ray, hit)
	t.radiosityDepth--
	return color, hit.T, true
}

var _ radiosity.TraceFunc = (&Tracer{}).TraceForGather
var _ shading.SecondaryTrace = (&Tracer{}).TraceColor

// Trace is trace() itself (spec.md §4.5): checks the ADC/recursion-level
// preconditions, intersects, and dispatches to shading on a hit or
// atmosphere/media on a miss.
func (t *Tracer) Trace(ray core.Ray) core.Vec3 {
	if !t.withinBudget(ray) {
		t.adcSaves++
		return core.Vec3{}
	}
	t.trackLevel(ray)

	hit, ok := t.Scene.Hit(ray, core.Epsilon, math.Inf(1))
	if !ok {
		return t.onMiss(ray)
	}
	return t.onHit(ray, hit)
}

// withinBudget implements the §4.5 preconditions: level > max_level or
// weight < ADC_bailout both terminate the ray with zero radiance.
func (t *Tracer) withinBudget(ray core.Ray) bool {
	if ray.Level > t.Cfg.MaxTraceLevel {
		return false
	}
	if ray.Weight < t.Cfg.ADCBailout {
		return false
	}
	return true
}

func (t *Tracer) trackLevel(ray core.Ray) {
	if ray.Level > t.highestLevel {
		t.highestLevel = ray.Level
	}
}

func (t *Tracer) onHit(ray core.Ray, hit *core.Intersection) core.Vec3 {
	color := t.Shading.DetermineApparentColour(hit, ray, t.radiosityDepth)
	if media := activeMedia(ray); t.Media != nil && len(media) > 0 {
		color = t.Media(ray, hit, color, false, media)
	}
	return color
}

func (t *Tracer) onMiss(ray core.Ray) core.Vec3 {
	var color core.Vec3
	if t.Atmosphere != nil {
		color = t.Atmosphere(ray)
	}
	if media := activeMedia(ray); t.Media != nil && len(media) > 0 {
		color = t.Media(ray, nil, color, false, media)
	}
	return color
}

// activeMedia collects the media descriptors of every interior the ray is
// currently inside, but only when the ray is entirely inside hollow
// interiors (spec.md §4.5: "Always apply finite media if the ray is
// entirely inside hollow interiors"). A ray nested inside even one solid
// (non-hollow) interior is physically inside opaque matter, not a
// media-only volume, so no media applies.
func activeMedia(ray core.Ray) []*core.MediaDescriptor {
	if len(ray.Interiors) == 0 {
		return nil
	}
	media := make([]*core.MediaDescriptor, 0, len(ray.Interiors))
	for _, in := range ray.Interiors {
		if !in.Hollow {
			return nil
		}
		if in.Media != nil {
			media = append(media, in.Media)
		}
	}
	return media
}
