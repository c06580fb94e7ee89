package core

// Quality is the read-only bitfield the trace driver, shading evaluator and
// shadow tester all consult to decide which effects are enabled for the
// current frame/pass (spec.md §6).
type Quality uint32

const (
	QualityShadow Quality = 1 << iota
	QualityReflect
	QualityRefract
	QualityVolume
	QualityAreaLight
	QualityNormal
	QualityFullAmbient
	QualityUseLightBuffer
	QualityUseVistaBuffer
)

// Has reports whether every bit in want is set in q.
func (q Quality) Has(want Quality) bool { return q&want == want }

// Without returns q with the given bits cleared — used by the irradiance
// cache's gather pass, which traces secondary rays "with quality restricted
// to exclude area-light sampling and light-buffers" (spec.md §4.2).
func (q Quality) Without(bits Quality) Quality { return q &^ bits }

// DefaultQuality enables shadows, reflection, refraction and area-light
// sampling but not volumetrics or the preview buffers, matching the
// teacher's pattern of a sensible zero-config default.
const DefaultQuality = QualityShadow | QualityReflect | QualityRefract | QualityAreaLight | QualityNormal
