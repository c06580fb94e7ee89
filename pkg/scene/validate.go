package scene

import "github.com/df07/povcore/pkg/core"

// Validate checks the bad-configuration conditions spec.md §7 and §9 name
// — camera inside a non-hollow object, and an internally inconsistent
// quality bitfield — logging each as a one-shot warning and letting the
// render proceed, per §7's propagation policy ("emitted as a one-shot
// warning at first detection, then the render proceeds").
func (s *Scene) Validate(cameraLocation core.Vec3) {
	if s.warner == nil {
		s.warner = core.NewOneShotWarner(s.Logger)
	}

	s.checkCameraInterior(cameraLocation)
	s.checkQualityBits()
}

func (s *Scene) checkCameraInterior(cameraLocation core.Vec3) {
	for _, shape := range s.Shapes {
		insider, ok := shape.(core.Insider)
		if !ok || !insider.Inside(cameraLocation) {
			continue
		}
		surf := shape.Surface()
		if surf.Interior != nil && !surf.Interior.Hollow {
			s.warner.Warn("camera-inside-non-hollow",
				"camera is inside a non-hollow object; refraction/media results may be wrong")
		}
	}
}

func (s *Scene) checkQualityBits() {
	if s.Quality.Has(core.QualityAreaLight) && !s.Quality.Has(core.QualityShadow) {
		s.warner.Warn("area-light-without-shadow",
			"quality setting enables AREA_LIGHT without SHADOW; area lights will not be attenuated")
	}
	if s.Quality.Has(core.QualityUseLightBuffer) && !s.Quality.Has(core.QualityShadow) {
		s.warner.Warn("light-buffer-without-shadow",
			"quality setting enables USE_LIGHT_BUFFER without SHADOW; the buffer has nothing to cache")
	}
}
