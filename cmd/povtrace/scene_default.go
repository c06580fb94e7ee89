package main

import (
	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/geometry"
	"github.com/df07/povcore/pkg/lights"
	"github.com/df07/povcore/pkg/scene"
	"github.com/df07/povcore/pkg/texture"
)

// defaultScene builds a small demo scene: a red sphere over a gray floor,
// lit by one point light and one fill light, enough to exercise every
// stage of the shading/global-illumination core.
func defaultScene() *scene.Scene {
	sphereFinish := core.Finish{
		Ambient:    0.1,
		Diffuse:    0.7,
		Phong:      0.6,
		PhongSize:  40,
		Reflection: core.NewVec3(0.05, 0.05, 0.05),
	}
	sphere := geometry.NewSphere(core.NewVec3(0, 1, 0), 1, core.SurfaceProperties{
		Textures: []core.WeightedTexture{{Weight: 1, Texture: texture.NewPlain(core.Layer{
			Pigment: texture.NewSolid(core.NewVec3(0.8, 0.1, 0.1)),
			Finish:  sphereFinish,
		})}},
	})

	floorFinish := core.Finish{Ambient: 0.1, Diffuse: 0.8}
	floor := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.SurfaceProperties{
		Textures: []core.WeightedTexture{{Weight: 1, Texture: texture.NewPlain(core.Layer{
			Pigment: texture.NewSolid(core.NewVec3(0.6, 0.6, 0.6)),
			Finish:  floorFinish,
		})}},
	})

	shapes := []core.Shape{sphere, floor}
	lightSources := []core.Light{
		lights.NewPointLight(core.NewVec3(-4, 8, -6), core.NewVec3(1, 1, 1)),
		lights.NewFillLight(core.NewVec3(0, 1, -4), core.NewVec3(0.3, 0.3, 0.3)),
	}

	return scene.New(shapes, lightSources, core.DefaultQuality, core.NewVec3(0.6, 0.6, 0.6), nil)
}
