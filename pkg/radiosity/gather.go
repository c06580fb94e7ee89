package radiosity

import (
	"math"

	"github.com/df07/povcore/pkg/core"
)

// gather performs a fresh hemisphere sample at point (spec.md §4.2
// "Gather"), storing the result as a new cache block and returning its
// irradiance (after brightness normalization).
func (c *Cache) gather(point, normal core.Vec3, depth int, cameraDistance float64, trace TraceFunc) core.Vec3 {
	c.gatherCount++

	count := c.sampleCountAt(depth)
	dirs := core.QuasiRandomHemisphere(count)
	tangent, bitangent := normal.Basis()

	var colorSum core.Vec3
	var invDistSum float64
	nearestDist := math.Inf(1)
	var nearestDir core.Vec3
	var gradX, gradY, gradZ core.Vec3

	for _, local := range dirs {
		worldDir := tangent.Multiply(local.X).Add(bitangent.Multiply(local.Y)).Add(normal.Multiply(local.Z)).Normalize()
		origin := point.Add(normal.Multiply(core.Epsilon))
		ray := core.Ray{Origin: origin, Direction: worldDir, Level: 0, Weight: 1.0}

		color, dist, hit := trace(ray)
		colorSum = colorSum.Add(color)

		effectiveDist := dist
		if !hit || effectiveDist <= 0 {
			effectiveDist = cameraDistance
			if effectiveDist <= 0 {
				effectiveDist = 1e6
			}
		}
		invDistSum += 1.0 / effectiveDist
		if effectiveDist < nearestDist {
			nearestDist = effectiveDist
			nearestDir = worldDir
		}

		weight := 1.0 / effectiveDist
		gradX = gradX.Add(color.Multiply(sign(local.X) * local.X * local.X * weight))
		gradY = gradY.Add(color.Multiply(sign(local.Y) * local.Y * local.Y * weight))
		gradZ = gradZ.Add(color.Multiply(sign(local.Z) * local.Z * local.Z * weight))
	}

	n := float64(len(dirs))
	irradiance := colorSum.Multiply(1.0 / math.Max(1, n))

	harmonicMean := 0.0
	if invDistSum > 0 {
		harmonicMean = n / invDistSum
	}
	floor := cameraDistance * c.cfg.MinReuseFactor
	if harmonicMean < floor {
		harmonicMean = floor
	}

	block := &core.IrradianceBlock{
		Point:            point,
		Normal:           normal,
		Irradiance:       irradiance,
		Depth:            depth,
		MeanDistance:     harmonicMean,
		NearestDistance:  nearestDist,
		ToNearestSurface: nearestDir,
		GradientX:        gradX.Multiply(1 / math.Max(1, n)),
		GradientY:        gradY.Multiply(1 / math.Max(1, n)),
		GradientZ:        gradZ.Multiply(1 / math.Max(1, n)),
	}
	c.tree.Insert(point, block.Radius(c.errorBound()), block)

	if c.pass == PassPreview && !c.brightnessFrozen {
		c.previewSum = c.previewSum.Add(irradiance)
		c.previewCount++
	}

	return irradiance.Multiply(c.brightness)
}

// sampleCountAt returns the gather sample count for a given radiosity
// recursion depth: the base count divided by 3^(depth-1), per spec.md
// §4.2 "Gather" (a gather-of-a-gather samples far more sparsely).
func (c *Cache) sampleCountAt(depth int) int {
	if depth <= 1 {
		return c.cfg.SampleCount
	}
	divisor := math.Pow(3, float64(depth-1))
	n := int(float64(c.cfg.SampleCount) / divisor)
	if n < 1 {
		n = 1
	}
	return n
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
