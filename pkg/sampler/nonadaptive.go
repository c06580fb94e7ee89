package sampler

import "github.com/df07/povcore/pkg/core"

// RenderNonAdaptive implements spec.md §4.6 "Non-adaptive mode": trace once
// per pixel, compare against the left and upper neighbor (SMPTE-style
// sum-of-abs-channel-difference), and supersample any pixel whose
// difference exceeds the antialias threshold.
//
// fieldStep/fieldOffset implement field rendering: with fieldStep==2, only
// lines where y%2==fieldOffset are traced this call; skipped lines repeat
// the previously traced line's colors (spec.md §4.6: "previously traced
// line is written again"). Pass fieldStep<=1 to trace every line.
func (s *Sampler) RenderNonAdaptive(plot PlotFunc, fieldStep, fieldOffset int) {
	if fieldStep <= 0 {
		fieldStep = 1
	}

	row := make([]core.Vec3, s.Width)
	prevRow := make([]core.Vec3, s.Width)
	havePrev := false

	for y := 0; y < s.Height; y++ {
		if fieldStep > 1 && y%fieldStep != fieldOffset {
			if havePrev {
				for x := 0; x < s.Width; x++ {
					row[x] = prevRow[x]
					plot(x, y, row[x])
				}
			}
			continue
		}

		for x := 0; x < s.Width; x++ {
			c := s.traceCenter(x, y)

			if s.Cfg.AntialiasThreshold > 0 && s.dirty(c, x, y, row, prevRow, havePrev) {
				c = s.Supersample(x, y, c)
			}

			row[x] = c
			plot(x, y, c)
		}

		row, prevRow = prevRow, row
		havePrev = true
	}
}

// dirty reports whether pixel (x, y)'s freshly traced color differs from
// its left or upper neighbor by more than the antialias threshold.
func (s *Sampler) dirty(c core.Vec3, x, y int, row, prevRow []core.Vec3, havePrev bool) bool {
	if x > 0 && c.SumAbsDiff(row[x-1]) > s.Cfg.AntialiasThreshold {
		return true
	}
	if havePrev && c.SumAbsDiff(prevRow[x]) > s.Cfg.AntialiasThreshold {
		return true
	}
	return false
}

// Supersample implements spec.md §4.6 "Supersampling": a jittered n×n
// grid where n = 2^antialias_depth. The already-traced pixel-center color
// stands in for one grid cell; the remaining n²−1 cells are jittered with
// JitterScale = user_scale/n and averaged together with it.
func (s *Sampler) Supersample(px, py int, center core.Vec3) core.Vec3 {
	n := 1 << uint(s.Cfg.AntialiasDepth)
	if n <= 1 {
		return center
	}

	scale := core.JitterScale(s.Cfg.JitterUserScale, n)
	sum := center
	count := 1

	for sy := 0; sy < n; sy++ {
		for sx := 0; sx < n; sx++ {
			if sx == 0 && sy == 0 {
				continue // this cell is already represented by the traced center
			}
			off := core.JitterOffset(s.Cfg.Rng, sx, sy, n, scale)
			ray, ok := s.Camera.GetRay(float64(px)+0.5+off.X, float64(py)+0.5+off.Y, s.Width, s.Height)
			if !ok {
				continue
			}
			sum = sum.Add(s.Trace(ray))
			count++
		}
	}
	return sum.Multiply(1.0 / float64(count))
}
