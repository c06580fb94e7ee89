package sampler

import "github.com/df07/povcore/pkg/core"

// AdaptiveSampler implements spec.md §4.6 "Adaptive mode": fixed-depth
// recursive corner subdivision on a (2^d+1)×(2^d+1) block per pixel, with
// corner data shared across pixels — the right column of one pixel's block
// becomes the left column of the next, and the bottom row of one pixel row
// becomes the top row of the next.
//
// The reference renderer shares corners by copying fixed-size row/column
// buffers between adjacent blocks; here the same reuse guarantee follows
// from two small caches (leftEdge, topEdge) indexed by sub-pixel offset,
// consulted before a corner is (re)traced — see DESIGN.md for why a cache
// read/write replaces an explicit buffer copy.
type AdaptiveSampler struct {
	s *Sampler

	n int // grid resolution per pixel axis: 2^depth

	leftEdge []core.Vec3 // previous pixel's right edge, becomes this pixel's left edge
	haveLeft bool

	topEdge     [][]core.Vec3 // per-column bottom edge from the previous pixel row
	haveTopEdge bool

	corners map[[2]int]core.Vec3 // per-pixel scratch cache, cleared every pixel
}

// NewAdaptiveSampler creates an adaptive-mode driver over s.
func NewAdaptiveSampler(s *Sampler) *AdaptiveSampler {
	n := 1 << uint(s.Cfg.AntialiasDepth)
	if n < 1 {
		n = 1
	}
	return &AdaptiveSampler{
		s:       s,
		n:       n,
		corners: make(map[[2]int]core.Vec3, (n+1)*(n+1)),
		topEdge: make([][]core.Vec3, s.Width),
	}
}

// Render visits every pixel in scanline order, plotting the adaptively
// subdivided average color for each.
func (a *AdaptiveSampler) Render(plot PlotFunc) {
	for y := 0; y < a.s.Height; y++ {
		a.haveLeft = false
		nextTopEdge := make([][]core.Vec3, a.s.Width)

		for x := 0; x < a.s.Width; x++ {
			for k := range a.corners {
				delete(a.corners, k)
			}

			color := a.subdivide(x, y, 0, 0, a.n, a.n, 0)
			plot(x, y, color)

			rightEdge := make([]core.Vec3, a.n+1)
			for gy := 0; gy <= a.n; gy++ {
				rightEdge[gy] = a.corner(x, y, a.n, gy)
			}
			a.leftEdge = rightEdge
			a.haveLeft = true

			bottomEdge := make([]core.Vec3, a.n+1)
			for gx := 0; gx <= a.n; gx++ {
				bottomEdge[gx] = a.corner(x, y, gx, a.n)
			}
			nextTopEdge[x] = bottomEdge
		}

		a.topEdge = nextTopEdge
		a.haveTopEdge = true
	}
}

// subdivide evaluates the 2x2 corners of [x0,y0]-[x1,y1] (in sub-pixel grid
// coordinates local to pixel (px, py)) and either averages them or, when
// any pairwise corner distance exceeds the threshold and depth hasn't
// bottomed out, recurses into four quadrants and averages their results.
func (a *AdaptiveSampler) subdivide(px, py, x0, y0, x1, y1, depth int) core.Vec3 {
	c00 := a.corner(px, py, x0, y0)
	c10 := a.corner(px, py, x1, y0)
	c01 := a.corner(px, py, x0, y1)
	c11 := a.corner(px, py, x1, y1)

	maxDepth := a.s.Cfg.AntialiasDepth
	if depth < maxDepth && cornersDisagree(c00, c10, c01, c11, a.s.Cfg.AntialiasThreshold) {
		xm, ym := (x0+x1)/2, (y0+y1)/2
		q1 := a.subdivide(px, py, x0, y0, xm, ym, depth+1)
		q2 := a.subdivide(px, py, xm, y0, x1, ym, depth+1)
		q3 := a.subdivide(px, py, x0, ym, xm, y1, depth+1)
		q4 := a.subdivide(px, py, xm, ym, x1, y1, depth+1)
		return q1.Add(q2).Add(q3).Add(q4).Multiply(0.25)
	}
	return c00.Add(c10).Add(c01).Add(c11).Multiply(0.25)
}

// corner resolves the traced color at sub-pixel grid point (gx, gy) within
// pixel (px, py), reusing the left-edge/top-edge caches when gx/gy sit on
// a shared block boundary, tracing (and memoizing) otherwise.
func (a *AdaptiveSampler) corner(px, py, gx, gy int) core.Vec3 {
	if c, ok := a.corners[[2]int{gx, gy}]; ok {
		return c
	}
	if gx == 0 && a.haveLeft && gy < len(a.leftEdge) {
		c := a.leftEdge[gy]
		a.corners[[2]int{gx, gy}] = c
		return c
	}
	if gy == 0 && a.haveTopEdge && a.topEdge[px] != nil && gx < len(a.topEdge[px]) {
		c := a.topEdge[px][gx]
		a.corners[[2]int{gx, gy}] = c
		return c
	}

	fx := float64(px) + float64(gx)/float64(a.n)
	fy := float64(py) + float64(gy)/float64(a.n)
	ray, ok := a.s.Camera.GetRay(fx, fy, a.s.Width, a.s.Height)
	var c core.Vec3
	if ok {
		c = a.s.Trace(ray)
	}
	a.corners[[2]int{gx, gy}] = c
	return c
}

// cornersDisagree reports whether any of the six pairwise sum-of-abs-
// channel-difference distances between four corner colors exceeds
// threshold — the same disagreement rule spec.md §4.3 uses for area-light
// grid subdivision, applied here to pixel corner subdivision (spec.md
// §4.6).
func cornersDisagree(c00, c10, c01, c11 core.Vec3, threshold float64) bool {
	corners := [4]core.Vec3{c00, c10, c01, c11}
	for i := 0; i < len(corners); i++ {
		for j := i + 1; j < len(corners); j++ {
			if corners[i].SumAbsDiff(corners[j]) > threshold {
				return true
			}
		}
	}
	return false
}
