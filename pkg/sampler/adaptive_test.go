package sampler

import (
	"testing"

	"github.com/df07/povcore/pkg/core"
)

func TestCornersDisagreeDetectsLargeDistance(t *testing.T) {
	white := core.NewVec3(1, 1, 1)
	black := core.Vec3{}
	if !cornersDisagree(white, white, white, black, 0.1) {
		t.Errorf("expected disagreement between white and black corners")
	}
	if cornersDisagree(white, white, white, white, 0.1) {
		t.Errorf("identical corners should never disagree")
	}
}

func TestAdaptiveSamplerUniformColorNeverSubdivides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AntialiasDepth = 3
	cfg.AntialiasThreshold = 0.01
	s := New(flatCamera(), constTrace(core.NewVec3(0.4, 0.4, 0.4)), cfg, 4, 4)
	a := NewAdaptiveSampler(s)

	var plots int
	a.Render(func(x, y int, c core.Vec3) {
		plots++
		if c.SumAbsDiff(core.NewVec3(0.4, 0.4, 0.4)) > 1e-9 {
			t.Errorf("pixel (%d,%d) = %v, want uniform (0.4,0.4,0.4)", x, y, c)
		}
	})
	if plots != 16 {
		t.Errorf("expected 16 plots for a 4x4 frame, got %d", plots)
	}
}

func TestAdaptiveSamplerSubdividesOnSharpEdge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AntialiasDepth = 2
	cfg.AntialiasThreshold = 0.01

	// Trace function keyed off ray direction X sign, producing a sharp
	// vertical seam that every pixel straddling x=0 should detect.
	trace := func(ray core.Ray) core.Vec3 {
		if ray.Direction.X < 0 {
			return core.NewVec3(1, 1, 1)
		}
		return core.Vec3{}
	}
	s := New(flatCamera(), trace, cfg, 4, 4)
	a := NewAdaptiveSampler(s)

	plots := map[[2]int]core.Vec3{}
	a.Render(func(x, y int, c core.Vec3) { plots[[2]int{x, y}] = c })

	// Leftmost and rightmost columns should come out close to pure white / black;
	// a straddling column in the middle should average to something in between.
	left := plots[[2]int{0, 2}]
	right := plots[[2]int{3, 2}]
	if left.X < 0.9 {
		t.Errorf("leftmost column = %v, want close to white", left)
	}
	if right.X > 0.1 {
		t.Errorf("rightmost column = %v, want close to black", right)
	}
	mid := plots[[2]int{1, 2}]
	if mid.X <= 0 || mid.X >= 1 {
		t.Errorf("straddling column = %v, want strictly between black and white", mid)
	}
}

func TestAdaptiveSamplerCornerCacheSharesLeftEdge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AntialiasDepth = 1
	s := New(flatCamera(), constTrace(core.NewVec3(0.1, 0.1, 0.1)), cfg, 3, 3)
	a := NewAdaptiveSampler(s)

	calls := 0
	wrapped := func(ray core.Ray) core.Vec3 {
		calls++
		return core.NewVec3(0.1, 0.1, 0.1)
	}
	s.Trace = wrapped

	a.Render(func(x, y int, c core.Vec3) {})

	// With n=2, a naive implementation with no sharing would retrace
	// every corner of every pixel: 3 cols * 3 rows * 9 corners = 81 calls.
	// Edge sharing should mean strictly fewer traces than that.
	if calls >= 81 {
		t.Errorf("expected corner sharing to reduce trace calls below the naive 81, got %d", calls)
	}
}
