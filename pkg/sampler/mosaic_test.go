package sampler

import (
	"testing"

	"github.com/df07/povcore/pkg/core"
)

func TestRenderMosaicFinalPassCoversEveryPixel(t *testing.T) {
	s := New(flatCamera(), constTrace(core.NewVec3(0.2, 0.2, 0.2)), DefaultConfig(), 8, 8)

	plotted := make(map[[2]int]core.Vec3)
	var finalRows int
	s.RenderMosaic(func(x, y int, c core.Vec3) {
		plotted[[2]int{x, y}] = c
	}, MosaicBlocky, []int{4, 1}, func(rowY, blockSize int, final bool) {
		if final {
			finalRows++
		}
	})

	if len(plotted) != 64 {
		t.Fatalf("expected the final pass to have touched all 64 pixels, got %d", len(plotted))
	}
	if finalRows != 8 {
		t.Errorf("expected 8 final-pass row callbacks for an 8-row frame, got %d", finalRows)
	}
}

func TestRenderMosaicAppendsMissingUnitPass(t *testing.T) {
	s := New(flatCamera(), constTrace(core.NewVec3(1, 1, 1)), DefaultConfig(), 4, 4)

	sawFinal := false
	s.RenderMosaic(func(x, y int, c core.Vec3) {}, MosaicBlocky, []int{2}, func(rowY, blockSize int, final bool) {
		if final {
			sawFinal = true
		}
	})
	if !sawFinal {
		t.Errorf("RenderMosaic should append a block-size-1 pass even if the caller omits it")
	}
}

func TestMosaicBlockyFillsWholeBlockFromOneSample(t *testing.T) {
	calls := 0
	trace := func(ray core.Ray) core.Vec3 {
		calls++
		return core.NewVec3(0.7, 0.7, 0.7)
	}
	s := New(flatCamera(), trace, DefaultConfig(), 4, 4)

	plotted := make(map[[2]int]core.Vec3)
	s.mosaicPass(func(x, y int, c core.Vec3) {
		plotted[[2]int{x, y}] = c
	}, MosaicBlocky, 4, func(int) {})

	if calls != 1 {
		t.Errorf("a single 4x4 block over a 4x4 frame should trace exactly once, got %d calls", calls)
	}
	for k, c := range plotted {
		if c != (core.Vec3{0.7, 0.7, 0.7}) {
			t.Errorf("pixel %v = %v, want the block's single sample (0.7,0.7,0.7)", k, c)
		}
	}
}

func TestBilinearBlockSampleClampsAtGridEdge(t *testing.T) {
	centers := [][]core.Vec3{
		{core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
		{core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1)},
	}
	// Top-left corner block, offset toward the outside: should clamp to
	// itself rather than reading out of bounds.
	got := bilinearBlockSample(centers, 0, 0, 0, 0, 4)
	if got.X < 0 || got.X > 1 {
		t.Errorf("bilinearBlockSample produced an out-of-range component: %v", got)
	}
}
