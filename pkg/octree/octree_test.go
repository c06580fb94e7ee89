package octree

import (
	"bytes"
	"testing"

	"github.com/df07/povcore/pkg/core"
)

func TestInsertAndQueryFindsContainingBlock(t *testing.T) {
	o := New()
	block := &core.IrradianceBlock{
		Point:        core.NewVec3(1, 2, 3),
		Normal:       core.NewVec3(0, 1, 0),
		Irradiance:   core.NewVec3(0.5, 0.5, 0.5),
		MeanDistance: 2.0,
		Depth:        1,
	}
	o.Insert(block.Point, 1.0, block)

	found := false
	o.Query(core.NewVec3(1, 2, 3), 0, func(b *core.IrradianceBlock) bool {
		if b == block {
			found = true
		}
		return true
	})
	if !found {
		t.Errorf("Query at the block's own point did not find it")
	}
}

func TestQueryAtDistantPointFindsNothing(t *testing.T) {
	o := New()
	block := &core.IrradianceBlock{Point: core.NewVec3(0, 0, 0), MeanDistance: 1.0, Depth: 1}
	o.Insert(block.Point, 0.5, block)

	count := 0
	o.Query(core.NewVec3(1e6, 1e6, 1e6), 0, func(b *core.IrradianceBlock) bool {
		count++
		return true
	})
	if count != 0 {
		t.Errorf("Query far from any block visited %d blocks, want 0", count)
	}
}

func TestQueryVisitorCanStopTraversal(t *testing.T) {
	o := New()
	for i := 0; i < 5; i++ {
		o.Insert(core.NewVec3(0, 0, 0), 0.5, &core.IrradianceBlock{Point: core.NewVec3(0, 0, 0), MeanDistance: 1.0, Depth: 1})
	}

	visited := 0
	o.Query(core.NewVec3(0, 0, 0), 0, func(b *core.IrradianceBlock) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("stopping traversal after the first block visited %d, want 1", visited)
	}
}

func TestInsertGrowsRootForDistantBlocks(t *testing.T) {
	o := New()
	near := &core.IrradianceBlock{Point: core.NewVec3(0, 0, 0), MeanDistance: 1.0, Depth: 1}
	far := &core.IrradianceBlock{Point: core.NewVec3(1000, 0, 0), MeanDistance: 1.0, Depth: 1}

	o.Insert(near.Point, 0.5, near)
	o.Insert(far.Point, 0.5, far)

	foundNear, foundFar := false, false
	o.Query(near.Point, 0, func(b *core.IrradianceBlock) bool {
		if b == near {
			foundNear = true
		}
		return true
	})
	o.Query(far.Point, 0, func(b *core.IrradianceBlock) bool {
		if b == far {
			foundFar = true
		}
		return true
	})
	if !foundNear || !foundFar {
		t.Errorf("growing the root to cover a far block lost the near block: near=%v far=%v", foundNear, foundFar)
	}
}

func TestNodeBoundsContainSphereAtInsert(t *testing.T) {
	center := core.NewVec3(3.7, -2.2, 10.1)
	radius := 0.8
	id := nodeIDFor(center, radius)
	if !id.containsSphere(center, radius) {
		t.Errorf("nodeIDFor(%v, %v) = %v, whose bounds do not contain the sphere", center, radius, id)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	o := New()
	block := &core.IrradianceBlock{
		Point:            core.NewVec3(1, 2, 3),
		Normal:           core.NewVec3(0, 1, 0),
		Irradiance:       core.NewVec3(0.25, 0.5, 0.75),
		MeanDistance:     4.0,
		NearestDistance:  1.5,
		ToNearestSurface: core.NewVec3(1, 0, 0),
		Depth:            1,
	}
	o.Insert(block.Point, block.Radius(0.3), block)

	var buf bytes.Buffer
	if err := o.Save(&buf); err != nil {
		t.Fatalf("Save returned an error: %v", err)
	}

	reloaded := New()
	n, err := reloaded.Load(&buf, func(b *core.IrradianceBlock) float64 { return b.Radius(0.3) })
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if n != 1 {
		t.Fatalf("Load reported %d blocks, want 1", n)
	}

	var loaded *core.IrradianceBlock
	reloaded.Query(block.Point, 0, func(b *core.IrradianceBlock) bool {
		loaded = b
		return false
	})
	if loaded == nil {
		t.Fatalf("reloaded tree has no block at the saved point")
	}
	if !loaded.Point.Equals(block.Point) {
		t.Errorf("Point round-trip = %v, want %v", loaded.Point, block.Point)
	}
	if !loaded.Irradiance.Equals(block.Irradiance) {
		t.Errorf("Irradiance round-trip = %v, want %v", loaded.Irradiance, block.Irradiance)
	}
	if loaded.Normal.Subtract(block.Normal).Length() > 0.02 {
		t.Errorf("Normal round-trip drifted beyond packed-normal precision: got %v, want %v", loaded.Normal, block.Normal)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	input := bytes.NewBufferString("garbage line\nB 1.0\nP\nC not-a-number\n")
	o := New()
	n, err := o.Load(input, func(b *core.IrradianceBlock) float64 { return 1.0 })
	if err != nil {
		t.Fatalf("Load returned an error on malformed input: %v", err)
	}
	if n != 0 {
		t.Errorf("Load parsed %d blocks from malformed input, want 0", n)
	}
}

func TestDepthOnlyOneBlocksAreSaved(t *testing.T) {
	o := New()
	o.Insert(core.NewVec3(0, 0, 0), 1.0, &core.IrradianceBlock{Point: core.NewVec3(0, 0, 0), MeanDistance: 1, Depth: 1})
	o.Insert(core.NewVec3(5, 5, 5), 1.0, &core.IrradianceBlock{Point: core.NewVec3(5, 5, 5), MeanDistance: 1, Depth: 2})

	var buf bytes.Buffer
	if err := o.Save(&buf); err != nil {
		t.Fatalf("Save returned an error: %v", err)
	}

	lines := 0
	for _, line := range bytes.Split(buf.Bytes(), []byte("\n")) {
		if len(line) > 0 {
			lines++
		}
	}
	if lines != 1 {
		t.Errorf("Save wrote %d lines, want 1 (depth-2 block should be excluded)", lines)
	}
}
