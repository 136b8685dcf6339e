package volume

import (
	"testing"
)

func TestBrickMapIndexMath(t *testing.T) {
	bm := NewBrickMap()

	bm.SetVoxel(10, 10, 10, 5)
	found, val := bm.GetVoxel(10, 10, 10)
	if !found || val != 5 {
		t.Errorf("Expected voxel at (10,10,10) to be 5, got found=%v val=%d", found, val)
	}

	// Negative coordinates floor into the previous sector
	bm.SetVoxel(-1, -1, -1, 3)
	found, val = bm.GetVoxel(-1, -1, -1)
	if !found || val != 3 {
		t.Errorf("Expected voxel at (-1,-1,-1) to be 3, got found=%v val=%d", found, val)
	}
	if _, exists := bm.Sectors[[3]int{-1, -1, -1}]; !exists {
		t.Errorf("Sector (-1,-1,-1) should exist")
	}
	if got := SectorKey(-33, 0, 31); got != [3]int{-2, 0, 0} {
		t.Errorf("SectorKey(-33,0,31) = %v", got)
	}

	bm.SetVoxel(31, 0, 0, 1)
	bm.SetVoxel(32, 0, 0, 2)
	if _, val = bm.GetVoxel(31, 0, 0); val != 1 {
		t.Errorf("Expected voxel at (31,0,0) to be 1, got %d", val)
	}
	if _, val = bm.GetVoxel(32, 0, 0); val != 2 {
		t.Errorf("Expected voxel at (32,0,0) to be 2, got %d", val)
	}
	if _, exists := bm.Sectors[[3]int{1, 0, 0}]; !exists {
		t.Error("Sector (1,0,0) should exist")
	}
}

func TestDirtyTracking(t *testing.T) {
	bm := NewBrickMap()
	bm.SetVoxel(0, 0, 0, 1)
	bm.ClearDirty()

	if len(bm.DirtyBricks) != 0 {
		t.Error("Dirty bricks should be empty after clear")
	}

	bm.SetVoxel(9, 0, 0, 2)

	brickKey := [6]int{0, 0, 0, 1, 0, 0}
	if _, exists := bm.DirtyBricks[brickKey]; !exists {
		t.Errorf("Brick %v should be marked dirty", brickKey)
	}

	// Clearing an empty voxel in an unloaded sector is a no-op
	bm.ClearDirty()
	bm.SetVoxel(500, 0, 0, 0)
	if len(bm.DirtyBricks) != 0 {
		t.Errorf("No-op clear should not dirty anything, got %v", bm.DirtyBricks)
	}
}

func TestSparseMasks(t *testing.T) {
	bm := NewBrickMap()
	bm.SetVoxel(5, 5, 5, 1)

	sector, exists := bm.Sectors[[3]int{0, 0, 0}]
	if !exists {
		t.Fatal("Sector missing")
	}
	brick := sector.GetBrick(0, 0, 0)
	if brick == nil {
		t.Fatal("Brick missing")
	}
	if brick.OccupancyMask64 == 0 {
		t.Error("Brick occupancy should not be empty")
	}

	bm.SetVoxel(5, 5, 5, 0)

	if !bm.HasSector(5, 5, 5) {
		t.Error("Sector should stay loaded after it empties")
	}
	if sector.GetBrick(0, 0, 0) != nil {
		t.Error("Brick should be removed after clearing")
	}
	if !sector.IsEmpty() {
		t.Error("Sector mask should be cleared")
	}
}

func TestMicroMaskKeepsSharedBlock(t *testing.T) {
	b := NewBrick()
	b.SetVoxel(0, 0, 0, 1)
	b.SetVoxel(1, 1, 1, 1)
	b.SetVoxel(0, 0, 0, 0)

	if b.OccupancyMask64&1 == 0 {
		t.Error("Micro block 0 still holds (1,1,1)")
	}
	b.SetVoxel(1, 1, 1, 0)
	if !b.IsEmpty() {
		t.Errorf("Brick should be empty, mask=%b", b.OccupancyMask64)
	}
}

func TestLiquidStorage(t *testing.T) {
	bm := NewBrickMap()
	bm.SetLiquid(3, 4, 5, 8, 2)

	level, kind := bm.GetLiquid(3, 4, 5)
	if level != 8 || kind != 2 {
		t.Errorf("Expected level 8 kind 2, got level %d kind %d", level, kind)
	}
	if found, _ := bm.GetVoxel(3, 4, 5); found {
		t.Error("Liquid must not count as material")
	}

	bm.SetLiquid(3, 4, 5, 99, 1)
	if level, _ = bm.GetLiquid(3, 4, 5); level != MaxStoredLiquidLevel {
		t.Errorf("Level should clamp to %d, got %d", MaxStoredLiquidLevel, level)
	}

	// Liquid and material share a brick; removing one keeps the other
	bm.SetVoxel(3, 4, 6, 7)
	bm.SetLiquid(3, 4, 5, 0, 0)
	if found, val := bm.GetVoxel(3, 4, 6); !found || val != 7 {
		t.Errorf("Material lost when liquid was drained: found=%v val=%d", found, val)
	}
	if level, _ = bm.GetLiquid(3, 4, 5); level != 0 {
		t.Errorf("Liquid should be drained, got level %d", level)
	}
}

func TestVoxelCount(t *testing.T) {
	bm := NewBrickMap()
	for x := 0; x < 10; x++ {
		bm.SetVoxel(x, 0, 0, 1)
	}
	bm.SetLiquid(20, 0, 0, 4, 1)
	if got := bm.GetVoxelCount(); got != 10 {
		t.Errorf("Expected 10 voxels, got %d", got)
	}

	bm.SetVoxel(0, 0, 0, 0)
	if got := bm.GetVoxelCount(); got != 9 {
		t.Errorf("Expected 9 voxels after clearing one, got %d", got)
	}
}
