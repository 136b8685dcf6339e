package voxbody

import (
	"math"
)

// SpatialHashGrid buckets body boxes by cell so that terrain edits only wake
// the bodies close to them.
type SpatialHashGrid struct {
	cellSize float32
	cells    map[uint64][]BodyID
}

func NewSpatialHashGrid(cellSize float32) *SpatialHashGrid {
	if cellSize <= 0 {
		cellSize = 2.0
	}
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]BodyID),
	}
}

func (grid *SpatialHashGrid) Clear() {
	clear(grid.cells)
}

func (grid *SpatialHashGrid) Insert(id BodyID, box AABB) {
	grid.forEachCell(box, func(key uint64) {
		grid.cells[key] = append(grid.cells[key], id)
	})
}

// QueryAABB returns every body sharing a cell with box. Results are broadphase
// candidates, not exact overlaps.
func (grid *SpatialHashGrid) QueryAABB(box AABB) []BodyID {
	unique := make(map[BodyID]struct{})
	var results []BodyID

	grid.forEachCell(box, func(key uint64) {
		for _, id := range grid.cells[key] {
			if _, ok := unique[id]; !ok {
				unique[id] = struct{}{}
				results = append(results, id)
			}
		}
	})
	return results
}

func (grid *SpatialHashGrid) forEachCell(box AABB, fn func(key uint64)) {
	minX, maxX := grid.getCellIndex(box.Min.X()), grid.getCellIndex(box.Max.X())
	minY, maxY := grid.getCellIndex(box.Min.Y()), grid.getCellIndex(box.Max.Y())
	minZ, maxZ := grid.getCellIndex(box.Min.Z()), grid.getCellIndex(box.Max.Z())

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				fn(grid.hashKey(x, y, z))
			}
		}
	}
}

func (grid *SpatialHashGrid) getCellIndex(pos float32) int {
	return int(math.Floor(float64(pos / grid.cellSize)))
}

func (grid *SpatialHashGrid) hashKey(x, y, z int) uint64 {
	// large primes for mixing
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}
