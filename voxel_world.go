package voxbody

import (
	"math"
	"sync"

	"github.com/gekko3d/voxbody/volume"
	"github.com/go-gl/mathgl/mgl32"
)

// VoxelWorld is a Terrain backed by a sparse brick map. Voxel (x,y,z) covers
// [x,x+1)*VoxelSize on each axis. Every sector overlapping the world bounds is
// loaded up front; lookups outside them report no cell.
type VoxelWorld struct {
	mu        sync.RWMutex
	voxels    *volume.BrickMap
	voxelSize float32
	bounds    AABB
}

func NewVoxelWorld(bounds AABB, voxelSize float32) *VoxelWorld {
	if voxelSize <= 0 {
		voxelSize = 1
	}
	w := &VoxelWorld{
		voxels:    volume.NewBrickMap(),
		voxelSize: voxelSize,
		bounds:    bounds,
	}

	lo := w.VoxelCoords(bounds.Min)
	hi := w.VoxelCoords(bounds.Max)
	sLo := volume.SectorKey(lo[0], lo[1], lo[2])
	sHi := volume.SectorKey(hi[0], hi[1], hi[2])
	for sx := sLo[0]; sx <= sHi[0]; sx++ {
		for sy := sLo[1]; sy <= sHi[1]; sy++ {
			for sz := sLo[2]; sz <= sHi[2]; sz++ {
				w.voxels.LoadSector(sx, sy, sz)
			}
		}
	}
	return w
}

func (w *VoxelWorld) VoxelSize() float32 { return w.voxelSize }

func (w *VoxelWorld) Bounds() AABB { return w.bounds }

// VoxelCoords returns the voxel containing pos.
func (w *VoxelWorld) VoxelCoords(pos mgl32.Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(pos.X() / w.voxelSize))),
		int(math.Floor(float64(pos.Y() / w.voxelSize))),
		int(math.Floor(float64(pos.Z() / w.voxelSize))),
	}
}

// VoxelBox returns the world-space box of voxel (x,y,z).
func (w *VoxelWorld) VoxelBox(x, y, z int) AABB {
	min := mgl32.Vec3{float32(x), float32(y), float32(z)}.Mul(w.voxelSize)
	return AABB{Min: min, Max: min.Add(mgl32.Vec3{w.voxelSize, w.voxelSize, w.voxelSize})}
}

// VoxelCell is a handle to one voxel. Its emptiness is read when asked, so a
// handle stays valid across edits.
type VoxelCell struct {
	X, Y, Z int
	world   *VoxelWorld
}

func (c VoxelCell) IsEmpty() bool {
	c.world.mu.RLock()
	defer c.world.mu.RUnlock()
	found, _ := c.world.voxels.GetVoxel(c.X, c.Y, c.Z)
	return !found
}

// Material is the stored material id, 0 when empty.
func (c VoxelCell) Material() uint8 {
	c.world.mu.RLock()
	defer c.world.mu.RUnlock()
	_, val := c.world.voxels.GetVoxel(c.X, c.Y, c.Z)
	return val
}

func (c VoxelCell) BoundingBox() AABB {
	return c.world.VoxelBox(c.X, c.Y, c.Z)
}

func (w *VoxelWorld) CellAt(pos mgl32.Vec3) (Cell, bool) {
	v := w.VoxelCoords(pos)
	return w.cell(v[0], v[1], v[2])
}

func (w *VoxelWorld) cell(x, y, z int) (Cell, bool) {
	w.mu.RLock()
	loaded := w.voxels.HasSector(x, y, z)
	w.mu.RUnlock()
	if !loaded {
		return nil, false
	}
	return VoxelCell{X: x, Y: y, Z: z, world: w}, true
}

// Neighbors returns the loaded 26-connected neighbours of a VoxelCell.
func (w *VoxelWorld) Neighbors(c Cell) []Cell {
	vc, ok := c.(VoxelCell)
	if !ok {
		return nil
	}

	out := make([]Cell, 0, 26)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if n, ok := w.cell(vc.X+dx, vc.Y+dy, vc.Z+dz); ok {
					out = append(out, n)
				}
			}
		}
	}
	return out
}

func (w *VoxelWorld) LiquidAt(pos mgl32.Vec3) (uint8, LiquidKind) {
	v := w.VoxelCoords(pos)
	w.mu.RLock()
	defer w.mu.RUnlock()
	level, kind := w.voxels.GetLiquid(v[0], v[1], v[2])
	return level, LiquidKind(kind)
}

// SetSolid writes a material at voxel (x,y,z); material 0 clears it.
func (w *VoxelWorld) SetSolid(x, y, z int, material uint8) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.voxels.SetVoxel(x, y, z, material)
}

func (w *VoxelWorld) Clear(x, y, z int) {
	w.SetSolid(x, y, z, 0)
}

// SetLiquid stores a liquid level, capped at MaxLiquidLevel.
func (w *VoxelWorld) SetLiquid(x, y, z int, level uint8, kind LiquidKind) {
	if level > MaxLiquidLevel {
		level = MaxLiquidLevel
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.voxels.SetLiquid(x, y, z, level, uint8(kind))
}

// Fill sets every voxel in the inclusive range [from, to] to material.
func (w *VoxelWorld) Fill(from, to [3]int, material uint8) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for x := from[0]; x <= to[0]; x++ {
		for y := from[1]; y <= to[1]; y++ {
			for z := from[2]; z <= to[2]; z++ {
				w.voxels.SetVoxel(x, y, z, material)
			}
		}
	}
}

// FillLiquid floods the inclusive range [from, to].
func (w *VoxelWorld) FillLiquid(from, to [3]int, level uint8, kind LiquidKind) {
	for x := from[0]; x <= to[0]; x++ {
		for y := from[1]; y <= to[1]; y++ {
			for z := from[2]; z <= to[2]; z++ {
				w.SetLiquid(x, y, z, level, kind)
			}
		}
	}
}

func (w *VoxelWorld) VoxelCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.voxels.GetVoxelCount()
}

// FlushModified returns the world-space boxes of every brick edited since the
// last flush and resets the dirty set.
func (w *VoxelWorld) FlushModified() []AABB {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.voxels.DirtyBricks) == 0 {
		return nil
	}

	brickUnits := float32(volume.BrickSize) * w.voxelSize
	boxes := make([]AABB, 0, len(w.voxels.DirtyBricks))
	for key := range w.voxels.DirtyBricks {
		min := mgl32.Vec3{
			float32(key[0]*volume.SectorSize) * w.voxelSize,
			float32(key[1]*volume.SectorSize) * w.voxelSize,
			float32(key[2]*volume.SectorSize) * w.voxelSize,
		}.Add(mgl32.Vec3{float32(key[3]), float32(key[4]), float32(key[5])}.Mul(brickUnits))
		boxes = append(boxes, AABB{Min: min, Max: min.Add(mgl32.Vec3{brickUnits, brickUnits, brickUnits})})
	}
	w.voxels.ClearDirty()
	return boxes
}
