// Package volume stores sparse voxel terrain as sectors of bricks. Each voxel
// carries a material (0 means empty) and an optional liquid level and kind.
package volume

import (
	"math/bits"
)

const (
	BrickSize    = 8
	MicroSize    = 2
	SectorBricks = 4
	SectorSize   = SectorBricks * BrickSize // 32

	// Liquid levels are stored in the low nibble, the kind in the high one.
	MaxStoredLiquidLevel = 0x0F
)

type Brick struct {
	OccupancyMask64 uint64 // one bit per 2x2x2 micro block holding material
	LiquidMask64    uint64 // same layout for liquid
	Payload         [BrickSize][BrickSize][BrickSize]uint8
	Liquid          [BrickSize][BrickSize][BrickSize]uint8
}

func NewBrick() *Brick {
	return &Brick{}
}

func (b *Brick) SetVoxel(bx, by, bz int, val uint8) {
	b.Payload[bx][by][bz] = val
	b.OccupancyMask64 = updateMicroMask(b.OccupancyMask64, &b.Payload, bx, by, bz)
}

func (b *Brick) SetLiquid(bx, by, bz int, packed uint8) {
	b.Liquid[bx][by][bz] = packed
	b.LiquidMask64 = updateMicroMask(b.LiquidMask64, &b.Liquid, bx, by, bz)
}

// updateMicroMask sets or clears the micro block bit covering (bx,by,bz).
func updateMicroMask(mask uint64, data *[BrickSize][BrickSize][BrickSize]uint8, bx, by, bz int) uint64 {
	mx, my, mz := bx/MicroSize, by/MicroSize, bz/MicroSize
	bitIdx := mx + my*4 + mz*16

	if data[bx][by][bz] != 0 {
		return mask | (1 << bitIdx)
	}

	startX, startY, startZ := mx*MicroSize, my*MicroSize, mz*MicroSize
	for x := 0; x < MicroSize; x++ {
		for y := 0; y < MicroSize; y++ {
			for z := 0; z < MicroSize; z++ {
				if data[startX+x][startY+y][startZ+z] != 0 {
					return mask
				}
			}
		}
	}
	return mask &^ (1 << bitIdx)
}

// IsEmpty reports whether the brick holds neither material nor liquid.
func (b *Brick) IsEmpty() bool {
	return b.OccupancyMask64 == 0 && b.LiquidMask64 == 0
}

// Sector is a 4x4x4 block of bricks. Only non-empty bricks are stored, packed
// in flat-index order and addressed through BrickMask64.
type Sector struct {
	Coords       [3]int
	BrickMask64  uint64
	PackedBricks []*Brick
}

func NewSector(sx, sy, sz int) *Sector {
	return &Sector{
		Coords: [3]int{sx, sy, sz},
	}
}

func (s *Sector) GetPackedIndex(flatIdx int) int {
	maskBelow := (uint64(1) << flatIdx) - 1
	return bits.OnesCount64(s.BrickMask64 & maskBelow)
}

func (s *Sector) GetBrick(bx, by, bz int) *Brick {
	flatIdx := bx + by*4 + bz*16
	if (s.BrickMask64 & (1 << flatIdx)) == 0 {
		return nil
	}
	return s.PackedBricks[s.GetPackedIndex(flatIdx)]
}

func (s *Sector) GetOrCreateBrick(bx, by, bz int) (*Brick, bool) {
	flatIdx := bx + by*4 + bz*16
	if (s.BrickMask64 & (1 << flatIdx)) != 0 {
		return s.PackedBricks[s.GetPackedIndex(flatIdx)], false
	}

	newBrick := NewBrick()
	packedIdx := s.GetPackedIndex(flatIdx)

	s.PackedBricks = append(s.PackedBricks, nil)
	copy(s.PackedBricks[packedIdx+1:], s.PackedBricks[packedIdx:])
	s.PackedBricks[packedIdx] = newBrick

	s.BrickMask64 |= (1 << flatIdx)
	return newBrick, true
}

func (s *Sector) RemoveBrickIfEmpty(bx, by, bz int) {
	flatIdx := bx + by*4 + bz*16
	if (s.BrickMask64 & (1 << flatIdx)) == 0 {
		return
	}

	packedIdx := s.GetPackedIndex(flatIdx)
	if s.PackedBricks[packedIdx].IsEmpty() {
		s.PackedBricks = append(s.PackedBricks[:packedIdx], s.PackedBricks[packedIdx+1:]...)
		s.BrickMask64 &^= (1 << flatIdx)
	}
}

func (s *Sector) IsEmpty() bool {
	return s.BrickMask64 == 0
}

// BrickMap is the whole terrain. A sector that is present is "loaded": lookups
// inside it succeed even where it holds no bricks. Sectors are created on
// first write or by LoadSector and are never dropped when they empty out.
type BrickMap struct {
	Sectors map[[3]int]*Sector
	// DirtyBricks holds {sector, brick} coordinates written since the last ClearDirty.
	DirtyBricks map[[6]int]bool
}

func NewBrickMap() *BrickMap {
	return &BrickMap{
		Sectors:     make(map[[3]int]*Sector),
		DirtyBricks: make(map[[6]int]bool),
	}
}

// LoadSector makes sure the sector with the given sector coordinates exists.
func (x *BrickMap) LoadSector(sx, sy, sz int) *Sector {
	sKey := [3]int{sx, sy, sz}
	sector, ok := x.Sectors[sKey]
	if !ok {
		sector = NewSector(sx, sy, sz)
		x.Sectors[sKey] = sector
	}
	return sector
}

// HasSector reports whether the sector owning voxel (gx,gy,gz) is loaded.
func (x *BrickMap) HasSector(gx, gy, gz int) bool {
	sKey, _, _ := locate(gx, gy, gz)
	_, ok := x.Sectors[sKey]
	return ok
}

func (x *BrickMap) ClearDirty() {
	x.DirtyBricks = make(map[[6]int]bool)
}

// SectorKey returns the sector coordinates owning voxel (gx,gy,gz).
func SectorKey(gx, gy, gz int) [3]int {
	sKey, _, _ := locate(gx, gy, gz)
	return sKey
}

// locate splits global voxel coordinates into sector, brick and in-brick
// coordinates. Negative coordinates floor towards -inf.
func locate(gx, gy, gz int) (sKey [3]int, brick [3]int, voxel [3]int) {
	sx, sy, sz := gx/SectorSize, gy/SectorSize, gz/SectorSize
	slx, sly, slz := gx%SectorSize, gy%SectorSize, gz%SectorSize
	if slx < 0 {
		slx += SectorSize
		sx--
	}
	if sly < 0 {
		sly += SectorSize
		sy--
	}
	if slz < 0 {
		slz += SectorSize
		sz--
	}

	sKey = [3]int{sx, sy, sz}
	brick = [3]int{slx / BrickSize, sly / BrickSize, slz / BrickSize}
	voxel = [3]int{slx % BrickSize, sly % BrickSize, slz % BrickSize}
	return
}

func (x *BrickMap) markDirty(sKey, bc [3]int) {
	x.DirtyBricks[[6]int{sKey[0], sKey[1], sKey[2], bc[0], bc[1], bc[2]}] = true
}

// write applies set to the voxel's brick, creating or pruning bricks as needed.
func (x *BrickMap) write(gx, gy, gz int, clearing bool, set func(b *Brick, vx, vy, vz int)) {
	sKey, bc, vc := locate(gx, gy, gz)

	if clearing {
		sector, ok := x.Sectors[sKey]
		if !ok {
			return
		}
		brick := sector.GetBrick(bc[0], bc[1], bc[2])
		if brick == nil {
			return
		}
		set(brick, vc[0], vc[1], vc[2])
		sector.RemoveBrickIfEmpty(bc[0], bc[1], bc[2])
		x.markDirty(sKey, bc)
		return
	}

	sector := x.LoadSector(sKey[0], sKey[1], sKey[2])
	brick, _ := sector.GetOrCreateBrick(bc[0], bc[1], bc[2])
	set(brick, vc[0], vc[1], vc[2])
	x.markDirty(sKey, bc)
}

// SetVoxel writes a material; 0 clears the voxel.
func (x *BrickMap) SetVoxel(gx, gy, gz int, val uint8) {
	x.write(gx, gy, gz, val == 0, func(b *Brick, vx, vy, vz int) {
		b.SetVoxel(vx, vy, vz, val)
	})
}

// GetVoxel returns (found, value) for a voxel at global coordinates.
func (x *BrickMap) GetVoxel(gx, gy, gz int) (bool, uint8) {
	brick, vc := x.brickAt(gx, gy, gz)
	if brick == nil {
		return false, 0
	}
	val := brick.Payload[vc[0]][vc[1]][vc[2]]
	return val != 0, val
}

// SetLiquid writes a liquid level (clamped to MaxStoredLiquidLevel) and kind. A zero
// level removes the liquid.
func (x *BrickMap) SetLiquid(gx, gy, gz int, level, kind uint8) {
	if level > MaxStoredLiquidLevel {
		level = MaxStoredLiquidLevel
	}
	packed := uint8(0)
	if level > 0 {
		packed = level | kind<<4
	}
	x.write(gx, gy, gz, packed == 0, func(b *Brick, vx, vy, vz int) {
		b.SetLiquid(vx, vy, vz, packed)
	})
}

// GetLiquid returns the level and kind stored at a voxel.
func (x *BrickMap) GetLiquid(gx, gy, gz int) (level, kind uint8) {
	brick, vc := x.brickAt(gx, gy, gz)
	if brick == nil {
		return 0, 0
	}
	packed := brick.Liquid[vc[0]][vc[1]][vc[2]]
	return packed & 0x0F, packed >> 4
}

func (x *BrickMap) brickAt(gx, gy, gz int) (*Brick, [3]int) {
	sKey, bc, vc := locate(gx, gy, gz)
	sector, ok := x.Sectors[sKey]
	if !ok {
		return nil, vc
	}
	return sector.GetBrick(bc[0], bc[1], bc[2]), vc
}

// GetVoxelCount counts voxels holding material.
func (x *BrickMap) GetVoxelCount() int {
	count := 0
	for _, sector := range x.Sectors {
		for _, brick := range sector.PackedBricks {
			if brick.OccupancyMask64 == 0 {
				continue
			}
			for vz := 0; vz < BrickSize; vz++ {
				for vy := 0; vy < BrickSize; vy++ {
					for vx := 0; vx < BrickSize; vx++ {
						if brick.Payload[vx][vy][vz] != 0 {
							count++
						}
					}
				}
			}
		}
	}
	return count
}
