package voxbody

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MaxLiquidLevel = 8
	// A body counts as submerged once the level at its position exceeds this.
	submergedLevel = 5
	buoyancy       = 25
)

type LiquidKind uint8

const (
	LiquidNone LiquidKind = iota
	LiquidWater
	LiquidLava
)

func (k LiquidKind) String() string {
	switch k {
	case LiquidNone:
		return "none"
	case LiquidWater:
		return "water"
	case LiquidLava:
		return "lava"
	}
	return fmt.Sprintf("LiquidKind(%d)", uint8(k))
}

// CheckLiquid applies buoyancy and drag when the body is submerged and records
// the result in IsInLiquid and LiquidKind. Submersion depends on the level
// alone; the kind is only reported.
func (b *RigidBody) CheckLiquid(world Terrain, dt float32) {
	level, kind := world.LiquidAt(b.Position())
	if level <= submergedLevel {
		b.inLiquid = false
		b.liquid = LiquidNone
		return
	}

	b.inLiquid = true
	b.liquid = kind
	b.ApplyForce(mgl32.Vec3{0, buoyancy, 0}, dt)
	b.velocity = mgl32.Vec3{b.velocity.X() * 0.9, b.velocity.Y() * 0.5, b.velocity.Z() * 0.9}
}
