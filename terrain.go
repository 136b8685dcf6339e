package voxbody

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Contacts whose normal has a vertical component above this count as landing
// on top of a surface.
const groundNormalY = 0.9

// Cell is one voxel of the terrain.
type Cell interface {
	IsEmpty() bool
	BoundingBox() AABB
}

// Terrain is the read side of the voxel world that bodies query every step.
type Terrain interface {
	// CellAt returns the cell containing pos, or false when the chunk that
	// would own it is not loaded.
	CellAt(pos mgl32.Vec3) (Cell, bool)
	// Neighbors returns the 26 face, edge and corner neighbours of c.
	Neighbors(c Cell) []Cell
	// LiquidAt returns the liquid level (0..MaxLiquidLevel) and kind at pos.
	LiquidAt(pos mgl32.Vec3) (uint8, LiquidKind)
	Bounds() AABB
}

// ResolveTerrain pushes the body out of every solid cell around it, one cell
// at a time. It returns the number of contacts resolved.
func (b *RigidBody) ResolveTerrain(world Terrain, dt float32) int {
	if b.belowSleepSpeed() {
		return 0
	}

	current, ok := world.CellAt(b.Position())
	if !ok || current == nil {
		return 0
	}

	candidates := append([]Cell{current}, world.Neighbors(current)...)

	contacts := 0
	for _, c := range candidates {
		if c == nil || c.IsEmpty() {
			continue
		}
		if b.Collide(c.BoundingBox()) {
			contacts++
			if b.onTerrainCollision != nil {
				b.onTerrainCollision(b, c)
			}
		}
	}
	return contacts
}

// Collide resolves a single contact against box: the body is moved out along
// the minimum translation vector and loses its velocity along the normal.
func (b *RigidBody) Collide(box AABB) bool {
	if !b.box.Intersects(box) {
		return false
	}

	contact := TestOverlap(b.box, box)
	if !contact.Intersecting {
		return false
	}

	t := b.local.Translate(contact.Normal.Mul(contact.Penetration))

	if contact.Normal.Y() > groundNormalY {
		b.suppressGravity = true
	}

	along := contact.Normal.Mul(b.velocity.Dot(contact.Normal))
	b.velocity = b.velocity.Sub(along).Mul(b.restitution)

	b.setTransform(t)
	return true
}
