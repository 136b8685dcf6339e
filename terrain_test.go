package voxbody

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld() *VoxelWorld {
	return NewVoxelWorld(NewAABB(mgl32.Vec3{-32, -16, -32}, mgl32.Vec3{32, 32, 32}), 1)
}

// newFloorWorld has a 5x5 floor whose top face is at y=0.
func newFloorWorld() *VoxelWorld {
	w := newTestWorld()
	w.Fill([3]int{-2, -1, -2}, [3]int{2, -1, 2}, 1)
	return w
}

// dropUntilLanded throws b downwards, since a body released at rest sleeps
// after its first step, and steps it until it touches terrain.
func dropUntilLanded(t *testing.T, b *RigidBody, world Terrain, dt float32) int {
	t.Helper()
	b.SetVelocity(mgl32.Vec3{0, -1, 0})
	for i := 0; i < 500; i++ {
		if b.Step(world, dt).Contacts > 0 {
			return i
		}
	}
	t.Fatalf("body never landed, position %v", b.Position())
	return -1
}

func TestResolveTerrain_LandsOnFloor(t *testing.T) {
	world := newFloorWorld()
	b := newTestBody(t, func(c *BodyConfig) { c.Position = mgl32.Vec3{0.5, 2, 0.5} })

	dropUntilLanded(t, b, world, 0.016)

	assert.InDelta(t, 0, b.BoundingBox().Min.Y(), 0.002)
	assert.True(t, b.GravitySuppressed())
	assert.InDelta(t, 0, b.Velocity().Y(), 1e-5)
}

func TestResolveTerrain_GravitySuppressedForOneStep(t *testing.T) {
	world := newFloorWorld()
	b := newTestBody(t, func(c *BodyConfig) { c.Position = mgl32.Vec3{0.5, 2, 0.5} })
	dropUntilLanded(t, b, world, 0.016)
	restY := b.Position().Y()

	b.NotifyTerrainModified()
	require.True(t, b.Step(world, 0.016).Simulated)
	assert.False(t, b.GravitySuppressed())
	assert.InDelta(t, restY, b.Position().Y(), 1e-6, "the suppressed step must not fall")

	b.NotifyTerrainModified()
	b.Step(world, 0.016)
	assert.Less(t, b.Position().Y(), restY, "gravity is back on the step after")
}

func TestResolveTerrain_WallStopsSideways(t *testing.T) {
	world := newTestWorld()
	world.SetSolid(2, 0, 0, 1)
	b := newTestBody(t, func(c *BodyConfig) {
		c.Position = mgl32.Vec3{1.45, 0.5, 0.5}
		c.Gravity = mgl32.Vec3{}
	})
	b.SetVelocity(mgl32.Vec3{5, 0, 0})

	res := b.Step(world, 0.016)

	assert.Equal(t, 1, res.Contacts)
	assert.LessOrEqual(t, b.BoundingBox().Max.X(), float32(2))
	assert.InDelta(t, 0, b.Velocity().X(), 1e-6)
	assert.False(t, b.GravitySuppressed())
}

func TestResolveTerrain_CollisionHook(t *testing.T) {
	world := newFloorWorld()
	var hits []VoxelCell
	b := newTestBody(t, func(c *BodyConfig) {
		c.Position = mgl32.Vec3{0.5, 2, 0.5}
		c.OnTerrainCollision = func(body *RigidBody, cell Cell) {
			hits = append(hits, cell.(VoxelCell))
		}
	})

	dropUntilLanded(t, b, world, 0.016)

	require.Len(t, hits, 1)
	assert.Equal(t, [3]int{0, -1, 0}, [3]int{hits[0].X, hits[0].Y, hits[0].Z})
	assert.Equal(t, uint8(1), hits[0].Material())
}

func TestResolveTerrain_SkipsWithoutCell(t *testing.T) {
	b := newTestBody(t, nil)
	b.SetVelocity(mgl32.Vec3{0, -5, 0})
	assert.Equal(t, 0, b.ResolveTerrain(newOpenTerrain(), 0.016))
}

func TestResolveTerrain_SkipsSlowBodies(t *testing.T) {
	world := newTestWorld()
	world.SetSolid(0, 0, 0, 1)
	b := newTestBody(t, func(c *BodyConfig) { c.Position = mgl32.Vec3{0.5, 0.9, 0.5} })
	b.SetVelocity(mgl32.Vec3{0, -0.1, 0})

	assert.Equal(t, 0, b.ResolveTerrain(world, 0.016))
	assert.InDelta(t, 0.9, b.Position().Y(), 1e-6)
}

func TestCollide_RemovesNormalVelocity(t *testing.T) {
	b := newTestBody(t, func(c *BodyConfig) {
		c.Position = mgl32.Vec3{0.5, 0.4, 0.5}
		c.Restitution = 0.5
	})
	b.SetVelocity(mgl32.Vec3{2, -3, 0})

	hit := b.Collide(NewAABB(mgl32.Vec3{-5, -1, -5}, mgl32.Vec3{5, 0, 5}))

	require.True(t, hit)
	assert.InDelta(t, 1, b.Velocity().X(), 1e-6)
	assert.InDelta(t, 0, b.Velocity().Y(), 1e-6)
	assert.Greater(t, b.BoundingBox().Min.Y(), float32(0))
	assert.True(t, b.GravitySuppressed())

	assert.False(t, b.Collide(NewAABB(mgl32.Vec3{10, 10, 10}, mgl32.Vec3{11, 11, 11})))
}

func TestResolveTerrain_ComesToRest(t *testing.T) {
	for _, restitution := range []float32{0.5, 0.99, 1} {
		world := newFloorWorld()
		b := newTestBody(t, func(c *BodyConfig) {
			c.Position = mgl32.Vec3{0.5, 4, 0.5}
			c.Restitution = restitution
		})
		dropUntilLanded(t, b, world, 0.016)

		for i := 0; i < 200; i++ {
			b.Step(world, 0.016)
		}

		assert.InDelta(t, 0, b.Velocity().Y(), 1e-3, "restitution %v", restitution)
		assert.InDelta(t, 0.5, b.Position().Y(), 0.002, "restitution %v", restitution)
	}
}
