package voxbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Bodies may overshoot the top of the world by this much before bouncing.
	worldCeilingMargin = 50
	// Bodies below this height are removed.
	deathFloorY = -10
	// Out-of-bounds moves reverse the velocity and scale it by this factor.
	boundaryBounce = -5
	// Horizontal friction only applies while vertical speed is below this.
	groundSpeedY = 0.1
)

// ApplyForce integrates a force over dt and wakes the body.
func (b *RigidBody) ApplyForce(force mgl32.Vec3, dt float32) {
	b.velocity = b.velocity.Add(force.Mul(1.0 / b.mass).Mul(dt))
	b.sleeping = false
}

// ApplyTorque adds torque/inertia/dt to the angular velocity and wakes the body.
// The division by dt is kept for compatibility with tuned content.
func (b *RigidBody) ApplyTorque(torque mgl32.Vec3, dt float32) {
	if dt <= 0 {
		b.sleeping = false
		return
	}
	b.angularVelocity = b.angularVelocity.Add(torque.Mul(1.0 / b.inertia).Mul(1.0 / dt))
	b.sleeping = false
}

// StepResult summarises what a single Step did.
type StepResult struct {
	Simulated bool // false when the body slept through the step
	Contacts  int
	Died      bool
}

// Step advances the body by dt against world. Sleeping and dead bodies are left
// untouched. A body that leaves the world is destroyed and stops simulating.
func (b *RigidBody) Step(world Terrain, dt float32) StepResult {
	if b.dead || !b.beginStep() {
		return StepResult{}
	}

	if b.suppressGravity {
		b.suppressGravity = false
	} else {
		b.ApplyForce(b.gravity, dt)
	}

	bounds := world.Bounds()
	bounds.Max[1] += worldCeilingMargin

	t := b.local
	b.prevPosition = b.Position()

	next := t.Position.Add(b.velocity.Mul(dt))
	if bounds.ContainsPoint(b.globalPoint(next)) {
		t.Position = next
	} else {
		t.Position = t.Position.Sub(b.velocity.Mul(2 * dt))
		b.velocity = b.velocity.Mul(boundaryBounce)
	}
	b.setTransform(t)

	if b.Position().Y() < deathFloorY || b.box.Disjoint(bounds) {
		b.die()
		return StepResult{Simulated: true, Died: true}
	}

	b.setTransform(b.orientation.Orient(b.local, b.velocity, b.angularVelocity, dt))

	if float32(math.Abs(float64(b.velocity.Y()))) < groundSpeedY {
		b.velocity = mgl32.Vec3{b.velocity.X() * b.friction, b.velocity.Y(), b.velocity.Z() * b.friction}
	}

	b.velocity = b.velocity.Mul(b.linearDamping)
	b.angularVelocity = b.angularVelocity.Mul(b.angularDamping)
	b.refreshBounds()

	contacts := b.ResolveTerrain(world, dt)
	b.CheckLiquid(world, dt)
	return StepResult{Simulated: true, Contacts: contacts}
}

// globalPoint maps a local position into world space.
func (b *RigidBody) globalPoint(local mgl32.Vec3) mgl32.Vec3 {
	if b.parent == nil {
		return local
	}
	return mgl32.TransformCoordinate(local, b.parent.GlobalTransform())
}
