package voxbody

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrInvalidConfiguration = errors.New("invalid body configuration")
	ErrUnknownOrientMode    = errors.New("unknown orientation mode")
	ErrDuplicateBody        = errors.New("body already registered")
)

// BodyID identifies a body. It is supplied by the caller or by the
// Simulation's IDGenerator; this package never allocates ids on its own.
type BodyID string

// TerrainCollisionFunc is called once for every terrain cell a body was pushed out of.
type TerrainCollisionFunc func(body *RigidBody, cell Cell)

// BodyConfig holds the construction parameters of a RigidBody.
type BodyConfig struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat // zero value means identity
	Parent   Parent

	Size   mgl32.Vec3 // full extents of the bounding box
	Offset mgl32.Vec3 // box center relative to the body position

	Mass           float32
	Inertia        float32
	LinearDamping  float32
	AngularDamping float32
	Restitution    float32
	Friction       float32
	Gravity        mgl32.Vec3
	Orientation    OrientMode

	OnTerrainCollision TerrainCollisionFunc
}

// DefaultBodyConfig is a unit cube with unit mass, no damping and the
// bouncy-but-grippy surface response the engine uses for loose objects.
func DefaultBodyConfig() BodyConfig {
	return BodyConfig{
		Rotation:       mgl32.QuatIdent(),
		Size:           mgl32.Vec3{1, 1, 1},
		Mass:           1,
		Inertia:        1,
		LinearDamping:  1,
		AngularDamping: 1,
		Restitution:    0.99,
		Friction:       0.99,
		Gravity:        mgl32.Vec3{0, -10, 0},
		Orientation:    OrientFixed,
	}
}

func (c BodyConfig) Validate() error {
	switch {
	case c.Mass <= 0:
		return fmt.Errorf("%w: mass must be > 0, got %v", ErrInvalidConfiguration, c.Mass)
	case c.Inertia <= 0:
		return fmt.Errorf("%w: inertia must be > 0, got %v", ErrInvalidConfiguration, c.Inertia)
	case c.LinearDamping <= 0 || c.LinearDamping > 1:
		return fmt.Errorf("%w: linear damping must be in (0,1], got %v", ErrInvalidConfiguration, c.LinearDamping)
	case c.AngularDamping <= 0 || c.AngularDamping > 1:
		return fmt.Errorf("%w: angular damping must be in (0,1], got %v", ErrInvalidConfiguration, c.AngularDamping)
	case c.Restitution < 0 || c.Restitution > 1:
		return fmt.Errorf("%w: restitution must be in [0,1], got %v", ErrInvalidConfiguration, c.Restitution)
	case c.Friction < 0 || c.Friction > 1:
		return fmt.Errorf("%w: friction must be in [0,1], got %v", ErrInvalidConfiguration, c.Friction)
	case c.Size.X() <= 0 || c.Size.Y() <= 0 || c.Size.Z() <= 0:
		return fmt.Errorf("%w: size must be positive on every axis, got %v", ErrInvalidConfiguration, c.Size)
	}
	return nil
}

// RigidBody is a point-mass box. It owns its local transform; the parent
// frame, when present, is only read.
type RigidBody struct {
	id     BodyID
	local  Transform
	parent Parent

	prevPosition    mgl32.Vec3
	velocity        mgl32.Vec3
	angularVelocity mgl32.Vec3

	mass           float32
	inertia        float32
	linearDamping  float32
	angularDamping float32
	restitution    float32
	friction       float32
	gravity        mgl32.Vec3
	orientation    Orientation

	size   mgl32.Vec3
	offset mgl32.Vec3
	box    AABB

	sleeping        bool
	overrideSleep   bool
	suppressGravity bool
	inLiquid        bool
	liquid          LiquidKind
	dead            bool

	onTerrainCollision TerrainCollisionFunc
	destroyHandlers    []func(*RigidBody)
}

// NewRigidBody validates cfg and builds a body. New bodies get one forced
// step so they can settle even when created at rest.
func NewRigidBody(id BodyID, cfg BodyConfig) (*RigidBody, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rot := cfg.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}

	b := &RigidBody{
		id:                 id,
		parent:             cfg.Parent,
		mass:               cfg.Mass,
		inertia:            cfg.Inertia,
		linearDamping:      cfg.LinearDamping,
		angularDamping:     cfg.AngularDamping,
		restitution:        cfg.Restitution,
		friction:           cfg.Friction,
		gravity:            cfg.Gravity,
		orientation:        NewOrientation(cfg.Orientation),
		size:               cfg.Size,
		offset:             cfg.Offset,
		overrideSleep:      true,
		onTerrainCollision: cfg.OnTerrainCollision,
	}
	b.setTransform(Transform{Position: cfg.Position, Rotation: rot})
	b.prevPosition = b.Position()
	return b, nil
}

// setTransform is the only writer of the local transform.
func (b *RigidBody) setTransform(t Transform) {
	b.local = t
	b.refreshBounds()
}

func (b *RigidBody) refreshBounds() {
	center := b.Position().Add(b.offset)
	b.box = NewAABBFromCenter(center, b.size)
}

func (b *RigidBody) ID() BodyID { return b.id }

// Position is the global position of the body.
func (b *RigidBody) Position() mgl32.Vec3 {
	if b.parent == nil {
		return b.local.Position
	}
	return compose(b.parent, b.local).Col(3).Vec3()
}

func (b *RigidBody) PreviousPosition() mgl32.Vec3 { return b.prevPosition }

func (b *RigidBody) LocalTransform() Transform { return b.local }

func (b *RigidBody) GlobalTransform() mgl32.Mat4 { return compose(b.parent, b.local) }

func (b *RigidBody) SetPosition(p mgl32.Vec3) {
	t := b.local
	t.Position = p
	b.setTransform(t)
}

func (b *RigidBody) Velocity() mgl32.Vec3 { return b.velocity }

func (b *RigidBody) SetVelocity(v mgl32.Vec3) { b.velocity = v }

func (b *RigidBody) AngularVelocity() mgl32.Vec3 { return b.angularVelocity }

func (b *RigidBody) SetAngularVelocity(w mgl32.Vec3) { b.angularVelocity = w }

func (b *RigidBody) Mass() float32        { return b.mass }
func (b *RigidBody) Inertia() float32     { return b.inertia }
func (b *RigidBody) Restitution() float32 { return b.restitution }
func (b *RigidBody) Friction() float32    { return b.friction }

func (b *RigidBody) Gravity() mgl32.Vec3 { return b.gravity }

// SetGravity changes the per-body gravity, e.g. when entering a gravity zone.
func (b *RigidBody) SetGravity(g mgl32.Vec3) { b.gravity = g }

func (b *RigidBody) Orientation() Orientation { return b.orientation }

func (b *RigidBody) SetOrientation(o Orientation) {
	if o == nil {
		o = Fixed{}
	}
	b.orientation = o
}

func (b *RigidBody) BoundingBox() AABB { return b.box }

func (b *RigidBody) IsInLiquid() bool { return b.inLiquid }

// LiquidKind is the liquid the body was submerged in on its last step.
func (b *RigidBody) LiquidKind() LiquidKind { return b.liquid }

// GravitySuppressed reports whether the next step skips gravity because the
// body is resting on top of a surface.
func (b *RigidBody) GravitySuppressed() bool { return b.suppressGravity }

func (b *RigidBody) IsDead() bool { return b.dead }

// OnDestroy registers fn to be called when the body leaves the world.
func (b *RigidBody) OnDestroy(fn func(*RigidBody)) {
	b.destroyHandlers = append(b.destroyHandlers, fn)
}

func (b *RigidBody) die() {
	if b.dead {
		return
	}
	b.dead = true
	for _, fn := range b.destroyHandlers {
		fn(b)
	}
}

// Face turns the body about +Y towards target, keeping its position.
func (b *RigidBody) Face(target mgl32.Vec3) {
	diff := target.Sub(b.Position())
	t := b.local
	t.Rotation = yawRotation(diff.X(), diff.Z())
	b.setTransform(t)
}
