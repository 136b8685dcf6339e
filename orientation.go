package voxbody

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Velocity-driven orientations only turn the body above this speed.
const orientMinSpeed = 0.4

type OrientMode int

const (
	OrientPhysics OrientMode = iota
	OrientFixed
	OrientFaceVelocity
	OrientYawOnly
)

func (m OrientMode) String() string {
	switch m {
	case OrientPhysics:
		return "physics"
	case OrientFixed:
		return "fixed"
	case OrientFaceVelocity:
		return "face-velocity"
	case OrientYawOnly:
		return "yaw-only"
	}
	return fmt.Sprintf("OrientMode(%d)", int(m))
}

// ParseOrientMode accepts the names produced by OrientMode.String.
func ParseOrientMode(s string) (OrientMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "physics":
		return OrientPhysics, nil
	case "", "fixed":
		return OrientFixed, nil
	case "face-velocity", "lookat":
		return OrientFaceVelocity, nil
	case "yaw-only", "rotatey":
		return OrientYawOnly, nil
	}
	return OrientFixed, fmt.Errorf("%w: %q", ErrUnknownOrientMode, s)
}

// Orientation decides how a body's rotation follows its motion. Implementations
// only ever change the rotation, never the position.
type Orientation interface {
	Mode() OrientMode
	Orient(local Transform, velocity, angularVelocity mgl32.Vec3, dt float32) Transform
}

// NewOrientation returns the strategy for mode.
func NewOrientation(mode OrientMode) Orientation {
	switch mode {
	case OrientPhysics:
		return PhysicsDriven{}
	case OrientFaceVelocity:
		return FaceVelocity{}
	case OrientYawOnly:
		return YawOnly{}
	}
	return Fixed{}
}

// PhysicsDriven integrates the angular velocity, rotating about X, then Y, then Z.
type PhysicsDriven struct{}

func (PhysicsDriven) Mode() OrientMode { return OrientPhysics }

func (PhysicsDriven) Orient(local Transform, _, angularVelocity mgl32.Vec3, dt float32) Transform {
	dx := mgl32.QuatRotate(angularVelocity.X()*dt, mgl32.Vec3{1, 0, 0})
	dy := mgl32.QuatRotate(angularVelocity.Y()*dt, mgl32.Vec3{0, 1, 0})
	dz := mgl32.QuatRotate(angularVelocity.Z()*dt, mgl32.Vec3{0, 0, 1})

	// Increments are applied in body space before the existing rotation.
	local.Rotation = local.Rotation.Mul(dz.Mul(dy).Mul(dx)).Normalize()
	return local
}

type Fixed struct{}

func (Fixed) Mode() OrientMode { return OrientFixed }

func (Fixed) Orient(local Transform, _, _ mgl32.Vec3, _ float32) Transform {
	return local
}

// FaceVelocity points the body's -Z axis along its velocity, using world down as up.
type FaceVelocity struct{}

func (FaceVelocity) Mode() OrientMode { return OrientFaceVelocity }

func (FaceVelocity) Orient(local Transform, velocity, _ mgl32.Vec3, _ float32) Transform {
	if velocity.Len() <= orientMinSpeed {
		return local
	}
	if rot, ok := lookRotation(velocity, mgl32.Vec3{0, -1, 0}); ok {
		local.Rotation = rot
	}
	return local
}

// YawOnly turns the body about +Y to face the horizontal direction of travel.
type YawOnly struct{}

func (YawOnly) Mode() OrientMode { return OrientYawOnly }

func (YawOnly) Orient(local Transform, velocity, _ mgl32.Vec3, _ float32) Transform {
	if velocity.Len() <= orientMinSpeed {
		return local
	}
	local.Rotation = yawRotation(velocity.X(), velocity.Z())
	return local
}

func yawRotation(x, z float32) mgl32.Quat {
	yaw := float32(math.Atan2(float64(x), float64(-z)))
	return mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
}

// lookRotation builds the rotation whose -Z axis is forward. It fails when
// forward is parallel to up.
func lookRotation(forward, up mgl32.Vec3) (mgl32.Quat, bool) {
	back := forward.Mul(-1).Normalize()
	right := up.Cross(back)
	if right.LenSqr() < 1e-8 {
		return mgl32.QuatIdent(), false
	}
	right = right.Normalize()
	trueUp := back.Cross(right)

	m := mgl32.Mat3FromCols(right, trueUp, back)
	return mgl32.Mat4ToQuat(m.Mat4()).Normalize(), true
}
