package voxbody

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a rigid body-relative transform: a position and a unit rotation.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func NewTransform(position mgl32.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: mgl32.QuatIdent(),
	}
}

// Mat4 returns M = T * R.
func (t Transform) Mat4() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	return translate.Mul4(t.Rotation.Mat4())
}

// Translate returns a copy moved by d.
func (t Transform) Translate(d mgl32.Vec3) Transform {
	t.Position = t.Position.Add(d)
	return t
}

// Parent is the read-only view of an owning hierarchy node. Bodies never mutate it.
type Parent interface {
	GlobalTransform() mgl32.Mat4
}

// compose returns the global matrix of local under parent (identity when parent is nil).
func compose(parent Parent, local Transform) mgl32.Mat4 {
	if parent == nil {
		return local.Mat4()
	}
	return parent.GlobalTransform().Mul4(local.Mat4())
}

// StaticParent is a fixed parent frame, handy for bodies mounted on a non-simulated object.
type StaticParent struct {
	Transform Transform
}

func (p StaticParent) GlobalTransform() mgl32.Mat4 {
	return p.Transform.Mat4()
}
