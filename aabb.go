package voxbody

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned box described by its minimum and maximum corners.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromCenter builds a box of the given full size around center.
func NewAABBFromCenter(center, size mgl32.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

// Intersects is the inclusive broadphase test; touching faces count as intersecting.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// Disjoint reports whether the boxes share no point at all.
func (a AABB) Disjoint(b AABB) bool {
	return !a.Intersects(b)
}

// ContainsPoint reports whether p lies strictly inside the box.
func (a AABB) ContainsPoint(p mgl32.Vec3) bool {
	return p.X() > a.Min.X() && p.X() < a.Max.X() &&
		p.Y() > a.Min.Y() && p.Y() < a.Max.Y() &&
		p.Z() > a.Min.Z() && p.Z() < a.Max.Z()
}

func (a AABB) Translate(d mgl32.Vec3) AABB {
	return AABB{Min: a.Min.Add(d), Max: a.Max.Add(d)}
}

// Expand grows the box by margin on every side.
func (a AABB) Expand(margin float32) AABB {
	m := mgl32.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}
