package voxbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Penetration depths are inflated by this factor so that a correction along the
// MTV leaves no residual overlap after float rounding.
const penetrationSlop = 1.001

// Contact is the result of a single overlap test between two boxes.
type Contact struct {
	Intersecting bool
	// Normal is the unit direction the first box must move to leave the second.
	Normal      mgl32.Vec3
	Penetration float32
}

var principalAxes = [3]mgl32.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// TestOverlap runs the separating axis test for two axis-aligned boxes and
// returns the minimum translation that pushes a out of b.
func TestOverlap(a, b AABB) Contact {
	mtvDistance := float32(math.MaxFloat32)
	var mtvAxis mgl32.Vec3

	for i, axis := range principalAxes {
		if !testAxis(axis, a.Min[i], a.Max[i], b.Min[i], b.Max[i], &mtvAxis, &mtvDistance) {
			return Contact{}
		}
	}

	return Contact{
		Intersecting: true,
		Normal:       mtvAxis.Normalize(),
		Penetration:  float32(math.Sqrt(float64(mtvDistance))) * penetrationSlop,
	}
}

// testAxis returns false when the intervals are separated on axis. Otherwise it
// keeps the shortest directed separation seen so far in mtvAxis/mtvDistance.
func testAxis(axis mgl32.Vec3, minA, maxA, minB, maxB float32, mtvAxis *mgl32.Vec3, mtvDistance *float32) bool {
	axisLenSqr := axis.Dot(axis)
	if axisLenSqr < 1.0e-8 {
		return true
	}

	d0 := maxB - minA // push a towards +axis
	d1 := maxA - minB // push a towards -axis
	if d0 <= 0 || d1 <= 0 {
		return false
	}

	overlap := -d1
	if d0 < d1 {
		overlap = d0
	}

	sep := axis.Mul(overlap / axisLenSqr)
	sepLenSqr := sep.Dot(sep)
	if sepLenSqr < *mtvDistance {
		*mtvDistance = sepLenSqr
		*mtvAxis = sep
	}
	return true
}
