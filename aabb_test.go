package voxbody

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestAABB_FromCenter(t *testing.T) {
	box := NewAABBFromCenter(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 4, 6})
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, box.Min)
	assert.Equal(t, mgl32.Vec3{2, 4, 6}, box.Max)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, box.Center())
	assert.Equal(t, mgl32.Vec3{2, 4, 6}, box.Size())
}

func TestAABB_IntersectsIsInclusive(t *testing.T) {
	a := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	touching := NewAABB(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 1, 1})
	apart := NewAABB(mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{2, 1, 1})

	assert.True(t, a.Intersects(touching))
	assert.False(t, a.Disjoint(touching))
	assert.False(t, a.Intersects(apart))
	assert.True(t, a.Disjoint(apart))
}

func TestAABB_ContainsPointIsStrict(t *testing.T) {
	a := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	assert.True(t, a.ContainsPoint(mgl32.Vec3{0.5, 0.5, 0.5}))
	assert.False(t, a.ContainsPoint(mgl32.Vec3{0, 0.5, 0.5}))
	assert.False(t, a.ContainsPoint(mgl32.Vec3{0.5, 1, 0.5}))
	assert.False(t, a.ContainsPoint(mgl32.Vec3{2, 0.5, 0.5}))
}

func TestAABB_TranslateAndExpand(t *testing.T) {
	a := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})

	moved := a.Translate(mgl32.Vec3{1, -1, 2})
	assert.Equal(t, mgl32.Vec3{1, -1, 2}, moved.Min)
	assert.Equal(t, mgl32.Vec3{2, 0, 3}, moved.Max)

	grown := a.Expand(0.5)
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, grown.Min)
	assert.Equal(t, mgl32.Vec3{1.5, 1.5, 1.5}, grown.Max)
}
