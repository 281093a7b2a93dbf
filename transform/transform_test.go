package transform_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/transform"
	"github.com/stretchr/testify/assert"
)

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestFromXYZ(t *testing.T) {
	tr := transform.FromXYZ(0, 4, 0)
	assert.Equal(t, mgl32.Vec3{0, 4, 0}, tr.Translation)
	assert.Equal(t, mgl32.QuatIdent(), tr.Rotation)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, tr.Scale)
}

func TestLookingAtPointsForwardAtTarget(t *testing.T) {
	eye := mgl32.Vec3{-0.5, 4.5, 9}
	tr := transform.FromTranslation(eye).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	assertVec(t, mgl32.Vec3{}.Sub(eye).Normalize(), tr.Forward())
	assert.Greater(t, tr.Up().Y(), float32(0))
	assert.InDelta(t, 0, tr.Up().Dot(tr.Forward()), 1e-5)
}

func TestLookingAtStraightDown(t *testing.T) {
	tr := transform.FromXYZ(0, 10, 0).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assertVec(t, mgl32.Vec3{0, -1, 0}, tr.Forward())
}

func TestMatrixMatchesTransformPoint(t *testing.T) {
	tr := transform.Transform{
		Translation: mgl32.Vec3{1, 2, 3},
		Rotation:    mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0}),
		Scale:       mgl32.Vec3{2, 2, 2},
	}
	p := mgl32.Vec3{1, 0, 0}

	// +X rotated a quarter turn about Y lands on -Z.
	assertVec(t, mgl32.Vec3{1, 2, 1}, tr.TransformPoint(p))
	assertVec(t, tr.TransformPoint(p), tr.Matrix().Mul4x1(p.Vec4(1)).Vec3())
}

func TestMulComposes(t *testing.T) {
	parent := transform.Transform{
		Translation: mgl32.Vec3{0, 4, 0},
		Rotation:    mgl32.QuatRotate(math32.Pi, mgl32.Vec3{0, 0, 1}),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
	child := transform.FromXYZ(1.5, 0, 0)

	world := parent.Mul(child)
	assertVec(t, mgl32.Vec3{-1.5, 4, 0}, world.Translation)
	assertVec(t, world.Translation, parent.Matrix().Mul4(child.Matrix()).Col(3).Vec3())
}

func TestApproxEqualTreatsNegatedQuatAsEqual(t *testing.T) {
	a := transform.FromXYZ(1, 2, 3)
	b := a
	b.Rotation = mgl32.Quat{W: -1}
	assert.True(t, a.ApproxEqual(b, 1e-5))

	b.Translation = mgl32.Vec3{1, 2, 3.1}
	assert.False(t, a.ApproxEqual(b, 1e-5))
}

func TestGlobalTransform(t *testing.T) {
	g := transform.GlobalTransform{Matrix: transform.FromXYZ(0, 4, 0).Matrix()}
	assertVec(t, mgl32.Vec3{0, 4, 0}, g.Translation())
	assertVec(t, mgl32.Vec3{1, 4, 0}, g.TransformPoint(mgl32.Vec3{1, 0, 0}))
	assertVec(t, mgl32.Vec3{1, 0, 0}, g.TransformDirection(mgl32.Vec3{1, 0, 0}))
}
