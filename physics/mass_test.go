package physics_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/physics"
	"github.com/plus3/cubedrop/transform"
	"github.com/stretchr/testify/assert"
)

func assertMat3Diag(t *testing.T, want mgl32.Vec3, m mgl32.Mat3) {
	t.Helper()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			expected := float32(0)
			if row == col {
				expected = want[row]
			}
			assert.InDelta(t, expected, m.At(row, col), 1e-3, "element (%d,%d)", row, col)
		}
	}
}

func TestColliderConstructorsRejectNonPositiveExtents(t *testing.T) {
	assert.Panics(t, func() { physics.Cuboid(0, 1, 1) })
	assert.Panics(t, func() { physics.Cuboid(1, -1, 1) })
	assert.Panics(t, func() { physics.Cylinder(0, 1) })
	assert.Panics(t, func() { physics.Cylinder(1, 0) })
	assert.NotPanics(t, func() { physics.Cylinder(4, 0.1) })
}

func TestColliderVolumeAndInertia(t *testing.T) {
	box := physics.Cuboid(2, 2, 2)
	assert.InDelta(t, 8, box.Volume(), 1e-5)
	assertVecDelta(t, mgl32.Vec3{16.0 / 3, 16.0 / 3, 16.0 / 3}, box.PrincipalInertia(8), 1e-4)

	floor := physics.Cylinder(4, 0.1)
	assert.InDelta(t, math32.Pi*16*0.1, floor.Volume(), 1e-4)
	inertia := floor.PrincipalInertia(2)
	assert.InDelta(t, 16, inertia.Y(), 1e-4)
	assert.InDelta(t, 2*(3*16+0.01)/12, inertia.X(), 1e-4)
	assert.Equal(t, inertia.X(), inertia.Z())
}

func TestComputeMassPropertiesCompoundBody(t *testing.T) {
	props := physics.ComputeMassProperties([]physics.MassPart{
		{Collider: physics.Cuboid(1, 1, 1), Local: transform.Identity()},
		{Collider: physics.Cuboid(2, 2, 2), Local: transform.FromXYZ(1.5, 0, 0)},
		{Collider: physics.Cuboid(2, 2, 2), Local: transform.FromXYZ(-1.5, 0, 0)},
	})

	assert.InDelta(t, 17, props.Mass, 1e-4)
	assert.InDelta(t, 1.0/17, props.InvMass, 1e-6)
	assertVecDelta(t, mgl32.Vec3{}, props.CenterOfMass, 1e-6)

	// Each child adds 8 * 1.5^2 about Y and Z through the parallel axis theorem.
	ixx := float32(1.0/6 + 2*16.0/3)
	iyy := float32(1.0/6 + 2*(16.0/3+18))
	assertMat3Diag(t, mgl32.Vec3{ixx, iyy, iyy}, props.Inertia)
	assertMat3Diag(t, mgl32.Vec3{1 / ixx, 1 / iyy, 1 / iyy}, props.InvInertia)
}

func TestComputeMassPropertiesOffCenter(t *testing.T) {
	props := physics.ComputeMassProperties([]physics.MassPart{
		{Collider: physics.Cuboid(1, 1, 1), Local: transform.Identity()},
		{Collider: physics.Cuboid(1, 1, 1), Local: transform.FromXYZ(0, 2, 0), Density: 3},
	})
	assert.InDelta(t, 4, props.Mass, 1e-5)
	assertVecDelta(t, mgl32.Vec3{0, 1.5, 0}, props.CenterOfMass, 1e-5)
}

func TestComputeMassPropertiesRotatedPart(t *testing.T) {
	rotated := transform.Identity()
	rotated.Rotation = mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 0, 1})

	a := physics.ComputeMassProperties([]physics.MassPart{
		{Collider: physics.Cuboid(2, 1, 1), Local: rotated},
	})
	b := physics.ComputeMassProperties([]physics.MassPart{
		{Collider: physics.Cuboid(1, 2, 1), Local: transform.Identity()},
	})

	want := physics.Cuboid(1, 2, 1).PrincipalInertia(b.Mass)
	assertMat3Diag(t, want, a.Inertia)
	assertMat3Diag(t, want, b.Inertia)
}

func TestComputeMassPropertiesEmpty(t *testing.T) {
	assert.Zero(t, physics.ComputeMassProperties(nil).Mass)
}
