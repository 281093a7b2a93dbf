// Package transform holds entity poses and the parent/child hierarchy that
// turns local poses into world matrices.
package transform

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is an entity's pose relative to its parent, or to the world for
// root entities.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Identity is the transform that leaves points where they are.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// FromXYZ places an entity at (x, y, z) with no rotation and unit scale.
func FromXYZ(x, y, z float32) Transform {
	return FromTranslation(mgl32.Vec3{x, y, z})
}

func FromTranslation(v mgl32.Vec3) Transform {
	t := Identity()
	t.Translation = v
	return t
}

// LookingAt rotates t so that Forward points at target. up is the preferred
// up direction; when it is parallel to the view direction another axis is used.
func (t Transform) LookingAt(target, up mgl32.Vec3) Transform {
	back := t.Translation.Sub(target)
	if back.Dot(back) < 1e-12 {
		return t
	}
	back = back.Normalize()

	right := up.Cross(back)
	if right.Dot(right) < 1e-12 {
		right = mgl32.Vec3{1, 0, 0}.Cross(back)
		if right.Dot(right) < 1e-12 {
			right = mgl32.Vec3{0, 0, 1}.Cross(back)
		}
	}
	right = right.Normalize()
	trueUp := back.Cross(right)

	basis := mgl32.Mat3FromCols(right, trueUp, back)
	t.Rotation = mgl32.Mat4ToQuat(basis.Mat4()).Normalize()
	return t
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Forward is the local -Z axis in parent space.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Up is the local +Y axis in parent space.
func (t Transform) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

// TransformPoint maps a point from t's local space into its parent space.
func (t Transform) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return t.Translation.Add(t.Rotation.Rotate(mulElem(t.Scale, p)))
}

// Mul composes t with a child transform expressed in t's local space.
// Non-uniform parent scale combined with a rotated child cannot be
// represented exactly; use Matrix for those cases.
func (t Transform) Mul(child Transform) Transform {
	return Transform{
		Translation: t.TransformPoint(child.Translation),
		Rotation:    t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:       mulElem(t.Scale, child.Scale),
	}
}

// ApproxEqual compares two transforms with tolerance eps per component.
// q and -q describe the same rotation and compare equal.
func (t Transform) ApproxEqual(o Transform, eps float32) bool {
	if !t.Translation.ApproxEqualThreshold(o.Translation, eps) ||
		!t.Scale.ApproxEqualThreshold(o.Scale, eps) {
		return false
	}
	dot := t.Rotation.Dot(o.Rotation)
	return math32.Abs(dot) >= 1-eps
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// GlobalTransform is the world matrix of an entity. It is written by
// PropagateSystem and read by rendering and physics.
type GlobalTransform struct {
	Matrix mgl32.Mat4
}

// Translation is the world position of the entity origin.
func (g GlobalTransform) Translation() mgl32.Vec3 {
	return g.Matrix.Col(3).Vec3()
}

// TransformPoint maps a local point to world space.
func (g GlobalTransform) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return g.Matrix.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection maps a local direction to world space, ignoring translation.
func (g GlobalTransform) TransformDirection(d mgl32.Vec3) mgl32.Vec3 {
	return g.Matrix.Mul4x1(d.Vec4(0)).Vec3()
}
