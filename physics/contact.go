package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// worldShape is a collider posed in world space for one step.
type worldShape struct {
	collider Collider
	center   mgl32.Vec3
	axes     mgl32.Mat3
	radius   float32
}

// contact pushes body a out of body b along normal. depth is positive for
// penetration and negative for a speculative contact that is still separated.
type contact struct {
	a, b   *simBody
	point  mgl32.Vec3
	normal mgl32.Vec3
	depth  float32

	rA, rB         mgl32.Vec3
	tangents       [2]mgl32.Vec3
	normalMass     float32
	tangentMass    [2]float32
	bias           float32
	friction       float32
	normalImpulse  float32
	tangentImpulse [2]float32
}

// cuboidCorners returns the eight world-space corners of a cuboid shape.
func cuboidCorners(s worldShape) [8]mgl32.Vec3 {
	var corners [8]mgl32.Vec3
	h := s.collider.HalfExtents
	for i := 0; i < 8; i++ {
		local := mgl32.Vec3{h.X(), h.Y(), h.Z()}
		if i&1 != 0 {
			local[0] = -local[0]
		}
		if i&2 != 0 {
			local[1] = -local[1]
		}
		if i&4 != 0 {
			local[2] = -local[2]
		}
		corners[i] = s.center.Add(s.axes.Mul3x1(local))
	}
	return corners
}

// pointContact tests a world point against shape s grown by margin. It returns
// the outward normal of the nearest face and the depth of the point below that
// face, negative when the point is outside s but within margin.
func pointContact(p mgl32.Vec3, s worldShape, margin float32) (normal mgl32.Vec3, depth float32, ok bool) {
	local := s.axes.Transpose().Mul3x1(p.Sub(s.center))

	switch s.collider.Shape {
	case ShapeCylinder:
		radial := math32.Sqrt(local.X()*local.X() + local.Z()*local.Z())
		capDepth := s.collider.HalfHeight - math32.Abs(local.Y())
		sideDepth := s.collider.Radius - radial
		if capDepth < -margin || sideDepth < -margin {
			return normal, 0, false
		}
		if capDepth <= sideDepth || radial < 1e-6 {
			return s.axes.Mul3x1(mgl32.Vec3{0, sign(local.Y()), 0}), capDepth, true
		}
		return s.axes.Mul3x1(mgl32.Vec3{local.X() / radial, 0, local.Z() / radial}), sideDepth, true

	default:
		best := -1
		for axis := 0; axis < 3; axis++ {
			d := s.collider.HalfExtents[axis] - math32.Abs(local[axis])
			if d < -margin {
				return normal, 0, false
			}
			if best < 0 || d < depth {
				best, depth = axis, d
			}
		}
		var n mgl32.Vec3
		n[best] = sign(local[best])
		return s.axes.Mul3x1(n), depth, true
	}
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// collideShapes appends contacts between shape sa of body a and shape sb of
// body b. Cuboid corners are tested against the other shape; two cylinders
// never produce contacts.
func collideShapes(out []contact, a *simBody, sa worldShape, b *simBody, sb worldShape, margin float32) []contact {
	gap := sa.center.Sub(sb.center).Len() - sa.radius - sb.radius
	if gap > margin {
		return out
	}

	if sa.collider.Shape == ShapeCuboid {
		for _, corner := range cuboidCorners(sa) {
			if n, depth, ok := pointContact(corner, sb, margin); ok {
				out = append(out, contact{a: a, b: b, point: corner, normal: n, depth: depth})
			}
		}
	}
	if sb.collider.Shape == ShapeCuboid {
		for _, corner := range cuboidCorners(sb) {
			if n, depth, ok := pointContact(corner, sa, margin); ok {
				out = append(out, contact{a: b, b: a, point: corner, normal: n, depth: depth})
			}
		}
	}
	return out
}
