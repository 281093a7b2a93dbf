// Package physics simulates rigid bodies with compound box and cylinder
// colliders resting on and bouncing off each other under gravity.
package physics

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/transform"
)

// BodyKind selects how a RigidBody responds to the simulation.
type BodyKind int

const (
	// Static bodies never move and have infinite mass.
	Static BodyKind = iota
	// Dynamic bodies are moved by gravity, velocity and contacts.
	Dynamic
	// Kinematic bodies move by their velocity only and push dynamic bodies
	// without being pushed back.
	Kinematic
)

func (k BodyKind) String() string {
	switch k {
	case Static:
		return "Static"
	case Dynamic:
		return "Dynamic"
	case Kinematic:
		return "Kinematic"
	}
	return fmt.Sprintf("BodyKind(%d)", int(k))
}

// RigidBody marks a root entity as simulated. Colliders on the entity and on
// its direct children make up the body's shape.
type RigidBody struct {
	Kind BodyKind
}

// ShapeKind is the geometry of a Collider.
type ShapeKind int

const (
	ShapeCuboid ShapeKind = iota
	ShapeCylinder
)

// Collider is a solid shape centered on its entity's origin. Cylinders are
// aligned with the local Y axis.
type Collider struct {
	Shape ShapeKind
	// HalfExtents of a cuboid.
	HalfExtents mgl32.Vec3
	// Radius and HalfHeight of a cylinder.
	Radius     float32
	HalfHeight float32
}

// Cuboid builds a box collider from its full side lengths. Non-positive
// lengths panic.
func Cuboid(x, y, z float32) Collider {
	if x <= 0 || y <= 0 || z <= 0 {
		panic(fmt.Sprintf("physics: cuboid extents must be positive, got (%g, %g, %g)", x, y, z))
	}
	return Collider{Shape: ShapeCuboid, HalfExtents: mgl32.Vec3{x / 2, y / 2, z / 2}}
}

// Cylinder builds a Y-aligned cylinder collider from its radius and full
// height. Non-positive values panic.
func Cylinder(radius, height float32) Collider {
	if radius <= 0 || height <= 0 {
		panic(fmt.Sprintf("physics: cylinder radius and height must be positive, got (%g, %g)", radius, height))
	}
	return Collider{Shape: ShapeCylinder, Radius: radius, HalfHeight: height / 2}
}

// Volume of the shape.
func (c Collider) Volume() float32 {
	switch c.Shape {
	case ShapeCylinder:
		return math32.Pi * c.Radius * c.Radius * 2 * c.HalfHeight
	default:
		return 8 * c.HalfExtents.X() * c.HalfExtents.Y() * c.HalfExtents.Z()
	}
}

// PrincipalInertia returns the diagonal of the inertia tensor about the
// shape's center for the given mass.
func (c Collider) PrincipalInertia(mass float32) mgl32.Vec3 {
	switch c.Shape {
	case ShapeCylinder:
		r2 := c.Radius * c.Radius
		h := 2 * c.HalfHeight
		side := mass * (3*r2 + h*h) / 12
		return mgl32.Vec3{side, mass * r2 / 2, side}
	default:
		x, y, z := 2*c.HalfExtents.X(), 2*c.HalfExtents.Y(), 2*c.HalfExtents.Z()
		return mgl32.Vec3{
			mass * (y*y + z*z) / 12,
			mass * (x*x + z*z) / 12,
			mass * (x*x + y*y) / 12,
		}
	}
}

// BoundingRadius is the radius of a sphere around the shape's center that
// contains the whole shape.
func (c Collider) BoundingRadius() float32 {
	switch c.Shape {
	case ShapeCylinder:
		return math32.Sqrt(c.Radius*c.Radius + c.HalfHeight*c.HalfHeight)
	default:
		return c.HalfExtents.Len()
	}
}

// Density overrides the default density of 1 for a collider.
type Density float32

// Material sets the contact response of a body.
type Material struct {
	Friction    float32
	Restitution float32
}

// LinearVelocity of a body's center of mass in world units per second.
type LinearVelocity struct {
	mgl32.Vec3
}

// AngularVelocity of a body in radians per second around world axes.
type AngularVelocity struct {
	mgl32.Vec3
}

// MassProperties are derived from a body's colliders by MassSystem.
type MassProperties struct {
	Mass    float32
	InvMass float32
	// CenterOfMass in the body's local space.
	CenterOfMass mgl32.Vec3
	// Inertia about the center of mass, in body-local axes.
	Inertia    mgl32.Mat3
	InvInertia mgl32.Mat3
}

// Activity tracks sleeping. A body sleeps after its velocities stay below
// the sleep thresholds for Settings.TimeToSleep and wakes when something
// moves it.
type Activity struct {
	Sleeping bool
	IdleTime float32
	// LastPose is the pose physics last wrote; any other value means the
	// body was moved from outside.
	LastPose transform.Transform
	tracked  bool
}

// Wake clears the sleeping state.
func (a *Activity) Wake() {
	a.Sleeping = false
	a.IdleTime = 0
}
