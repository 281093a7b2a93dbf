// Package render turns meshes, lights and a camera into a flat, depth-sorted
// list of screen-space triangles that any 2D backend can draw.
package render

import (
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshKind is the primitive a Mesh tessellates.
type MeshKind int

const (
	MeshCuboid MeshKind = iota
	MeshCylinder
)

// DefaultCylinderSegments is the number of sides used to approximate a cylinder.
const DefaultCylinderSegments = 24

// Mesh is a primitive centered on its entity's origin.
type Mesh struct {
	Kind MeshKind
	// Size holds the full side lengths of a cuboid.
	Size mgl32.Vec3
	// Radius, Height and Segments describe a Y-aligned cylinder.
	Radius   float32
	Height   float32
	Segments int
}

// Cube is a cuboid mesh with every side of the given length.
func Cube(length float32) Mesh {
	return Box(length, length, length)
}

func Box(x, y, z float32) Mesh {
	if x <= 0 || y <= 0 || z <= 0 {
		panic(fmt.Sprintf("render: box size must be positive, got (%g, %g, %g)", x, y, z))
	}
	return Mesh{Kind: MeshCuboid, Size: mgl32.Vec3{x, y, z}}
}

func Cylinder(radius, height float32) Mesh {
	if radius <= 0 || height <= 0 {
		panic(fmt.Sprintf("render: cylinder radius and height must be positive, got (%g, %g)", radius, height))
	}
	return Mesh{Kind: MeshCylinder, Radius: radius, Height: height, Segments: DefaultCylinderSegments}
}

// Triangle is a mesh face in local space, wound counter-clockwise when seen
// from outside.
type Triangle [3]mgl32.Vec3

// Triangles tessellates the mesh.
func (m Mesh) Triangles() []Triangle {
	switch m.Kind {
	case MeshCylinder:
		return cylinderTriangles(m.Radius, m.Height/2, max(m.Segments, 3))
	default:
		return boxTriangles(m.Size.Mul(0.5))
	}
}

// TopY is the local height of the mesh's upper face.
func (m Mesh) TopY() float32 {
	if m.Kind == MeshCylinder {
		return m.Height / 2
	}
	return m.Size.Y() / 2
}

// ContainsXZ reports whether a local point lies within the mesh's footprint.
func (m Mesh) ContainsXZ(p mgl32.Vec3) bool {
	if m.Kind == MeshCylinder {
		return p.X()*p.X()+p.Z()*p.Z() <= m.Radius*m.Radius
	}
	return math32.Abs(p.X()) <= m.Size.X()/2 && math32.Abs(p.Z()) <= m.Size.Z()/2
}

func boxTriangles(h mgl32.Vec3) []Triangle {
	corner := func(x, y, z float32) mgl32.Vec3 {
		return mgl32.Vec3{x * h.X(), y * h.Y(), z * h.Z()}
	}
	// Each face as four corners counter-clockwise from outside.
	faces := [6][4]mgl32.Vec3{
		{corner(1, -1, -1), corner(1, 1, -1), corner(1, 1, 1), corner(1, -1, 1)},
		{corner(-1, -1, 1), corner(-1, 1, 1), corner(-1, 1, -1), corner(-1, -1, -1)},
		{corner(-1, 1, -1), corner(-1, 1, 1), corner(1, 1, 1), corner(1, 1, -1)},
		{corner(-1, -1, 1), corner(-1, -1, -1), corner(1, -1, -1), corner(1, -1, 1)},
		{corner(-1, -1, 1), corner(1, -1, 1), corner(1, 1, 1), corner(-1, 1, 1)},
		{corner(1, -1, -1), corner(-1, -1, -1), corner(-1, 1, -1), corner(1, 1, -1)},
	}
	tris := make([]Triangle, 0, 12)
	for _, f := range faces {
		tris = append(tris, Triangle{f[0], f[1], f[2]}, Triangle{f[0], f[2], f[3]})
	}
	return tris
}

func cylinderTriangles(radius, halfHeight float32, segments int) []Triangle {
	rim := make([]mgl32.Vec3, segments)
	for i := range rim {
		angle := 2 * math32.Pi * float32(i) / float32(segments)
		rim[i] = mgl32.Vec3{radius * math32.Cos(angle), 0, radius * math32.Sin(angle)}
	}

	top := mgl32.Vec3{0, halfHeight, 0}
	bottom := mgl32.Vec3{0, -halfHeight, 0}
	tris := make([]Triangle, 0, segments*4)
	for i := range rim {
		a, b := rim[i], rim[(i+1)%segments]
		aTop, bTop := a.Add(top), b.Add(top)
		aBottom, bBottom := a.Add(bottom), b.Add(bottom)

		tris = append(tris,
			Triangle{top, bTop, aTop},
			Triangle{bottom, aBottom, bBottom},
			Triangle{aBottom, aTop, bTop},
			Triangle{aBottom, bTop, bBottom},
		)
	}
	return tris
}

// Normal is the outward face normal.
func (t Triangle) Normal() mgl32.Vec3 {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	if n.Dot(n) == 0 {
		return n
	}
	return n.Normalize()
}

// SRGBu8 builds an opaque color from 8-bit sRGB channels.
func SRGBu8(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Material is the surface appearance of a Mesh.
type Material struct {
	BaseColor color.RGBA
	// Unlit surfaces ignore lights and shadows.
	Unlit bool
}

// PointLight shines in all directions from its entity's position.
type PointLight struct {
	Color     color.RGBA
	Intensity float32
	// Range is the distance at which the light fades out completely.
	Range          float32
	ShadowsEnabled bool
}

func DefaultPointLight() PointLight {
	return PointLight{
		Color:     color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Intensity: 1.2,
		Range:     25,
	}
}

// Camera3D projects the scene with a perspective lens looking down its
// entity's -Z axis.
type Camera3D struct {
	// FovY is the vertical field of view in radians.
	FovY       float32
	Near       float32
	Far        float32
	ClearColor color.RGBA
}

func DefaultCamera() Camera3D {
	return Camera3D{
		FovY:       mgl32.DegToRad(45),
		Near:       0.1,
		Far:        1000,
		ClearColor: color.RGBA{R: 0x1c, G: 0x1f, B: 0x26, A: 0xff},
	}
}

// ShadowReceiver marks a mesh whose top face catches planar shadows.
type ShadowReceiver struct{}

// AmbientLight lights every surface evenly. It is a singleton.
type AmbientLight struct {
	Color      color.RGBA
	Brightness float32
}

// Viewport is the size of the render target in pixels. It is a singleton
// kept current by the window backend.
type Viewport struct {
	Width  int
	Height int
}
