package render_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/render"
	"github.com/stretchr/testify/assert"
)

func assertOutward(t *testing.T, tris []render.Triangle) {
	t.Helper()
	for i, tri := range tris {
		center := tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3)
		assert.Positive(t, tri.Normal().Dot(center), "triangle %d faces inward", i)
	}
}

func TestCubeTriangles(t *testing.T) {
	tris := render.Cube(2).Triangles()
	assert.Len(t, tris, 12)
	assertOutward(t, tris)
	for _, tri := range tris {
		for _, v := range tri {
			assert.Equal(t, float32(1), max(abs(v.X()), abs(v.Y()), abs(v.Z())))
		}
	}
}

func TestCylinderTriangles(t *testing.T) {
	mesh := render.Cylinder(4, 0.1)
	tris := mesh.Triangles()
	assert.Len(t, tris, render.DefaultCylinderSegments*4)
	assertOutward(t, tris)
	assert.InDelta(t, 0.05, mesh.TopY(), 1e-7)
}

func TestMeshFootprint(t *testing.T) {
	floor := render.Cylinder(4, 0.1)
	assert.True(t, floor.ContainsXZ(mgl32.Vec3{2.5, 0, 1}))
	assert.False(t, floor.ContainsXZ(mgl32.Vec3{3, 0, 3}))

	box := render.Box(2, 1, 4)
	assert.True(t, box.ContainsXZ(mgl32.Vec3{0.9, 5, -1.9}))
	assert.False(t, box.ContainsXZ(mgl32.Vec3{1.1, 0, 0}))
}

func TestMeshConstructorsRejectNonPositiveSizes(t *testing.T) {
	assert.Panics(t, func() { render.Cube(0) })
	assert.Panics(t, func() { render.Cylinder(-1, 1) })
}

func TestSRGBu8(t *testing.T) {
	c := render.SRGBu8(124, 144, 255)
	assert.Equal(t, uint8(124), c.R)
	assert.Equal(t, uint8(144), c.G)
	assert.Equal(t, uint8(255), c.B)
	assert.Equal(t, uint8(255), c.A)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
