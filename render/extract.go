package render

import (
	"image/color"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/transform"
)

// Draw layers, drawn in increasing order.
const (
	LayerReceiver = iota
	LayerShadow
	LayerOpaque
)

// shadowLift keeps shadow triangles just above the surface they land on.
const shadowLift = 0.002

// DrawTriangle is a flat-shaded triangle in screen pixels.
type DrawTriangle struct {
	Points [3]mgl32.Vec2
	Color  color.RGBA
	// Depth is the mean view-space distance of the vertices.
	Depth float32
	Layer int
}

// DrawList is the extracted frame, stored as a singleton.
type DrawList struct {
	Clear     color.RGBA
	Triangles []DrawTriangle
	// Culled counts back faces and triangles behind the near plane.
	Culled    int
	HasCamera bool
}

type cameraNode struct {
	*Camera3D
	*transform.GlobalTransform
}

type lightNode struct {
	*PointLight
	*transform.GlobalTransform
}

type meshNode struct {
	ecs.EntityId
	*Mesh
	*Material
	*transform.GlobalTransform
	Receiver *ShadowReceiver `ecs:"optional"`
}

// projector maps world points to screen pixels for one camera.
type projector struct {
	viewProj mgl32.Mat4
	width    float32
	height   float32
	near     float32
}

func newProjector(camera Camera3D, global transform.GlobalTransform, viewport Viewport) projector {
	width, height := float32(max(viewport.Width, 1)), float32(max(viewport.Height, 1))
	proj := mgl32.Perspective(camera.FovY, width/height, camera.Near, camera.Far)
	return projector{
		viewProj: proj.Mul4(global.Matrix.Inv()),
		width:    width,
		height:   height,
		near:     camera.Near,
	}
}

// Project returns the screen position and view distance of p. ok is false
// when p is closer than the near plane.
func (p projector) Project(point mgl32.Vec3) (screen mgl32.Vec2, depth float32, ok bool) {
	clip := p.viewProj.Mul4x1(point.Vec4(1))
	if clip.W() < p.near {
		return screen, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	return mgl32.Vec2{
		(ndc.X() + 1) / 2 * p.width,
		(1 - ndc.Y()) / 2 * p.height,
	}, clip.W(), true
}

func (p projector) triangle(world [3]mgl32.Vec3, c color.RGBA, layer int) (DrawTriangle, bool) {
	tri := DrawTriangle{Color: c, Layer: layer}
	for i, v := range world {
		screen, depth, ok := p.Project(v)
		if !ok {
			return tri, false
		}
		tri.Points[i] = screen
		tri.Depth += depth / 3
	}
	return tri, true
}

// ExtractSystem rebuilds the DrawList singleton from the current scene.
type ExtractSystem struct {
	Cameras ecs.Query[cameraNode]
	Lights  ecs.Query[lightNode]
	Meshes  ecs.Query[meshNode]

	List     ecs.Singleton[DrawList]
	Ambient  ecs.Singleton[AmbientLight]
	Viewport ecs.Singleton[Viewport]
}

func (s *ExtractSystem) Execute(frame *ecs.UpdateFrame) {
	list := s.List.Get()
	if list == nil {
		return
	}
	list.Triangles = list.Triangles[:0]
	list.Culled = 0

	_, camera, ok := s.Cameras.Single()
	list.HasCamera = ok
	if !ok {
		return
	}
	list.Clear = camera.Camera3D.ClearColor

	viewport := Viewport{Width: 1280, Height: 720}
	if vp := s.Viewport.Get(); vp != nil && vp.Width > 0 && vp.Height > 0 {
		viewport = *vp
	}
	ambient := AmbientLight{Color: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, Brightness: 0.25}
	if a := s.Ambient.Get(); a != nil {
		ambient = *a
	}

	proj := newProjector(*camera.Camera3D, *camera.GlobalTransform, viewport)
	eye := camera.GlobalTransform.Translation()

	var lights []lightNode
	for light := range s.Lights.Values() {
		lights = append(lights, light)
	}

	var receivers []meshNode
	for mesh := range s.Meshes.Values() {
		if mesh.Receiver != nil {
			receivers = append(receivers, mesh)
		}
	}

	for mesh := range s.Meshes.Values() {
		layer := LayerOpaque
		if mesh.Receiver != nil {
			layer = LayerReceiver
		}

		for _, local := range mesh.Mesh.Triangles() {
			world := worldTriangle(mesh.GlobalTransform, local)
			normal := Triangle(world).Normal()

			if normal.Dot(eye.Sub(world[0])) <= 0 {
				list.Culled++
				continue
			}

			shaded := shade(mesh.Material, world, normal, lights, ambient)
			tri, ok := proj.triangle(world, shaded, layer)
			if !ok {
				list.Culled++
				continue
			}
			list.Triangles = append(list.Triangles, tri)
		}

		if mesh.Receiver == nil {
			for _, light := range lights {
				if !light.PointLight.ShadowsEnabled {
					continue
				}
				for _, receiver := range receivers {
					list.Triangles = s.appendShadows(list.Triangles, proj, mesh, light, receiver, ambient)
				}
			}
		}
	}

	sortTriangles(list.Triangles)
}

func worldTriangle(global *transform.GlobalTransform, local Triangle) [3]mgl32.Vec3 {
	return [3]mgl32.Vec3{
		global.TransformPoint(local[0]),
		global.TransformPoint(local[1]),
		global.TransformPoint(local[2]),
	}
}

// appendShadows projects the light-facing triangles of caster from light onto
// the top plane of receiver. Triangles that fall partly off the receiver are
// dropped.
func (s *ExtractSystem) appendShadows(out []DrawTriangle, proj projector, caster meshNode, light lightNode, receiver meshNode, ambient AmbientLight) []DrawTriangle {
	lightPos := light.GlobalTransform.Translation()
	planePoint := receiver.GlobalTransform.TransformPoint(mgl32.Vec3{0, receiver.Mesh.TopY(), 0})
	planeNormal := receiver.GlobalTransform.TransformDirection(mgl32.Vec3{0, 1, 0}).Normalize()

	lightHeight := planeNormal.Dot(lightPos.Sub(planePoint))
	if lightHeight <= 0 {
		return out
	}

	receiverInv := receiver.GlobalTransform.Matrix.Inv()
	shadowColor := scaleColor(receiver.Material.BaseColor, ambientFactor(ambient))

	for _, local := range caster.Mesh.Triangles() {
		world := worldTriangle(caster.GlobalTransform, local)
		if Triangle(world).Normal().Dot(lightPos.Sub(world[0])) <= 0 {
			continue
		}

		var projected [3]mgl32.Vec3
		onReceiver := true
		for i, v := range world {
			toVertex := v.Sub(lightPos)
			denom := planeNormal.Dot(toVertex)
			if denom >= 0 || planeNormal.Dot(v.Sub(planePoint)) < 0 {
				onReceiver = false
				break
			}
			hit := lightPos.Add(toVertex.Mul(-lightHeight / denom)).Add(planeNormal.Mul(shadowLift))
			if !receiver.Mesh.ContainsXZ(receiverInv.Mul4x1(hit.Vec4(1)).Vec3()) {
				onReceiver = false
				break
			}
			projected[i] = hit
		}
		if !onReceiver {
			continue
		}

		if tri, ok := proj.triangle(projected, shadowColor, LayerShadow); ok {
			out = append(out, tri)
		}
	}
	return out
}

// shade applies Lambert lighting from every point light plus ambient light.
func shade(material *Material, world [3]mgl32.Vec3, normal mgl32.Vec3, lights []lightNode, ambient AmbientLight) color.RGBA {
	if material.Unlit {
		return material.BaseColor
	}

	center := world[0].Add(world[1]).Add(world[2]).Mul(1.0 / 3)
	light := ambientFactor(ambient)

	for _, l := range lights {
		toLight := l.GlobalTransform.Translation().Sub(center)
		distance := toLight.Len()
		if distance == 0 {
			continue
		}
		lambert := normal.Dot(toLight.Mul(1 / distance))
		if lambert <= 0 {
			continue
		}

		falloff := float32(1)
		if l.PointLight.Range > 0 {
			falloff = mgl32.Clamp(1-distance/l.PointLight.Range, 0, 1)
			falloff *= falloff
		}
		strength := lambert * falloff * l.PointLight.Intensity
		light = light.Add(colorVec(l.PointLight.Color).Mul(strength))
	}
	return scaleColor(material.BaseColor, light)
}

func ambientFactor(ambient AmbientLight) mgl32.Vec3 {
	return colorVec(ambient.Color).Mul(ambient.Brightness)
}

func colorVec(c color.RGBA) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func scaleColor(c color.RGBA, factor mgl32.Vec3) color.RGBA {
	channel := func(v uint8, f float32) uint8 {
		return uint8(math32.Round(mgl32.Clamp(float32(v)*f, 0, 255)))
	}
	return color.RGBA{
		R: channel(c.R, factor[0]),
		G: channel(c.G, factor[1]),
		B: channel(c.B, factor[2]),
		A: c.A,
	}
}

// sortTriangles orders triangles for the painter's algorithm: by layer, then
// farthest first.
func sortTriangles(tris []DrawTriangle) {
	sort.SliceStable(tris, func(i, j int) bool {
		if tris[i].Layer != tris[j].Layer {
			return tris[i].Layer < tris[j].Layer
		}
		return tris[i].Depth > tris[j].Depth
	})
}

// Install registers the render components and singletons and the
// ExtractSystem in the Render stage.
func Install(scheduler *ecs.Scheduler) {
	storage := scheduler.Storage()
	registry := storage.Registry()
	ecs.RegisterComponent[Mesh](registry)
	ecs.RegisterComponent[Material](registry)
	ecs.RegisterComponent[PointLight](registry)
	ecs.RegisterComponent[Camera3D](registry)
	ecs.RegisterComponent[ShadowReceiver](registry)

	ecs.NewSingleton[DrawList](storage)
	ecs.NewSingleton(storage, Viewport{Width: 1280, Height: 720})
	ecs.NewSingleton(storage, AmbientLight{Color: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, Brightness: 0.25})

	scheduler.RegisterIn(ecs.Render, &ExtractSystem{})
}
