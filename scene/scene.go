// Package scene builds the cube drop demonstration: a thin floor, a compound
// body of three cuboids dropped onto it, a shadow casting light and a camera.
package scene

import (
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/input"
	"github.com/plus3/cubedrop/physics"
	"github.com/plus3/cubedrop/render"
	"github.com/plus3/cubedrop/transform"
)

// ParentCube tags the body that the reset key puts back at its start pose.
type ParentCube struct{}

// StartPose is where the parent cube spawns and where resets return it.
func StartPose() transform.Transform {
	return transform.FromXYZ(0, 4, 0)
}

var (
	floorColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	cubeColor  = render.SRGBu8(124, 144, 255)
	rightColor = render.SRGBu8(255, 124, 144)
	leftColor  = render.SRGBu8(144, 255, 124)
)

// Setup spawns the scene entities once at startup.
type Setup struct {
	InitialSpin mgl32.Vec3
	Log         *log.Logger
}

func (s *Setup) Execute(frame *ecs.UpdateFrame) {
	cmds := frame.Commands

	cmds.Spawn(
		app.Name{Value: "Floor"},
		physics.RigidBody{Kind: physics.Static},
		physics.Cylinder(4.0, 0.1),
		render.Cylinder(4.0, 0.1),
		render.Material{BaseColor: floorColor},
		render.ShadowReceiver{},
		transform.Identity(),
	)

	parent := []any{
		app.Name{Value: "Parent cube"},
		physics.RigidBody{Kind: physics.Dynamic},
		physics.Cuboid(1, 1, 1),
		render.Cube(1),
		render.Material{BaseColor: cubeColor},
		StartPose(),
		ParentCube{},
	}
	if s.InitialSpin != (mgl32.Vec3{}) {
		parent = append(parent, physics.AngularVelocity{Vec3: s.InitialSpin})
	}
	transform.WithChildren(cmds, func(ref *ecs.EntityRef) {
		if s.Log != nil {
			s.Log.Printf("spawned parent cube %s", ref.Id)
		}
	},
		parent,
		childCube("Right cube", rightColor, 1.5),
		childCube("Left cube", leftColor, -1.5),
	)

	light := render.DefaultPointLight()
	light.ShadowsEnabled = true
	cmds.Spawn(
		app.Name{Value: "Light"},
		light,
		transform.FromXYZ(4, 8, 4),
	)

	cmds.Spawn(
		app.Name{Value: "Camera"},
		render.DefaultCamera(),
		transform.FromXYZ(-0.5, 4.5, 9.0).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
	)
}

func childCube(name string, c color.RGBA, x float32) []any {
	return []any{
		app.Name{Value: name},
		physics.Cuboid(2, 2, 2),
		render.Cube(2),
		render.Material{BaseColor: c},
		transform.FromXYZ(x, 0, 0),
	}
}

type resetTarget struct {
	*ParentCube
	*transform.Transform
	Linear  *physics.LinearVelocity  `ecs:"optional"`
	Angular *physics.AngularVelocity `ecs:"optional"`
}

// ResetRequest is a singleton that asks for one reset on the next Update, for
// callers that are not the keyboard.
type ResetRequest struct {
	Pending bool
}

// ResetParentCubeOnR returns every ParentCube to StartPose on the frame Key
// is first pressed, clearing any velocity it carries.
type ResetParentCubeOnR struct {
	Key     input.KeyCode
	Log     *log.Logger
	Keys    ecs.Singleton[input.ButtonInput]
	Request ecs.Singleton[ResetRequest]

	Cubes ecs.Query[resetTarget]
}

func (s *ResetParentCubeOnR) Execute(frame *ecs.UpdateFrame) {
	key := s.Key
	if key == input.KeyUnknown {
		key = input.KeyR
	}
	pressed := false
	if keys := s.Keys.Get(); keys != nil {
		pressed = keys.JustPressed(key)
	}
	if request := s.Request.Get(); request != nil && request.Pending {
		request.Pending = false
		pressed = true
	}
	if !pressed {
		return
	}

	for id, cube := range s.Cubes.Iter() {
		*cube.Transform = StartPose()
		if cube.Linear != nil {
			cube.Linear.Vec3 = mgl32.Vec3{}
		}
		if cube.Angular != nil {
			cube.Angular.Vec3 = mgl32.Vec3{}
		}
		if s.Log != nil {
			s.Log.Printf("reset %s", id)
		}
	}
}

// PoseLogger prints the parent cube's pose every Every frames.
type PoseLogger struct {
	Every int
	Log   *log.Logger

	Cubes ecs.Query[struct {
		*ParentCube
		*transform.Transform
		Linear *physics.LinearVelocity `ecs:"optional"`
	}]

	frames int
}

func (s *PoseLogger) Execute(frame *ecs.UpdateFrame) {
	s.frames++
	if s.Every <= 0 || s.Log == nil || s.frames%s.Every != 0 {
		return
	}
	for id, cube := range s.Cubes.Iter() {
		speed := float32(0)
		if cube.Linear != nil {
			speed = cube.Linear.Len()
		}
		s.Log.Printf("frame %d: %s at %s speed %.3f", s.frames, id, FormatVec(cube.Translation), speed)
	}
}

// Plugin installs the scene. Add it before the physics plugin so a reset is
// applied before the step of the same frame.
type Plugin struct {
	// ResetKey defaults to R.
	ResetKey    input.KeyCode
	InitialSpin mgl32.Vec3
	// LogEvery enables PoseLogger when positive.
	LogEvery int
}

func (p Plugin) Build(a *app.App) {
	ecs.RegisterComponent[ParentCube](a.Registry())
	physics.RegisterComponents(a.Registry())
	ecs.NewSingleton[ResetRequest](a.Storage())

	logger := a.Logger("scene")
	a.AddSystems(ecs.Startup, &Setup{InitialSpin: p.InitialSpin, Log: logger})
	a.AddSystems(ecs.Update, &ResetParentCubeOnR{Key: p.ResetKey, Log: logger})
	if p.LogEvery > 0 {
		a.AddSystems(ecs.PostUpdate, &PoseLogger{Every: p.LogEvery, Log: logger})
	}
}
