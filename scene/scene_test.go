package scene_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/config"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/input"
	"github.com/plus3/cubedrop/physics"
	"github.com/plus3/cubedrop/render"
	"github.com/plus3/cubedrop/scene"
	"github.com/plus3/cubedrop/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameTime = 1.0 / 60

func newApp(source input.KeySource, plugin scene.Plugin, withPhysics bool) (*app.App, *bytes.Buffer) {
	var logs bytes.Buffer
	a := app.New().SetLogOutput(&logs, 0)
	a.AddPlugins(app.DefaultPlugins(source), plugin)
	if withPhysics {
		a.AddPlugins(physics.Plugin{})
	}
	return a, &logs
}

func run(a *app.App, frames int) {
	for range frames {
		a.Update(frameTime)
	}
}

func assertVecDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

type parentView struct {
	*scene.ParentCube
	*transform.Transform
	*transform.Children
	*render.Material
	*physics.Collider
	Angular *physics.AngularVelocity `ecs:"optional"`
}

type childView struct {
	*transform.Parent
	*transform.Transform
	*physics.Collider
	*render.Mesh
	*render.Material
}

func TestSetupSpawnsScene(t *testing.T) {
	a, _ := newApp(nil, scene.Plugin{}, false)
	run(a, 1)
	storage := a.Storage()

	floors := ecs.NewView[struct {
		*render.ShadowReceiver
		*physics.RigidBody
		*physics.Collider
		*transform.Transform
	}](storage)
	require.Equal(t, 1, floors.Count())
	for floor := range floors.Values() {
		assert.Equal(t, physics.Static, floor.RigidBody.Kind)
		assert.Equal(t, physics.Cylinder(4, 0.1), *floor.Collider)
		assert.Equal(t, transform.Identity(), *floor.Transform)
	}

	parents := ecs.NewView[parentView](storage)
	require.Equal(t, 1, parents.Count())
	for id, parent := range parents.Iter() {
		assert.Equal(t, scene.StartPose(), *parent.Transform)
		assert.Equal(t, render.SRGBu8(124, 144, 255), parent.Material.BaseColor)
		assert.Equal(t, physics.Cuboid(1, 1, 1), *parent.Collider)
		assert.Nil(t, parent.Angular)
		require.Len(t, parent.Children.Live(), 2)

		for _, childID := range parent.Children.Live() {
			child := ecs.NewView[childView](storage).Get(childID)
			require.NotNil(t, child)
			assert.Equal(t, id, child.Parent.Ref.Id)
			assert.Equal(t, physics.Cuboid(2, 2, 2), *child.Collider)
			assert.Equal(t, render.Cube(2), *child.Mesh)
		}
		right := ecs.NewView[childView](storage).Get(parent.Children.Live()[0])
		assert.Equal(t, transform.FromXYZ(1.5, 0, 0), *right.Transform)
		assert.Equal(t, render.SRGBu8(255, 124, 144), right.Material.BaseColor)
		left := ecs.NewView[childView](storage).Get(parent.Children.Live()[1])
		assert.Equal(t, transform.FromXYZ(-1.5, 0, 0), *left.Transform)
		assert.Equal(t, render.SRGBu8(144, 255, 124), left.Material.BaseColor)
	}

	lights := ecs.NewView[struct {
		*render.PointLight
		*transform.Transform
	}](storage)
	require.Equal(t, 1, lights.Count())
	for light := range lights.Values() {
		assert.True(t, light.ShadowsEnabled)
		assert.Equal(t, mgl32.Vec3{4, 8, 4}, light.Translation)
	}

	cameras := ecs.NewView[struct {
		*render.Camera3D
		*transform.Transform
	}](storage)
	require.Equal(t, 1, cameras.Count())
	for camera := range cameras.Values() {
		eye := mgl32.Vec3{-0.5, 4.5, 9}
		assert.Equal(t, eye, camera.Translation)
		assertVecDelta(t, eye.Mul(-1).Normalize(), camera.Forward(), 1e-5)
	}
}

func TestInitialSpinIsApplied(t *testing.T) {
	a, _ := newApp(nil, scene.Plugin{InitialSpin: mgl32.Vec3{0, 1, 0}}, false)
	run(a, 1)

	for parent := range ecs.NewView[parentView](a.Storage()).Values() {
		require.NotNil(t, parent.Angular)
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, parent.Angular.Vec3)
	}
}

type cubeView struct {
	*transform.Transform
	Linear  *physics.LinearVelocity  `ecs:"optional"`
	Angular *physics.AngularVelocity `ecs:"optional"`
}

func newResetScheduler(source input.KeySource, key input.KeyCode) *ecs.Scheduler {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[scene.ParentCube](registry)
	ecs.RegisterComponent[transform.Transform](registry)
	physics.RegisterComponents(registry)
	scheduler := ecs.NewScheduler(ecs.NewStorage(registry))
	input.Install(scheduler, source)
	scheduler.RegisterIn(ecs.Update, &scene.ResetParentCubeOnR{Key: key})
	return scheduler
}

func TestResetOnlyOnFreshPress(t *testing.T) {
	script := input.NewScriptedSource().Hold(input.KeyR, 1, 3)
	scheduler := newResetScheduler(script, input.KeyUnknown)
	storage := scheduler.Storage()

	id := storage.Spawn(
		scene.ParentCube{},
		transform.FromXYZ(2, 1, 0),
		physics.LinearVelocity{Vec3: mgl32.Vec3{1, -2, 0}},
		physics.AngularVelocity{Vec3: mgl32.Vec3{0, 3, 0}},
	)
	view := ecs.NewView[cubeView](storage)

	scheduler.Once(frameTime)
	assert.Equal(t, transform.FromXYZ(2, 1, 0), *view.Get(id).Transform)

	scheduler.Once(frameTime)
	cube := view.Get(id)
	assert.Equal(t, scene.StartPose(), *cube.Transform)
	assert.Equal(t, mgl32.Vec3{}, cube.Linear.Vec3)
	assert.Equal(t, mgl32.Vec3{}, cube.Angular.Vec3)

	cube.Transform.Translation = mgl32.Vec3{5, 5, 5}
	scheduler.Once(frameTime)
	scheduler.Once(frameTime)
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, view.Get(id).Translation)
}

func TestResetWithoutVelocities(t *testing.T) {
	script := input.NewScriptedSource().Tap(input.KeySpace, 0)
	scheduler := newResetScheduler(script, input.KeySpace)
	storage := scheduler.Storage()

	moved := transform.FromXYZ(3, -1, 2)
	moved.Rotation = mgl32.QuatRotate(1, mgl32.Vec3{0, 0, 1})
	moved.Scale = mgl32.Vec3{2, 2, 2}
	cube := storage.Spawn(scene.ParentCube{}, moved)
	bystander := storage.Spawn(moved)

	scheduler.Once(frameTime)

	view := ecs.NewView[cubeView](storage)
	assert.Equal(t, scene.StartPose(), *view.Get(cube).Transform)
	assert.Nil(t, view.Get(cube).Linear)
	assert.Equal(t, moved, *view.Get(bystander).Transform)
}

func TestDefaultResetKeyIgnoresOtherKeys(t *testing.T) {
	script := input.NewScriptedSource().Tap(input.KeyT, 0)
	scheduler := newResetScheduler(script, input.KeyUnknown)
	id := scheduler.Storage().Spawn(scene.ParentCube{}, transform.FromXYZ(1, 1, 1))

	scheduler.Once(frameTime)
	assert.Equal(t, transform.FromXYZ(1, 1, 1), *ecs.NewView[cubeView](scheduler.Storage()).Get(id).Transform)
}

func TestDropRestAndReset(t *testing.T) {
	script := input.NewScriptedSource().Tap(input.KeyR, 600)
	a, logs := newApp(script, scene.Plugin{}, true)

	run(a, 600)
	pose, ok := scene.ReadPose(a.Storage())
	require.True(t, ok)
	assert.InDelta(t, 1.05, pose.Translation.Y(), 0.03)
	assert.True(t, pose.Sleeping)

	run(a, 1)
	pose, _ = scene.ReadPose(a.Storage())
	assert.InDelta(t, 4, pose.Translation.Y(), 0.01)
	assert.InDelta(t, 0, pose.Translation.X(), 1e-4)
	assert.False(t, pose.Sleeping)
	assert.Contains(t, logs.String(), "[scene] reset")

	run(a, 20)
	pose, _ = scene.ReadPose(a.Storage())
	assert.Less(t, pose.Translation.Y(), float32(3.8))
	assert.Less(t, pose.Linear.Y(), float32(0))
}

func TestPoseLogger(t *testing.T) {
	a, logs := newApp(nil, scene.Plugin{LogEvery: 2}, false)
	run(a, 5)

	lines := 0
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.HasPrefix(line, "[scene] frame ") {
			lines++
		}
	}
	assert.Equal(t, 2, lines)
	assert.Contains(t, logs.String(), "at (0.000, 4.000, 0.000) speed 0.000")
}

func TestPoseString(t *testing.T) {
	pose := scene.Pose{Translation: mgl32.Vec3{0, 1.05, 0}, Rotation: mgl32.QuatIdent(), Sleeping: true}
	assert.Equal(t,
		"at (0.000, 1.050, 0.000) rot (1.000, (0.000, 0.000, 0.000)) v (0.000, 0.000, 0.000) w (0.000, 0.000, 0.000) asleep",
		pose.String())
}

func TestResetRequest(t *testing.T) {
	scheduler := newResetScheduler(nil, input.KeyUnknown)
	storage := scheduler.Storage()
	ecs.NewSingleton[scene.ResetRequest](storage, scene.ResetRequest{Pending: true})
	id := storage.Spawn(scene.ParentCube{}, transform.FromXYZ(1, 1, 1))

	scheduler.Once(frameTime)
	assert.Equal(t, scene.StartPose(), *ecs.NewView[cubeView](storage).Get(id).Transform)

	var request *scene.ResetRequest
	require.True(t, storage.ReadSingleton(&request))
	assert.False(t, request.Pending)
}

func TestNewAppFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.Paused = true
	cfg.Headless.PressReset = []int{2}
	cfg.Scene.ResetKey = input.KeySpace

	script := scene.HeadlessScript(cfg)
	a := scene.NewApp(cfg, script, io.Discard)
	require.NoError(t, a.RunHeadless(context.Background(), 5, frameTime))

	pose, ok := scene.ReadPose(a.Storage())
	require.True(t, ok)
	assert.Equal(t, scene.StartPose().Translation, pose.Translation)
	assert.Equal(t, 5, script.Frame())
	assert.False(t, a.ShouldExit())
}
