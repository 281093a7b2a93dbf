package app_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/input"
	"github.com/plus3/cubedrop/render"
	"github.com/plus3/cubedrop/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietApp() (*app.App, *bytes.Buffer) {
	var logs bytes.Buffer
	return app.New().SetLogOutput(&logs, 0), &logs
}

func TestUpdateAdvancesTime(t *testing.T) {
	a, _ := quietApp()
	a.Update(0.5)
	a.Update(0.25)

	clock := a.Time()
	assert.Equal(t, 0.25, clock.Delta)
	assert.Equal(t, 0.75, clock.Elapsed)
	assert.Equal(t, int64(2), clock.Frame)
}

func TestTimeIsVisibleToSystems(t *testing.T) {
	a, _ := quietApp()
	var frames []int64
	a.AddSystems(ecs.Update, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		var clock *app.Time
		require.True(t, frame.Storage.ReadSingleton(&clock))
		frames = append(frames, clock.Frame)
	}))
	a.Update(0.1)
	a.Update(0.1)
	assert.Equal(t, []int64{0, 1}, frames)
}

func TestAddPluginsBuildsInOrder(t *testing.T) {
	a, _ := quietApp()
	var order []string
	a.AddPlugins(
		app.PluginFunc(func(*app.App) { order = append(order, "first") }),
		app.PluginFunc(func(*app.App) { order = append(order, "second") }),
	)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDefaultPluginsRegisterEngineComponents(t *testing.T) {
	a, _ := quietApp()
	a.AddPlugins(app.DefaultPlugins(nil))

	registry := a.Registry()
	assert.True(t, ecs.IsRegistered[transform.Transform](registry))
	assert.True(t, ecs.IsRegistered[render.Mesh](registry))
	assert.True(t, ecs.IsRegistered[app.Name](registry))

	var keys *input.ButtonInput
	assert.True(t, a.Storage().ReadSingleton(&keys))
	var list *render.DrawList
	assert.True(t, a.Storage().ReadSingleton(&list))
}

func TestRunHeadlessStopsOnExitKey(t *testing.T) {
	a, logs := quietApp()
	script := input.NewScriptedSource().Tap(input.KeyEscape, 3)
	a.AddPlugins(app.DefaultPlugins(script), app.ExitOnKey(input.KeyEscape))

	require.NoError(t, a.RunHeadless(context.Background(), 100, 1.0/60))
	assert.True(t, a.ShouldExit())
	assert.Equal(t, int64(4), a.Time().Frame)
	assert.Contains(t, logs.String(), "[app] exit requested: Escape pressed")
}

func TestRunHeadlessHonorsCancellation(t *testing.T) {
	a, _ := quietApp()
	ctx, cancel := context.WithCancel(context.Background())
	a.AddSystems(ecs.Update, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		cancel()
	}))

	err := a.RunHeadless(ctx, 100, 1.0/60)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(1), a.Time().Frame)
}

func TestLoggerPrefix(t *testing.T) {
	a, logs := quietApp()
	a.Logger("physics").Printf("hello %d", 1)
	assert.Equal(t, "[physics] hello 1\n", logs.String())
}
