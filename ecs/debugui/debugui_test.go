package debugui_test

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/ecs/debugui"
	"github.com/plus3/cubedrop/input"
	"github.com/plus3/cubedrop/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduler(capture func() debugui.ImguiInputState) *ecs.Scheduler {
	if capture == nil {
		capture = func() debugui.ImguiInputState { return debugui.ImguiInputState{} }
	}
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[app.Name](registry)
	scheduler := ecs.NewScheduler(ecs.NewStorage(registry))
	transform.Install(scheduler)
	input.Install(scheduler, nil)
	debugui.Install(scheduler, capture)
	return scheduler
}

func TestImguiSystemDefersItemsAndForwardsFocus(t *testing.T) {
	scheduler := newScheduler(func() debugui.ImguiInputState {
		return debugui.ImguiInputState{WantCaptureKeyboard: true}
	})
	storage := scheduler.Storage()

	var rendered []string
	storage.Spawn(debugui.ImguiItem{Render: func() { rendered = append(rendered, "a") }})
	storage.Spawn(debugui.ImguiItem{Render: func() { rendered = append(rendered, "b") }})
	scheduler.Once(0)

	assert.ElementsMatch(t, []string{"a", "b"}, rendered)
	var focus *input.KeyboardFocus
	require.True(t, storage.ReadSingleton(&focus))
	assert.True(t, focus.Captured)
	var state *debugui.ImguiInputState
	require.True(t, storage.ReadSingleton(&state))
	assert.True(t, state.WantCaptureKeyboard)
}

func TestHiddenOverlaySkipsItems(t *testing.T) {
	scheduler := newScheduler(func() debugui.ImguiInputState {
		return debugui.ImguiInputState{WantCaptureKeyboard: true, WantCaptureMouse: true}
	})
	storage := scheduler.Storage()
	storage.AddSingleton(debugui.Overlay{Hidden: true})

	calls := 0
	storage.Spawn(debugui.ImguiItem{Render: func() { calls++ }})
	scheduler.Once(0)

	assert.Zero(t, calls)
	var focus *input.KeyboardFocus
	require.True(t, storage.ReadSingleton(&focus))
	assert.False(t, focus.Captured)
}

func TestBuildOutlineNestsChildren(t *testing.T) {
	scheduler := newScheduler(nil)
	storage := scheduler.Storage()
	storage.Spawn(app.Name{Value: "Zeta"}, transform.Identity())
	storage.Spawn(transform.Identity())
	scheduler.RegisterIn(ecs.Startup, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		transform.WithChildren(frame.Commands, nil,
			[]any{app.Name{Value: "Body"}, transform.Identity()},
			[]any{app.Name{Value: "Right"}, transform.FromXYZ(1, 0, 0)},
			[]any{app.Name{Value: "Left"}, transform.FromXYZ(-1, 0, 0)},
		)
	}))
	storage.Spawn(debugui.ImguiItem{Render: func() {}})
	scheduler.Once(0)

	rows := debugui.BuildOutline(storage)
	require.Len(t, rows, 5)

	var labels []string
	var depths []int
	for _, row := range rows {
		labels = append(labels, row.Label)
		depths = append(depths, row.Depth)
	}
	assert.Equal(t, "Body", labels[0])
	assert.Equal(t, []string{"Right", "Left"}, labels[1:3])
	assert.Equal(t, []int{0, 1, 1}, depths[:3])
	assert.Contains(t, labels[3], "Entity ")
	assert.Equal(t, "Zeta", labels[4])
	assert.Contains(t, rows[1].Components, "transform.Parent")
}

func TestFilterOutline(t *testing.T) {
	rows := []debugui.OutlineRow{
		{Label: "Floor", Components: []string{"physics.Collider", "render.ShadowReceiver"}},
		{Label: "Camera", Components: []string{"render.Camera3D"}},
	}
	assert.Len(t, debugui.FilterOutline(rows, ""), 2)
	assert.Equal(t, "Floor", debugui.FilterOutline(rows, "SHADOW")[0].Label)
	assert.Equal(t, "Camera", debugui.FilterOutline(rows, " cam ")[0].Label)
	assert.Empty(t, debugui.FilterOutline(rows, "light"))
}

func TestOutlinerSelectionFollowsEntity(t *testing.T) {
	scheduler := newScheduler(nil)
	storage := scheduler.Storage()
	id := storage.Spawn(app.Name{Value: "Cube"}, transform.Identity())

	var outliner debugui.Outliner
	_, ok := outliner.Selected()
	assert.False(t, ok)

	outliner.Select(storage, id)
	scheduler.Once(0) // adds GlobalTransform, moving the entity

	selected, ok := outliner.Selected()
	require.True(t, ok)
	assert.NotEqual(t, id, selected)
	assert.Equal(t, "Cube", ecs.ReadComponent[app.Name](storage, selected).Value)

	storage.Delete(selected)
	_, ok = outliner.Selected()
	assert.False(t, ok)
}

func TestFrameHistory(t *testing.T) {
	history := debugui.NewFrameHistory(3)
	assert.Zero(t, history.Average())

	history.Push(0.010)
	history.Push(0.020)
	assert.InDeltaSlice(t, []float32{10, 20}, history.Samples(), 1e-4)

	history.Push(0.030)
	history.Push(0.040)
	assert.InDeltaSlice(t, []float32{20, 30, 40}, history.Samples(), 1e-4)
	assert.InDelta(t, 30, history.Average(), 1e-4)
}

type tinted struct {
	Tint  color.RGBA
	Gain  float32
	Label string
	On    bool
	Count uint8
}

func TestInspectorEditsComponentsInPlace(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[tinted](registry)
	ecs.RegisterComponent[transform.Transform](registry)
	storage := ecs.NewStorage(registry)
	id := storage.Spawn(tinted{Tint: color.RGBA{R: 255, A: 255}, Gain: 1, Count: 3}, transform.Identity())

	w := &scriptedWidgets{
		vec3:   map[string][3]float32{"Translation": {1, 2, 3}},
		float:  map[string]float32{"Gain": 0.5, "W": 0},
		str:    map[string]string{"Label": "hot"},
		color:  map[string][4]float32{"Tint": {0, 1, 0, 1}},
		toggle: map[string]bool{"On": true},
		ints:   map[string]int32{"Count": 7},
	}
	debugui.InspectEntity(w, storage, id)

	assert.Equal(t, []string{"debugui_test.tinted", "transform.Transform", "Rotation"}, w.trees)
	got := ecs.ReadComponent[tinted](storage, id)
	assert.Equal(t, tinted{Tint: color.RGBA{G: 255, A: 255}, Gain: 0.5, Label: "hot", On: true, Count: 7}, *got)

	pose := ecs.ReadComponent[transform.Transform](storage, id)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, pose.Translation)
	assert.Equal(t, float32(0), pose.Rotation.W)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, pose.Scale)
}

func TestInspectorReportsMissingEntity(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	w := &scriptedWidgets{}
	debugui.InspectEntity(w, storage, ecs.NewEntityId(7, 1))
	assert.Equal(t, []string{"Entity 00000007:1 no longer exists"}, w.lines)
}

// scriptedWidgets opens every tree and reports an edit for each label it has
// a value for.
type scriptedWidgets struct {
	vec3   map[string][3]float32
	float  map[string]float32
	str    map[string]string
	color  map[string][4]float32
	toggle map[string]bool
	ints   map[string]int32

	trees []string
	lines []string
}

func (w *scriptedWidgets) Bool(label string, v *bool) bool {
	next, ok := w.toggle[label]
	if ok {
		*v = next
	}
	return ok
}

func (w *scriptedWidgets) Int(label string, v *int32) bool {
	next, ok := w.ints[label]
	if ok {
		*v = next
	}
	return ok
}

func (w *scriptedWidgets) Float(label string, v *float32) bool {
	next, ok := w.float[label]
	if ok {
		*v = next
	}
	return ok
}

func (w *scriptedWidgets) String(label string, v *string) bool {
	next, ok := w.str[label]
	if ok {
		*v = next
	}
	return ok
}

func (w *scriptedWidgets) Vec3(label string, v *[3]float32) bool {
	next, ok := w.vec3[label]
	if ok {
		*v = next
	}
	return ok
}

func (w *scriptedWidgets) Color(label string, v *[4]float32) bool {
	next, ok := w.color[label]
	if ok {
		*v = next
	}
	return ok
}

func (w *scriptedWidgets) Text(line string) { w.lines = append(w.lines, line) }

func (w *scriptedWidgets) Tree(label string) bool {
	w.trees = append(w.trees, label)
	return true
}

func (w *scriptedWidgets) TreePop() {}
