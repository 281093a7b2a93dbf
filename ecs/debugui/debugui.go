// Package debugui draws Dear ImGui inspection windows over a running world:
// an outliner of named entities, a component inspector that edits values in
// place, and a performance panel fed by scheduler and physics counters.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/input"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay hides every ImguiItem while Hidden is set.
type Overlay struct {
	Hidden bool
}

// CurrentCapture reads the capture flags of the active imgui context.
func CurrentCapture() ImguiInputState {
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}

// ImguiSystem defers the render function of every ImguiItem to the end of its
// stage and forwards imgui's keyboard capture to input.KeyboardFocus, so
// typing into a widget does not drive the scene.
type ImguiSystem struct {
	// Capture defaults to CurrentCapture.
	Capture func() ImguiInputState

	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
	Overlay    ecs.Singleton[Overlay]
	Focus      ecs.Singleton[input.KeyboardFocus]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	focus := i.Focus.Get()
	if overlay := i.Overlay.Get(); overlay != nil && overlay.Hidden {
		*state = ImguiInputState{}
		if focus != nil {
			focus.Captured = false
		}
		return
	}

	capture := i.Capture
	if capture == nil {
		capture = CurrentCapture
	}
	*state = capture()
	if focus != nil {
		focus.Captured = state.WantCaptureKeyboard
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// Install registers the overlay components and runs ImguiSystem in the
// Render stage. capture may be nil.
func Install(scheduler *ecs.Scheduler, capture func() ImguiInputState) *ImguiSystem {
	storage := scheduler.Storage()
	ecs.RegisterComponent[ImguiItem](storage.Registry())
	ecs.NewSingleton[ImguiInputState](storage)
	ecs.NewSingleton[Overlay](storage)
	ecs.NewSingleton[input.KeyboardFocus](storage)

	system := &ImguiSystem{Capture: capture}
	scheduler.RegisterIn(ecs.Render, system)
	return system
}
