package app

import (
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/input"
	"github.com/plus3/cubedrop/render"
	"github.com/plus3/cubedrop/transform"
)

// DefaultPlugins installs the transform hierarchy, keyboard input read from
// source, and render extraction. source may be nil.
func DefaultPlugins(source input.KeySource) Plugin {
	return PluginFunc(func(a *App) {
		transform.Install(a.Scheduler())
		input.Install(a.Scheduler(), source)
		render.Install(a.Scheduler())
	})
}

// ExitOnKey requests exit when key is pressed.
func ExitOnKey(key input.KeyCode) Plugin {
	return PluginFunc(func(a *App) {
		a.AddSystems(ecs.Update, &exitOnKeySystem{app: a, key: key})
	})
}

type exitOnKeySystem struct {
	app  *App
	key  input.KeyCode
	Keys ecs.Singleton[input.ButtonInput]
}

func (s *exitOnKeySystem) Execute(frame *ecs.UpdateFrame) {
	if keys := s.Keys.Get(); keys != nil && keys.JustPressed(s.key) {
		s.app.RequestExit(s.key.String() + " pressed")
	}
}
