package physics

import (
	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/ecs"
)

// RegisterComponents registers every physics component type.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[RigidBody](registry)
	ecs.RegisterComponent[Collider](registry)
	ecs.RegisterComponent[Density](registry)
	ecs.RegisterComponent[Material](registry)
	ecs.RegisterComponent[LinearVelocity](registry)
	ecs.RegisterComponent[AngularVelocity](registry)
	ecs.RegisterComponent[MassProperties](registry)
	ecs.RegisterComponent[Activity](registry)
}

// Plugin installs the simulation. A zero Settings means DefaultSettings.
type Plugin struct {
	Settings Settings
}

func (p Plugin) Build(a *app.App) {
	RegisterComponents(a.Registry())

	settings := p.Settings
	if settings == (Settings{}) {
		settings = DefaultSettings()
	}
	ecs.NewSingleton(a.Storage(), settings)
	ecs.NewSingleton[Diagnostics](a.Storage())

	a.AddSystems(ecs.Update,
		&MassSystem{},
		&StepSystem{Log: a.Logger("physics")},
	)
}
