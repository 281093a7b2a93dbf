// Package app wires an ECS storage and scheduler together with plugins and
// drives frames.
package app

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/plus3/cubedrop/ecs"
)

// Plugin adds components, singletons and systems to an App.
type Plugin interface {
	Build(app *App)
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc func(app *App)

func (f PluginFunc) Build(app *App) {
	f(app)
}

// Time is the frame clock singleton, updated before every frame.
type Time struct {
	Delta   float64
	Elapsed float64
	Frame   int64
}

// Exit is polled by the frame loops; setting Requested stops them after the
// current frame.
type Exit struct {
	Requested bool
	Reason    string
}

// Name is a human readable label for an entity.
type Name struct {
	Value string
}

// App owns the component registry, storage and scheduler of one world.
type App struct {
	registry  *ecs.ComponentRegistry
	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	logOutput io.Writer
	logFlags  int
	log       *log.Logger

	time *ecs.Singleton[Time]
	exit *ecs.Singleton[Exit]
}

// New creates an empty App that logs to stderr.
func New() *App {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry)

	storage := ecs.NewStorage(registry)
	a := &App{
		registry:  registry,
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		logOutput: os.Stderr,
		logFlags:  log.LstdFlags,
	}
	a.log = a.Logger("app")
	a.time = ecs.NewSingleton[Time](storage)
	a.exit = ecs.NewSingleton[Exit](storage)
	return a
}

// SetLogOutput redirects loggers created after the call.
func (a *App) SetLogOutput(w io.Writer, flags int) *App {
	a.logOutput = w
	a.logFlags = flags
	a.log = a.Logger("app")
	return a
}

// Logger returns a logger whose lines are prefixed with [component].
func (a *App) Logger(component string) *log.Logger {
	return log.New(a.logOutput, "["+component+"] ", a.logFlags)
}

func (a *App) Registry() *ecs.ComponentRegistry { return a.registry }
func (a *App) Storage() *ecs.Storage            { return a.storage }
func (a *App) Scheduler() *ecs.Scheduler        { return a.scheduler }

// AddPlugins builds each plugin in order.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	for _, plugin := range plugins {
		plugin.Build(a)
	}
	return a
}

// AddSystems registers systems in stage, keeping their order.
func (a *App) AddSystems(stage ecs.Stage, systems ...ecs.System) *App {
	for _, system := range systems {
		a.scheduler.RegisterIn(stage, system)
	}
	return a
}

// InsertSingleton adds or replaces a singleton.
func (a *App) InsertSingleton(value any) *App {
	a.storage.AddSingleton(value)
	return a
}

// Time returns the frame clock.
func (a *App) Time() Time {
	return *a.time.Get()
}

// RequestExit asks the frame loops to stop.
func (a *App) RequestExit(reason string) {
	exit := a.exit.Get()
	if !exit.Requested {
		a.log.Printf("exit requested: %s", reason)
	}
	exit.Requested = true
	exit.Reason = reason
}

// ShouldExit reports whether a system or caller requested exit.
func (a *App) ShouldExit() bool {
	return a.exit.Get().Requested
}

// Update advances the clock by dt seconds and runs one frame.
func (a *App) Update(dt float64) {
	clock := a.time.Get()
	clock.Delta = dt
	clock.Elapsed += dt
	a.scheduler.Once(dt)
	clock.Frame++
}

// RunHeadless runs up to frames frames of dt seconds each without a window.
// It stops early on exit requests and returns ctx.Err() if ctx is cancelled.
func (a *App) RunHeadless(ctx context.Context, frames int, dt float64) error {
	a.log.Printf("running %d headless frames at %.4fs", frames, dt)
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.Update(dt)
		if a.ShouldExit() {
			break
		}
	}
	return nil
}
