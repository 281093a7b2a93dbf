package scene

import (
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/config"
	"github.com/plus3/cubedrop/input"
	"github.com/plus3/cubedrop/physics"
)

// NewApp assembles the demonstration from cfg: the engine plugins reading keys
// from source, the scene, the simulation, and Escape to quit. Logs go to
// logOutput.
func NewApp(cfg *config.Config, source input.KeySource, logOutput io.Writer) *app.App {
	a := app.New().SetLogOutput(logOutput, log.LstdFlags)
	a.AddPlugins(
		app.DefaultPlugins(source),
		Plugin{
			ResetKey:    cfg.Scene.ResetKey,
			InitialSpin: mgl32.Vec3(cfg.Scene.InitialSpin),
			LogEvery:    cfg.Debug.LogEvery,
		},
		physics.Plugin{Settings: cfg.PhysicsSettings()},
		app.ExitOnKey(input.KeyEscape),
	)
	return a
}

// HeadlessScript taps the reset key on every frame cfg.Headless.PressReset
// lists.
func HeadlessScript(cfg *config.Config) *input.ScriptedSource {
	script := input.NewScriptedSource()
	for _, frame := range cfg.Headless.PressReset {
		script.Tap(cfg.Scene.ResetKey, frame)
	}
	return script
}
