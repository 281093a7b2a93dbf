package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/config"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/ecs/debugui"
	debugui_ebiten "github.com/plus3/cubedrop/ecs/debugui/ebiten"
	"github.com/plus3/cubedrop/render"
	renderebiten "github.com/plus3/cubedrop/render/ebiten"
)

// game implements ebiten.Game by running one App frame per tick.
type game struct {
	app      *app.App
	dt       float64
	renderer *renderebiten.Renderer

	// imgui is nil when the overlay is disabled.
	imgui   *debugui_ebiten.ImguiBackend
	overlay *ecs.Singleton[debugui.Overlay]

	drawList *ecs.Singleton[render.DrawList]
	viewport *ecs.Singleton[render.Viewport]
}

func newGame(cfg *config.Config, a *app.App) *game {
	g := &game{
		app:      a,
		dt:       1.0 / float64(ebiten.TPS()),
		renderer: renderebiten.NewRenderer(),
		drawList: ecs.NewSingleton[render.DrawList](a.Storage()),
		viewport: ecs.NewSingleton[render.Viewport](a.Storage()),
	}

	if cfg.Debug.Imgui {
		g.imgui = debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
		debugui.Install(a.Scheduler(), debugui.CurrentCapture)
		debugui.SpawnDebugUI(a.Scheduler())
		spawnScenePanel(a)
		g.overlay = ecs.NewSingleton[debugui.Overlay](a.Storage())
	}
	return g
}

func (g *game) Update() error {
	if g.imgui == nil {
		g.app.Update(g.dt)
	} else {
		if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
			overlay := g.overlay.Get()
			overlay.Hidden = !overlay.Hidden
		}
		g.imgui.BeginFrame()
		g.app.Update(g.dt)
		g.imgui.EndFrame()
	}

	if g.app.ShouldExit() {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.drawList.Get())
	if g.imgui != nil {
		g.imgui.DrawOver(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	*g.viewport.Get() = render.Viewport{Width: outsideWidth, Height: outsideHeight}
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
