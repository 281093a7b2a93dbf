// Command cubedrop drops a compound cube onto a disc and lets R put it back.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cubedrop/config"
	renderebiten "github.com/plus3/cubedrop/render/ebiten"
	"github.com/plus3/cubedrop/scene"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the YAML config file.")
	headless := flag.Bool("headless", false, "Run without a window and log the final pose.")
	frames := flag.Int("frames", 0, "Frames to run in headless mode (0 uses the config value).")
	imguiFlag := flag.Bool("imgui", false, "Show the debug overlay (overrides debug.imgui).")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *frames > 0 {
		cfg.Headless.Frames = *frames
	}
	if *imguiFlag {
		cfg.Debug.Imgui = true
	}

	if *headless {
		if err := runHeadless(cfg); err != nil {
			log.Fatalf("Headless run failed: %v", err)
		}
		return
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := newGame(cfg, scene.NewApp(cfg, renderebiten.KeySource{}, os.Stderr))
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("Game exited with error: %v", err)
	}
}

func runHeadless(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := scene.NewApp(cfg, scene.HeadlessScript(cfg), os.Stderr)
	if err := a.RunHeadless(ctx, cfg.Headless.Frames, float64(cfg.Physics.Timestep)); err != nil {
		return err
	}

	if pose, ok := scene.ReadPose(a.Storage()); ok {
		log.Printf("Final pose after %d frames: %s", a.Time().Frame, pose)
	}
	return nil
}
