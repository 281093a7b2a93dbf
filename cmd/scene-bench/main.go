// Command scene-bench runs the cube drop scene headless as fast as it can and
// prints a throughput report.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/cubedrop/config"
	"github.com/plus3/cubedrop/input"
	"github.com/plus3/cubedrop/physics"
	"github.com/plus3/cubedrop/scene"
)

// periodicSource taps key once every period frames.
type periodicSource struct {
	key    input.KeyCode
	period int
	frame  int
	taps   int
}

func (s *periodicSource) IsKeyDown(k input.KeyCode) bool {
	down := k == s.key && s.period > 0 && s.frame > 0 && s.frame%s.period == 0
	if down {
		s.taps++
	}
	return down
}

func (s *periodicSource) NextFrame() {
	s.frame++
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the benchmark should run for.")
	resetEvery := flag.Int("reset-every", 300, "Tap the reset key every n frames (0 disables resets).")
	configPath := flag.String("config", config.DefaultPath, "Path to the YAML config file.")
	verbose := flag.Bool("v", false, "Show scene and physics logs.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logOutput := io.Discard
	if *verbose {
		logOutput = os.Stderr
	}
	source := &periodicSource{key: cfg.Scene.ResetKey, period: *resetEvery}
	a := scene.NewApp(cfg, source, logOutput)
	dt := float64(cfg.Physics.Timestep)

	report := &Report{
		Duration:   *duration,
		ResetEvery: *resetEvery,
		Timestep:   dt,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running scene for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			a.Update(dt)
			report.UpdateTime.Add(time.Since(updateStart))
		}
	}

	report.TotalTime = time.Since(startTime)
	report.Frames = a.Time().Frame
	report.SimulatedTime = time.Duration(a.Time().Elapsed * float64(time.Second))
	report.Resets = source.taps
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Systems = a.Scheduler().GetStats().Systems
	var diagnostics *physics.Diagnostics
	if a.Storage().ReadSingleton(&diagnostics) {
		report.Physics = *diagnostics
	}
	if pose, ok := scene.ReadPose(a.Storage()); ok {
		report.FinalPose = pose.String()
	}

	fmt.Println("\n\n--- Scene Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
