package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/physics"
)

// FrameHistory is a fixed ring of frame times in milliseconds.
type FrameHistory struct {
	samples []float32
	next    int
	filled  bool
}

func NewFrameHistory(frames int) *FrameHistory {
	return &FrameHistory{samples: make([]float32, frames)}
}

// Push records one frame of dt seconds.
func (h *FrameHistory) Push(dt float64) {
	h.samples[h.next] = float32(dt * 1000)
	h.next = (h.next + 1) % len(h.samples)
	if h.next == 0 {
		h.filled = true
	}
}

// Samples returns the recorded frame times, oldest first.
func (h *FrameHistory) Samples() []float32 {
	if !h.filled {
		return append([]float32(nil), h.samples[:h.next]...)
	}
	ordered := make([]float32, 0, len(h.samples))
	ordered = append(ordered, h.samples[h.next:]...)
	return append(ordered, h.samples[:h.next]...)
}

// Average returns the mean recorded frame time in milliseconds.
func (h *FrameHistory) Average() float32 {
	samples := h.Samples()
	if len(samples) == 0 {
		return 0
	}
	var sum float32
	for _, ms := range samples {
		sum += ms
	}
	return sum / float32(len(samples))
}

// PerformancePanel shows frame timing, storage counts, per-system timings and
// the physics counters.
type PerformancePanel struct {
	history   *FrameHistory
	lastFrame time.Time
}

func NewPerformancePanel(historyFrames int) *PerformancePanel {
	return &PerformancePanel{history: NewFrameHistory(historyFrames)}
}

// Tick records the wall clock time since the previous Tick.
func (p *PerformancePanel) Tick(now time.Time) {
	if !p.lastFrame.IsZero() {
		p.history.Push(now.Sub(p.lastFrame).Seconds())
	}
	p.lastFrame = now
}

func (p *PerformancePanel) Render(scheduler *ecs.Scheduler) {
	p.Tick(time.Now())

	imgui.SetNextWindowPosV(imgui.NewVec2(960, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(310, 420), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	storage := scheduler.Storage()
	var clock *app.Time
	if storage.ReadSingleton(&clock) {
		imgui.Text(fmt.Sprintf("Frame %d, %.1fs simulated", clock.Frame, clock.Elapsed))
	}

	avg := p.history.Average()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Frame time: %.2f ms (%.0f FPS)", avg, 1000/avg))
	}
	if samples := p.history.Samples(); len(samples) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))
	}

	stats := storage.CollectStats()
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Entities: %d  Archetypes: %d  Singletons: %d",
		stats.TotalEntityCount, stats.ArchetypeCount, stats.SingletonCount))

	var diagnostics *physics.Diagnostics
	if storage.ReadSingleton(&diagnostics) {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Physics steps: %d (%d last frame)", diagnostics.Steps, diagnostics.StepsLastTick))
		imgui.Text(fmt.Sprintf("Contacts: %d", diagnostics.Contacts))
		imgui.Text(fmt.Sprintf("Bodies awake: %d  asleep: %d", diagnostics.AwakeBodies, diagnostics.SleepingBodies))
	}

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Stage")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()
			for _, system := range scheduler.GetStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(system.Name)
				imgui.TableNextColumn()
				imgui.Text(system.Stage.String())
				imgui.TableNextColumn()
				imgui.Text(system.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(system.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetypes") {
		for _, arch := range stats.ArchetypeBreakdown {
			imgui.BulletText(fmt.Sprintf("0x%08X  %d entities, %d components", arch.ID, arch.EntityCount, len(arch.ComponentTypes)))
		}
		imgui.TreePop()
	}
}
