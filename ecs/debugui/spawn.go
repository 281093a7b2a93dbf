package debugui

import "github.com/plus3/cubedrop/ecs"

// Windows holds the standard inspection windows.
type Windows struct {
	Outliner    *Outliner
	Inspector   *Inspector
	Performance *PerformancePanel
}

// SpawnDebugUI spawns the outliner, inspector and performance windows as
// ImguiItems drawing scheduler's world.
func SpawnDebugUI(scheduler *ecs.Scheduler) *Windows {
	storage := scheduler.Storage()
	windows := &Windows{
		Outliner:    &Outliner{},
		Inspector:   &Inspector{},
		Performance: NewPerformancePanel(120),
	}

	storage.Spawn(ImguiItem{Render: func() { windows.Outliner.Render(storage) }})
	storage.Spawn(ImguiItem{Render: func() { windows.Inspector.Render(storage, windows.Outliner) }})
	storage.Spawn(ImguiItem{Render: func() { windows.Performance.Render(scheduler) }})
	return windows
}
