package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/physics"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	ResetEvery int
	Timestep   float64

	// Results
	Frames        int64
	TotalTime     time.Duration
	SimulatedTime time.Duration
	Resets        int
	UpdateTime    Stats
	Systems       []ecs.SystemStats
	Physics       physics.Diagnostics
	FinalPose     string
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// Stats keeps running frame time statistics without storing samples.
type Stats struct {
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	Count int64
	total time.Duration
}

// Add records one sample.
func (s *Stats) Add(sample time.Duration) {
	if s.Count == 0 {
		s.Min, s.Max = sample, sample
	}
	s.Min = min(s.Min, sample)
	s.Max = max(s.Max, sample)
	s.total += sample
	s.Count++
}

func (s *Stats) Finalize() {
	if s.Count == 0 {
		return
	}
	s.Avg = s.total / time.Duration(s.Count)
}

// Speedup is simulated seconds per wall clock second.
func (r *Report) Speedup() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return r.SimulatedTime.Seconds() / r.TotalTime.Seconds()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Scene Benchmark Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Timestep:** {{printf "%.4f" .Timestep}}s
- **Reset Every:** {{if .ResetEvery}}{{.ResetEvery}} frames{{else}}never{{end}}

## Results
- **Frames:** {{.Frames}}
- **Total Time:** {{.TotalTime}}
- **Simulated Time:** {{.SimulatedTime}} ({{printf "%.1f" .Speedup}}x real time)
- **Resets:** {{.Resets}}
- **Frame Update Time:**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Physics
- **Steps:** {{.Physics.Steps}}
- **Contacts (last step):** {{.Physics.Contacts}}
- **Awake / Sleeping:** {{.Physics.AwakeBodies}} / {{.Physics.SleepingBodies}}
- **Final Pose:** {{if .FinalPose}}{{.FinalPose}}{{else}}n/a{{end}}

## Systems
| System | Stage | Runs | Avg | Max |
|---|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.Stage}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
