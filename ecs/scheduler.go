package ecs

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Stage groups systems that run together. Commands queued during a stage are
// flushed before the next stage starts.
type Stage int

const (
	// Startup systems run once, before the first frame.
	Startup Stage = iota
	PreUpdate
	Update
	PostUpdate
	Render
)

// frameStages are the stages executed on every call to Once, in order.
var frameStages = []Stage{PreUpdate, Update, PostUpdate, Render}

func (s Stage) String() string {
	switch s {
	case Startup:
		return "Startup"
	case PreUpdate:
		return "PreUpdate"
	case Update:
		return "Update"
	case PostUpdate:
		return "PostUpdate"
	case Render:
		return "Render"
	}
	return "Stage(" + strconv.Itoa(int(s)) + ")"
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Stage          Stage
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemEntry struct {
	system  System
	stage   Stage
	queries []queryExecutor

	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler manages and executes systems stage by stage, in registration order
// within a stage.
type Scheduler struct {
	storage *Storage
	entries []*systemEntry
	started bool
	frames  int64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage: storage,
	}
}

// Storage returns the storage the scheduler's systems operate on.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register adds a system to the Update stage.
func (s *Scheduler) Register(system System) {
	s.RegisterIn(Update, system)
}

// RegisterIn adds a system to the given stage and initializes its Query and
// Singleton fields.
func (s *Scheduler) RegisterIn(stage Stage, system System) {
	entry := &systemEntry{
		system:      system,
		stage:       stage,
		queries:     s.initializeFields(system),
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	}
	s.entries = append(s.entries, entry)

	// A startup system registered after the first frame still runs once.
	if stage == Startup && s.started {
		s.runEntries([]*systemEntry{entry}, 0, Startup)
	}
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

func (s *Scheduler) initializeFields(system System) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() != reflect.Ptr || systemValue.Elem().Kind() != reflect.Struct {
		return nil
	}
	systemValue = systemValue.Elem()
	systemType := systemValue.Type()

	var queries []queryExecutor
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		isQuery := strings.HasPrefix(typeName, "Query[")
		if !isQuery && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + fieldType.Name)
		}
		initMethod.Call([]reflect.Value{reflect.ValueOf(s.storage)})

		if isQuery {
			if q, ok := field.Addr().Interface().(queryExecutor); ok {
				queries = append(queries, q)
			}
		}
	}
	return queries
}

// Once runs one frame: the Startup stage if it has not run yet, then every
// frame stage with the given delta time.
func (s *Scheduler) Once(dt float64) {
	if !s.started {
		s.started = true
		s.RunStage(Startup, 0)
	}
	for _, stage := range frameStages {
		s.RunStage(stage, dt)
	}
	s.frames++
}

// RunStage executes only the systems of one stage and flushes its commands.
func (s *Scheduler) RunStage(stage Stage, dt float64) {
	entries := make([]*systemEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.stage == stage {
			entries = append(entries, entry)
		}
	}
	s.runEntries(entries, dt, stage)
}

func (s *Scheduler) runEntries(entries []*systemEntry, dt float64, stage Stage) {
	frame := newUpdateFrame(dt, stage, s.storage)

	for _, entry := range entries {
		start := time.Now()
		for _, q := range entry.queries {
			q.Execute()
		}
		entry.system.Execute(frame)
		entry.record(time.Since(start))
	}

	frame.Commands.Flush(s.storage)
}

func (e *systemEntry) record(duration time.Duration) {
	e.executionCount++
	e.lastDuration = duration
	e.totalDuration += duration
	e.minDuration = min(e.minDuration, duration)
	e.maxDuration = max(e.maxDuration, duration)
}

// Started reports whether the Startup stage has run.
func (s *Scheduler) Started() bool {
	return s.started
}

// Run executes frames at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.entries),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.entries)),
	}

	for i, entry := range s.entries {
		var avgDuration time.Duration
		if entry.executionCount > 0 {
			avgDuration = entry.totalDuration / time.Duration(entry.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			Stage:          entry.stage,
			ExecutionCount: entry.executionCount,
			MinDuration:    entry.minDuration,
			MaxDuration:    entry.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   entry.lastDuration,
			TotalDuration:  entry.totalDuration,
		}
		stats.TotalExecutions += entry.executionCount
	}

	return stats
}
