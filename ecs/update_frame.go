package ecs

// UpdateFrame is handed to every system of a stage. Commands queued on it are
// flushed once all systems of the stage have executed.
type UpdateFrame struct {
	DeltaTime float64
	Stage     Stage
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, stage Stage, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Stage:     stage,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
