package ecs_test

import (
	"fmt"

	"github.com/plus3/cubedrop/ecs"
)

func ExampleView() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Position{X: 1}, Velocity{DX: 0.5})

	view := ecs.NewView[struct {
		*Position
		Velocity *Velocity `ecs:"optional"`
	}](storage)

	for item := range view.Values() {
		if item.Velocity != nil {
			item.Position.X += item.Velocity.DX
		}
		fmt.Printf("x=%.1f\n", item.Position.X)
	}
	// Output: x=1.5
}

func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry)
	storage := ecs.NewStorage(registry)

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterIn(ecs.Startup, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Name{Value: "floor"})
		fmt.Println("startup")
	}))
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		fmt.Printf("%s: %d entities\n", frame.Stage, frame.Storage.CollectStats().TotalEntityCount)
	}))

	scheduler.Once(1.0 / 60)
	scheduler.Once(1.0 / 60)
	// Output:
	// startup
	// Update: 1 entities
	// Update: 1 entities
}

func ExampleNewSingleton() {
	type Score struct{ Points int }

	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	score := ecs.NewSingleton(storage, Score{Points: 10})
	score.Get().Points += 5

	again := ecs.NewSingleton[Score](storage)
	fmt.Println(again.Get().Points)
	// Output: 15
}
