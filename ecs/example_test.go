package ecs_test

import (
	"fmt"

	"github.com/plus3/ecstoys/ecs"
)

type Transform struct {
	X, Y float32
}

type Speed struct {
	DX, DY float32
}

type Lifetime struct {
	Remaining float64
}

type PhysicsSystem struct {
	Entities ecs.Query[struct {
		*Transform
		*Speed
	}]
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Values() {
		entity.Transform.X += entity.Speed.DX * float32(frame.DeltaTime)
		entity.Transform.Y += entity.Speed.DY * float32(frame.DeltaTime)
	}
}

type ExpirySystem struct {
	Entities ecs.Query[struct {
		ecs.EntityId
		*Lifetime
	}]
}

func (s *ExpirySystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Values() {
		entity.Lifetime.Remaining -= frame.DeltaTime
		if entity.Lifetime.Remaining <= 0 {
			frame.Commands.Delete(entity.EntityId)
		}
	}
}

// ExampleScheduler builds a two-system pipeline. Systems run in registration
// order; structural changes they queue are applied at the end of the frame.
func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Speed](registry)
	ecs.RegisterComponent[Lifetime](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Transform{}, Speed{DX: 10, DY: 5}, Lifetime{Remaining: 1.5})
	storage.Spawn(Transform{X: 100, Y: 100}, Speed{DX: -5, DY: -5})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&PhysicsSystem{})
	scheduler.Register(&ExpirySystem{})

	view := ecs.NewView[struct{ *Transform }](storage)
	for frame := 1; frame <= 2; frame++ {
		scheduler.Once(1.0)
		fmt.Printf("frame %d: %d entities\n", frame, storage.CollectStats().TotalEntityCount)
	}
	for item := range view.Values() {
		fmt.Printf("(%.0f, %.0f)\n", item.Transform.X, item.Transform.Y)
	}

	// Output:
	// frame 1: 2 entities
	// frame 2: 1 entities
	// (90, 90)
}

type Settings struct {
	Difficulty string
}

// ExampleNewSingleton shows that every accessor shares one value.
func ExampleNewSingleton() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	settings := ecs.NewSingleton[Settings](storage, Settings{Difficulty: "normal"})
	settings.Get().Difficulty = "hard"

	var read *Settings
	storage.ReadSingleton(&read)
	fmt.Println(ecs.NewSingleton[Settings](storage).Get().Difficulty, read.Difficulty)

	// Output:
	// hard hard
}
