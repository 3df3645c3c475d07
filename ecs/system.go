package ecs

import (
	"math"
	"time"
)

// System is one per-frame rule. Implementations are usually pointer-to-struct
// types whose Query and Singleton fields are wired up by Scheduler.Register;
// other fields keep their values between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame is handed to every system during one Scheduler.Once call.
type UpdateFrame struct {
	// DeltaTime is the frame duration in seconds.
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// Delta returns DeltaTime as a time.Duration, rounded to the nearest
// nanosecond so that ticks of 1/60s add up to a whole second.
func (f *UpdateFrame) Delta() time.Duration {
	return time.Duration(math.Round(f.DeltaTime * float64(time.Second)))
}
