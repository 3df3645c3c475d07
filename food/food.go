// Package food implements the food toy: food appears at random positions while
// fewer than a configured number exist, and each piece disappears once its
// countdown runs out.
package food

import (
	"log/slog"
	"math/rand/v2"

	"github.com/plus3/ecstoys/clock"
	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/spatial"
)

// Food is a piece of food with the time it has left
type Food struct {
	Countdown clock.Timer
}

// Creature tags the creature sprite. It has no behaviour.
type Creature struct{}

// RegisterComponents registers the food toy's components.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Food](registry)
	ecs.RegisterComponent[Creature](registry)
}

// NewCountdown returns the one-shot timer a new piece of food starts with
func NewCountdown(settings *config.Food) clock.Timer {
	return clock.NewTimer(settings.Timeout.Duration(), clock.Once)
}

// SpawnSystem adds one piece of food per frame while the live count is below
// Settings.Cap.
type SpawnSystem struct {
	Foods ecs.Query[struct{ *Food }]

	Settings *config.Food
	// Rand picks spawn positions; nil uses the global source.
	Rand *rand.Rand
	// Decorate may append components (a sprite, say) to each new piece.
	Decorate func(components []any) []any
	Log      *slog.Logger

	spawned int
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Foods.Len() >= s.Settings.Cap {
		return
	}

	pos := s.randomPosition()
	components := []any{Food{Countdown: NewCountdown(s.Settings)}}
	local, global := spatial.At(pos)
	components = append(components, local, global)
	if s.Decorate != nil {
		components = s.Decorate(components)
	}

	frame.Commands.Spawn(components...)
	s.spawned++
	logger(s.Log).Debug("food spawned", "position", pos, "live", s.Foods.Len()+1, "total", s.spawned)
}

// Spawned returns how many pieces this system has queued so far
func (s *SpawnSystem) Spawned() int {
	return s.spawned
}

// randomPosition is uniform over [-Width,Width) x [-Height,Height).
func (s *SpawnSystem) randomPosition() geom.Vec2 {
	return geom.V(
		(s.unit()*2-1)*s.Settings.Width,
		(s.unit()*2-1)*s.Settings.Height,
	)
}

func (s *SpawnSystem) unit() float64 {
	if s.Rand != nil {
		return s.Rand.Float64()
	}
	return rand.Float64()
}

// DecaySystem advances every food countdown and removes the expired ones.
type DecaySystem struct {
	Foods ecs.Query[struct {
		ecs.EntityId
		*Food
	}]

	Log *slog.Logger
}

func (s *DecaySystem) Execute(frame *ecs.UpdateFrame) {
	delta := frame.Delta()
	for item := range s.Foods.Values() {
		if item.Food.Countdown.Tick(delta).Finished() {
			frame.Commands.Delete(item.EntityId)
			logger(s.Log).Debug("food expired", "entity", item.EntityId)
		}
	}
}

func logger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
