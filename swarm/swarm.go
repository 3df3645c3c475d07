// Package swarm implements the nanobot toy. Nanobots belong to a group entity
// and are positioned relative to it; they drift by velocity, push away from
// nearby siblings, and can be box-selected with the mouse.
//
// Systems are meant to run in this order each frame:
//
//	SeparationSystem, IntegrateSystem, spatial.PropagateSystem,
//	SelectionSystem, HighlightSystem
package swarm

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/spatial"
)

// NanobotGroup tags the parent entity of a set of sibling nanobots.
type NanobotGroup struct {
	Name string
}

// Nanobot is a unit of a group. Velocity is in world units per second.
type Nanobot struct {
	Velocity geom.Vec2
	Selected bool
}

// RegisterComponents registers the nanobot components.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[NanobotGroup](registry)
	ecs.RegisterComponent[Nanobot](registry)
}

// Decorator appends extra components to an entity before it is spawned.
type Decorator func(components []any) []any

// SpawnGroup creates a group entity at center and settings.BotsPerGroup
// nanobots scattered uniformly over a disc of settings.SpawnRadius around it,
// each heading in a random direction at settings.InitialSpeed.
func SpawnGroup(storage *ecs.Storage, name string, center geom.Vec2, settings *config.Swarm, rng *rand.Rand, decorate Decorator) ecs.EntityId {
	local, global := spatial.At(center)
	group := storage.Spawn(NanobotGroup{Name: name}, local, global)

	for range settings.BotsPerGroup {
		offset := randomInDisc(rng, settings.SpawnRadius)
		heading := randomUnit(rng)

		local, global := spatial.At(offset)
		components := []any{
			Nanobot{Velocity: heading.Scale(settings.InitialSpeed)},
			local,
			global,
			spatial.ChildOf(storage, group),
		}
		if decorate != nil {
			components = decorate(components)
		}
		storage.Spawn(components...)
	}
	return group
}

// SpawnGroups lays settings.Groups groups out in a row centred on the origin.
// decorate, if set, picks the bot decorator for the group with the given index.
func SpawnGroups(storage *ecs.Storage, settings *config.Swarm, rng *rand.Rand, decorate func(index int) Decorator) []ecs.EntityId {
	groups := make([]ecs.EntityId, 0, settings.Groups)
	first := -float64(settings.Groups-1) / 2
	for i := range settings.Groups {
		center := geom.V((first+float64(i))*settings.GroupSpacing, 0)
		name := fmt.Sprintf("group-%d", i+1)
		var bots Decorator
		if decorate != nil {
			bots = decorate(i)
		}
		groups = append(groups, SpawnGroup(storage, name, center, settings, rng, bots))
	}
	return groups
}

func randomInDisc(rng *rand.Rand, radius float64) geom.Vec2 {
	return randomUnit(rng).Scale(radius * math.Sqrt(unit(rng)))
}

func randomUnit(rng *rand.Rand) geom.Vec2 {
	angle := 2 * math.Pi * unit(rng)
	return geom.V(math.Cos(angle), math.Sin(angle))
}

func unit(rng *rand.Rand) float64 {
	if rng != nil {
		return rng.Float64()
	}
	return rand.Float64()
}
