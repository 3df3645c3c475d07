package swarm

import (
	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/spatial"
)

// Integrate returns pos advanced by vel over dt seconds
func Integrate(pos, vel geom.Vec2, dt float64) geom.Vec2 {
	return pos.Add(vel.Scale(dt))
}

// Separation sums (self - sibling) over every sibling strictly closer than
// radius. Siblings at exactly self's position, self included, add nothing.
func Separation(self geom.Vec2, siblings []geom.Vec2, radius float64) geom.Vec2 {
	var sum geom.Vec2
	limit := radius * radius
	for _, other := range siblings {
		away := self.Sub(other)
		if away.LenSq() < limit {
			sum = sum.Add(away)
		}
	}
	return sum
}

// IntegrateSystem moves every nanobot by its velocity.
type IntegrateSystem struct {
	Bots ecs.Query[struct {
		*Nanobot
		*spatial.Transform
	}]
}

func (s *IntegrateSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DeltaTime
	for bot := range s.Bots.Values() {
		bot.Transform.Translation = Integrate(bot.Transform.Translation, bot.Velocity, dt)
	}
}

type separationBot struct {
	*Nanobot
	*spatial.Transform
	*spatial.Parent
}

// SeparationSystem pushes each nanobot away from siblings within
// Settings.SeparationRadius. The push has magnitude SeparationStrength per
// second along the summed separation vector, and speed is then capped at
// MaxSpeed. Only velocities change, so the result does not depend on
// iteration order.
type SeparationSystem struct {
	Bots ecs.Query[separationBot]

	Settings *config.Swarm

	groups    map[ecs.EntityId][]separationBot
	positions []geom.Vec2
}

func (s *SeparationSystem) Execute(frame *ecs.UpdateFrame) {
	if s.groups == nil {
		s.groups = make(map[ecs.EntityId][]separationBot)
	}
	for group, bots := range s.groups {
		s.groups[group] = bots[:0]
	}

	for bot := range s.Bots.Values() {
		group, ok := frame.Storage.ResolveEntityRef(bot.Parent.Ref)
		if !ok {
			continue
		}
		s.groups[group] = append(s.groups[group], bot)
	}

	dt := frame.DeltaTime
	for group, bots := range s.groups {
		if len(bots) == 0 {
			delete(s.groups, group)
			continue
		}

		s.positions = s.positions[:0]
		for _, bot := range bots {
			s.positions = append(s.positions, bot.Transform.Translation)
		}

		for i, bot := range bots {
			push := Separation(s.positions[i], s.positions, s.Settings.SeparationRadius)
			if push.IsZero() {
				continue
			}
			bot.Velocity = bot.Velocity.Add(push.Normalize().Scale(s.Settings.SeparationStrength * dt))
			if s.Settings.MaxSpeed > 0 {
				bot.Velocity = bot.Velocity.ClampLen(s.Settings.MaxSpeed)
			}
		}
	}
}
