package swarm_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/spatial"
	"github.com/plus3/ecstoys/swarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	spatial.RegisterComponents(registry)
	swarm.RegisterComponents(registry)
	return ecs.NewStorage(registry)
}

func spawnGroup(storage *ecs.Storage, at geom.Vec2) ecs.EntityId {
	local, global := spatial.At(at)
	return storage.Spawn(swarm.NanobotGroup{Name: "test"}, local, global)
}

func spawnBot(storage *ecs.Storage, group ecs.EntityId, at, velocity geom.Vec2) ecs.EntityId {
	local, global := spatial.At(at)
	return storage.Spawn(swarm.Nanobot{Velocity: velocity}, local, global, spatial.ChildOf(storage, group))
}

func bot(storage *ecs.Storage, id ecs.EntityId) *swarm.Nanobot {
	return ecs.ReadComponent[swarm.Nanobot](storage, id)
}

func position(storage *ecs.Storage, id ecs.EntityId) geom.Vec2 {
	return ecs.ReadComponent[spatial.Transform](storage, id).Translation
}

func TestIntegrate(t *testing.T) {
	assert.Equal(t, geom.V(1.5, -1), swarm.Integrate(geom.V(1, 1), geom.V(5, -20), 0.1))
	assert.Equal(t, geom.V(3, 4), swarm.Integrate(geom.V(3, 4), geom.Vec2{}, 10))
}

func TestIntegrateSystemZeroVelocityIsIdempotent(t *testing.T) {
	storage := newStorage()
	group := spawnGroup(storage, geom.V(0, 0))
	still := spawnBot(storage, group, geom.V(12.5, -3), geom.Vec2{})
	moving := spawnBot(storage, group, geom.V(0, 0), geom.V(1, 2))

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&swarm.IntegrateSystem{})
	for range 100 {
		scheduler.Once(0.25)
	}

	assert.Equal(t, geom.V(12.5, -3), position(storage, still))
	assert.Equal(t, geom.V(25, 50), position(storage, moving))
}

func TestSeparation(t *testing.T) {
	tests := []struct {
		name     string
		self     geom.Vec2
		siblings []geom.Vec2
		radius   float64
		want     geom.Vec2
	}{
		{"no siblings", geom.V(0, 0), nil, 10, geom.Vec2{}},
		{"self only", geom.V(4, 4), []geom.Vec2{geom.V(4, 4)}, 10, geom.Vec2{}},
		{"one in range", geom.V(0, 0), []geom.Vec2{geom.V(3, 4)}, 10, geom.V(-3, -4)},
		{"at radius is out of range", geom.V(0, 0), []geom.Vec2{geom.V(6, 8)}, 10, geom.Vec2{}},
		{"sums contributions", geom.V(0, 0), []geom.Vec2{geom.V(1, 0), geom.V(0, 2), geom.V(50, 50)}, 10, geom.V(-1, -2)},
		{"opposite pushes cancel", geom.V(0, 0), []geom.Vec2{geom.V(2, 0), geom.V(-2, 0)}, 10, geom.Vec2{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, swarm.Separation(tt.self, tt.siblings, tt.radius))
		})
	}
}

func TestSeparationIsSymmetric(t *testing.T) {
	a, b := geom.V(-3, 7), geom.V(5, 1)
	pair := []geom.Vec2{a, b}

	pushA := swarm.Separation(a, pair, 20)
	pushB := swarm.Separation(b, pair, 20)

	assert.Equal(t, pushA.Len(), pushB.Len())
	assert.Equal(t, pushA, pushB.Scale(-1))
}

func TestSeparationSystem(t *testing.T) {
	settings := config.Default().Swarm
	settings.SeparationRadius = 20
	settings.SeparationStrength = 10
	settings.MaxSpeed = 0

	storage := newStorage()
	group := spawnGroup(storage, geom.V(500, 500))
	a := spawnBot(storage, group, geom.V(0, 0), geom.Vec2{})
	b := spawnBot(storage, group, geom.V(10, 0), geom.Vec2{})
	far := spawnBot(storage, group, geom.V(100, 100), geom.V(1, 1))

	// same local position as a, different group
	other := spawnBot(storage, spawnGroup(storage, geom.V(0, 0)), geom.V(1, 0), geom.Vec2{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&swarm.SeparationSystem{Settings: &settings})
	scheduler.Once(0.5)

	assert.Equal(t, geom.V(-5, 0), bot(storage, a).Velocity)
	assert.Equal(t, geom.V(5, 0), bot(storage, b).Velocity)
	assert.Equal(t, geom.V(1, 1), bot(storage, far).Velocity, "no neighbours in range")
	assert.Equal(t, geom.Vec2{}, bot(storage, other).Velocity, "groups do not interact")

	assert.Equal(t, geom.V(0, 0), position(storage, a), "separation never moves bots")
}

func TestSeparationRespectsMaxSpeed(t *testing.T) {
	settings := config.Default().Swarm
	settings.SeparationRadius = 20
	settings.SeparationStrength = 1000
	settings.MaxSpeed = 30

	storage := newStorage()
	group := spawnGroup(storage, geom.V(0, 0))
	a := spawnBot(storage, group, geom.V(0, 0), geom.V(0, 25))
	spawnBot(storage, group, geom.V(0, 5), geom.Vec2{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&swarm.SeparationSystem{Settings: &settings})
	scheduler.Once(1)

	assert.InDelta(t, 30, bot(storage, a).Velocity.Len(), 1e-4)
}

func TestSeparationSkipsOrphans(t *testing.T) {
	settings := config.Default().Swarm
	storage := newStorage()
	group := spawnGroup(storage, geom.V(0, 0))
	a := spawnBot(storage, group, geom.V(0, 0), geom.Vec2{})
	b := spawnBot(storage, group, geom.V(1, 0), geom.Vec2{})
	storage.Delete(group)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&swarm.SeparationSystem{Settings: &settings})
	scheduler.Once(1)

	assert.Equal(t, geom.Vec2{}, bot(storage, a).Velocity)
	assert.Equal(t, geom.Vec2{}, bot(storage, b).Velocity)
}

func TestSpawnGroups(t *testing.T) {
	settings := config.Default().Swarm
	settings.Groups = 3
	settings.BotsPerGroup = 10
	settings.GroupSpacing = 100
	settings.SpawnRadius = 15
	settings.InitialSpeed = 4

	storage := newStorage()
	groups := swarm.SpawnGroups(storage, &settings, rand.New(rand.NewPCG(3, 4)), nil)
	require.Len(t, groups, 3)
	assert.Equal(t, geom.V(-100, 0), position(storage, groups[0]))
	assert.Equal(t, geom.V(0, 0), position(storage, groups[1]))
	assert.Equal(t, geom.V(100, 0), position(storage, groups[2]))
	assert.Equal(t, "group-2", ecs.ReadComponent[swarm.NanobotGroup](storage, groups[1]).Name)

	perGroup := map[ecs.EntityId]int{}
	view := ecs.NewView[struct {
		*swarm.Nanobot
		*spatial.Transform
		*spatial.Parent
	}](storage)
	for item := range view.Values() {
		parent, ok := storage.ResolveEntityRef(item.Parent.Ref)
		require.True(t, ok)
		perGroup[parent]++
		assert.LessOrEqual(t, item.Transform.Translation.Len(), 15.001)
		assert.InDelta(t, 4, item.Velocity.Len(), 1e-4)
	}
	for _, group := range groups {
		assert.Equal(t, 10, perGroup[group])
	}
}

func TestSpawnGroupsDecoratesPerGroup(t *testing.T) {
	settings := config.Default().Swarm
	settings.Groups = 2
	settings.BotsPerGroup = 3

	storage := newStorage()
	var seen []int
	swarm.SpawnGroups(storage, &settings, nil, func(index int) swarm.Decorator {
		seen = append(seen, index)
		return func(components []any) []any {
			return append(components, swarm.NanobotGroup{Name: "tagged"})
		}
	})

	assert.Equal(t, []int{0, 1}, seen)
	tagged := 0
	view := ecs.NewView[struct {
		*swarm.Nanobot
		*swarm.NanobotGroup
	}](storage)
	for range view.Values() {
		tagged++
	}
	assert.Equal(t, 6, tagged)
}
