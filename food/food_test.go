package food_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/food"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type marker struct{}

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	spatial.RegisterComponents(registry)
	food.RegisterComponents(registry)
	ecs.RegisterComponent[marker](registry)
	return ecs.NewStorage(registry)
}

func foodCount(storage *ecs.Storage) int {
	n := 0
	for range ecs.NewView[struct{ *food.Food }](storage).Values() {
		n++
	}
	return n
}

func foodPositions(storage *ecs.Storage) []geom.Vec2 {
	var out []geom.Vec2
	view := ecs.NewView[struct {
		*food.Food
		*spatial.Transform
	}](storage)
	for item := range view.Values() {
		out = append(out, item.Transform.Translation)
	}
	return out
}

func settings(limit int, timeout float64) *config.Food {
	s := config.Default().Food
	s.Cap = limit
	s.Timeout = config.Seconds(timeout)
	return &s
}

func TestSpawnStopsAtCap(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	spawner := &food.SpawnSystem{Settings: settings(3, 60)}
	scheduler.Register(spawner)

	for frame := 1; frame <= 10; frame++ {
		scheduler.Once(0.016)
		require.LessOrEqual(t, foodCount(storage), 3)
		if frame <= 3 {
			assert.Equal(t, frame, foodCount(storage), "one piece per frame under the cap")
		}
	}
	assert.Equal(t, 3, foodCount(storage))
	assert.Equal(t, 3, spawner.Spawned())
}

func TestZeroCapNeverSpawns(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&food.SpawnSystem{Settings: settings(0, 1)})

	for range 5 {
		scheduler.Once(0.1)
	}
	assert.Zero(t, foodCount(storage))
}

func TestSpawnWithinBounds(t *testing.T) {
	s := settings(400, 60)
	s.Width, s.Height = 100, 20

	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&food.SpawnSystem{Settings: s, Rand: rand.New(rand.NewPCG(7, 11))})
	for range 400 {
		scheduler.Once(0.01)
	}

	positions := foodPositions(storage)
	require.Len(t, positions, 400)
	for _, p := range positions {
		assert.GreaterOrEqual(t, p.X, -100.0)
		assert.Less(t, p.X, 100.0)
		assert.GreaterOrEqual(t, p.Y, -20.0)
		assert.Less(t, p.Y, 20.0)
	}
}

func TestSpawnIsDeterministicForASeed(t *testing.T) {
	run := func() []geom.Vec2 {
		storage := newStorage()
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&food.SpawnSystem{Settings: settings(5, 60), Rand: rand.New(rand.NewPCG(1, 2))})
		for range 5 {
			scheduler.Once(0.01)
		}
		return foodPositions(storage)
	}

	assert.Equal(t, run(), run())
}

func TestFoodExpiresAfterTimeout(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&food.DecaySystem{})

	local, global := spatial.At(geom.V(1, 1))
	id := storage.Spawn(food.Food{Countdown: food.NewCountdown(settings(1, 2))}, local, global)

	for range 3 {
		scheduler.Once(0.5)
		require.True(t, storage.Alive(id))
	}
	assert.InDelta(t, 1.5, ecs.ReadComponent[food.Food](storage, id).Countdown.Elapsed().Seconds(), 1e-9)

	scheduler.Once(0.5)
	assert.False(t, storage.Alive(id))
}

func TestFoodExpiresAtSixtyTicksPerSecond(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&food.DecaySystem{})

	local, global := spatial.At(geom.V(0, 0))
	id := storage.Spawn(food.Food{Countdown: food.NewCountdown(settings(1, 2))}, local, global)

	for range 119 {
		scheduler.Once(1.0 / 60)
	}
	require.True(t, storage.Alive(id), "119 frames are short of the timeout")

	scheduler.Once(1.0 / 60)
	assert.False(t, storage.Alive(id), "120 frames at 60 TPS reach the 2s timeout")
}

func TestSpawnAndDecayTogether(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&food.SpawnSystem{Settings: settings(2, 1)})
	scheduler.Register(&food.DecaySystem{})

	// frames 1 and 2 fill the cap; the first piece has aged 0.5s by frame 2
	scheduler.Once(0.5)
	scheduler.Once(0.5)
	assert.Equal(t, 2, foodCount(storage))

	// the first piece finishes on its second tick, freeing a slot for the next frame
	scheduler.Once(0.5)
	assert.Equal(t, 1, foodCount(storage))
	scheduler.Once(0.5)
	assert.LessOrEqual(t, foodCount(storage), 2)
}

func TestDecorateAddsComponents(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&food.SpawnSystem{
		Settings: settings(1, 60),
		Decorate: func(components []any) []any {
			return append(components, marker{})
		},
	})
	scheduler.Once(0.1)

	view := ecs.NewView[struct {
		*food.Food
		*marker
	}](storage)
	n := 0
	for range view.Values() {
		n++
	}
	assert.Equal(t, 1, n)
}
