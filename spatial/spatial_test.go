package spatial_test

import (
	"testing"

	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	spatial.RegisterComponents(registry)
	return ecs.NewStorage(registry)
}

func spawnAt(storage *ecs.Storage, p geom.Vec2, extra ...any) ecs.EntityId {
	local, global := spatial.At(p)
	return storage.Spawn(append([]any{local, global}, extra...)...)
}

func global(storage *ecs.Storage, id ecs.EntityId) geom.Vec2 {
	g := ecs.ReadComponent[spatial.GlobalTransform](storage, id)
	if g == nil {
		return geom.Vec2{}
	}
	return g.Translation
}

func TestPropagateComposesParentAndChild(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&spatial.PropagateSystem{})

	group := spawnAt(storage, geom.V(100, 50))
	child := spawnAt(storage, geom.V(5, -5), spatial.ChildOf(storage, group))
	grandchild := spawnAt(storage, geom.V(1, 1), spatial.ChildOf(storage, child))
	loose := spawnAt(storage, geom.V(7, 7))

	scheduler.Once(0)

	assert.Equal(t, geom.V(100, 50), global(storage, group))
	assert.Equal(t, geom.V(105, 45), global(storage, child))
	assert.Equal(t, geom.V(106, 46), global(storage, grandchild))
	assert.Equal(t, geom.V(7, 7), global(storage, loose))

	ecs.ReadComponent[spatial.Transform](storage, group).Translation = geom.V(0, 0)
	scheduler.Once(0)
	assert.Equal(t, geom.V(5, -5), global(storage, child))
}

func TestPropagateWithDeletedParent(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&spatial.PropagateSystem{})

	group := spawnAt(storage, geom.V(100, 100))
	child := spawnAt(storage, geom.V(3, 4), spatial.ChildOf(storage, group))

	storage.Delete(group)
	scheduler.Once(0)

	assert.Equal(t, geom.V(3, 4), global(storage, child))
}

func TestChildOfFollowsParentMoves(t *testing.T) {
	type marker struct{}

	registry := ecs.NewComponentRegistry()
	spatial.RegisterComponents(registry)
	ecs.RegisterComponent[marker](registry)
	storage := ecs.NewStorage(registry)

	group := spawnAt(storage, geom.V(10, 0))
	child := spawnAt(storage, geom.V(1, 0), spatial.ChildOf(storage, group))

	storage.AddComponent(group, marker{})

	require.Equal(t, geom.V(11, 0), spatial.WorldTranslation(storage, child))
}

func TestWorldTranslationStopsOnCycle(t *testing.T) {
	storage := newStorage()
	a := spawnAt(storage, geom.V(1, 0))
	b := spawnAt(storage, geom.V(1, 0), spatial.ChildOf(storage, a))
	a = storage.AddComponent(a, spatial.ChildOf(storage, b))

	assert.NotPanics(t, func() { spatial.WorldTranslation(storage, a) })
}
