// Package spatial provides entity positions and parent/child composition.
//
// Every positioned entity carries a local Transform and a GlobalTransform. An
// entity with a Parent is positioned relative to its parent; PropagateSystem
// recomputes GlobalTransform from the chain of local transforms each frame.
package spatial

import (
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
)

// maxDepth bounds parent chains so a cycle cannot hang the frame.
const maxDepth = 32

// Transform is the entity's translation relative to its parent (or the world).
type Transform struct {
	Translation geom.Vec2
}

// GlobalTransform is the entity's world translation as of the last propagation.
type GlobalTransform struct {
	Translation geom.Vec2
}

// Parent links a child to the entity it is positioned relative to.
type Parent struct {
	Ref *ecs.EntityRef
}

// RegisterComponents registers the transform and parent components.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[GlobalTransform](registry)
	ecs.RegisterComponent[Parent](registry)
}

// At returns the transform pair for an entity placed at local translation p.
// Both start equal; propagation fixes up the global one for children.
func At(p geom.Vec2) (Transform, GlobalTransform) {
	return Transform{Translation: p}, GlobalTransform{Translation: p}
}

// ChildOf returns a Parent component pointing at parent.
func ChildOf(storage *ecs.Storage, parent ecs.EntityId) Parent {
	return Parent{Ref: storage.CreateEntityRef(parent)}
}

// WorldTranslation sums local translations from id up through its ancestors.
// A parent that no longer exists ends the chain.
func WorldTranslation(storage *ecs.Storage, id ecs.EntityId) geom.Vec2 {
	var sum geom.Vec2
	for depth := 0; depth < maxDepth; depth++ {
		local := ecs.ReadComponent[Transform](storage, id)
		if local == nil {
			break
		}
		sum = sum.Add(local.Translation)

		parent := ecs.ReadComponent[Parent](storage, id)
		if parent == nil {
			break
		}
		next, ok := storage.ResolveEntityRef(parent.Ref)
		if !ok {
			break
		}
		id = next
	}
	return sum
}

// PropagateSystem writes GlobalTransform for every positioned entity.
type PropagateSystem struct {
	Nodes ecs.Query[struct {
		ecs.EntityId
		*Transform
		*GlobalTransform
		Parent *Parent `ecs:"optional"`
	}]
}

func (s *PropagateSystem) Execute(frame *ecs.UpdateFrame) {
	for node := range s.Nodes.Values() {
		if node.Parent == nil {
			node.GlobalTransform.Translation = node.Transform.Translation
			continue
		}
		node.GlobalTransform.Translation = WorldTranslation(frame.Storage, node.EntityId)
	}
}
