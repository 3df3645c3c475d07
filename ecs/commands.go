package ecs

import "reflect"

type commandKind uint8

const (
	cmdSpawn commandKind = iota
	cmdDelete
	cmdAdd
	cmdRemove
	cmdDefer
)

type command struct {
	kind       commandKind
	entity     EntityId
	components []any
	compType   reflect.Type
	fn         func()
}

// Commands buffers structural changes made while systems run. They are applied
// in the order they were queued when the frame's buffer is flushed.
type Commands struct {
	queue []command
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues creation of an entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.queue = append(c.queue, command{kind: cmdSpawn, components: components})
}

// Delete queues removal of entity.
func (c *Commands) Delete(entity EntityId) {
	c.queue = append(c.queue, command{kind: cmdDelete, entity: entity})
}

// AddComponent queues adding component to entity.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.queue = append(c.queue, command{kind: cmdAdd, entity: entity, components: []any{component}})
}

// RemoveComponent queues removing the compType component from entity.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.queue = append(c.queue, command{kind: cmdRemove, entity: entity, compType: compType})
}

// Defer queues fn to run during the flush.
func (c *Commands) Defer(fn func()) {
	c.queue = append(c.queue, command{kind: cmdDefer, fn: fn})
}

// Len returns the number of queued commands
func (c *Commands) Len() int {
	return len(c.queue)
}

// Flush applies all queued commands to storage and empties the buffer.
// Commands that target an entity moved by an earlier command in the same flush
// follow it to its new id; commands on deleted entities are dropped.
func (c *Commands) Flush(storage *Storage) {
	// keyed by the id the command was queued with; 0 marks a deleted entity
	current := make(map[EntityId]EntityId)
	resolve := func(queued EntityId) EntityId {
		if id, ok := current[queued]; ok {
			return id
		}
		return queued
	}

	for _, cmd := range c.queue {
		switch cmd.kind {
		case cmdSpawn:
			storage.Spawn(cmd.components...)
		case cmdDelete:
			if id := resolve(cmd.entity); id != 0 {
				storage.Delete(id)
			}
			current[cmd.entity] = 0
		case cmdAdd:
			if id := resolve(cmd.entity); id != 0 {
				current[cmd.entity] = storage.AddComponent(id, cmd.components[0])
			}
		case cmdRemove:
			if id := resolve(cmd.entity); id != 0 {
				current[cmd.entity] = storage.RemoveComponent(id, cmd.compType)
			}
		case cmdDefer:
			cmd.fn()
		}
	}

	clear(c.queue)
	c.queue = c.queue[:0]
}
