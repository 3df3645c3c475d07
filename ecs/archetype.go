package ecs

import (
	"iter"
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

// Archetype holds every entity that has exactly the same set of component types.
// Slot indices are stable for the lifetime of an entity; freed slots are reused.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	alive   []bool
	free    []uint32
	count   int
	refs    *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
		refs:    intmap.New[EntityId, weak.Pointer[EntityRef]](64),
	}
	for i, typ := range types {
		a.columns[i] = registry.newColumn(typ)
	}
	return a
}

// ID returns the archetype's identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the component types of this archetype, sorted by name
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities
func (a *Archetype) Len() int {
	return a.count
}

// HasComponent reports whether this archetype stores compType
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

func (a *Archetype) columnIndex(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

func (a *Archetype) isAlive(index uint32) bool {
	return int(index) < len(a.alive) && a.alive[index]
}

// spawn stores components (which must cover every type of the archetype) in a
// fresh slot and returns the slot index.
func (a *Archetype) spawn(components []any) uint32 {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.alive))
		a.alive = append(a.alive, false)
	}

	for _, comp := range components {
		i := a.columnIndex(componentType(comp))
		if i < 0 {
			panic("component " + componentType(comp).String() + " does not belong to archetype")
		}
		a.columns[i].Set(int(index), comp)
	}

	a.alive[index] = true
	a.count++
	return index
}

func (a *Archetype) get(index uint32, compType reflect.Type) any {
	if !a.isAlive(index) {
		return nil
	}
	i := a.columnIndex(compType)
	if i < 0 {
		return nil
	}
	return a.columns[i].Get(int(index))
}

// delete frees the slot and invalidates any EntityRef pointing at it.
func (a *Archetype) delete(index uint32) {
	if !a.isAlive(index) {
		return
	}

	id := NewEntityId(a.id, index)
	if wp, ok := a.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			ref.invalidate()
		}
		a.refs.Del(id)
	}

	for _, col := range a.columns {
		col.Clear(int(index))
	}
	a.alive[index] = false
	a.free = append(a.free, index)
	a.count--
}

// Iter yields the id of every live entity in slot order
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for index, ok := range a.alive {
			if ok && !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
