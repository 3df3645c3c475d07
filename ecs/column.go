package ecs

import "reflect"

// ComponentRegistry maps component types to the column constructors used by
// archetypes. Each Storage owns its registry so independent worlds can coexist.
type ComponentRegistry struct {
	columns map[reflect.Type]func() column
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		columns: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent makes T usable as a component in storages built on r.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.columns[reflect.TypeFor[T]()] = func() column {
		return &blockColumn[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.columns[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	ctor, ok := r.columns[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return ctor()
}

// column is a type-erased array of component values addressed by slot index.
// Slot liveness is tracked by the owning archetype.
type column interface {
	Set(index int, value any)
	Get(index int) any
	Clear(index int)
}

const blockSize = 64

// blockColumn stores values in fixed-size heap blocks so that pointers handed
// out by Get stay valid while the column grows.
type blockColumn[T any] struct {
	blocks []*[blockSize]T
}

func (c *blockColumn[T]) Set(index int, value any) {
	var v T
	switch x := value.(type) {
	case T:
		v = x
	case *T:
		v = *x
	default:
		panic("component value " + reflect.TypeOf(value).String() + " does not match column " + reflect.TypeFor[T]().String())
	}

	for index/blockSize >= len(c.blocks) {
		c.blocks = append(c.blocks, new([blockSize]T))
	}
	c.blocks[index/blockSize][index%blockSize] = v
}

func (c *blockColumn[T]) Get(index int) any {
	p := c.ptr(index)
	if p == nil {
		return nil
	}
	return p
}

func (c *blockColumn[T]) ptr(index int) *T {
	if index < 0 || index/blockSize >= len(c.blocks) {
		return nil
	}
	return &c.blocks[index/blockSize][index%blockSize]
}

func (c *blockColumn[T]) Clear(index int) {
	if p := c.ptr(index); p != nil {
		var zero T
		*p = zero
	}
}
