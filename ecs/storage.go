package ecs

import (
	"hash/fnv"
	"iter"
	"maps"
	"reflect"
	"slices"
	"strings"
	"weak"
)

// Storage owns every archetype and singleton of one ECS world.
type Storage struct {
	registry   *ComponentRegistry
	archetypes map[uint32]*Archetype
	singletons map[reflect.Type]*singletonEntry
}

// NewStorage creates an empty world whose components are described by registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: make(map[uint32]*Archetype),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry this storage was built with
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Archetypes iterates over all archetypes in ascending id order
func (s *Storage) Archetypes() iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, id := range slices.Sorted(maps.Keys(s.archetypes)) {
			if !yield(s.archetypes[id]) {
				return
			}
		}
	}
}

// GetArchetype returns the archetype for exactly the given component values, if any
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types := componentTypes(components)
	return s.archetypes[archetypeHash(types)]
}

// GetArchetypeById returns the archetype with the given id, or nil
func (s *Storage) GetArchetypeById(id uint32) *Archetype {
	return s.archetypes[id]
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	archetype := s.archetypeFor(componentTypes(components))
	return NewEntityId(archetype.id, archetype.spawn(components))
}

// Delete removes the entity and invalidates references to it
func (s *Storage) Delete(id EntityId) {
	if archetype, ok := s.archetypes[id.ArchetypeId()]; ok {
		archetype.delete(id.Index())
	}
}

// Alive reports whether id names a live entity
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.isAlive(id.Index())
}

// AddComponent moves the entity to the archetype that also holds component.
// Adding a type the entity already has overwrites the value in place.
// The returned id replaces the old one; EntityRefs follow the move.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	old, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !old.isAlive(id.Index()) {
		return 0
	}

	compType := componentType(component)
	if i := old.columnIndex(compType); i >= 0 {
		old.columns[i].Set(int(id.Index()), component)
		return id
	}

	types := append(slices.Clone(old.types), compType)
	sortTypes(types)
	return s.move(id, old, types, component)
}

// RemoveComponent moves the entity to the archetype without compType.
// Removing the last component deletes the entity and returns 0.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	old, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !old.isAlive(id.Index()) {
		return 0
	}
	if !old.HasComponent(compType) {
		return id
	}

	types := slices.DeleteFunc(slices.Clone(old.types), func(t reflect.Type) bool {
		return t == compType
	})
	if len(types) == 0 {
		old.delete(id.Index())
		return 0
	}
	return s.move(id, old, types, nil)
}

func (s *Storage) move(id EntityId, old *Archetype, types []reflect.Type, extra any) EntityId {
	target := s.archetypeFor(types)

	components := make([]any, 0, len(types))
	for _, typ := range types {
		if extra != nil && typ == componentType(extra) {
			components = append(components, extra)
			continue
		}
		components = append(components, old.get(id.Index(), typ))
	}

	newId := NewEntityId(target.id, target.spawn(components))

	wp, hasRef := old.refs.Get(id)
	if hasRef {
		old.refs.Del(id)
		if ref := wp.Value(); ref != nil {
			ref.Id = newId
			ref.Archetype = target
			target.refs.Put(newId, wp)
		}
	}

	old.delete(id.Index())
	return newId
}

// GetComponent returns a pointer to the entity's component of compType, or nil
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return archetype.get(id.Index(), compType)
}

// HasComponent reports whether the live entity has a compType component
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.isAlive(id.Index()) && archetype.HasComponent(compType)
}

// CreateEntityRef returns the shared reference for id, creating it on first use.
// Returns nil if the entity does not exist.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !archetype.isAlive(id.Index()) {
		return nil
	}

	if wp, ok := archetype.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			return ref
		}
		archetype.refs.Del(id)
	}

	ref := &EntityRef{Id: id, Archetype: archetype}
	archetype.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the current id of the referenced entity
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if !ref.Valid() {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches ref from its entity without deleting the entity
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if !ref.Valid() {
		return false
	}
	if archetype, ok := s.archetypes[ref.Id.ArchetypeId()]; ok {
		archetype.refs.Del(ref.Id)
	}
	ref.invalidate()
	return true
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := archetypeHash(types)
	if archetype, ok := s.archetypes[id]; ok {
		if !slices.Equal(archetype.types, types) {
			panic("archetype hash collision between " + typeNames(archetype.types) + " and " + typeNames(types))
		}
		return archetype
	}

	archetype := newArchetype(id, types, s.registry)
	s.archetypes[id] = archetype
	return archetype
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// componentTypes returns the sorted component types of the given values.
// Values may be passed directly or by pointer; the pointee type is used.
func componentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(qualifiedName(a), qualifiedName(b))
	})
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func typeNames(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, ",") + "]"
}

// archetypeHash is FNV-1a over the qualified names of the sorted types, so
// archetype ids are stable across runs.
func archetypeHash(types []reflect.Type) uint32 {
	h := fnv.New32a()
	for _, t := range types {
		h.Write([]byte(qualifiedName(t)))
		h.Write([]byte{0})
	}
	return h.Sum32()
}

// ComponentReader is implemented by anything that can look up components by entity
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T component, or nil if it has none
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
