package ecs

import (
	"reflect"
	"unsafe"
)

type singletonEntry struct {
	typ   reflect.Type
	value reflect.Value
}

func (e *singletonEntry) pointer() unsafe.Pointer {
	return e.value.UnsafePointer()
}

// AddSingleton stores value as the world-wide instance of its type.
// An existing instance is overwritten in place, so cached pointers stay valid.
// Singletons do not need to be registered.
func (s *Storage) AddSingleton(value any) {
	t := componentType(value)
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	if entry, ok := s.singletons[t]; ok {
		entry.value.Elem().Set(v)
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	s.singletons[t] = &singletonEntry{typ: t, value: ptr}
}

// ReadSingleton points *out at the stored singleton of type T.
// out must be a **T; returns false if no such singleton exists.
func (s *Storage) ReadSingleton(out any) bool {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Pointer {
		panic("ReadSingleton expects a pointer to a pointer")
	}

	entry, ok := s.singletons[target.Elem().Type().Elem()]
	if !ok {
		return false
	}
	target.Elem().Set(entry.value)
	return true
}

// RemoveSingleton drops the singleton of type t
func (s *Storage) RemoveSingleton(t reflect.Type) {
	delete(s.singletons, t)
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// Singleton gives a system typed access to one global value that does not belong
// to an entity, such as settings, input snapshots or per-frame scratch data.
type Singleton[T any] struct {
	storage *Storage
	ptr     *T
}

// NewSingleton returns an accessor for T, creating the singleton from the
// initializer (or the zero value) if it does not exist yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	s := &Singleton[T]{}
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(&value)
	}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage. Called by the Scheduler during registration.
// A missing singleton is created with its zero value.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	t := reflect.TypeFor[T]()
	if storage.getSingletonEntry(t) == nil {
		var zero T
		storage.AddSingleton(&zero)
	}
	s.ptr = (*T)(storage.getSingletonEntry(t).pointer())
}

// Get returns the singleton value
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil && s.storage != nil {
		if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
			s.ptr = (*T)(entry.pointer())
		}
	}
	return s.ptr
}
