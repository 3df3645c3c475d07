package ecs

import "iter"

// Query is a View whose matches are gathered once per frame.
// Systems declare Query fields; the Scheduler initializes them on Register and
// calls Execute right before the owning system runs.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	archetypes     []*Archetype
	archetypeCount int

	ids   []EntityId
	items []T
	ready bool
}

// NewQuery creates a query over storage
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage and drops any cached state.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.archetypes = nil
	q.archetypeCount = -1
	q.ready = false
}

// Execute collects the current matches.
func (q *Query[T]) Execute() {
	if len(q.storage.archetypes) != q.archetypeCount {
		q.archetypes = q.archetypes[:0]
		for archetype := range q.storage.Archetypes() {
			if q.view.matches(archetype) {
				q.archetypes = append(q.archetypes, archetype)
			}
		}
		q.archetypeCount = len(q.storage.archetypes)
	}

	q.ids = q.ids[:0]
	q.items = q.items[:0]
	for _, archetype := range q.archetypes {
		for id, item := range q.view.iterArchetype(archetype) {
			q.ids = append(q.ids, id)
			q.items = append(q.items, item)
		}
	}
	q.ready = true
}

// Len returns the number of matches found by the last Execute
func (q *Query[T]) Len() int {
	q.mustBeReady()
	return len(q.ids)
}

// Iter yields the matches found by the last Execute.
// Panics if Execute has never been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeReady()
	return func(yield func(EntityId, T) bool) {
		for i := range q.ids {
			if !yield(q.ids[i], q.items[i]) {
				return
			}
		}
	}
}

// Values yields only the view structs of the last Execute
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeReady()
	return func(yield func(T) bool) {
		for i := range q.items {
			if !yield(q.items[i]) {
				return
			}
		}
	}
}

func (q *Query[T]) mustBeReady() {
	if !q.ready {
		panic("Query used before Query.Execute()")
	}
}
