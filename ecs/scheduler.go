package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats summarizes scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats holds execution timings for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// storageBinder is implemented by Query and Singleton fields.
type storageBinder interface {
	Init(storage *Storage)
}

// queryExecutor is implemented by Query fields.
type queryExecutor interface {
	Execute()
}

type scheduledSystem struct {
	system  System
	queries []queryExecutor
	stats   SystemStats
}

// Scheduler runs its systems in registration order, once per frame.
type Scheduler struct {
	storage *Storage
	systems []*scheduledSystem
}

// NewScheduler creates a scheduler for storage
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Storage returns the storage the scheduler's systems operate on
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register appends system to the pipeline and binds its exported Query and
// Singleton fields to the scheduler's storage.
func (s *Scheduler) Register(system System) {
	entry := &scheduledSystem{
		system: system,
		stats: SystemStats{
			Name:        systemName(system),
			MinDuration: time.Duration(1<<63 - 1),
		},
	}

	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	if value.Kind() == reflect.Struct {
		for i := 0; i < value.NumField(); i++ {
			field := value.Field(i)
			if !field.CanSet() || !field.CanAddr() {
				continue
			}

			addr := field.Addr().Interface()
			if binder, ok := addr.(storageBinder); ok {
				binder.Init(s.storage)
			}
			if query, ok := addr.(queryExecutor); ok {
				entry.queries = append(entry.queries, query)
			}
		}
	}

	s.systems = append(s.systems, entry)
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Once runs every system with the given delta time (seconds), then flushes the
// commands they queued.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.storage)

	for _, entry := range s.systems {
		start := time.Now()
		for _, query := range entry.queries {
			query.Execute()
		}
		entry.system.Execute(frame)
		entry.record(time.Since(start))
	}

	frame.Commands.Flush(s.storage)
}

func (e *scheduledSystem) record(d time.Duration) {
	e.stats.ExecutionCount++
	e.stats.LastDuration = d
	e.stats.TotalDuration += d
	e.stats.MinDuration = min(e.stats.MinDuration, d)
	e.stats.MaxDuration = max(e.stats.MaxDuration, d)
}

// Run calls Once at the given interval until ctx is cancelled, passing the wall
// time elapsed since the previous frame.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

// GetStats returns a snapshot of per-system execution statistics.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, entry := range s.systems {
		snapshot := entry.stats
		if snapshot.ExecutionCount > 0 {
			snapshot.AvgDuration = snapshot.TotalDuration / time.Duration(snapshot.ExecutionCount)
		}
		stats.Systems[i] = snapshot
		stats.TotalExecutions += snapshot.ExecutionCount
	}
	return stats
}
