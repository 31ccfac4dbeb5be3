// Package resource implements the per-entity-type cache + durable-store
// + optimistic-mutation abstraction shared by the task, expense,
// feedback, and notification stores.
package resource

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
)

// writeTimeout bounds a single durable write issued by the writer.
const writeTimeout = 30 * time.Second

// Config wires one entity type into the generic store.
type Config[T any] struct {
	// Name is the collection name, used for keys and error messages.
	Name string

	// Collection is the durable backing selected at construction:
	// remote table or local fallback.
	Collection backend.Collection

	// Actor returns the current acting identity, or nil when
	// unauthenticated. Supplied by the session manager.
	Actor func() *model.Identity

	// Seed produces the canonical starting dataset, applied once when
	// no durable copy exists yet. Nil disables seeding.
	Seed func() []T

	// ID extracts the entity id.
	ID func(T) string

	// Validate checks a decoded durable record. A non-nil result marks
	// the record malformed and the whole read fails as a storage
	// failure instead of propagating partial fields into the cache.
	Validate func(T) error

	// OnCreate stamps system fields (id, creator, timestamps) on a
	// freshly created entity.
	OnCreate func(e *T, actor model.Identity, now time.Time)

	// OnUpdate re-stamps the modification timestamp.
	OnUpdate func(e *T, now time.Time)
}

// Store keeps an in-memory ordered collection mirroring the durable
// copy. Mutations apply to the cache synchronously in issue order and
// are written through by a single background writer, so the cache is
// always last-applied-wins regardless of durable-write completion.
type Store[T any] struct {
	cfg Config[T]

	mu     sync.Mutex
	cache  []T
	loaded bool
	closed bool

	writes chan func(context.Context) error
	wg     sync.WaitGroup
}

// NewStore creates a store and starts its writer goroutine.
func NewStore[T any](cfg Config[T]) *Store[T] {
	s := &Store[T]{
		cfg:    cfg,
		writes: make(chan func(context.Context) error, 64),
	}
	s.wg.Add(1)
	go s.writer()
	return s
}

// Close stops the writer after draining pending writes.
func (s *Store[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.writes)
	s.wg.Wait()
}

// Flush blocks until every write issued so far has been applied.
func (s *Store[T]) Flush() {
	done := make(chan struct{})
	if !s.enqueue(func(context.Context) error {
		close(done)
		return nil
	}) {
		return
	}
	<-done
}

// List returns the entities matching pred, in collection order. A nil
// pred matches everything. The seed step runs on first use if no
// durable copy exists for the owning scope.
func (s *Store[T]) List(ctx context.Context, pred func(T) bool) ([]T, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0, len(s.cache))
	for _, e := range s.cache {
		if pred == nil || pred(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get returns the entity with the given id.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := s.ensureLoaded(ctx); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.cache {
		if s.cfg.ID(e) == id {
			return e, nil
		}
	}
	return zero, &NotFoundError{Collection: s.cfg.Name, ID: id}
}

// Create stamps system fields on the entity, prepends it to the cache
// (newest first), and writes through in the background. The cache
// update is visible to readers before the durable write completes.
func (s *Store[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T

	actor := s.cfg.Actor()
	if actor == nil {
		return zero, ErrNotAuthenticated
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return zero, err
	}

	s.cfg.OnCreate(&entity, *actor, time.Now().UTC())

	rec, err := json.Marshal(entity)
	if err != nil {
		return zero, &StorageError{Op: "encode", Err: err}
	}

	s.mu.Lock()
	s.cache = append([]T{entity}, s.cache...)
	s.mu.Unlock()

	s.enqueue(func(ctx context.Context) error {
		return s.cfg.Collection.Insert(ctx, rec)
	})
	return entity, nil
}

// Update applies a merge function to the entity with the given id,
// re-stamps the modification time, and mirrors the merge into the cache
// at the same position.
func (s *Store[T]) Update(ctx context.Context, id string, apply func(*T)) (T, error) {
	var zero T
	if err := s.ensureLoaded(ctx); err != nil {
		return zero, err
	}

	s.mu.Lock()
	idx := -1
	for i := range s.cache {
		if s.cfg.ID(s.cache[i]) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return zero, &NotFoundError{Collection: s.cfg.Name, ID: id}
	}

	entity := s.cache[idx]
	apply(&entity)
	s.cfg.OnUpdate(&entity, time.Now().UTC())
	s.cache[idx] = entity
	s.mu.Unlock()

	rec, err := json.Marshal(entity)
	if err != nil {
		return zero, &StorageError{Op: "encode", Err: err}
	}

	s.enqueue(func(ctx context.Context) error {
		return s.cfg.Collection.Update(ctx, id, rec)
	})
	return entity, nil
}

// Delete removes the entity with the given id from the cache and the
// durable collection.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	idx := -1
	for i := range s.cache {
		if s.cfg.ID(s.cache[i]) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &NotFoundError{Collection: s.cfg.Name, ID: id}
	}
	s.cache = append(s.cache[:idx:idx], s.cache[idx+1:]...)
	s.mu.Unlock()

	s.enqueue(func(ctx context.Context) error {
		return s.cfg.Collection.Delete(ctx, id)
	})
	return nil
}

// ensureLoaded populates the cache from the durable collection on first
// use, seeding it when no durable copy exists for this scope.
func (s *Store[T]) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	records, exists, err := s.cfg.Collection.List(ctx)
	if err != nil {
		return &StorageError{Op: "read", Err: err}
	}

	var entities []T
	if !exists && s.cfg.Seed != nil {
		entities = s.cfg.Seed()
		if err := s.writeSeed(ctx, entities); err != nil {
			return err
		}
	} else {
		entities = make([]T, 0, len(records))
		for _, rec := range records {
			var e T
			if err := json.Unmarshal(rec, &e); err != nil {
				return &StorageError{Op: "decode", Err: err}
			}
			if s.cfg.Validate != nil {
				if err := s.cfg.Validate(e); err != nil {
					return &StorageError{Op: "decode", Err: err}
				}
			}
			entities = append(entities, e)
		}
	}

	s.mu.Lock()
	if !s.loaded {
		s.cache = entities
		s.loaded = true
	}
	s.mu.Unlock()
	return nil
}

// writeSeed persists the canonical dataset synchronously so the scope
// is marked as seeded before any reader observes it.
func (s *Store[T]) writeSeed(ctx context.Context, entities []T) error {
	records := make([]backend.Record, 0, len(entities))
	for _, e := range entities {
		rec, err := json.Marshal(e)
		if err != nil {
			return &StorageError{Op: "encode", Err: err}
		}
		records = append(records, rec)
	}
	if err := s.cfg.Collection.Replace(ctx, records); err != nil {
		return &StorageError{Op: "seed", Err: err}
	}
	return nil
}

// enqueue hands a durable write to the writer goroutine. Returns false
// when the store is already closed.
func (s *Store[T]) enqueue(op func(context.Context) error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.writes <- op
	return true
}

// writer applies durable writes in issue order. A failed write leaves
// the cache as the source of truth and is logged; the UI keeps the
// optimistic state.
func (s *Store[T]) writer() {
	defer s.wg.Done()
	for op := range s.writes {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := op(ctx); err != nil {
			slog.Error("durable write failed",
				"collection", s.cfg.Name, "error", err)
		}
		cancel()
	}
}
