// Package store fronts a task persistence backend with a read cache.
//
// The backend is the source of truth. The cache only ever holds the result
// of the last full listing and is dropped on every mutation, so it cannot
// drift from what is persisted.
package store

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/model"
)

// Backend is the CRUD contract a persistence adapter provides.
type Backend interface {
	Save(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	// Put replaces an existing record in one step.
	Put(ctx context.Context, task model.Task) (model.Task, error)
}

// Store is the task store used by the manager.
type Store struct {
	backend Backend
	logger  *log.Logger

	mu     sync.Mutex
	cache  []model.Task
	cached bool
}

// New returns a Store over backend. A nil logger discards output.
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{backend: backend, logger: logger}
}

// Save persists task and returns it.
func (s *Store) Save(ctx context.Context, task model.Task) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	saved, err := s.backend.Save(ctx, task)
	s.Invalidate()
	if err != nil {
		return model.Task{}, fmt.Errorf("save %s: %w", task.ID, err)
	}
	s.logger.Debug("task saved", "id", saved.ID, "done", saved.Done)
	return saved, nil
}

// Delete removes the task with id. Both the current listing and the
// backend must know the id; otherwise the result is a *NotFoundError and
// nothing changes.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok, err := s.find(ctx, id); err != nil {
		return err
	} else if !ok {
		return &NotFoundError{ID: id}
	}
	err := s.backend.Delete(ctx, id)
	s.Invalidate()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	s.logger.Debug("task deleted", "id", id)
	return nil
}

// Update replaces the stored record that has task.ID.
func (s *Store) Update(ctx context.Context, task model.Task) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	if _, ok, err := s.find(ctx, task.ID); err != nil {
		return model.Task{}, err
	} else if !ok {
		return model.Task{}, &NotFoundError{ID: task.ID}
	}
	updated, err := s.backend.Put(ctx, task)
	s.Invalidate()
	if err != nil {
		return model.Task{}, fmt.Errorf("update %s: %w", task.ID, err)
	}
	s.logger.Debug("task updated", "id", updated.ID, "done", updated.Done)
	return updated, nil
}

// GetOne looks up a single task by id.
func (s *Store) GetOne(ctx context.Context, id string) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	return s.backend.Get(ctx, id)
}

// ListAll returns every stored task in persisted order.
// The returned slice is a copy.
func (s *Store) ListAll(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cached {
		tasks, err := s.backend.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		s.cache = tasks
		s.cached = true
	}
	out := make([]model.Task, len(s.cache))
	copy(out, s.cache)
	return out, nil
}

// Invalidate drops the cached listing.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.cached = false
	s.mu.Unlock()
}

func (s *Store) find(ctx context.Context, id string) (model.Task, bool, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return model.Task{}, false, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, true, nil
		}
	}
	return model.Task{}, false, nil
}
