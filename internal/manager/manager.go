// Package manager owns the task lifecycle on top of the store.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

// maxIDAttempts bounds the checked insert in CreateTask.
const maxIDAttempts = 5

var ErrIDCollision = errors.New("could not generate an unused task id")

// Store is the subset of *store.Store the manager needs.
type Store interface {
	Save(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, task model.Task) (model.Task, error)
	GetOne(ctx context.Context, id string) (model.Task, error)
	ListAll(ctx context.Context) ([]model.Task, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDFunc replaces the id generator.
func WithIDFunc(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

type Manager struct {
	store  Store
	newID  func() string
	logger *log.Logger
}

func New(s Store, opts ...Option) *Manager {
	m := &Manager{
		store:  s,
		newID:  uuid.NewString,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GenerateID returns a fresh id. Uniqueness is checked by CreateTask.
func (m *Manager) GenerateID() string {
	return m.newID()
}

func (m *Manager) ListTasks(ctx context.Context) ([]model.Task, error) {
	return m.store.ListAll(ctx)
}

// CreateTask stores a new pending task with a generated id.
func (m *Manager) CreateTask(ctx context.Context, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, model.ErrEmptyTitle
	}
	id, err := m.unusedID(ctx)
	if err != nil {
		return model.Task{}, err
	}
	task, err := model.NewTask(id, title)
	if err != nil {
		return model.Task{}, err
	}
	saved, err := m.store.Save(ctx, task)
	if err != nil {
		return model.Task{}, err
	}
	m.logger.Info("task created", "id", saved.ID, "title", saved.Title)
	return saved, nil
}

// RestoreTask saves a previously removed task again, keeping its id.
func (m *Manager) RestoreTask(ctx context.Context, task model.Task) (model.Task, error) {
	if _, err := m.store.GetOne(ctx, task.ID); err == nil {
		return model.Task{}, fmt.Errorf("restore %s: %w", task.ID, ErrIDCollision)
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.Task{}, err
	}
	return m.store.Save(ctx, task)
}

func (m *Manager) RemoveTask(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Info("task removed", "id", id)
	return nil
}

// ToggleTask flips the done flag of the task with id and persists it.
func (m *Manager) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	task, err := m.store.GetOne(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	updated, err := m.store.Update(ctx, task.Toggled())
	if err != nil {
		return model.Task{}, err
	}
	m.logger.Info("task toggled", "id", updated.ID, "done", updated.Done)
	return updated, nil
}

// Stats counts done and pending tasks.
func (m *Manager) Stats(ctx context.Context) (done, pending int, err error) {
	tasks, err := m.store.ListAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, t := range tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return done, pending, nil
}

func (m *Manager) unusedID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := m.newID()
		if strings.TrimSpace(id) == "" {
			continue
		}
		_, err := m.store.GetOne(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
		m.logger.Debug("generated id already in use", "id", id)
	}
	return "", ErrIDCollision
}
