// Package localstore persists tasks into a key-value medium, one entry per
// task keyed by id.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/store/kv"
)

// Adapter implements store.Backend over a kv.Medium.
type Adapter struct {
	medium kv.Medium
	logger *log.Logger
}

var _ store.Backend = (*Adapter)(nil)

// New returns an Adapter writing into medium. A nil logger discards output.
func New(medium kv.Medium, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Adapter{medium: medium, logger: logger}
}

// Save writes task under its id, overwriting any existing entry.
func (a *Adapter) Save(ctx context.Context, task model.Task) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	b, err := json.Marshal(task)
	if err != nil {
		return model.Task{}, fmt.Errorf("json marshal: %w", err)
	}
	if err := a.medium.Set(task.ID, string(b)); err != nil {
		return model.Task{}, fmt.Errorf("set %s: %w", task.ID, err)
	}
	return task, nil
}

// Delete removes the entry for id.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, ok, err := a.medium.Get(id)
	if err != nil {
		return fmt.Errorf("get %s: %w", id, err)
	}
	if !ok {
		return &store.NotFoundError{ID: id}
	}
	if err := a.medium.Delete(id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// Put replaces the record for task.ID with a single write.
func (a *Adapter) Put(ctx context.Context, task model.Task) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	_, ok, err := a.medium.Get(task.ID)
	if err != nil {
		return model.Task{}, fmt.Errorf("get %s: %w", task.ID, err)
	}
	if !ok {
		return model.Task{}, &store.NotFoundError{ID: task.ID}
	}
	return a.Save(ctx, task)
}

// Get returns the task stored under id. An entry that does not parse as a
// task is reported as not found.
func (a *Adapter) Get(ctx context.Context, id string) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	v, ok, err := a.medium.Get(id)
	if err != nil {
		return model.Task{}, fmt.Errorf("get %s: %w", id, err)
	}
	if !ok {
		return model.Task{}, &store.NotFoundError{ID: id}
	}
	task, err := parseEntry(id, v)
	if err != nil {
		a.logger.Debug("skipping malformed entry", "key", id, "err", err)
		return model.Task{}, &store.NotFoundError{ID: id}
	}
	return task, nil
}

// List scans the whole medium in order. Entries that are not task records,
// or whose id differs from their key, are skipped.
func (a *Adapter) List(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := a.medium.Keys()
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	tasks := make([]model.Task, 0, len(keys))
	for _, k := range keys {
		v, ok, err := a.medium.Get(k)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", k, err)
		}
		if !ok {
			continue
		}
		task, err := parseEntry(k, v)
		if err != nil {
			a.logger.Debug("skipping foreign entry", "key", k, "err", err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
