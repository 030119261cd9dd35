// Package controller binds manager operations to a renderer.
//
// The controller is where error propagation stops: every failure is handed
// to the renderer's error display. Each method still returns the error so a
// caller such as the CLI can pick an exit code.
package controller

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/model"
)

// Renderer draws tasks. Rows are keyed by task id.
type Renderer interface {
	RenderTask(task model.Task)
	UpdateTask(task model.Task)
	DestroyTask(id string)
	DisplayError(err error)
	// Dispose clears every rendered row.
	Dispose()
}

// Manager is the subset of *manager.Manager the controller drives.
type Manager interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, title string) (model.Task, error)
	RemoveTask(ctx context.Context, id string) error
	ToggleTask(ctx context.Context, id string) (model.Task, error)
	RestoreTask(ctx context.Context, task model.Task) (model.Task, error)
}

type Controller struct {
	manager  Manager
	renderer Renderer
	logger   *log.Logger
}

// New returns a Controller. A nil logger discards output.
func New(m Manager, r Renderer, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{manager: m, renderer: r, logger: logger}
}

// RenderTasks lists every task and renders each row.
func (c *Controller) RenderTasks(ctx context.Context) error {
	tasks, err := c.manager.ListTasks(ctx)
	if err != nil {
		return c.fail("list", err)
	}
	for _, t := range tasks {
		c.renderer.RenderTask(t)
	}
	return nil
}

func (c *Controller) AddTask(ctx context.Context, title string) (model.Task, error) {
	task, err := c.manager.CreateTask(ctx, title)
	if err != nil {
		return model.Task{}, c.fail("add", err)
	}
	c.renderer.RenderTask(task)
	return task, nil
}

// DeleteTask removes the task, then clears and redraws the whole list.
func (c *Controller) DeleteTask(ctx context.Context, id string) error {
	if err := c.manager.RemoveTask(ctx, id); err != nil {
		return c.fail("delete", err)
	}
	c.renderer.DestroyTask(id)
	c.renderer.Dispose()
	return c.RenderTasks(ctx)
}

func (c *Controller) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	task, err := c.manager.ToggleTask(ctx, id)
	if err != nil {
		return model.Task{}, c.fail("toggle", err)
	}
	c.renderer.UpdateTask(task)
	return task, nil
}

// RestoreTask brings back a deleted task and redraws the list so the row
// lands at its persisted position.
func (c *Controller) RestoreTask(ctx context.Context, task model.Task) error {
	if _, err := c.manager.RestoreTask(ctx, task); err != nil {
		return c.fail("restore", err)
	}
	c.renderer.Dispose()
	return c.RenderTasks(ctx)
}

// Destroy clears the renderer.
func (c *Controller) Destroy() {
	c.renderer.Dispose()
}

// fail hands err to the renderer. The renderer is the user-facing report,
// so the log line is debug only.
func (c *Controller) fail(op string, err error) error {
	c.logger.Debug(op+" failed", "err", err)
	c.renderer.DisplayError(err)
	return err
}
