package model

import (
	"errors"
	"strings"
)

var (
	ErrEmptyID    = errors.New("task id is empty")
	ErrEmptyTitle = errors.New("task title is empty")
)

// Task is the domain model for a todo entry.
// ID and Title never change after creation; only Done flips.
type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// NewTask returns a pending task, or an error if id or title is blank.
func NewTask(id, title string) (Task, error) {
	if strings.TrimSpace(id) == "" {
		return Task{}, ErrEmptyID
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	return Task{ID: id, Title: title}, nil
}

// Toggled returns a copy of t with Done flipped.
func (t Task) Toggled() Task {
	t.Done = !t.Done
	return t
}

// ShortID is the id prefix shown in listings.
func (t Task) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}
