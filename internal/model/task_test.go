package model

import (
	"errors"
	"testing"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		title   string
		wantErr error
	}{
		{name: "valid", id: "a1", title: "Buy milk"},
		{name: "trims title", id: "a1", title: "  Buy milk  "},
		{name: "empty id", id: " ", title: "Buy milk", wantErr: ErrEmptyID},
		{name: "empty title", id: "a1", title: "\t", wantErr: ErrEmptyTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.id, tt.title)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewTask error: got %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if task.Title != "Buy milk" {
				t.Errorf("Title: got %q, want %q", task.Title, "Buy milk")
			}
			if task.Done {
				t.Error("new task should not be done")
			}
		})
	}
}

func TestToggled(t *testing.T) {
	task := Task{ID: "x", Title: "Buy milk"}

	once := task.Toggled()
	if !once.Done {
		t.Fatal("Toggled once: want done")
	}
	if task.Done {
		t.Fatal("Toggled must not mutate the receiver")
	}
	if twice := once.Toggled(); twice != task {
		t.Errorf("Toggled twice: got %+v, want %+v", twice, task)
	}
}

func TestShortID(t *testing.T) {
	if got := (Task{ID: "abc"}).ShortID(); got != "abc" {
		t.Errorf("ShortID: got %q, want abc", got)
	}
	if got := (Task{ID: "0123456789abcdef"}).ShortID(); got != "01234567" {
		t.Errorf("ShortID: got %q, want 01234567", got)
	}
}
