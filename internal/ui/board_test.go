package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tasks/internal/manager"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/store/kv"
	"github.com/idilsaglam/tasks/internal/store/localstore"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m tea.Model, msgs ...tea.Msg) boardModel {
	t.Helper()
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	bm, ok := m.(boardModel)
	if !ok {
		t.Fatalf("Update returned %T, want boardModel", m)
	}
	return bm
}

func newTestBoard(t *testing.T, titles ...string) (tea.Model, *manager.Manager) {
	t.Helper()
	ctx := context.Background()
	mgr := manager.New(store.New(localstore.New(kv.NewMemory(), nil), nil))
	for _, title := range titles {
		if _, err := mgr.CreateTask(ctx, title); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}
	m, err := NewBoard(ctx, mgr, NewTheme("mono"), nil)
	if err != nil {
		t.Fatalf("NewBoard failed: %v", err)
	}
	return m, mgr
}

func listed(t *testing.T, mgr *manager.Manager) []model.Task {
	t.Helper()
	tasks, err := mgr.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	return tasks
}

func TestBoardLoadsTasks(t *testing.T) {
	m, _ := newTestBoard(t, "Buy milk", "Walk dog")
	bm := m.(boardModel)
	if got := len(bm.list.Items()); got != 2 {
		t.Fatalf("items: got %d, want 2", got)
	}
	if !strings.Contains(bm.View(), "Buy milk") {
		t.Errorf("View missing task title:\n%s", bm.View())
	}
}

func TestBoardAdd(t *testing.T) {
	m, mgr := newTestBoard(t)

	bm := press(t, m, runes("a"))
	if !bm.adding {
		t.Fatal("a should start adding")
	}
	bm = press(t, bm, runes("Buy milk"), tea.KeyMsg{Type: tea.KeyEnter})
	if bm.adding {
		t.Error("enter should finish adding")
	}

	tasks := listed(t, mgr)
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("stored tasks: got %+v", tasks)
	}
	if len(bm.list.Items()) != 1 {
		t.Errorf("items: got %d, want 1", len(bm.list.Items()))
	}
}

func TestBoardAddEmptyShowsError(t *testing.T) {
	m, mgr := newTestBoard(t)

	bm := press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	if !bm.adding {
		t.Error("empty title should keep the input open")
	}
	if !errors.Is(bm.view.err, model.ErrEmptyTitle) {
		t.Errorf("view err: got %v, want ErrEmptyTitle", bm.view.err)
	}
	if !strings.Contains(bm.View(), model.ErrEmptyTitle.Error()) {
		t.Errorf("View missing error line:\n%s", bm.View())
	}
	if len(listed(t, mgr)) != 0 {
		t.Error("nothing should be stored")
	}

	bm = press(t, bm, tea.KeyMsg{Type: tea.KeyEsc})
	if bm.adding || bm.view.err != nil {
		t.Errorf("esc should close the input and clear the error, adding=%v err=%v", bm.adding, bm.view.err)
	}
}

func TestBoardToggle(t *testing.T) {
	m, mgr := newTestBoard(t, "Buy milk")

	bm := press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if tasks := listed(t, mgr); !tasks[0].Done {
		t.Fatalf("task not toggled: %+v", tasks[0])
	}
	if it := bm.list.Items()[0].(listItem); !it.task.Done {
		t.Errorf("list item not updated: %+v", it.task)
	}

	press(t, bm, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if tasks := listed(t, mgr); tasks[0].Done {
		t.Errorf("second toggle should restore pending: %+v", tasks[0])
	}
}

func TestBoardDeleteAndUndo(t *testing.T) {
	m, mgr := newTestBoard(t, "Buy milk", "Walk dog")

	bm := press(t, m, runes("d"))
	tasks := listed(t, mgr)
	if len(tasks) != 1 || tasks[0].Title != "Walk dog" {
		t.Fatalf("after delete: got %+v", tasks)
	}
	if bm.undo == nil || bm.undo.Title != "Buy milk" {
		t.Fatalf("undo slot: got %+v", bm.undo)
	}

	bm = press(t, bm, runes("u"))
	if bm.undo != nil {
		t.Error("undo slot should be cleared")
	}
	if got := len(listed(t, mgr)); got != 2 {
		t.Errorf("after undo: got %d tasks, want 2", got)
	}
	if got := len(bm.list.Items()); got != 2 {
		t.Errorf("after undo: got %d items, want 2", got)
	}
}

func TestBoardQuit(t *testing.T) {
	m, _ := newTestBoard(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestBoardResize(t *testing.T) {
	m, _ := newTestBoard(t)
	bm := press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if bm.width != 120 || bm.height != 40 {
		t.Errorf("size: got %dx%d", bm.width, bm.height)
	}
}
