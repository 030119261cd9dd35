package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/controller"
	"github.com/idilsaglam/tasks/internal/model"
)

// listItem adapts a task to bubbles/list.Item.
type listItem struct {
	task model.Task
}

func (i listItem) Title() string       { return i.task.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Title }

// boardView is the Renderer the controller draws into. It outlives the
// value copies Bubble Tea makes of boardModel.
type boardView struct {
	tasks []model.Task
	err   error
}

func (v *boardView) RenderTask(t model.Task) {
	v.tasks = append(v.tasks, t)
	v.err = nil
}

func (v *boardView) UpdateTask(t model.Task) {
	for i := range v.tasks {
		if v.tasks[i].ID == t.ID {
			v.tasks[i] = t
		}
	}
	v.err = nil
}

func (v *boardView) DestroyTask(id string) {
	for i := range v.tasks {
		if v.tasks[i].ID == id {
			v.tasks = append(v.tasks[:i], v.tasks[i+1:]...)
			break
		}
	}
	v.err = nil
}

func (v *boardView) DisplayError(err error) { v.err = err }
func (v *boardView) Dispose()               { v.tasks = nil }

// itemDelegate renders one task per line.
type itemDelegate struct {
	theme Theme
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := d.theme
	box := t.Muted.Render(t.BoxUnchecked)
	text := it.task.Title
	if it.task.Done {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

var (
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleKey = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoKey   = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
)

type boardModel struct {
	ctx   context.Context
	ctrl  *controller.Controller
	view  *boardView
	theme Theme

	list   list.Model
	width  int
	height int

	adding bool
	ti     textinput.Model

	undo *model.Task
}

// NewBoard builds the interactive list model over mgr and loads every task.
func NewBoard(ctx context.Context, mgr controller.Manager, theme Theme, logger *log.Logger) (tea.Model, error) {
	view := &boardView{}
	ctrl := controller.New(mgr, view, logger)
	if err := ctrl.RenderTasks(ctx); err != nil {
		return nil, err
	}

	l := list.New(nil, itemDelegate{theme: theme}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.Title
	l.Styles.HelpStyle = theme.Help
	l.Styles.PaginationStyle = theme.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	// q is handled by the board so it can be typed while adding.
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addKey, toggleKey, deleteKey, undoKey} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addKey, toggleKey, deleteKey, undoKey} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task title..."
	ti.CharLimit = 200

	m := boardModel{
		ctx:    ctx,
		ctrl:   ctrl,
		view:   view,
		theme:  theme,
		list:   l,
		width:  80,
		height: 24,
		ti:     ti,
	}
	m.list.SetSize(m.width-4, m.height-4)
	m.sync()
	return m, nil
}

// RunBoard starts the Bubble Tea program and blocks until the user quits.
func RunBoard(ctx context.Context, mgr controller.Manager, theme Theme, logger *log.Logger) error {
	m, err := NewBoard(ctx, mgr, theme, logger)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func (m boardModel) Init() tea.Cmd { return nil }

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch km.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "space":
		if it, ok := m.list.SelectedItem().(listItem); ok {
			m.ctrl.ToggleTask(m.ctx, it.task.ID)
			m.sync()
		}
		return m, nil
	case "d":
		if it, ok := m.list.SelectedItem().(listItem); ok {
			if err := m.ctrl.DeleteTask(m.ctx, it.task.ID); err == nil {
				removed := it.task
				m.undo = &removed
			}
			m.sync()
		}
		return m, nil
	case "u":
		if m.undo != nil {
			if err := m.ctrl.RestoreTask(m.ctx, *m.undo); err == nil {
				m.undo = nil
			}
			m.sync()
		}
		return m, nil
	case "a":
		m.adding = true
		m.ti.SetValue("")
		m.resize()
		return m, m.ti.Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m boardModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			if _, err := m.ctrl.AddTask(m.ctx, m.ti.Value()); err != nil {
				return m, nil
			}
			m.stopAdding()
			m.sync()
			m.list.Select(len(m.list.Items()) - 1)
			return m, nil
		case "esc":
			m.stopAdding()
			m.view.err = nil
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *boardModel) stopAdding() {
	m.adding = false
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

// sync copies the controller-drawn rows into the list widget.
func (m *boardModel) sync() {
	items := make([]list.Item, 0, len(m.view.tasks))
	for _, t := range m.view.tasks {
		items = append(items, listItem{task: t})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	t := m.theme
	d, p := stats(m.view.tasks)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Tasks"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(m.view.tasks),
	)
	m.resize()
}

func (m *boardModel) resize() {
	h := m.height - 4
	if m.adding {
		h -= 3
	}
	if m.view.err != nil {
		h--
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m boardModel) View() string {
	content := m.list.View()
	if m.adding {
		bar := lipgloss.NewStyle().Border(m.theme.Border).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		content += "\n" + bar.Render("Add new task\n"+m.ti.View())
	}
	if m.view.err != nil {
		content += "\n" + m.theme.Error.Render(m.theme.SymFail+" "+m.view.err.Error())
	}
	border := lipgloss.NewStyle().
		Border(m.theme.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(strings.TrimRight(content, "\n"))
}
