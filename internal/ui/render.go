package ui

import (
	"fmt"
	"io"

	"github.com/idilsaglam/tasks/internal/model"
)

// LineRenderer is the CLI view. It retains rendered rows like a list
// widget would and paints them as a panel on Flush. Errors and status
// lines are written immediately.
type LineRenderer struct {
	out, errOut io.Writer
	theme       Theme
	rows        []model.Task
}

func NewLineRenderer(out, errOut io.Writer, theme Theme) *LineRenderer {
	return &LineRenderer{out: out, errOut: errOut, theme: theme}
}

func (r *LineRenderer) RenderTask(t model.Task) {
	r.rows = append(r.rows, t)
}

func (r *LineRenderer) UpdateTask(t model.Task) {
	for i := range r.rows {
		if r.rows[i].ID == t.ID {
			r.rows[i] = t
			return
		}
	}
}

func (r *LineRenderer) DestroyTask(id string) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return
		}
	}
}

func (r *LineRenderer) DisplayError(err error) {
	r.Fail(err.Error())
}

func (r *LineRenderer) Dispose() {
	r.rows = nil
}

// Rows returns the currently rendered tasks.
func (r *LineRenderer) Rows() []model.Task {
	out := make([]model.Task, len(r.rows))
	copy(out, r.rows)
	return out
}

func (r *LineRenderer) OK(msg string) {
	fmt.Fprintln(r.out, r.theme.Success.Render(r.theme.SymOK+" "+msg))
}

func (r *LineRenderer) Fail(msg string) {
	fmt.Fprintln(r.errOut, r.theme.Error.Render(r.theme.SymFail+" "+msg))
}

// Hint writes a muted line to the error stream.
func (r *LineRenderer) Hint(msg string) {
	fmt.Fprintln(r.errOut, r.theme.Muted.Render(msg))
}

// Flush paints the retained rows as a panel with header and progress bar.
func (r *LineRenderer) Flush(group bool) {
	t := r.theme
	d, p := stats(r.rows)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Tasks"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(r.rows),
	)

	lines := []string{header, t.Muted.Render(ProgressBar(d, d+p, 28)), ""}
	if group {
		lines = append(lines, r.groupLines()...)
	} else {
		lines = append(lines, r.flatLines(r.rows, 1)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `tasks add \"Buy milk\"`"))
	fmt.Fprintln(r.out, Panel(t, lines))
}

// FormatRow renders one task line: index, checkbox, title, short id.
func (r *LineRenderer) FormatRow(index int, task model.Task) string {
	t := r.theme
	boxStyle, title := t.Muted, truncate(task.Title, 80)
	if task.Done {
		boxStyle = t.Success
		title = t.Done.Render(title)
	}
	return fmt.Sprintf("%s %s %s  %s",
		t.Muted.Render(fmt.Sprintf("%2d.", index)),
		boxStyle.Render(t.Box(task.Done)),
		title,
		t.Muted.Render(task.ShortID()),
	)
}

func (r *LineRenderer) flatLines(tasks []model.Task, start int) []string {
	if len(tasks) == 0 {
		return []string{r.theme.Muted.Render("no tasks")}
	}
	out := make([]string, 0, len(tasks))
	for i, task := range tasks {
		out = append(out, r.FormatRow(start+i, task))
	}
	return out
}

// groupLines keeps each row's position in the full list so the printed
// index stays usable as a reference.
func (r *LineRenderer) groupLines() []string {
	t := r.theme
	var pend, done []string
	for i, task := range r.rows {
		if task.Done {
			done = append(done, r.FormatRow(i+1, task))
		} else {
			pend = append(pend, r.FormatRow(i+1, task))
		}
	}
	none := t.Muted.Render("(none)")
	lines := []string{t.Accent.Render("Pending")}
	if len(pend) == 0 {
		lines = append(lines, none)
	}
	lines = append(lines, pend...)
	lines = append(lines, "", t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, none)
	}
	return append(lines, done...)
}

func stats(tasks []model.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
