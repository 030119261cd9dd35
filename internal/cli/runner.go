package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/controller"
	"github.com/idilsaglam/tasks/internal/manager"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/store/kv"
	"github.com/idilsaglam/tasks/internal/store/localstore"
	"github.com/idilsaglam/tasks/internal/ui"
)

// Options carry what the root command resolved before dispatch.
type Options struct {
	Config *config.Config
	Logger *log.Logger
	Stdout io.Writer
	Stderr io.Writer

	// Medium overrides the configured backend; used by tests.
	Medium kv.Medium
	// RunBoard replaces the interactive program; used by tests.
	RunBoard func(ctx context.Context, mgr controller.Manager, theme ui.Theme, logger *log.Logger) error
}

// app is one invocation's wiring.
type app struct {
	opt      Options
	mgr      *manager.Manager
	ctrl     *controller.Controller
	renderer *ui.LineRenderer
	theme    ui.Theme
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.Config == nil {
		opt.Config = config.Default()
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	theme := ui.NewTheme(opt.Config.UI.Theme)
	r := ui.NewLineRenderer(opt.Stdout, opt.Stderr, theme)

	if len(args) == 0 {
		PrintHelp(opt.Stdout)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0
	case "ls", "add", "done", "rm", "ui":
	default:
		r.Fail("unknown subcommand: " + cmd)
		fmt.Fprintln(opt.Stderr)
		PrintHelp(opt.Stderr)
		return 2
	}

	medium, err := openMedium(opt)
	if err != nil {
		r.Fail("open store: " + err.Error())
		if errors.Is(err, store.ErrUnimplemented) {
			return 2
		}
		return 1
	}
	mgr := manager.New(
		store.New(localstore.New(medium, opt.Logger), opt.Logger),
		manager.WithLogger(opt.Logger),
	)
	ap := &app{
		opt:      opt,
		mgr:      mgr,
		ctrl:     controller.New(mgr, r, opt.Logger),
		renderer: r,
		theme:    theme,
	}

	switch cmd {
	case "ls":
		return ap.doList(ctx)

	case "add":
		if len(a) == 0 {
			r.Fail("usage: tasks add <title...>")
			return 2
		}
		return ap.doAdd(ctx, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			r.Fail("usage: tasks done <id|index>")
			return 2
		}
		return ap.doToggle(ctx, a[0])

	case "rm":
		if len(a) != 1 {
			r.Fail("usage: tasks rm <id|index>")
			return 2
		}
		return ap.doRemove(ctx, a[0])

	case "ui":
		return ap.doBoard(ctx)
	}
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `tasks - a tiny task list

Usage:
  tasks [flags] <subcommand> [args]

Subcommands:
  add <title...>     Add a new task (title can be multiple words)
  ls                 List tasks
  done <ref>         Toggle done for a task
  rm <ref>           Remove a task
  ui                 Interactive list (a add, space toggle, d delete, u undo, q quit)

A <ref> is a task id, a unique id prefix, or a 1-based index from ls.

Flags:
  -config <path>     Config file (default tasks.toml, then user config dir)
  -data <path>       Data file (default tasks.json)
  -group             Group ls output by pending/done
  -theme <name>      classic, neon or mono
  -log-level <lvl>   debug, info, warn or error

Examples:
  tasks add "Buy milk"
  tasks ls
  tasks done 2
  tasks rm 3f9c
`)
}

func openMedium(opt Options) (kv.Medium, error) {
	if opt.Medium != nil {
		return opt.Medium, nil
	}
	switch opt.Config.Storage.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), nil
	case config.BackendRemote:
		return nil, fmt.Errorf("remote backend: %w", store.ErrUnimplemented)
	default:
		return kv.OpenFile(opt.Config.Storage.Path)
	}
}

// -------------- subcommand impls ----------------

func (ap *app) doList(ctx context.Context) int {
	if err := ap.ctrl.RenderTasks(ctx); err != nil {
		return 1
	}
	ap.renderer.Flush(ap.opt.Config.UI.Group)
	return 0
}

func (ap *app) doAdd(ctx context.Context, title string) int {
	task, err := ap.ctrl.AddTask(ctx, title)
	if err != nil {
		if errors.Is(err, model.ErrEmptyTitle) {
			return 2
		}
		return 1
	}
	ap.renderer.OK(fmt.Sprintf("added %q (%s)", task.Title, task.ShortID()))
	return 0
}

func (ap *app) doToggle(ctx context.Context, ref string) int {
	id, code := ap.resolve(ctx, ref)
	if code != 0 {
		return code
	}
	task, err := ap.ctrl.ToggleTask(ctx, id)
	if err != nil {
		return exitCode(err)
	}
	state := "pending"
	if task.Done {
		state = "done"
	}
	ap.renderer.OK(fmt.Sprintf("%q marked %s", task.Title, state))
	return 0
}

func (ap *app) doRemove(ctx context.Context, ref string) int {
	id, code := ap.resolve(ctx, ref)
	if code != 0 {
		return code
	}
	if err := ap.ctrl.DeleteTask(ctx, id); err != nil {
		return exitCode(err)
	}
	ap.renderer.OK("removed " + (model.Task{ID: id}).ShortID())
	return 0
}

func (ap *app) doBoard(ctx context.Context) int {
	run := ap.opt.RunBoard
	if run == nil {
		run = ui.RunBoard
	}
	if err := run(ctx, ap.mgr, ap.theme, ap.opt.Logger); err != nil {
		ap.renderer.Fail("ui: " + err.Error())
		return 1
	}
	return 0
}

// resolve turns a ref into a task id: exact id, then 1-based index, then
// unique id prefix. A number outside the index range is still tried as a
// prefix before it is reported.
func (ap *app) resolve(ctx context.Context, ref string) (string, int) {
	tasks, err := ap.mgr.ListTasks(ctx)
	if err != nil {
		ap.renderer.Fail("load: " + err.Error())
		return "", 1
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t.ID, 0
		}
	}
	n, numErr := strconv.Atoi(ref)
	isIndex := numErr == nil
	if isIndex && n >= 1 && n <= len(tasks) {
		return tasks[n-1].ID, 0
	}
	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], 0
	case 0:
		if isIndex {
			ap.renderer.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(tasks), n))
			ap.renderer.Hint("Hint: run `tasks ls` to see valid indexes")
			return "", 2
		}
		// Let the store report it so the error carries the usual wording.
		return ref, 0
	default:
		ap.renderer.Fail(fmt.Sprintf("ambiguous id prefix %q matches %d tasks", ref, len(matches)))
		return "", 2
	}
}

func exitCode(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return 2
	}
	return 1
}
