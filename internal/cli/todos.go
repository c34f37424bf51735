package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/pocket/internal/config"
	"github.com/idilsaglam/pocket/internal/logging"
	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/store/jsonstore"
	"github.com/idilsaglam/pocket/internal/store/sqlitestore"
	"github.com/idilsaglam/pocket/internal/todo"
	"github.com/idilsaglam/pocket/internal/tui"
	"github.com/idilsaglam/pocket/internal/ui"
)

// openTodos opens the configured backend and loads the list, logging
// through the logger carried by ctx.
func (r *Runner) openTodos(ctx context.Context) (*todo.Store, func(), error) {
	log := logging.FromContext(ctx)
	switch r.Config.Storage.Driver {
	case config.DriverSQLite:
		db, err := sqlitestore.Open(r.Config.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		s := todo.New(db, todo.WithLogger(log))
		s.Load()
		return s, func() { _ = db.Close() }, nil
	default:
		s := todo.New(jsonstore.New(r.Config.Storage.Dir), todo.WithLogger(log))
		s.Load()
		return s, func() {}, nil
	}
}

// withTodos runs fn with a loaded store and a command logger.
func (r *Runner) withTodos(fn func(*todo.Store) int) int {
	ctx, closeLog := r.commandContext(false)
	defer closeLog()
	s, closeStore, err := r.openTodos(ctx)
	if err != nil {
		ui.Fail(r.Err, "open storage: "+err.Error())
		return 1
	}
	defer closeStore()
	return fn(s)
}

// resolve accepts a 1-based index or an item id.
func (r *Runner) resolve(s *todo.Store, ref string) (model.Item, bool) {
	items := s.List()
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(items) {
			return items[n-1], true
		}
	}
	if it, ok := s.Get(ref); ok {
		return it, true
	}
	ui.Fail(r.Err, fmt.Sprintf("no item %q: have %d items", ref, len(items)))
	fmt.Fprintln(r.Err, ui.Current().Muted.Render("Hint: run `pocket ls` to see valid indexes"))
	return model.Item{}, false
}

func (r *Runner) doList() int {
	return r.withTodos(func(s *todo.Store) int {
		items := s.List()
		t := ui.Current()

		// Header + progress
		d, p := s.Stats()
		header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			t.Title.Render("Todos"),
			t.Success.Render(t.SymDone), d,
			t.Pending.Render(t.SymPending), p,
			t.Accent.Render("Total"), len(items),
		)

		lines := []string{header, t.Muted.Render(ui.ProgressBar(d, d+p, 28)), ""}
		if r.Group {
			lines = append(lines, groupLines(items)...)
		} else {
			lines = append(lines, flatLines(items)...)
		}
		lines = append(lines, "", t.Muted.Render("Tip: add with `pocket add \"Buy milk\"`"))
		fmt.Fprintln(r.Out, ui.PanelLines(lines))
		return 0
	})
}

func (r *Runner) doAdd(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		ui.Fail(r.Err, "add: empty text")
		return 2
	}
	return r.withTodos(func(s *todo.Store) int {
		it, err := s.Add(text)
		if err != nil {
			ui.Fail(r.Err, "save: "+err.Error())
			return 1
		}
		ui.OK(r.Out, "added "+it.ID)
		return 0
	})
}

func (r *Runner) doToggle(ref string) int {
	return r.withTodos(func(s *todo.Store) int {
		it, ok := r.resolve(s, ref)
		if !ok {
			return 2
		}
		if err := s.Toggle(it.ID); err != nil {
			ui.Fail(r.Err, "save: "+err.Error())
			return 1
		}
		ui.OK(r.Out, "toggled")
		return 0
	})
}

func (r *Runner) doRemove(ref string) int {
	return r.withTodos(func(s *todo.Store) int {
		it, ok := r.resolve(s, ref)
		if !ok {
			return 2
		}
		if err := s.Delete(it.ID); err != nil {
			ui.Fail(r.Err, "save: "+err.Error())
			return 1
		}
		ui.OK(r.Out, "removed")
		return 0
	})
}

func (r *Runner) doExport(format string) int {
	var marshal func(any) ([]byte, error)
	switch format {
	case "json":
		marshal = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	case "yaml":
		marshal = yaml.Marshal
	default:
		ui.Fail(r.Err, "export: unknown format "+strconv.Quote(format))
		return 2
	}
	return r.withTodos(func(s *todo.Store) int {
		b, err := marshal(s.List())
		if err != nil {
			ui.Fail(r.Err, "export: "+err.Error())
			return 1
		}
		fmt.Fprintln(r.Out, strings.TrimRight(string(b), "\n"))
		return 0
	})
}

func (r *Runner) doTodoTUI() int {
	ctx, closeLog := r.commandContext(true)
	defer closeLog()
	s, closeStore, err := r.openTodos(ctx)
	if err != nil {
		ui.Fail(r.Err, "open storage: "+err.Error())
		return 1
	}
	defer closeStore()
	if err := tui.RunTodo(ctx, s); err != nil {
		ui.Fail(r.Err, "tui: "+err.Error())
		return 1
	}
	return 0
}

// -------------- rendering helpers --------------

func flatLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+1)
		box, style := t.BoxUnchecked, t.Muted
		if it.Completed {
			box, style = t.BoxChecked, t.Success
		}
		text := it.Text
		if len([]rune(text)) > 80 {
			text = string([]rune(text)[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(idx), style.Render(box), text))
	}
	return out
}

func groupLines(items []model.Item) []string {
	var pend, done []model.Item
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	t := ui.Current()
	lines := []string{t.Accent.Render("Pending")}
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "", t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
