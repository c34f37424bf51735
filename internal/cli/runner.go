package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/idilsaglam/pocket/internal/config"
	"github.com/idilsaglam/pocket/internal/logging"
	"github.com/idilsaglam/pocket/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group      bool   // list grouped by pending/done
	ConfigPath string // overrides $POCKET_CONFIG
}

// Runner executes one subcommand against a loaded config.
type Runner struct {
	Out, Err io.Writer
	Config   config.Config
	Group    bool
}

var subcommands = []string{"help", "add", "ls", "done", "rm", "tui", "calc", "export"}

// Run loads configuration, dispatches args and returns an exit code
// (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	var (
		cfg config.Config
		err error
	)
	if opt.ConfigPath != "" {
		cfg, err = config.LoadFile(opt.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 1
	}
	ui.SetTheme(cfg.UI.Theme)
	ui.SetColorMode(cfg.UI.Color)

	r := &Runner{Out: os.Stdout, Err: os.Stderr, Config: cfg, Group: opt.Group}
	return r.Run(args)
}

// Run dispatches subcommands and returns an exit code.
func (r *Runner) Run(args []string) int {
	if len(args) == 0 {
		r.PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		r.PrintHelp()
		return 0

	case "ls":
		return r.doList()

	case "add":
		if len(a) == 0 {
			ui.Fail(r.Err, "usage: pocket add <text...>")
			return 2
		}
		return r.doAdd(strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail(r.Err, "usage: pocket done <index|id>")
			return 2
		}
		return r.doToggle(a[0])

	case "rm":
		if len(a) != 1 {
			ui.Fail(r.Err, "usage: pocket rm <index|id>")
			return 2
		}
		return r.doRemove(a[0])

	case "tui":
		return r.doTodoTUI()

	case "calc":
		if len(a) == 0 {
			return r.doCalcTUI()
		}
		return r.doCalcEval(a)

	case "export":
		format := "json"
		if len(a) > 1 {
			ui.Fail(r.Err, "usage: pocket export [json|yaml]")
			return 2
		}
		if len(a) == 1 {
			format = a[0]
		}
		return r.doExport(format)
	}

	ui.Fail(r.Err, "unknown subcommand: "+cmd)
	if s := suggest(cmd); s != "" {
		fmt.Fprintln(r.Err, ui.Current().Muted.Render("Did you mean `pocket "+s+"`?"))
	}
	fmt.Fprintln(r.Err)
	r.PrintHelp()
	return 2
}

func (r *Runner) PrintHelp() {
	fmt.Fprint(r.Out, `pocket - todo list and calculator

Usage:
  pocket [--group] [--config path] <subcommand> [args]

Subcommands:
  add <text...>        Add a new item (text can be multiple words)
  ls                   List items
  done <index|id>      Toggle done for item at 1-based index (or by id)
  rm <index|id>        Remove item at 1-based index (or by id)
  tui                  Interactive todo list
  calc [symbols...]    Interactive calculator, or evaluate symbols
  export [json|yaml]   Print the list in a machine-readable format

Examples:
  pocket add "Buy milk"
  pocket ls
  pocket done 2
  pocket calc "12*3="
`)
}

// suggest returns the closest known subcommand within edit distance 2.
func suggest(cmd string) string {
	best, bestDist := "", 3
	for _, c := range subcommands {
		if d := levenshtein.ComputeDistance(cmd, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// commandContext returns a context carrying the configured logger.
// Interactive views get a discarding logger unless log.file is set, so
// records never land on the alt screen.
func (r *Runner) commandContext(interactive bool) (context.Context, func()) {
	log, closeLog := r.logger(interactive)
	return logging.WithLogger(context.Background(), log), closeLog
}

func (r *Runner) logger(interactive bool) (*slog.Logger, func()) {
	lc := r.Config.Log
	if lc.File != "" {
		l, c, err := logging.OpenFile(lc.File, lc.Level, lc.Format)
		if err == nil {
			return l, func() { _ = c.Close() }
		}
		ui.Fail(r.Err, "log: "+err.Error())
	}
	if interactive {
		return logging.Discard(), func() {}
	}
	return logging.New(lc.Level, lc.Format, r.Err), func() {}
}
