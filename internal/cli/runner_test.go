package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/pocket/internal/config"
	"github.com/idilsaglam/pocket/internal/logging"
	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/ui"
)

type harness struct {
	r        *Runner
	out, err *bytes.Buffer
}

func newHarness(t *testing.T, driver string) *harness {
	t.Helper()
	ui.SetTheme("mono")
	ui.SetColorMode("never")
	t.Cleanup(func() { ui.SetTheme("classic") })

	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	h.r = &Runner{
		Out: h.out,
		Err: h.err,
		Config: config.Config{
			Storage: config.StorageConfig{Driver: driver, Dir: t.TempDir()},
			Log:     config.LogConfig{Level: "error", Format: "text"},
			UI:      config.UIConfig{Theme: "mono", Color: "never"},
			Calc:    config.CalcConfig{ErrorDelay: time.Millisecond},
		},
	}
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return h.r.Run(args)
}

func (h *harness) export(t *testing.T) []model.Item {
	t.Helper()
	require.Equal(t, 0, h.run("export"))
	var items []model.Item
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &items))
	return items
}

func TestNoArgsPrintsHelp(t *testing.T) {
	h := newHarness(t, config.DriverJSON)
	assert.Equal(t, 2, h.run())
	assert.Contains(t, h.out.String(), "Usage:")

	assert.Equal(t, 0, h.run("help"))
}

func TestAddListToggleRemove(t *testing.T) {
	for _, driver := range []string{config.DriverJSON, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			h := newHarness(t, driver)

			require.Equal(t, 0, h.run("add", "Buy", "milk"))
			assert.Contains(t, h.out.String(), "added")
			require.Equal(t, 0, h.run("add", "Walk dog"))

			require.Equal(t, 0, h.run("ls"))
			assert.Contains(t, h.out.String(), "1. [ ] Buy milk")
			assert.Contains(t, h.out.String(), "2. [ ] Walk dog")

			require.Equal(t, 0, h.run("done", "2"))
			items := h.export(t)
			require.Len(t, items, 2)
			assert.False(t, items[0].Completed)
			assert.True(t, items[1].Completed)

			// by id as well as by index
			require.Equal(t, 0, h.run("rm", items[0].ID))
			items = h.export(t)
			require.Len(t, items, 1)
			assert.Equal(t, "Walk dog", items[0].Text)
		})
	}
}

func TestListGrouped(t *testing.T) {
	h := newHarness(t, config.DriverJSON)
	require.Equal(t, 0, h.run("add", "open one"))
	require.Equal(t, 0, h.run("add", "closed one"))
	require.Equal(t, 0, h.run("done", "2"))

	h.r.Group = true
	require.Equal(t, 0, h.run("ls"))
	out := h.out.String()
	pending := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	require.True(t, pending >= 0 && done > pending)
	assert.Less(t, strings.Index(out, "open one"), done)
	assert.Greater(t, strings.Index(out, "closed one"), done)
}

func TestEmptyList(t *testing.T) {
	h := newHarness(t, config.DriverJSON)
	require.Equal(t, 0, h.run("ls"))
	assert.Contains(t, h.out.String(), "no items")
	assert.Contains(t, h.out.String(), "0%")
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t, config.DriverJSON)

	tests := []struct {
		args []string
		msg  string
	}{
		{[]string{"add"}, "usage: pocket add"},
		{[]string{"add", "  "}, "add: empty text"},
		{[]string{"done"}, "usage: pocket done"},
		{[]string{"rm", "1", "2"}, "usage: pocket rm"},
		{[]string{"done", "7"}, `no item "7"`},
		{[]string{"rm", "nope"}, `no item "nope"`},
		{[]string{"export", "xml"}, "unknown format"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			assert.Equal(t, 2, h.run(tt.args...))
			assert.Contains(t, h.err.String(), tt.msg)
		})
	}
}

func TestUnknownSubcommandSuggests(t *testing.T) {
	h := newHarness(t, config.DriverJSON)

	assert.Equal(t, 2, h.run("lss"))
	assert.Contains(t, h.err.String(), "unknown subcommand: lss")
	assert.Contains(t, h.err.String(), "pocket ls")

	assert.Equal(t, 2, h.run("frobnicate"))
	assert.NotContains(t, h.err.String(), "Did you mean")
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "calc", suggest("calk"))
	assert.Equal(t, "export", suggest("exprot"))
	assert.Equal(t, "", suggest("zzzzzz"))
}

func TestExportYAML(t *testing.T) {
	h := newHarness(t, config.DriverJSON)
	require.Equal(t, 0, h.run("add", "milk"))

	require.Equal(t, 0, h.run("export", "yaml"))
	var items []model.Item
	require.NoError(t, yaml.Unmarshal(h.out.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "milk", items[0].Text)
	assert.Contains(t, h.out.String(), "completed: false")
}

func TestCalcEval(t *testing.T) {
	h := newHarness(t, config.DriverJSON)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"2+3+4="}, "9"},
		{[]string{"1", "2", "*", "3", "="}, "36"},
		{[]string{"5+"}, "5"},
		{[]string{"7", "c"}, "0"},
		{[]string{"0.5*4="}, "2"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			require.Equal(t, 0, h.run(append([]string{"calc"}, tt.args...)...))
			assert.Equal(t, tt.want+"\n", h.out.String())
		})
	}
}

func TestCalcEvalDivisionByZero(t *testing.T) {
	h := newHarness(t, config.DriverJSON)
	assert.Equal(t, 1, h.run("calc", "4/0="))
	assert.Contains(t, h.err.String(), "Error: Division by zero")
	assert.Empty(t, h.out.String())
}

func TestCorruptStorageFallsBackToEmpty(t *testing.T) {
	h := newHarness(t, config.DriverJSON)
	h.r.Config.Log.Level = "info"
	require.Equal(t, 0, h.run("add", "x"))

	// overwrite the file with garbage through the same backend directory
	require.NoError(t, writeFile(h.r.Config.Storage.Dir, "todos.json", "{{{"))

	require.Equal(t, 0, h.run("ls"))
	assert.Contains(t, h.out.String(), "no items")
	assert.Contains(t, h.err.String(), "failed to parse todos from storage")
}

func TestOpenTodosLogsThroughContextLogger(t *testing.T) {
	h := newHarness(t, config.DriverJSON)
	require.NoError(t, writeFile(h.r.Config.Storage.Dir, "todos.json", "not json"))

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New("info", "text", &buf))
	s, closeStore, err := h.r.openTodos(ctx)
	require.NoError(t, err)
	defer closeStore()

	assert.Equal(t, 0, s.Len())
	assert.Contains(t, buf.String(), "failed to parse todos from storage")
	assert.Empty(t, h.err.String())
}

func TestCommandContextCarriesConfiguredLogger(t *testing.T) {
	h := newHarness(t, config.DriverJSON)
	h.r.Config.Log.Level = "info"

	ctx, closeLog := h.r.commandContext(false)
	defer closeLog()
	logging.FromContext(ctx).Info("hello")
	assert.Contains(t, h.err.String(), "hello")

	h.err.Reset()
	ctx, closeLog2 := h.r.commandContext(true)
	defer closeLog2()
	logging.FromContext(ctx).Error("hidden")
	assert.Empty(t, h.err.String())
}

func TestRunFailsOnMissingExplicitConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	missing := filepath.Join(t.TempDir(), "nope.toml")
	assert.Equal(t, 1, Run([]string{"help"}, Options{ConfigPath: missing}))
}
