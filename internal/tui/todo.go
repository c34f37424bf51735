package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/todo"
	"github.com/idilsaglam/pocket/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	model.Item
}

func (i listItem) Title() string       { return i.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()

	box, text := t.Muted.Render(t.BoxUnchecked), it.Text
	if it.Completed {
		box, text = t.Success.Render(t.BoxChecked), t.Done.Render(it.Text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

type todoKeys struct {
	Add, Toggle, Delete, Quit key.Binding
}

func newTodoKeys() todoKeys {
	return todoKeys{
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

// TodoModel is the interactive list. Every action goes straight to the
// store, which persists before the next message is handled.
type TodoModel struct {
	store *todo.Store
	log   *slog.Logger
	keys  todoKeys
	list  list.Model

	// Inline add
	adding bool
	ti     textinput.Model
	addErr string

	// last persistence error, shown under the list
	status string
}

// NewTodo builds the view over an already loaded store.
func NewTodo(s *todo.Store, log *slog.Logger) TodoModel {
	keys := newTodoKeys()

	l := list.New(nil, itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	// "d" deletes
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	extra := func() []key.Binding { return []key.Binding{keys.Add, keys.Toggle, keys.Delete} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = 200

	m := TodoModel{store: s, log: log, keys: keys, list: l, ti: ti}
	m.refresh()
	return m
}

// refresh re-renders the list from the store.
func (m *TodoModel) refresh() tea.Cmd {
	items := m.store.List()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{it})
	}
	t := ui.Current()
	done, pending := m.store.Stats()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), len(items),
	)
	return m.list.SetItems(li)
}

func (m *TodoModel) persistErr(op string, err error) {
	if err == nil {
		m.status = ""
		return
	}
	m.log.Error("failed to persist todos", slog.String("operation", op), slog.Any("error", err))
	m.status = op + ": " + err.Error()
}

func (m TodoModel) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	return li.Item, ok
}

func (m TodoModel) Init() tea.Cmd { return nil }

func (m TodoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(sz.Width-4, sz.Height-6)
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

	switch {
	case km.Type == tea.KeyEsc && m.list.FilterState() == list.FilterApplied:
		m.list.ResetFilter()
		return m, nil
	case key.Matches(km, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(km, m.keys.Toggle):
		if it, ok := m.selected(); ok {
			m.persistErr("toggle", m.store.Toggle(it.ID))
			cmd := m.refresh()
			return m, cmd
		}
		return m, nil
	case key.Matches(km, m.keys.Delete):
		if it, ok := m.selected(); ok {
			m.persistErr("delete", m.store.Delete(it.ID))
			cmd := m.refresh()
			return m, cmd
		}
		return m, nil
	case key.Matches(km, m.keys.Add):
		m.adding = true
		m.addErr = ""
		m.ti.SetValue("")
		cmd := m.ti.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m TodoModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyEnter:
			text := strings.TrimSpace(m.ti.Value())
			if text == "" {
				m.addErr = "Title cannot be empty"
				return m, nil
			}
			_, err := m.store.Add(text)
			m.persistErr("add", err)
			m.ti.SetValue("")
			m.ti.Blur()
			m.adding = false
			cmd := m.refresh()
			m.list.Select(len(m.list.Items()) - 1)
			return m, cmd
		case tea.KeyEsc:
			m.adding = false
			m.ti.SetValue("")
			m.ti.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m TodoModel) View() string {
	t := ui.Current()
	content := m.list.View()
	if m.adding {
		title := "Add new item"
		if m.addErr != "" {
			title += "  " + t.Error.Render(m.addErr)
		}
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	if m.status != "" {
		content += "\n" + t.Error.Render("✖ "+m.status)
	}
	return ui.Panel(content)
}
