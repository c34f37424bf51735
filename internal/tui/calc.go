package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/pocket/internal/calc"
	"github.com/idilsaglam/pocket/internal/ui"
)

// button is an on-screen key; Value is the symbol it feeds to calc.Classify.
type button struct {
	Label, Value string
}

var buttons = [][]button{
	{{"C", "C"}, {"÷", "/"}, {"×", "*"}, {"−", "-"}},
	{{"7", "7"}, {"8", "8"}, {"9", "9"}, {"+", "+"}},
	{{"4", "4"}, {"5", "5"}, {"6", "6"}, {"=", "="}},
	{{"1", "1"}, {"2", "2"}, {"3", "3"}, {".", "."}},
	{{"0", "0"}},
}

// faultResetMsg is delivered when the division-by-zero delay has elapsed.
type faultResetMsg struct{}

type calcKeys struct {
	Up, Down, Left, Right, Press, Quit key.Binding
}

func (k calcKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Press, k.Quit}
}

func (k calcKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func newCalcKeys() calcKeys {
	return calcKeys{
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Press: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "press")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// CalcModel renders calc.State and routes keys and button presses into
// calc.Step. Bubble Tea delivers one message at a time, so the state is
// never touched concurrently.
type CalcModel struct {
	state    calc.State
	delay    time.Duration
	row, col int
	keys     calcKeys
	help     help.Model
	log      *slog.Logger
}

// NewCalc returns a cleared calculator; delay is how long a fault stays on
// screen before the state resets.
func NewCalc(delay time.Duration, log *slog.Logger) CalcModel {
	return CalcModel{delay: delay, keys: newCalcKeys(), help: help.New(), log: log}
}

// State exposes the current calculator state.
func (m CalcModel) State() calc.State { return m.state }

func (m CalcModel) Init() tea.Cmd { return nil }

func (m CalcModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case faultResetMsg:
		m.state, _ = calc.Step(m.state, calc.Reset)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.move(1, 0)
		case key.Matches(msg, m.keys.Left):
			m.move(0, -1)
		case key.Matches(msg, m.keys.Right):
			m.move(0, 1)
		case key.Matches(msg, m.keys.Press):
			return m.route(buttons[m.row][m.col].Value)
		default:
			sym, ok := calc.KeySymbol(keyName(msg))
			if !ok {
				return m, nil
			}
			return m.route(sym)
		}
	}
	return m, nil
}

// keyName converts Bubble Tea key names to the names calc.KeySymbol knows.
func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyEnter:
		return "Enter"
	case tea.KeyEsc:
		return "Escape"
	}
	return msg.String()
}

func (m *CalcModel) move(dr, dc int) {
	m.row = (m.row + dr + len(buttons)) % len(buttons)
	if m.col >= len(buttons[m.row]) {
		m.col = len(buttons[m.row]) - 1
	}
	m.col = (m.col + dc + len(buttons[m.row])) % len(buttons[m.row])
}

func (m CalcModel) route(symbol string) (tea.Model, tea.Cmd) {
	in, ok := calc.Classify(symbol)
	if !ok {
		return m, nil
	}
	var eff calc.Effect
	m.state, eff = calc.Step(m.state, in)
	if !eff.ScheduleReset {
		return m, nil
	}
	m.log.Warn("division by zero", slog.String("operation", "compute"), slog.Duration("reset_after", m.delay))
	return m, tea.Tick(m.delay, func(time.Time) tea.Msg { return faultResetMsg{} })
}

func (m CalcModel) View() string {
	t := ui.Current()

	display := lipgloss.NewStyle().
		Width(23).
		Align(lipgloss.Right).
		Border(t.Border).
		BorderForeground(t.BorderColor)
	text := m.state.Display()
	if m.state.Fault != "" {
		text = t.Error.Render(text)
	}

	var pending string
	if m.state.Pending() {
		pending = t.Muted.Render(m.state.Previous + " " + string(m.state.Op))
	}

	cell := lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	rows := make([]string, 0, len(buttons))
	for r, row := range buttons {
		cells := make([]string, 0, len(row))
		for c, b := range row {
			label := "[" + b.Label + "]"
			if r == m.row && c == m.col {
				cells = append(cells, cell.Inherit(t.Selected).Render(label))
			} else {
				cells = append(cells, cell.Render(label))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return ui.Panel(strings.Join([]string{
		t.Title.Render("Calculator"),
		pending,
		display.Render(text),
		strings.Join(rows, "\n"),
		"",
		m.help.View(m.keys),
	}, "\n"))
}
