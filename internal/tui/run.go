// Package tui holds the Bubble Tea front-ends for the todo list and the
// calculator.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/pocket/internal/logging"
	"github.com/idilsaglam/pocket/internal/todo"
)

// RunTodo starts the interactive list on the alternate screen and blocks
// until the user quits or ctx is cancelled. Persistence errors are logged
// through the logger carried by ctx.
func RunTodo(ctx context.Context, s *todo.Store) error {
	m := NewTodo(s, logging.FromContext(ctx))
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// RunCalc starts the interactive calculator.
func RunCalc(ctx context.Context, delay time.Duration) error {
	m := NewCalc(delay, logging.FromContext(ctx))
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
