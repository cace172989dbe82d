package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/sisyphus/internal/engine"
	"github.com/DaanHessen/sisyphus/internal/feedback"
)

// Run boots the board and blocks until it exits.
// queue should be the feedback sink the engine was built with.
func Run(ctx context.Context, eng *engine.Engine, queue *feedback.Queue, theme string) error {
	m := newBoard(ctx, eng, queue, theme)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
