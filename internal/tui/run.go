package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the board full-screen and blocks until the user quits or ctx ends.
func Run(ctx context.Context, c PostsClient, opt Options) error {
	p := tea.NewProgram(New(ctx, c, opt), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
