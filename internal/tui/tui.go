// Package tui plays the shorts feed in a terminal: keys and the mouse wheel
// drive the same feed controller the shell host uses.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/feed"
)

// LoadFunc fetches the feed items.
type LoadFunc func(ctx context.Context) []catalog.FeedItem

// OpenFunc opens an experience page.
type OpenFunc func(url string) error

// Options configures the terminal feed.
type Options struct {
	Load LoadFunc
	Open OpenFunc
	Feed feed.Options
}

// Run starts the terminal feed and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	_, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	).Run()
	return err
}
