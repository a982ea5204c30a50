package app

import (
	"context"
	"errors"
	"time"

	"github.com/atomicstack/imodel-browser/internal/backend"
	"github.com/atomicstack/imodel-browser/internal/bridge"
	"github.com/atomicstack/imodel-browser/internal/documents"
	"github.com/atomicstack/imodel-browser/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	DocumentsDir  string
	Open          string
	Panel         string
	Width         int
	Height        int
	ShowFooter    bool
	Verbose       bool
	Watch         bool
	WatchInterval time.Duration
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := documents.Dir(cfg.DocumentsDir)
	var watcher *backend.Watcher
	if cfg.Watch {
		watcher = backend.NewWatcher(dir, cfg.WatchInterval)
		defer watcher.Stop()
	}

	messenger := bridge.NewMessenger()
	model := ui.NewModel(ui.Options{
		Bridge:     messenger,
		Watcher:    watcher,
		Open:       cfg.Open,
		Panel:      cfg.Panel,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Context:    ctx,
	})
	defer model.Close()
	documents.RegisterQueryHandlers(messenger, dir, model.Chooser())

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
