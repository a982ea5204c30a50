package command

import (
	"context"
	"fmt"

	"github.com/atomicstack/imodel-browser/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates an action invocation.
type Request struct {
	ID    string
	Label string
	Run   func(ctx context.Context) error
}

// Result reports the outcome of a request.
type Result struct {
	ID    string
	Label string
	Err   error
}

// Bus coordinates the execution of panel and screen actions.
type Bus struct {
	ctx context.Context
}

// New initialises a command bus whose actions run under ctx.
func New(ctx context.Context) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx}
}

// Execute wraps an action into a Bubble Tea command while emitting trace logs.
// The command yields a Result, or nil for a request without an action.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		err := req.Run(b.ctx)
		result := Result{ID: req.ID, Label: req.Label, Err: err}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", result))
		return result
	}
}
