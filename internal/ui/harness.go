package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives the UI model programmatically for integration tests. Commands
// run synchronously, batches are expanded and messages posted from command
// goroutines are delivered after each step. The filter caret does not blink.
type Harness struct {
	model *Model
	quit  bool
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.manualInbox = true
		model.useStaticCursor()
	}
	return &Harness{model: model}
}

// Init runs the model's start-up commands.
func (h *Harness) Init() {
	if h.model == nil {
		return
	}
	h.run(h.model.Init())
	h.drain()
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	h.update(msg)
}

// Type sends each rune of text as a key press.
func (h *Harness) Type(text string) {
	for _, r := range text {
		if r == ' ' {
			h.Send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}})
			continue
		}
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Key sends a special key press.
func (h *Harness) Key(t tea.KeyType) {
	h.Send(tea.KeyMsg{Type: t})
}

func (h *Harness) update(msg tea.Msg) {
	if _, ok := msg.(tea.QuitMsg); ok {
		h.quit = true
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.run(cmd)
	h.drain()
}

func (h *Harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, next := range msg {
			h.run(next)
		}
	default:
		h.update(msg)
	}
}

func (h *Harness) drain() {
	for {
		select {
		case msg := <-h.model.inbox:
			h.update(msg)
		default:
			return
		}
	}
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
