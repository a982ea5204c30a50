package ui

import (
	"context"
	"strings"

	"github.com/atomicstack/imodel-browser/internal/documents"
	"github.com/atomicstack/imodel-browser/internal/logging/events"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	chooseFormTitle = "Open snapshot"
	chooseFormHelp  = "enter open  esc cancel"
)

// chooseRequestMsg asks the UI for a snapshot path. The answer, empty when
// cancelled, is sent on reply.
type chooseRequestMsg struct {
	reply chan<- string
}

type chooseForm struct {
	input textinput.Model
}

func newChooseForm(static bool) *chooseForm {
	input := textinput.New()
	input.Prompt = filterPromptText
	input.Placeholder = "path/to/snapshot.bim"
	input.CharLimit = 4096
	if static {
		input.Cursor.SetMode(cursor.CursorStatic)
	}
	if styles.Filter != nil {
		input.TextStyle = styles.Filter.Copy()
	}
	if styles.FilterPrompt != nil {
		input.PromptStyle = styles.FilterPrompt.Copy()
	}
	if styles.FilterPlaceholder != nil {
		input.PlaceholderStyle = styles.FilterPlaceholder.Copy()
	}
	return &chooseForm{input: input}
}

// Update feeds msg to the text input. done reports an Enter, cancel an Esc.
func (f *chooseForm) Update(msg tea.Msg) (cmd tea.Cmd, done, cancel bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			return nil, true, false
		case tea.KeyEsc, tea.KeyCtrlC:
			return nil, false, true
		}
	}
	f.input, cmd = f.input.Update(msg)
	return cmd, false, false
}

func (f *chooseForm) Value() string {
	return strings.TrimSpace(f.input.Value())
}

func (f *chooseForm) View() string {
	return f.input.View()
}

// Chooser returns a file chooser that prompts for a path inside the UI. Choose
// blocks until the prompt is answered or ctx ends.
func (m *Model) Chooser() documents.Chooser {
	return documents.ChooserFunc(func(ctx context.Context) (string, error) {
		reply := make(chan string, 1)
		m.post(chooseRequestMsg{reply: reply})
		select {
		case path := <-reply:
			return path, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
}

func (m *Model) handleChooseRequestMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(chooseRequestMsg)
	if !ok {
		return nil
	}
	if m.chooseReq != nil {
		m.answerChoose("")
	}
	events.Snapshot.ChoosePrompt()
	m.chooseReq = &req
	m.chooseForm = newChooseForm(m.staticCursor)
	m.mode = ModeChooseForm
	return m.chooseForm.input.Focus()
}

// handleChooseForm routes key presses to the prompt. Other messages reach the
// prompt too but are not consumed.
func (m *Model) handleChooseForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.chooseForm == nil {
		m.mode = ModeList
		return false, nil
	}
	key, isKey := msg.(tea.KeyMsg)
	cmd, done, cancel := m.chooseForm.Update(msg)
	switch {
	case cancel:
		events.Snapshot.CancelChoose(events.SnapshotReasonEscape)
		m.answerChoose("")
		if key.Type == tea.KeyCtrlC {
			return true, tea.Quit
		}
		return true, nil
	case done:
		m.answerChoose(m.chooseForm.Value())
		return true, nil
	}
	return isKey, cmd
}

func (m *Model) answerChoose(path string) {
	if m.chooseReq != nil && m.chooseReq.reply != nil {
		select {
		case m.chooseReq.reply <- path:
		default:
		}
	}
	m.chooseReq = nil
	m.chooseForm = nil
	m.mode = ModeList
}

func (m *Model) viewChooseForm(header string) string {
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	lines = append(lines, chooseFormTitle, "", m.chooseForm.View(), "", chooseFormHelp)
	return strings.Join(lines, "\n")
}
