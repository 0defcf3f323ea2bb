package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// promptModel is a single-field text prompt used outside the main wizard,
// e.g. for the EXTENSION_ID entered after the extension was created in
// mStudio.
type promptModel struct {
	title    string
	subtitle string
	input    textinput.Model
	validate func(string) error

	errText string
	value   string
	done    bool
}

// PromptInput runs a one-field prompt and returns the validated value.
// ErrAborted is returned when the operator cancels.
func PromptInput(ctx context.Context, title, subtitle, placeholder string, validate func(string) error) (string, error) {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 256
	input.Focus()

	model := promptModel{
		title:    title,
		subtitle: subtitle,
		input:    input,
		validate: validate,
	}

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}

	result, ok := final.(promptModel)
	if !ok {
		return "", fmt.Errorf("unexpected prompt model type")
	}
	if !result.done {
		return "", ErrAborted
	}
	return result.value, nil
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if m.validate != nil {
			if err := m.validate(value); err != nil {
				m.errText = err.Error()
				return m, nil
			}
		}
		m.value = value
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	if m.subtitle != "" {
		b.WriteString(subtitleStyle.Render(m.subtitle))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errText))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter confirm · esc abort"))
	b.WriteString("\n")
	return b.String()
}
