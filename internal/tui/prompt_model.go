package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/auto-download/internal/tui/shared"
)

// PromptModel asks for a single line of text.
type PromptModel struct {
	question  string
	input     textinput.Model
	validate  func(string) error
	err       error
	value     string
	done      bool
	cancelled bool
}

// NewPromptModel creates a prompt; validate may be nil.
func NewPromptModel(question, placeholder string, validate func(string) error) *PromptModel {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = shared.PromptArrow
	input.Focus()

	return &PromptModel{question: question, input: input, validate: validate}
}

// Init implements tea.Model
func (p *PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (p *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case shared.KeyCtrlC, shared.KeyEsc:
			p.cancelled = true
			return p, tea.Quit
		case shared.KeyEnter:
			return p.submit()
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)

	return p, cmd
}

func (p *PromptModel) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(p.input.Value())

	if p.validate != nil {
		if err := p.validate(value); err != nil {
			p.err = err
			return p, nil
		}
	}

	p.err = nil
	p.value = value
	p.done = true

	return p, tea.Quit
}

// View implements tea.Model
func (p *PromptModel) View() string {
	var builder strings.Builder

	builder.WriteString(shared.RenderLabel(p.question))
	builder.WriteString("\n\n")
	builder.WriteString(p.input.View())
	builder.WriteString("\n")

	if p.err != nil {
		builder.WriteString("\n")
		builder.WriteString(shared.RenderError(shared.ErrorSymbol() + " " + p.err.Error()))
		builder.WriteString("\n")
	}

	if !p.done && !p.cancelled {
		builder.WriteString("\n")
		builder.WriteString(shared.RenderDim("enter to confirm · esc to cancel"))
		builder.WriteString("\n")
	}

	return builder.String()
}

// SetValue replaces the text being edited.
func (p *PromptModel) SetValue(value string) {
	p.input.SetValue(value)
}

// Value returns the confirmed answer.
func (p *PromptModel) Value() string {
	return p.value
}

// Err returns the last validation error.
func (p *PromptModel) Err() error {
	return p.err
}

// Done reports whether an answer was confirmed.
func (p *PromptModel) Done() bool {
	return p.done
}

// Cancelled reports whether the prompt was aborted.
func (p *PromptModel) Cancelled() bool {
	return p.cancelled
}
