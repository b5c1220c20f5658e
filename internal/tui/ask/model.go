// Package ask runs each operator question as a small inline bubbletea
// program. Answers are classified with the same rules as the line prompter.
package ask

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/tvrename/internal/prompt"
	"github.com/Digital-Shane/tvrename/internal/tui/theme"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

type mode int

const (
	modeChoose mode = iota
	modeConfirm
)

// Model asks a single question and quits once the answer classifies.
type Model struct {
	theme   theme.Theme
	mode    mode
	file    string
	target  string
	options []string
	input   textinput.Model
	width   int

	invalid bool
	done    bool
	choice  prompt.Choice
	answer  prompt.Answer
}

// NewChoiceModel asks which of req.Options is the right episode.
func NewChoiceModel(req prompt.ChoiceRequest, th theme.Theme) *Model {
	m := &Model{
		theme:   th,
		mode:    modeChoose,
		file:    req.File,
		options: append([]string(nil), req.Options...),
	}
	m.input = newInput(th, "skip", "abort")
	return m
}

// NewConfirmModel asks whether req.File should be renamed.
func NewConfirmModel(req prompt.ConfirmRequest, th theme.Theme) *Model {
	m := &Model{
		theme:  th,
		mode:   modeConfirm,
		file:   req.File,
		target: req.Target,
	}
	m.input = newInput(th, "yes", "no", "abort")
	return m
}

func newInput(th theme.Theme, suggestions ...string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = ""
	ti.CharLimit = 16
	ti.Width = 16
	ti.TextStyle = th.NameStyle()
	ti.PlaceholderStyle = th.MutedStyle()
	ti.CompletionStyle = th.MutedStyle()
	ti.ShowSuggestions = true
	ti.SetSuggestions(suggestions)
	ti.Focus()
	return ti
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			m.abort()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.submit(m.input.Value()) {
				m.input.Blur()
				return m, tea.Quit
			}
			m.invalid = true
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(value string) bool {
	switch m.mode {
	case modeChoose:
		choice, ok := prompt.ParseChoice(value, len(m.options))
		if ok {
			m.choice, m.done = choice, true
		}
		return ok
	default:
		answer, ok := prompt.ParseConfirm(value)
		if ok {
			m.answer, m.done = answer, true
		}
		return ok
	}
}

func (m *Model) abort() {
	m.choice = prompt.Choice{Kind: prompt.ChoiceAbort}
	m.answer = prompt.AnswerAbort
	m.done = true
	m.input.Blur()
}

// Choice returns the classified choice once the model is done.
func (m *Model) Choice() prompt.Choice { return m.choice }

// Answer returns the classified confirmation once the model is done.
func (m *Model) Answer() prompt.Answer { return m.answer }

// Done reports whether an answer was classified.
func (m *Model) Done() bool { return m.done }

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	if m.mode == modeChoose {
		b.WriteString(m.theme.PromptStyle().Render(m.theme.Icon("question") + " Found multiple candidates for "))
		b.WriteString(m.theme.NameStyle().Render(filepath.Base(m.file)))
		b.WriteString("\n")
		for i, opt := range m.options {
			line := m.fit(fmt.Sprintf("%d) %s", i, opt))
			b.WriteString(m.theme.OptionStyle().Render(line))
			b.WriteString("\n")
		}
		b.WriteString(m.theme.PromptStyle().Render(fmt.Sprintf("   Choose correct episode (0-%d/skip/abort)? ", len(m.options)-1)))
	} else {
		b.WriteString(m.theme.PromptStyle().Render("    Rename (yes/no/abort)? "))
	}
	b.WriteString(m.input.View())

	if m.invalid && !m.done {
		b.WriteString("\n")
		b.WriteString(m.theme.BadgeStyle(theme.BadgeWarning).Render(m.hint()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) hint() string {
	if m.mode == modeChoose {
		return fmt.Sprintf("   Enter a number from 0 to %d, skip or abort. Tab completes.", len(m.options)-1)
	}
	return "    Enter yes, no or abort. Tab completes."
}

func (m *Model) fit(line string) string {
	if m.width <= 0 {
		return line
	}
	return runewidth.Truncate(line, m.width, "…")
}
