package ask

import (
	"context"
	"fmt"
	"io"

	"github.com/Digital-Shane/tvrename/internal/prompt"
	"github.com/Digital-Shane/tvrename/internal/tui/theme"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompter implements prompt.Prompter on an interactive terminal.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	theme theme.Theme
}

// NewPrompter reads keys from in and draws on out, inline below the status
// lines already printed.
func NewPrompter(in io.Reader, out io.Writer, th theme.Theme) *Prompter {
	return &Prompter{in: in, out: out, theme: th}
}

// Choose implements prompt.Prompter.
func (p *Prompter) Choose(ctx context.Context, req prompt.ChoiceRequest) (prompt.Choice, error) {
	m, err := p.run(ctx, NewChoiceModel(req, p.theme))
	if err != nil {
		return prompt.Choice{}, err
	}
	return m.Choice(), nil
}

// Confirm implements prompt.Prompter.
func (p *Prompter) Confirm(ctx context.Context, req prompt.ConfirmRequest) (prompt.Answer, error) {
	m, err := p.run(ctx, NewConfirmModel(req, p.theme))
	if err != nil {
		return 0, err
	}
	return m.Answer(), nil
}

func (p *Prompter) run(ctx context.Context, m *Model) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prog := tea.NewProgram(m,
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)
	final, err := prog.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("prompt: %w", err)
	}

	fm, ok := final.(*Model)
	if !ok {
		return nil, fmt.Errorf("prompt: unexpected model %T", final)
	}
	if !fm.Done() {
		// Input closed before an answer arrived.
		fm.abort()
	}
	return fm, nil
}
