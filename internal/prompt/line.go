package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
)

// LinePrompter asks questions one line at a time. It works with pipes and
// scripted input as well as a plain terminal.
type LinePrompter struct {
	in    *bufio.Reader
	out   io.Writer
	width int
}

// NewLinePrompter reads answers from in and writes questions to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// WithWidth truncates candidate lines to width cells. Zero disables it.
func (p *LinePrompter) WithWidth(width int) *LinePrompter {
	p.width = width
	return p
}

// Choose lists the candidates and reads answers until one classifies.
// Running out of input aborts.
func (p *LinePrompter) Choose(ctx context.Context, req ChoiceRequest) (Choice, error) {
	fmt.Fprintf(p.out, "Found multiple candidates for %s:\n", filepath.Base(req.File))
	for i, opt := range req.Options {
		fmt.Fprintln(p.out, p.fit(fmt.Sprintf("%d) %s", i, opt)))
	}

	question := fmt.Sprintf("   Choose correct episode (0-%d/skip/abort)? ", len(req.Options)-1)
	for {
		answer, err := p.ask(ctx, question)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Choice{Kind: ChoiceAbort}, nil
			}
			return Choice{}, err
		}
		if choice, ok := ParseChoice(answer, len(req.Options)); ok {
			return choice, nil
		}
	}
}

// Confirm asks whether to rename and reads answers until one classifies.
// Running out of input aborts.
func (p *LinePrompter) Confirm(ctx context.Context, req ConfirmRequest) (Answer, error) {
	for {
		answer, err := p.ask(ctx, "    Rename (yes/no/abort)? ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return AnswerAbort, nil
			}
			return 0, err
		}
		if a, ok := ParseConfirm(answer); ok {
			return a, nil
		}
	}
}

// ask prints question and returns the next input line. A final line without
// newline is still returned; io.EOF only comes once nothing is left.
func (p *LinePrompter) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *LinePrompter) fit(line string) string {
	if p.width <= 0 {
		return line
	}
	return runewidth.Truncate(line, p.width, "…")
}
