// Package status prints the status lines of a run and its closing summary.
package status

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Digital-Shane/tvrename/internal/core"
	"github.com/Digital-Shane/tvrename/internal/tui/theme"
	"github.com/charmbracelet/lipgloss"
)

// Printer writes one styled line per core.Event.
type Printer struct {
	out   io.Writer
	theme theme.Theme
	plain bool
}

// Option configures a Printer.
type Option func(*Printer)

// WithTheme overrides the styles used for status lines.
func WithTheme(th theme.Theme) Option {
	return func(p *Printer) {
		p.theme = th
	}
}

// WithPlain drops icons so output matches the bare status messages. Used
// when stdout is not a terminal.
func WithPlain(plain bool) Option {
	return func(p *Printer) {
		p.plain = plain
	}
}

// NewPrinter writes to out. Styles adapt to out's color support.
func NewPrinter(out io.Writer, opts ...Option) *Printer {
	p := &Printer{out: out}
	p.theme = theme.New(theme.WithRenderer(lipgloss.NewRenderer(out)))
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type lineStyle struct {
	icon  string
	badge theme.BadgeKind
}

var eventStyles = map[core.EventKind]lineStyle{
	core.EventNotRegular:   {"skip", theme.BadgeMuted},
	core.EventNoCandidates: {"skip", theme.BadgeWarning},
	core.EventAlreadyNamed: {"nochange", theme.BadgeMuted},
	core.EventCollision:    {"collision", theme.BadgeWarning},
	core.EventPlanned:      {"planned", theme.BadgeInfo},
	core.EventRenamed:      {"renamed", theme.BadgeSuccess},
	core.EventDeclined:     {"declined", theme.BadgeMuted},
	core.EventFailed:       {"error", theme.BadgeError},
	core.EventAborted:      {"abort", theme.BadgeError},
	core.EventSkipped:      {"skip", theme.BadgeMuted},
}

// Report implements core.Reporter.
func (p *Printer) Report(e core.Event) {
	fmt.Fprintln(p.out, p.Line(e))
}

// Line renders e without writing it.
func (p *Printer) Line(e core.Event) string {
	msg := e.Message()
	ls, ok := eventStyles[e.Kind]
	if !ok {
		return msg
	}
	styled := p.theme.BadgeStyle(ls.badge).Render(msg)
	if p.plain {
		return styled
	}
	return p.theme.Icon(ls.icon) + " " + styled
}

// Banner prints the dry-run notice.
func (p *Printer) Banner() {
	fmt.Fprintln(p.out, p.theme.HeaderStyle().Render("*** Dry run only ***"))
}

// Summary prints the closing table. Zero counters are left out.
func (p *Printer) Summary(stats core.Stats) {
	rows := [][]string{}
	add := func(label string, n int) {
		if n > 0 {
			rows = append(rows, []string{label, strconv.Itoa(n)})
		}
	}
	add("Shows", stats.Shows)
	add("Files", stats.Files)
	add("Renamed", stats.Renamed)
	add("Planned (dry run)", stats.Planned)
	add("Already named", stats.AlreadyNamed)
	add("Target exists", stats.Collisions)
	add("No candidates", stats.NoCandidates)
	add("Skipped", stats.Skipped)
	add("Declined", stats.Declined)
	add("Failed", stats.Failed)
	add("Not a regular file", stats.NotRegular)
	if len(rows) == 0 {
		return
	}

	title := "Summary"
	if stats.Aborted {
		title = "Summary (aborted)"
	}
	if !p.plain {
		title = p.theme.Icon("stats") + " " + title
	}
	fmt.Fprintln(p.out, p.theme.NameStyle().Render(title))
	fmt.Fprintln(p.out, RenderTable([]string{"Result", "Count"}, rows, []Align{AlignLeft, AlignRight}))
}
