package theme

import (
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
)

// IconSet represents a collection of icons keyed by semantic usage.
type IconSet map[string]string

// clone returns a copy of the icon set to avoid shared mutation across themes.
func (s IconSet) clone() IconSet {
	if s == nil {
		return nil
	}
	clone := make(IconSet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Colors holds the shared color palette.
type Colors struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// BadgeKind enumerates supported badge style variants.
type BadgeKind int

const (
	BadgeInfo BadgeKind = iota
	BadgeSuccess
	BadgeWarning
	BadgeError
	BadgeMuted
)

// Theme centralizes palette, renderer, and icon configuration.
type Theme struct {
	colors   Colors
	renderer *lipgloss.Renderer
	icons    IconSet
	fallback IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithIconSet overrides the icon set used by the theme.
func WithIconSet(set IconSet) Option {
	return func(t *Theme) {
		t.icons = set.clone()
	}
}

// WithColors overrides the base color palette.
func WithColors(colors Colors) Option {
	return func(t *Theme) {
		t.colors = colors
	}
}

// WithRenderer binds styles to a renderer, so color support is detected for
// the writer the renderer wraps instead of stdout.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(t *Theme) {
		t.renderer = r
	}
}

// New constructs a Theme with optional overrides applied.
func New(opts ...Option) Theme {
	defaults := []Option{
		WithColors(Colors{
			Primary:    lipgloss.Color("#3a6b4a"),
			Secondary:  lipgloss.Color("#5a8c6a"),
			Accent:     lipgloss.Color("#8fc279"),
			Background: lipgloss.Color("#f8f8f8"),
			Muted:      lipgloss.Color("#9ba8c0"),
			Success:    lipgloss.Color("#5dc796"),
			Warning:    lipgloss.Color("#e5b74b"),
			Error:      lipgloss.Color("#f04c56"),
		}),
		WithIconSet(defaultIconSet()),
	}

	t := Theme{fallback: asciiIcons.clone()}

	for _, opt := range append(defaults, opts...) {
		opt(&t)
	}

	if t.icons == nil {
		t.icons = defaultIconSet()
	}
	if t.renderer == nil {
		t.renderer = lipgloss.DefaultRenderer()
	}

	return t
}

// Default returns the default Theme configuration.
func Default() Theme {
	return New()
}

// Colors exposes the theme color palette.
func (t Theme) Colors() Colors {
	return t.colors
}

// Icon returns a themed icon with ASCII fallback if unavailable.
func (t Theme) Icon(name string) string {
	if icon, ok := t.icons[name]; ok {
		return icon
	}
	if icon, ok := t.fallback[name]; ok {
		return icon
	}
	return ""
}

// IconSet returns a defensive copy of the themed icon map.
func (t Theme) IconSet() IconSet {
	return t.icons.clone()
}

func (t Theme) style() lipgloss.Style {
	return t.renderer.NewStyle()
}

// HeaderStyle returns the style used for banners such as the dry-run notice.
func (t Theme) HeaderStyle() lipgloss.Style {
	return t.style().
		Bold(true).
		Background(t.colors.Primary).
		Foreground(t.colors.Background).
		Padding(0, 1)
}

// PromptStyle returns the style for questions put to the operator.
func (t Theme) PromptStyle() lipgloss.Style {
	return t.style().Bold(true).Foreground(t.colors.Accent)
}

// OptionStyle returns the style for a selectable candidate line.
func (t Theme) OptionStyle() lipgloss.Style {
	return t.style().Foreground(t.colors.Secondary)
}

// MutedStyle returns the style for hints and secondary text.
func (t Theme) MutedStyle() lipgloss.Style {
	return t.style().Foreground(t.colors.Muted)
}

// NameStyle returns the style used to highlight file names.
func (t Theme) NameStyle() lipgloss.Style {
	return t.style().Foreground(t.colors.Primary).Bold(true)
}

// BadgeStyle returns the shared badge style for the requested variant.
func (t Theme) BadgeStyle(kind BadgeKind) lipgloss.Style {
	base := t.style().Bold(true)

	switch kind {
	case BadgeSuccess:
		return base.Foreground(t.colors.Success)
	case BadgeWarning:
		return base.Foreground(t.colors.Warning)
	case BadgeError:
		return base.Foreground(t.colors.Error)
	case BadgeMuted:
		return base.Foreground(t.colors.Muted)
	default:
		return base.Foreground(t.colors.Accent)
	}
}

// defaultIconSet chooses the best icon set for the current terminal.
func defaultIconSet() IconSet {
	if isLimitedTerminal() {
		return asciiIcons.clone()
	}
	return emojiIcons.clone()
}

// isLimitedTerminal detects environments where ASCII icons are preferable.
func isLimitedTerminal() bool {
	if os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "" {
		return true
	}
	return runtime.GOOS == "windows"
}

var emojiIcons = IconSet{
	"renamed":   "✅",
	"planned":   "➡️",
	"dryrun":    "📝",
	"nochange":  "=",
	"collision": "⚠️",
	"skip":      "⏭️",
	"declined":  "⏭️",
	"abort":     "🛑",
	"error":     "❌",
	"question":  "❓",
	"tv":        "📺",
	"stats":     "📊",
}

var asciiIcons = IconSet{
	"renamed":   "[v]",
	"planned":   "[>]",
	"dryrun":    "[d]",
	"nochange":  "[=]",
	"collision": "[!]",
	"skip":      "[-]",
	"declined":  "[-]",
	"abort":     "[x]",
	"error":     "[!]",
	"question":  "[?]",
	"tv":        "[TV]",
	"stats":     "[*]",
}
