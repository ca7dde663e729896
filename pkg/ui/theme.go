package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/davidRoussov/json-to-terminal/pkg/config"
	"github.com/davidRoussov/json-to-terminal/pkg/render"
)

// colorProfile is detected once from stdout.
var colorProfile = colorprofile.Detect(os.Stdout, os.Environ())

// bg keeps hex backgrounds for truecolor terminals only. Down-converted
// backgrounds clash with custom terminal palettes, so lesser terminals
// keep their own.
func bg(hex string) lipgloss.TerminalColor {
	if colorProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// fg falls back to plain white below 256 colors.
func fg(hex string) lipgloss.TerminalColor {
	if colorProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the pre-computed styles used to paint a frame.
type Theme struct {
	Renderer *lipgloss.Renderer
	Palette  config.PaletteConfig

	// Content
	Body      lipgloss.Style
	Emphasis  lipgloss.Style // main primary content
	Link      lipgloss.Style // URLs
	Title     lipgloss.Style
	Truncated lipgloss.Style
	Focused   lipgloss.Style // value under the Tab focus

	// Selection gutter
	Gutter       lipgloss.Style
	GutterActive lipgloss.Style

	// Chrome
	Header      lipgloss.Style
	Breadcrumb  lipgloss.Style
	HeaderInfo  lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Empty       lipgloss.Style
}

// NewTheme builds a theme from a palette.
func NewTheme(r *lipgloss.Renderer, p config.PaletteConfig) Theme {
	t := Theme{Renderer: r, Palette: p}

	text := fg(p.Foreground)
	muted := fg(p.Muted)

	t.Body = r.NewStyle().Foreground(text)
	t.Emphasis = r.NewStyle().Foreground(fg(p.Emphasis)).Bold(true)
	t.Link = r.NewStyle().Foreground(fg(p.Accent)).Underline(true)
	t.Title = r.NewStyle().Foreground(text).Bold(true)
	t.Truncated = r.NewStyle().Foreground(muted).Italic(true)
	t.Focused = r.NewStyle().Reverse(true)

	t.Gutter = r.NewStyle()
	t.GutterActive = r.NewStyle().Foreground(fg(p.Attention)).Bold(true)

	t.Header = r.NewStyle().
		Background(bg(p.Accent)).
		Foreground(fg(p.Background)).
		Bold(true).
		Padding(0, 1)
	t.Breadcrumb = r.NewStyle().Foreground(fg(p.Accent))
	t.HeaderInfo = r.NewStyle().Foreground(muted)
	t.Status = r.NewStyle().Foreground(muted)
	t.StatusError = r.NewStyle().Foreground(fg(p.Attention)).Bold(true)
	t.Empty = r.NewStyle().Foreground(muted).Italic(true)

	return t
}

// DefaultTheme returns the theme for the default palette.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return NewTheme(r, config.DefaultConfig().Palette)
}

// Segment returns the style for one rendered segment. Combined flags stack.
func (t Theme) Segment(s render.Segment) lipgloss.Style {
	if s.Plain() {
		return t.Body
	}
	st := t.Body
	if s.Bold {
		st = st.Inherit(t.Title)
	}
	if s.Emphasis {
		st = t.Emphasis.Inherit(st)
	}
	if s.Underline {
		st = t.Link.Inherit(st)
	}
	return st
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
