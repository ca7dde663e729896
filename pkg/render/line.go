// Package render turns a content node and its descendants into display lines.
//
// Lines carry style intent (emphasis, underline, bold) rather than terminal
// escape codes; the terminal sink in pkg/ui maps them onto its theme.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// LineKind distinguishes body lines from the markers the renderer inserts.
type LineKind int

const (
	LineContent   LineKind = iota // packed or wrapped value text
	LineTruncated                 // "(truncated)" marker after a capped node
	LineBlank                     // separator before a nested group
)

// TruncatedMarker is the text of a LineTruncated line.
const TruncatedMarker = "(truncated)"

// Segment is the text of one value (or one wrapped piece of it) on a line.
type Segment struct {
	Text       string
	ValueIndex int // index into the owning node's Values

	Emphasis  bool // main primary content
	Underline bool // URL
	Bold      bool // title
}

// Plain reports whether the segment uses the caller's body style.
func (s Segment) Plain() bool {
	return !s.Emphasis && !s.Underline && !s.Bold
}

// Line is one display row.
type Line struct {
	NodeID   string
	Kind     LineKind
	Indent   int
	Segments []Segment
}

// Text returns the line as plain text, indent included. Segments are joined
// by a single space.
func (l Line) Text() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", l.Indent))
	switch l.Kind {
	case LineTruncated:
		sb.WriteString(TruncatedMarker)
	case LineBlank:
	default:
		for i, s := range l.Segments {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// Width returns the display width of the line in terminal cells.
func (l Line) Width() int {
	return runewidth.StringWidth(l.Text())
}

// Texts is a convenience for tests and the --dump mode.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text()
	}
	return out
}
