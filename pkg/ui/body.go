package ui

import (
	"strings"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/render"
)

const (
	gutterMark  = "▌ "
	gutterBlank = "  "
	gutterWidth = 2
)

// body is one painted frame of the current view.
type body struct {
	rows []string

	// Row range of the selected item, inclusive; -1 when nothing is
	// selected.
	selStart, selEnd int
}

// paintBody renders every item of the view. focus is the value index under
// the Tab focus on the selected item, or -1.
func paintBody(t Theme, r *render.Renderer, items []*content.Node, cursor int, focus int) body {
	b := body{selStart: -1, selEnd: -1}
	for i, node := range items {
		selected := i == cursor
		if selected {
			b.selStart = len(b.rows)
		}
		for _, line := range r.Render(node) {
			// focus indexes the selected node's own values, not its
			// descendants'.
			f := -1
			if selected && line.NodeID == node.ID {
				f = focus
			}
			b.rows = append(b.rows, paintLine(t, line, selected, f))
		}
		if selected {
			b.selEnd = len(b.rows) - 1
		}
	}
	return b
}

func paintLine(t Theme, line render.Line, selected bool, focus int) string {
	var sb strings.Builder
	if selected {
		sb.WriteString(t.GutterActive.Render(gutterMark))
	} else {
		sb.WriteString(gutterBlank)
	}
	sb.WriteString(strings.Repeat(" ", line.Indent))

	switch line.Kind {
	case render.LineBlank:
	case render.LineTruncated:
		sb.WriteString(t.Truncated.Render(render.TruncatedMarker))
	default:
		for i, seg := range line.Segments {
			if i > 0 {
				sb.WriteByte(' ')
			}
			st := t.Segment(seg)
			if seg.ValueIndex == focus {
				st = t.Focused.Inherit(st)
			}
			sb.WriteString(st.Render(seg.Text))
		}
	}
	return sb.String()
}
