package render

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/metrics"
)

// Defaults match the behaviour users know from the original viewer.
const (
	DefaultWrapWidth = 160
	DefaultMaxLines  = 20
	DefaultIndent    = 2

	// MinWrapWidth keeps deeply indented children readable.
	MinWrapWidth = 10
)

// Options controls line packing and layout.
type Options struct {
	WrapWidth      int  // columns per line before wrapping
	MaxLines       int  // per-node cap before the truncation marker
	Indent         int  // columns added per nesting level
	PrimaryOnly    bool // filter mode: primary content only
	SeparateGroups bool // blank line before a child that has its own children
}

// DefaultOptions returns the standard layout.
func DefaultOptions() Options {
	return Options{
		WrapWidth: DefaultWrapWidth,
		MaxLines:  DefaultMaxLines,
		Indent:    DefaultIndent,
	}
}

// Renderer converts nodes into lines. It holds no per-node state and is
// safe to reuse across views.
type Renderer struct {
	opts Options
}

// New returns a Renderer, replacing non-positive sizes with defaults.
func New(opts Options) *Renderer {
	if opts.WrapWidth <= 0 {
		opts.WrapWidth = DefaultWrapWidth
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = DefaultMaxLines
	}
	if opts.Indent < 0 {
		opts.Indent = 0
	}
	return &Renderer{opts: opts}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// WithPrimaryOnly returns a copy of the renderer using the given filter mode.
func (r *Renderer) WithPrimaryOnly(primaryOnly bool) *Renderer {
	opts := r.opts
	opts.PrimaryOnly = primaryOnly
	return &Renderer{opts: opts}
}

// WithWrapWidth returns a copy of the renderer wrapping at width columns.
func (r *Renderer) WithWrapWidth(width int) *Renderer {
	opts := r.opts
	if width > 0 {
		opts.WrapWidth = width
	}
	return &Renderer{opts: opts}
}

// Render returns the lines for n followed by the lines of its descendants in
// tree order. A node with nothing to display and no displayable descendants
// yields no lines.
func (r *Renderer) Render(n *content.Node) []Line {
	defer metrics.Timer(metrics.Render)()
	if n == nil {
		return nil
	}
	return r.renderAt(n, 0)
}

func (r *Renderer) renderAt(n *content.Node, indent int) []Line {
	lines := r.nodeLines(n, indent)

	for _, child := range n.Children {
		childLines := r.renderAt(child, indent+r.opts.Indent)
		if len(childLines) == 0 {
			continue
		}
		if r.opts.SeparateGroups && child.HasChildren() && len(lines) > 0 {
			lines = append(lines, Line{NodeID: child.ID, Kind: LineBlank, Indent: indent + r.opts.Indent})
		}
		lines = append(lines, childLines...)
	}
	return lines
}

// nodeLines packs the node's own values, capped at MaxLines.
func (r *Renderer) nodeLines(n *content.Node, indent int) []Line {
	idx := Visible(n, r.opts.PrimaryOnly)
	if len(idx) == 0 {
		return nil
	}

	width := r.opts.WrapWidth - indent
	if width < MinWrapWidth {
		width = MinWrapWidth
	}

	var (
		lines   []Line
		current []Segment
		used    int
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		lines = append(lines, Line{NodeID: n.ID, Kind: LineContent, Indent: indent, Segments: current})
		current = nil
		used = 0
	}

	for _, i := range idx {
		v := n.Values[i]
		text := normalize(v.Value)
		w := runewidth.StringWidth(text)

		if w > width {
			// Long values always get their own wrapped block.
			flush()
			for _, piece := range strings.Split(wordwrap.String(text, width), "\n") {
				piece = strings.TrimRight(piece, " ")
				if piece == "" {
					continue
				}
				lines = append(lines, Line{NodeID: n.ID, Kind: LineContent, Indent: indent,
					Segments: []Segment{styled(piece, i, v)}})
			}
			continue
		}

		if len(current) > 0 && used+1+w > width {
			flush()
		}
		if len(current) > 0 {
			used++
		}
		current = append(current, styled(text, i, v))
		used += w
	}
	flush()

	if len(lines) > r.opts.MaxLines {
		lines = lines[:r.opts.MaxLines]
		lines = append(lines, Line{NodeID: n.ID, Kind: LineTruncated, Indent: indent})
	}
	return lines
}

func styled(text string, index int, v content.ValueAnnotation) Segment {
	return Segment{
		Text:       text,
		ValueIndex: index,
		Emphasis:   v.IsMainPrimaryContent,
		Underline:  v.IsURL,
		Bold:       v.IsTitle,
	}
}

// normalize collapses runs of whitespace, newlines included, into single
// spaces so a value never breaks the line layout on its own.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Visible returns the indices of n's values that are displayed in the given
// filter mode, in display order: primary content first, then by name.
func Visible(n *content.Node, primaryOnly bool) []int {
	if n == nil {
		return nil
	}
	var idx []int
	for i, v := range n.Values {
		if !v.Displayable(primaryOnly) || normalize(v.Value) == "" {
			continue
		}
		idx = append(idx, i)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := n.Values[idx[a]], n.Values[idx[b]]
		if va.IsPrimaryContent != vb.IsPrimaryContent {
			return va.IsPrimaryContent
		}
		return va.Name < vb.Name
	})
	return idx
}

// Renderable reports whether Render would produce at least one line for n.
func Renderable(n *content.Node, primaryOnly bool) bool {
	if n == nil {
		return false
	}
	if len(Visible(n, primaryOnly)) > 0 {
		return true
	}
	for _, c := range n.Children {
		if Renderable(c, primaryOnly) {
			return true
		}
	}
	return false
}
