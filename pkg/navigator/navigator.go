package navigator

import (
	"slices"
	"time"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/debug"
	"github.com/davidRoussov/json-to-terminal/pkg/render"
	"github.com/davidRoussov/json-to-terminal/pkg/session"
)

// AutoDepth asks New to pick the starting depth with StartDepth.
const AutoDepth = -1

// State identifies a navigation position. Two navigators with equal states
// show the same view.
type State struct {
	Depth     int
	Ancestors []string
}

// Equal reports whether s and o name the same position.
func (s State) Equal(o State) bool {
	return s.Depth == o.Depth && slices.Equal(s.Ancestors, o.Ancestors)
}

func (s State) clone() State {
	return State{Depth: s.Depth, Ancestors: slices.Clone(s.Ancestors)}
}

// Options configures a Navigator.
type Options struct {
	// StartDepth is the initial depth, clamped to the tree. AutoDepth runs
	// the coherent depth estimator.
	StartDepth int
	// PrimaryOnly starts the session in primary-content filter mode.
	PrimaryOnly bool
	// KeepEmpty disables dropping nodes that would render no lines.
	KeepEmpty bool
}

// Navigator owns the navigation state of one session over an immutable
// tree: the current depth, the ancestor breadcrumb and the selection over
// the projected view.
type Navigator struct {
	tree      *content.Tree
	projector *Projector
	keepEmpty bool

	state       State
	view        *SelectionList[*content.Node]
	primaryOnly bool

	// value focus is tied to a node so moving the cursor drops it
	focusNode string
	focusPos  int

	done   bool
	chosen bool
}

// New builds a navigator positioned at the configured start depth. A
// singleton starting view is collapsed the same way Deepen collapses one.
func New(tree *content.Tree, opts Options) *Navigator {
	n := &Navigator{
		tree:        tree,
		projector:   NewProjector(tree),
		keepEmpty:   opts.KeepEmpty,
		primaryOnly: opts.PrimaryOnly,
	}
	n.projector.Keep = n.keep

	depth := opts.StartDepth
	if depth == AutoDepth {
		depth = StartDepth(tree)
	}
	depth = min(max(depth, 0), tree.MaxDepth())
	n.state = State{Depth: depth}
	n.setView(n.project())
	n.collapseSingletons()

	debug.Log("navigator: start depth=%d ancestors=%v items=%d", n.state.Depth, n.state.Ancestors, n.view.Len())
	return n
}

func (n *Navigator) keep(node *content.Node) bool {
	if n.keepEmpty {
		return true
	}
	return render.Renderable(node, n.primaryOnly)
}

func (n *Navigator) project() []*content.Node {
	return n.projector.Project(n.state.Depth, n.state.Ancestors)
}

func (n *Navigator) setView(items []*content.Node) {
	n.view = NewSelectionList(items)
	n.clearFocus()
}

// Tree returns the tree being navigated.
func (n *Navigator) Tree() *content.Tree { return n.tree }

// State returns a copy of the current position.
func (n *Navigator) State() State { return n.state.clone() }

// Depth returns the current depth.
func (n *Navigator) Depth() int { return n.state.Depth }

// MaxDepth returns the deepest level in the tree.
func (n *Navigator) MaxDepth() int { return n.tree.MaxDepth() }

// Ancestors returns a copy of the ancestor breadcrumb, outermost first.
func (n *Navigator) Ancestors() []string { return slices.Clone(n.state.Ancestors) }

// Breadcrumb resolves the ancestor ids to nodes. Ids that no longer
// resolve are skipped.
func (n *Navigator) Breadcrumb() []*content.Node {
	crumbs := make([]*content.Node, 0, len(n.state.Ancestors))
	for _, id := range n.state.Ancestors {
		if node, ok := n.tree.Node(id); ok {
			crumbs = append(crumbs, node)
		}
	}
	return crumbs
}

// View returns the selection list over the current view.
func (n *Navigator) View() *SelectionList[*content.Node] { return n.view }

// Selected returns the node under the cursor.
func (n *Navigator) Selected() (*content.Node, bool) { return n.view.SelectedItem() }

// PrimaryOnly reports whether primary-content filter mode is on.
func (n *Navigator) PrimaryOnly() bool { return n.primaryOnly }

// Done reports whether the session has ended.
func (n *Navigator) Done() bool { return n.done }

// Deepen descends into the selected node. It is a no-op without a
// selection, at the deepest level, or when the selected node has nothing
// to show below it. Singleton levels reached on the way are collapsed.
func (n *Navigator) Deepen() bool {
	sel, ok := n.view.SelectedItem()
	if !ok {
		return false
	}
	if !n.descend(sel) {
		return false
	}
	n.collapseSingletons()
	return true
}

func (n *Navigator) descend(sel *content.Node) bool {
	if n.state.Depth >= n.tree.MaxDepth() {
		return false
	}
	next := State{
		Depth:     n.state.Depth + 1,
		Ancestors: append(slices.Clone(n.state.Ancestors), sel.ID),
	}
	items := n.projector.Project(next.Depth, next.Ancestors)
	if len(items) == 0 {
		debug.Log("navigator: deepen into %q yields nothing", sel.ID)
		return false
	}
	n.state = next
	n.setView(items)
	return true
}

func (n *Navigator) collapseSingletons() {
	for n.view.Len() == 1 {
		n.view.Select(0)
		if !n.descend(n.view.Items()[0]) {
			return
		}
	}
}

// Rise goes back exactly one level. The view at the new level starts
// unselected. Rise at depth 0 is a no-op.
func (n *Navigator) Rise() bool {
	if n.state.Depth <= 0 {
		return false
	}
	next := State{Depth: n.state.Depth - 1, Ancestors: slices.Clone(n.state.Ancestors)}
	if len(next.Ancestors) > 0 {
		next.Ancestors = next.Ancestors[:len(next.Ancestors)-1]
	}
	n.state = next
	n.setView(n.project())
	return true
}

// TogglePrimaryOnly flips the filter mode and recomputes the view at the
// same position. The selection survives when its node is still visible.
// Otherwise nothing is selected and the next move resumes at the old
// position.
func (n *Navigator) TogglePrimaryOnly() {
	prev, hadSel := n.view.SelectedItem()
	prevIdx, _ := n.view.Selected()
	n.primaryOnly = !n.primaryOnly
	n.setView(n.project())
	if !hadSel {
		return
	}
	for i, node := range n.view.Items() {
		if node.ID == prev.ID {
			n.view.Select(i)
			return
		}
	}
	if n.view.Len() > 0 {
		n.view.Select(min(prevIdx, n.view.Len()-1))
		n.view.Unselect()
	}
}

// VisibleValues returns the value indices of the selected node in display
// order under the current filter mode.
func (n *Navigator) VisibleValues() []int {
	sel, ok := n.view.SelectedItem()
	if !ok {
		return nil
	}
	return render.Visible(sel, n.primaryOnly)
}

// FocusedValue returns the index into the selected node's Values that has
// value focus.
func (n *Navigator) FocusedValue() (int, bool) {
	sel, ok := n.view.SelectedItem()
	if !ok || sel.ID != n.focusNode {
		return 0, false
	}
	visible := render.Visible(sel, n.primaryOnly)
	if n.focusPos < 0 || n.focusPos >= len(visible) {
		return 0, false
	}
	return visible[n.focusPos], true
}

// NextValue moves value focus forward within the selected node, wrapping.
func (n *Navigator) NextValue() { n.moveFocus(1) }

// PreviousValue moves value focus backward within the selected node.
func (n *Navigator) PreviousValue() { n.moveFocus(-1) }

func (n *Navigator) moveFocus(step int) {
	sel, ok := n.view.SelectedItem()
	if !ok {
		return
	}
	count := len(render.Visible(sel, n.primaryOnly))
	if count == 0 {
		return
	}
	if sel.ID != n.focusNode || n.focusPos < 0 || n.focusPos >= count {
		n.focusNode = sel.ID
		if step > 0 {
			n.focusPos = 0
		} else {
			n.focusPos = count - 1
		}
		return
	}
	n.focusPos = (n.focusPos + step + count) % count
}

func (n *Navigator) clearFocus() {
	n.focusNode = ""
	n.focusPos = -1
}

// Apply performs the transition for ev and reports whether anything
// changed. Cursor events that leave the cursor in place report false.
func (n *Navigator) Apply(ev Event) bool {
	if n.done {
		return false
	}
	before := n.snapshot()

	switch ev {
	case EventQuit:
		n.done = true
		return true
	case EventChoose:
		if _, ok := n.view.SelectedItem(); !ok {
			return false
		}
		n.done = true
		n.chosen = true
		return true
	case EventSelectNext:
		n.view.Next()
	case EventSelectPrevious:
		n.view.Previous()
	case EventFirst:
		n.view.First()
	case EventLast:
		n.view.Last()
	case EventDeepen:
		return n.Deepen()
	case EventRise:
		return n.Rise()
	case EventToggleFilterMode:
		n.TogglePrimaryOnly()
		return true
	case EventNextValue:
		n.NextValue()
	case EventPreviousValue:
		n.PreviousValue()
	default:
		return false
	}

	after := n.snapshot()
	if after.cursor != before.cursor || after.selected != before.selected {
		n.clearFocus()
		return true
	}
	return after != before
}

type snapshot struct {
	cursor    int
	selected  bool
	focusNode string
	focusPos  int
}

func (n *Navigator) snapshot() snapshot {
	c, ok := n.view.Selected()
	return snapshot{cursor: c, selected: ok, focusNode: n.focusNode, focusPos: n.focusPos}
}

// Result describes the final state for the host process.
func (n *Navigator) Result() session.Result {
	res := session.Result{
		Title:     n.tree.Title(),
		Depth:     n.state.Depth,
		Ancestors: n.Ancestors(),
		Chosen:    n.chosen,
		EndedAt:   time.Now(),
	}
	sel, ok := n.view.SelectedItem()
	if !ok {
		return res
	}
	res.NodeID = sel.ID
	res.URL = sel.URL()
	if i, ok := n.FocusedValue(); ok {
		v := sel.Values[i]
		res.Value = v.Value
		if v.IsURL {
			res.URL = v.Value
		}
	}
	return res
}
