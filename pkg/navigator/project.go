package navigator

import (
	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/debug"
	"github.com/davidRoussov/json-to-terminal/pkg/metrics"
)

// Projector computes the current view: the nodes visible at a depth under
// an ancestor chain.
type Projector struct {
	tree *content.Tree

	// Keep, when set, drops nodes it returns false for. The navigator sets
	// it to the renderer's Renderable check so dead-end items never show.
	Keep func(n *content.Node) bool
}

// NewProjector returns a projector over tree.
func NewProjector(tree *content.Tree) *Projector {
	return &Projector{tree: tree}
}

// Project returns, in tree order, the non-degenerate nodes at depth whose
// parent is the last entry of ancestors. With no ancestors every node at
// that depth qualifies.
//
// An ancestor id that is not in the tree yields an empty view.
func (p *Projector) Project(depth int, ancestors []string) []*content.Node {
	defer metrics.Timer(metrics.Projection)()
	if p == nil || p.tree == nil {
		return nil
	}

	candidates := p.tree.NodesAtDepth(depth)
	if len(ancestors) > 0 {
		parentID := ancestors[len(ancestors)-1]
		parent, ok := p.tree.Node(parentID)
		if !ok {
			debug.Log("project: ancestor %q not in tree (depth=%d)", parentID, depth)
			return nil
		}
		candidates = parent.Children
	}

	var view []*content.Node
	for _, n := range candidates {
		if n == nil || n.Depth != depth || n.IsDegenerate() {
			continue
		}
		if len(ancestors) > 0 && n.ParentID != ancestors[len(ancestors)-1] {
			continue
		}
		if p.Keep != nil && !p.Keep(n) {
			continue
		}
		view = append(view, n)
	}
	debug.Log("project: depth=%d ancestors=%v -> %d nodes", depth, ancestors, len(view))
	return view
}
