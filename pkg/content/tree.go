package content

// Tree is the immutable, validated document tree for one session.
type Tree struct {
	title    string
	root     *Node
	byID     map[string]*Node
	byDepth  [][]*Node // pre-order, so siblings keep insertion order
	maxDepth int
	size     int
}

// NewTree validates root against the tree invariants and indexes it.
// The first violation is returned as an *InvariantError; no partial tree is
// ever returned.
func NewTree(title string, root *Node) (*Tree, error) {
	if root == nil {
		return nil, violation("", ErrNilNode, "tree has no root")
	}
	if root.ParentID != "" {
		return nil, violation(root.ID, ErrRootHasParent, "parent %q", root.ParentID)
	}
	if root.Depth != 0 {
		return nil, violation(root.ID, ErrDepthMismatch, "root depth %d, want 0", root.Depth)
	}

	t := &Tree{
		title: title,
		root:  root,
		byID:  make(map[string]*Node),
	}
	if err := t.index(root); err != nil {
		return nil, err
	}
	return t, nil
}

// index walks the tree once, checking invariants and filling the lookups.
func (t *Tree) index(root *Node) error {
	var visit func(n *Node) error
	visit = func(n *Node) error {
		if n.ID == "" {
			return violation("", ErrEmptyID, "at depth %d", n.Depth)
		}
		if _, dup := t.byID[n.ID]; dup {
			return violation(n.ID, ErrDuplicateID, "")
		}
		for _, v := range n.Values {
			if v.IsMainPrimaryContent && !v.IsPrimaryContent {
				return violation(n.ID, ErrMainNotPrimary, "value %q", v.Name)
			}
		}

		t.byID[n.ID] = n
		t.size++
		for len(t.byDepth) <= n.Depth {
			t.byDepth = append(t.byDepth, nil)
		}
		t.byDepth[n.Depth] = append(t.byDepth[n.Depth], n)
		if n.Depth > t.maxDepth {
			t.maxDepth = n.Depth
		}

		for _, child := range n.Children {
			if child == nil {
				return violation(n.ID, ErrNilNode, "nil child")
			}
			if child.ParentID != n.ID {
				return violation(child.ID, ErrParentMismatch, "parent %q, owned by %q", child.ParentID, n.ID)
			}
			if child.Depth != n.Depth+1 {
				return violation(child.ID, ErrDepthMismatch, "depth %d under parent depth %d", child.Depth, n.Depth)
			}
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(root)
}

// Title returns the document title supplied at construction.
func (t *Tree) Title() string { return t.title }

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// MaxDepth returns the deepest depth present in the tree.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// Len returns the number of nodes.
func (t *Tree) Len() int { return t.size }

// Node looks up a node by id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// NodesAtDepth returns every node at depth d in tree order. The returned
// slice is shared; callers must not modify it.
func (t *Tree) NodesAtDepth(d int) []*Node {
	if d < 0 || d >= len(t.byDepth) {
		return nil
	}
	return t.byDepth[d]
}

// Walk visits every node in pre-order. Returning false from fn stops the
// walk early.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		if !fn(n) {
			return false
		}
		for _, c := range n.Children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(t.root)
}

// Link fills in ParentID and Depth for every node below root, so callers
// assembling a tree by hand only have to set ids, values and children.
// It does not validate; pass the result to NewTree for that.
func Link(root *Node) *Node {
	if root == nil {
		return nil
	}
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			c.ParentID = n.ID
			c.Depth = n.Depth + 1
			visit(c)
		}
	}
	root.ParentID = ""
	root.Depth = 0
	visit(root)
	return root
}
