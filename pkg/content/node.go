// Package content holds the document tree handed to the navigator by the
// loader. A Tree is built once, validated, and never mutated afterwards, so
// it can be shared by reference between the projector, the depth estimator
// and the renderer.
package content

// ValueAnnotation is one labeled scalar extracted from the source document.
// The classification flags are independent of each other, except that
// IsMainPrimaryContent implies IsPrimaryContent.
type ValueAnnotation struct {
	Name  string `json:"name"`
	Value string `json:"value"`

	IsID                 bool `json:"is_id,omitempty"`
	IsURL                bool `json:"is_url,omitempty"`
	IsDecorative         bool `json:"is_decorative,omitempty"`
	IsActionLink         bool `json:"is_action_link,omitempty"`
	IsTitle              bool `json:"is_title,omitempty"`
	IsPrimaryContent     bool `json:"is_primary_content,omitempty"`
	IsMainPrimaryContent bool `json:"is_main_primary_content,omitempty"`
}

// Displayable reports whether the value may appear as body text.
// Ids and action links are never displayed directly.
func (v ValueAnnotation) Displayable(primaryOnly bool) bool {
	if v.IsID || v.IsActionLink {
		return false
	}
	if primaryOnly {
		return v.IsPrimaryContent
	}
	return true
}

// Node is one unit of extracted document content.
type Node struct {
	ID       string            // Unique within the tree
	ParentID string            // Empty only for the root
	Depth    int               // Root is 0; child.Depth == parent.Depth+1
	Values   []ValueAnnotation // Ordered, may be empty
	Children []*Node           // Ordered, exclusively owned by this node
}

// IsDegenerate reports whether the node carries neither values nor children.
// Such nodes are extraction artifacts and never appear in a view.
func (n *Node) IsDegenerate() bool {
	return n == nil || (len(n.Values) == 0 && len(n.Children) == 0)
}

// HasChildren reports whether the node owns at least one child.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Title returns the first value flagged as a title, or "".
func (n *Node) Title() string {
	if n == nil {
		return ""
	}
	for _, v := range n.Values {
		if v.IsTitle && v.Value != "" {
			return v.Value
		}
	}
	return ""
}

// URL returns the first value flagged as a URL, or "".
func (n *Node) URL() string {
	if n == nil {
		return ""
	}
	for _, v := range n.Values {
		if v.IsURL && v.Value != "" {
			return v.Value
		}
	}
	return ""
}

// Label returns a short human label for breadcrumbs: the title when there is
// one, else the first displayable value, else the id.
func (n *Node) Label() string {
	if n == nil {
		return ""
	}
	if t := n.Title(); t != "" {
		return t
	}
	for _, v := range n.Values {
		if v.Displayable(false) && v.Value != "" {
			return v.Value
		}
	}
	return n.ID
}
