package content

import (
	"errors"
	"testing"
)

func sampleRoot() *Node {
	return Link(&Node{
		ID:     "root",
		Values: []ValueAnnotation{{Name: "title", Value: "Front page", IsTitle: true}},
		Children: []*Node{
			{ID: "a", Values: []ValueAnnotation{{Name: "text", Value: "alpha"}}, Children: []*Node{
				{ID: "a1", Values: []ValueAnnotation{{Name: "text", Value: "alpha one"}}},
				{ID: "a2"},
			}},
			{ID: "b", Values: []ValueAnnotation{{Name: "link", Value: "https://example.com", IsURL: true}}},
		},
	})
}

func TestNewTree_IndexesByDepthInTreeOrder(t *testing.T) {
	tree, err := NewTree("doc", sampleRoot())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	if tree.MaxDepth() != 2 {
		t.Errorf("MaxDepth = %d, want 2", tree.MaxDepth())
	}
	if tree.Len() != 5 {
		t.Errorf("Len = %d, want 5", tree.Len())
	}

	tests := []struct {
		depth int
		want  []string
	}{
		{0, []string{"root"}},
		{1, []string{"a", "b"}},
		{2, []string{"a1", "a2"}},
		{3, nil},
		{-1, nil},
	}
	for _, tt := range tests {
		got := tree.NodesAtDepth(tt.depth)
		if len(got) != len(tt.want) {
			t.Errorf("depth %d: got %d nodes, want %d", tt.depth, len(got), len(tt.want))
			continue
		}
		for i, n := range got {
			if n.ID != tt.want[i] {
				t.Errorf("depth %d[%d] = %q, want %q", tt.depth, i, n.ID, tt.want[i])
			}
		}
	}

	if n, ok := tree.Node("a2"); !ok || n.ParentID != "a" {
		t.Errorf("Node(a2) = %+v, %v", n, ok)
	}
	if _, ok := tree.Node("missing"); ok {
		t.Error("expected lookup of unknown id to fail")
	}
}

func TestNewTree_RejectsInvariantViolations(t *testing.T) {
	tests := []struct {
		name string
		root func() *Node
		want error
	}{
		{"nil root", func() *Node { return nil }, ErrNilNode},
		{"root with parent", func() *Node {
			r := sampleRoot()
			r.ParentID = "x"
			return r
		}, ErrRootHasParent},
		{"duplicate id", func() *Node {
			r := sampleRoot()
			r.Children[1].ID = "a"
			return r
		}, ErrDuplicateID},
		{"empty id", func() *Node {
			r := sampleRoot()
			r.Children[0].Children[0].ID = ""
			return r
		}, ErrEmptyID},
		{"wrong parent", func() *Node {
			r := sampleRoot()
			r.Children[0].Children[1].ParentID = "b"
			return r
		}, ErrParentMismatch},
		{"depth skip", func() *Node {
			r := sampleRoot()
			r.Children[1].Depth = 3
			return r
		}, ErrDepthMismatch},
		{"main without primary", func() *Node {
			r := sampleRoot()
			r.Children[1].Values = append(r.Children[1].Values, ValueAnnotation{Name: "body", Value: "x", IsMainPrimaryContent: true})
			return r
		}, ErrMainNotPrimary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewTree("doc", tt.root())
			if err == nil {
				t.Fatalf("expected error, got tree with %d nodes", tree.Len())
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			var inv *InvariantError
			if !errors.As(err, &inv) {
				t.Errorf("expected *InvariantError, got %T", err)
			}
		})
	}
}

func TestNode_Helpers(t *testing.T) {
	root := sampleRoot()

	if !root.Children[0].Children[1].IsDegenerate() {
		t.Error("node without values and children should be degenerate")
	}
	if root.Children[0].IsDegenerate() {
		t.Error("node with values should not be degenerate")
	}
	if got := root.Title(); got != "Front page" {
		t.Errorf("Title = %q", got)
	}
	if got := root.Children[1].URL(); got != "https://example.com" {
		t.Errorf("URL = %q", got)
	}
	if got := root.Children[0].Label(); got != "alpha" {
		t.Errorf("Label = %q, want first displayable value", got)
	}
	if got := root.Children[0].Children[1].Label(); got != "a2" {
		t.Errorf("Label = %q, want id fallback", got)
	}
}

func TestValueAnnotation_Displayable(t *testing.T) {
	tests := []struct {
		name        string
		v           ValueAnnotation
		primaryOnly bool
		want        bool
	}{
		{"plain all mode", ValueAnnotation{}, false, true},
		{"plain primary mode", ValueAnnotation{}, true, false},
		{"primary", ValueAnnotation{IsPrimaryContent: true}, true, true},
		{"id never", ValueAnnotation{IsID: true, IsPrimaryContent: true}, true, false},
		{"action link never", ValueAnnotation{IsActionLink: true}, false, false},
		{"decorative shown", ValueAnnotation{IsDecorative: true}, false, true},
	}
	for _, tt := range tests {
		if got := tt.v.Displayable(tt.primaryOnly); got != tt.want {
			t.Errorf("%s: Displayable(%v) = %v, want %v", tt.name, tt.primaryOnly, got, tt.want)
		}
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	tree, err := NewTree("doc", sampleRoot())
	if err != nil {
		t.Fatal(err)
	}
	var seen []string
	tree.Walk(func(n *Node) bool {
		seen = append(seen, n.ID)
		return n.ID != "a1"
	})
	want := []string{"root", "a", "a1"}
	if len(seen) != len(want) {
		t.Fatalf("visited %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, seen[i], want[i])
		}
	}
}
