package testutil

import (
	"slices"
	"testing"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
)

// IDs returns the ids of nodes in order.
func IDs(nodes []*content.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// AssertIDs verifies nodes carry exactly the expected ids in order.
func AssertIDs(t *testing.T, nodes []*content.Node, want ...string) {
	t.Helper()
	got := IDs(nodes)
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

// AssertLinked verifies every node in the tree agrees with its parent on
// ParentID and Depth.
func AssertLinked(t *testing.T, tree *content.Tree) {
	t.Helper()
	tree.Walk(func(n *content.Node) bool {
		for _, c := range n.Children {
			if c.ParentID != n.ID {
				t.Errorf("node %s: parent %q, want %q", c.ID, c.ParentID, n.ID)
			}
			if c.Depth != n.Depth+1 {
				t.Errorf("node %s: depth %d, want %d", c.ID, c.Depth, n.Depth+1)
			}
		}
		return true
	})
}

// AssertLines verifies rendered texts match want line by line.
func AssertLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d lines %q, want %d lines %q", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
