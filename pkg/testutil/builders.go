package testutil

import (
	"testing"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
)

// ValueOption sets a classification flag on a value built with Val.
type ValueOption func(*content.ValueAnnotation)

// Classification flags for Val. Main implies Primary.
var (
	ID         ValueOption = func(v *content.ValueAnnotation) { v.IsID = true }
	URL        ValueOption = func(v *content.ValueAnnotation) { v.IsURL = true }
	Decorative ValueOption = func(v *content.ValueAnnotation) { v.IsDecorative = true }
	Action     ValueOption = func(v *content.ValueAnnotation) { v.IsActionLink = true }
	Title      ValueOption = func(v *content.ValueAnnotation) { v.IsTitle = true }
	Primary    ValueOption = func(v *content.ValueAnnotation) { v.IsPrimaryContent = true }
	Main       ValueOption = func(v *content.ValueAnnotation) {
		v.IsPrimaryContent = true
		v.IsMainPrimaryContent = true
	}
)

// Val builds a value annotation.
func Val(name, value string, opts ...ValueOption) content.ValueAnnotation {
	v := content.ValueAnnotation{Name: name, Value: value}
	for _, o := range opts {
		o(&v)
	}
	return v
}

// Node builds an unlinked node. Use Link or MustTree to fill in parent ids
// and depths.
func Node(id string, values []content.ValueAnnotation, children ...*content.Node) *content.Node {
	return &content.Node{ID: id, Values: values, Children: children}
}

// Leaf builds a childless node carrying a single plain value.
func Leaf(id, text string) *content.Node {
	return Node(id, []content.ValueAnnotation{Val("text", text)})
}

// Vals is shorthand for a value slice.
func Vals(vs ...content.ValueAnnotation) []content.ValueAnnotation {
	return vs
}

// MustTree links root and builds a tree, failing the test on any invariant
// violation.
func MustTree(tb testing.TB, title string, root *content.Node) *content.Tree {
	tb.Helper()
	tree, err := content.NewTree(title, content.Link(root))
	if err != nil {
		tb.Fatalf("NewTree: %v", err)
	}
	return tree
}

// ChainScenario is the r/a/b tree: a valueless container "a" holding a
// single leaf "b".
func ChainScenario() *content.Node {
	return Node("r", nil,
		Node("a", nil,
			Node("b", Vals(Val("text", "x"))),
		),
	)
}
