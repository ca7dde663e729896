package loader

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
)

// Marshal encodes tree in the nested form, with explicit depths.
func Marshal(tree *content.Tree) ([]byte, error) {
	doc := wireDocument{Title: tree.Title(), Root: toWire(tree.Root())}
	return json.MarshalIndent(doc, "", "  ")
}

// Write encodes tree to w in the nested form followed by a newline.
func Write(w io.Writer, tree *content.Tree) error {
	data, err := Marshal(tree)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func toWire(n *content.Node) *wireNode {
	depth := n.Depth
	w := &wireNode{ID: n.ID, Depth: &depth, Values: n.Values}
	for _, c := range n.Children {
		w.Children = append(w.Children, toWire(c))
	}
	return w
}
