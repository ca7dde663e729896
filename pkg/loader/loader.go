// Package loader turns serialized documents into validated content trees.
//
// Two JSON shapes are accepted. The nested form carries the tree directly:
//
//	{"title": "...", "root": {"id": "r", "values": [...], "children": [...]}}
//
// The flat form lists nodes in document order, linked by parent_id:
//
//	{"title": "...", "nodes": [{"id": "r"}, {"id": "a", "parent_id": "r"}]}
//
// depth and parent_id are optional in the nested form; when present they
// must agree with the structure.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/debug"
	"github.com/davidRoussov/json-to-terminal/pkg/metrics"
)

// DefaultMaxSize caps how many bytes a document may have (64MB).
const DefaultMaxSize = 64 << 20

// Options configures Load.
type Options struct {
	// Source names the input in errors and logs, e.g. a path or "stdin".
	Source string

	// MaxSize is the largest accepted document in bytes.
	// If 0, uses DefaultMaxSize.
	MaxSize int64
}

type wireDocument struct {
	Title string      `json:"title"`
	Root  *wireNode   `json:"root"`
	Nodes []*wireNode `json:"nodes"`
}

type wireNode struct {
	ID       string                    `json:"id"`
	ParentID *string                   `json:"parent_id,omitempty"`
	Depth    *int                      `json:"depth,omitempty"`
	Values   []content.ValueAnnotation `json:"values,omitempty"`
	Children []*wireNode               `json:"children,omitempty"`
}

// LoadFile reads and validates the document at path.
func LoadFile(path string) (*content.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DeserializationError{Source: path, Err: err}
	}
	defer f.Close()
	return Load(f, Options{Source: path})
}

// Load reads one document from r. Any failure is returned as a
// *DeserializationError; no partial tree is ever returned.
func Load(r io.Reader, opts Options) (*content.Tree, error) {
	defer metrics.Timer(metrics.DocumentLoad)()

	limit := opts.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &DeserializationError{Source: opts.Source, Err: fmt.Errorf("read: %w", err)}
	}
	if int64(len(data)) > limit {
		return nil, &DeserializationError{Source: opts.Source, Err: fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)}
	}
	return Parse(data, opts.Source)
}

// Parse decodes and validates one document held in memory.
func Parse(data []byte, source string) (*content.Tree, error) {
	data = bytes.TrimSpace(stripBOM(data))
	if len(data) == 0 {
		return nil, &DeserializationError{Source: source, Err: ErrEmptyDocument}
	}

	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DeserializationError{Source: source, Err: fmt.Errorf("decode: %w", err)}
	}

	var root *content.Node
	var err error
	switch {
	case doc.Root != nil && len(doc.Nodes) > 0:
		err = ErrAmbiguousShape
	case doc.Root != nil:
		root = fromNested(doc.Root, "", 0)
	case len(doc.Nodes) > 0:
		root, err = fromFlat(doc.Nodes)
	default:
		err = ErrNoRoot
	}
	if err != nil {
		return nil, &DeserializationError{Source: source, Err: err}
	}

	tree, err := content.NewTree(doc.Title, root)
	if err != nil {
		return nil, &DeserializationError{Source: source, Err: err}
	}
	debug.Log("loader: %s: %d nodes, max depth %d", sourceName(source), tree.Len(), tree.MaxDepth())
	return tree, nil
}

// fromNested converts the nested form. Declared parent ids and depths are
// kept as given so NewTree can reject the ones that disagree.
func fromNested(w *wireNode, parentID string, depth int) *content.Node {
	if w == nil {
		return nil
	}
	n := &content.Node{
		ID:       w.ID,
		ParentID: parentID,
		Depth:    depth,
		Values:   w.Values,
	}
	if w.ParentID != nil {
		n.ParentID = *w.ParentID
	}
	if w.Depth != nil {
		n.Depth = *w.Depth
	}
	for _, c := range w.Children {
		n.Children = append(n.Children, fromNested(c, w.ID, depth+1))
	}
	return n
}

// fromFlat links the flat form by parent_id. Children keep the order in
// which they appear in the node list.
func fromFlat(list []*wireNode) (*content.Node, error) {
	byID := make(map[string]*content.Node, len(list))
	declared := make(map[string]*int, len(list))
	for i, w := range list {
		if w == nil {
			return nil, fmt.Errorf("nodes[%d]: %w", i, content.ErrNilNode)
		}
		if w.ID == "" {
			return nil, fmt.Errorf("nodes[%d]: %w", i, content.ErrEmptyID)
		}
		if _, dup := byID[w.ID]; dup {
			return nil, fmt.Errorf("nodes[%d]: %w: %q", i, content.ErrDuplicateID, w.ID)
		}
		if len(w.Children) > 0 {
			return nil, fmt.Errorf("nodes[%d]: %w", i, ErrMixedShape)
		}
		byID[w.ID] = &content.Node{ID: w.ID, Values: w.Values}
		declared[w.ID] = w.Depth
	}

	var root *content.Node
	for _, w := range list {
		n := byID[w.ID]
		if w.ParentID == nil || *w.ParentID == "" {
			if root != nil {
				return nil, fmt.Errorf("%w: %q and %q", ErrMultipleRoots, root.ID, w.ID)
			}
			root = n
			continue
		}
		parent, ok := byID[*w.ParentID]
		if !ok {
			return nil, fmt.Errorf("node %q: %w %q", w.ID, ErrUnknownParent, *w.ParentID)
		}
		parent.Children = append(parent.Children, n)
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	content.Link(root)

	// Nodes caught in a parent cycle never hang off the root.
	reached := 0
	var visit func(n *content.Node) error
	visit = func(n *content.Node) error {
		reached++
		if d := declared[n.ID]; d != nil && *d != n.Depth {
			return fmt.Errorf("node %q: %w (declared %d, computed %d)", n.ID, content.ErrDepthMismatch, *d, n.Depth)
		}
		for _, c := range n.Children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(root); err != nil {
		return nil, err
	}
	if reached != len(list) {
		return nil, fmt.Errorf("%w: %d of %d nodes", ErrUnreachable, len(list)-reached, len(list))
	}
	return root, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}

func sourceName(source string) string {
	if source == "" {
		return "<input>"
	}
	return source
}
