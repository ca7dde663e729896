package loader

import (
	"errors"
	"fmt"
)

// Shape errors. Invariant violations found while building the tree are
// reported with the content package's sentinels instead.
var (
	ErrEmptyDocument  = errors.New("document is empty")
	ErrTooLarge       = errors.New("document exceeds size limit")
	ErrNoRoot         = errors.New("document has no root node")
	ErrAmbiguousShape = errors.New(`document has both "root" and "nodes"`)
	ErrMixedShape     = errors.New(`flat node list entries must not carry "children"`)
	ErrMultipleRoots  = errors.New("flat node list has more than one root")
	ErrUnknownParent  = errors.New("unknown parent")
	ErrUnreachable    = errors.New("nodes not reachable from the root")
)

// DeserializationError is returned for any document that cannot become a
// tree: unreadable input, malformed JSON, a bad shape or a violated tree
// invariant. Use errors.Is/As to inspect the cause.
type DeserializationError struct {
	Source string
	Err    error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("load %s: %v", sourceName(e.Source), e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
