package content

import (
	"errors"
	"fmt"
)

// Invariant violations detected while building a Tree.
var (
	ErrNilNode        = errors.New("nil node")
	ErrEmptyID        = errors.New("node id is empty")
	ErrDuplicateID    = errors.New("duplicate node id")
	ErrRootHasParent  = errors.New("root node declares a parent")
	ErrParentMismatch = errors.New("parent id does not match owning node")
	ErrDepthMismatch  = errors.New("depth is not parent depth + 1")
	ErrMainNotPrimary = errors.New("main primary content value is not flagged primary")
)

// InvariantError reports the first invariant a tree violates, with the node
// it was found on.
type InvariantError struct {
	NodeID string
	Err    error
	Detail string
}

func (e *InvariantError) Error() string {
	msg := e.Err.Error()
	if e.NodeID != "" {
		msg = fmt.Sprintf("node %q: %s", e.NodeID, msg)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

func violation(nodeID string, err error, format string, args ...any) error {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &InvariantError{NodeID: nodeID, Err: err, Detail: detail}
}
