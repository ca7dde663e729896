// Package datasource decides where the document comes from: a file named on
// the command line, or a document piped into stdin.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeFile is a document file named with --file
	SourceTypeFile SourceType = "file"
	// SourceTypeStdin is a document redirected into standard input
	SourceTypeStdin SourceType = "stdin"
)

// ErrNoInput is returned when no file was named and stdin is a terminal.
var ErrNoInput = errors.New("no input: pass --file PATH or pipe a document into stdin")

// DataSource describes the resolved document input.
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the file path; empty for stdin
	Path string `json:"path,omitempty"`
	// ModTime is the last modification time of a file source
	ModTime time.Time `json:"mod_time,omitempty"`
	// Size is the file size in bytes, when known
	Size int64 `json:"size"`
	// Valid reports whether the last load succeeded
	Valid bool `json:"valid"`
	// ValidationError is the last load error, if Valid is false
	ValidationError string `json:"validation_error,omitempty"`
	// NodeCount is the node count of the last successful load
	NodeCount int `json:"node_count"`
}

// Name returns the label used for the source in headers, errors and history.
func (s DataSource) Name() string {
	if s.Type == SourceTypeStdin {
		return "stdin"
	}
	return s.Path
}

// Watchable reports whether the source can be watched for changes.
func (s DataSource) Watchable() bool {
	return s.Type == SourceTypeFile
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = "not loaded"
		if s.ValidationError != "" {
			status = fmt.Sprintf("invalid: %s", s.ValidationError)
		}
	}
	if s.Type == SourceTypeStdin {
		return fmt.Sprintf("stdin (%s)", status)
	}
	return fmt.Sprintf("%s (%s, mod=%s, size=%d, nodes=%d, %s)",
		s.Path, s.Type, s.ModTime.Format(time.RFC3339), s.Size, s.NodeCount, status)
}

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	// Path is the --file argument; empty means "use stdin if redirected"
	Path string
	// Stdin is checked for redirection (default: os.Stdin)
	Stdin *os.File
	// IsTerminal reports whether fd is a terminal (default: term.IsTerminal)
	IsTerminal func(fd int) bool
}

// Resolve picks the document source. A named file wins over stdin; stdin is
// used only when it is not a terminal.
func Resolve(opts ResolveOptions) (DataSource, error) {
	if opts.Path != "" {
		info, err := os.Stat(opts.Path)
		if err != nil {
			return DataSource{}, fmt.Errorf("input file: %w", err)
		}
		if info.IsDir() {
			return DataSource{}, fmt.Errorf("input file %s is a directory", opts.Path)
		}
		return DataSource{
			Type:    SourceTypeFile,
			Path:    opts.Path,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		}, nil
	}

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	isTerminal := opts.IsTerminal
	if isTerminal == nil {
		isTerminal = term.IsTerminal
	}
	if isTerminal(int(stdin.Fd())) {
		return DataSource{}, ErrNoInput
	}
	return DataSource{Type: SourceTypeStdin}, nil
}
