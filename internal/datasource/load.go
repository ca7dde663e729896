package datasource

import (
	"fmt"
	"io"
	"os"

	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/loader"
)

// LoadFromSource loads the tree from a resolved source, dispatching to the
// appropriate reader based on source type, and records the outcome on s.
// stdin is read from r (default: os.Stdin).
func LoadFromSource(s *DataSource, r io.Reader) (*content.Tree, error) {
	var (
		tree *content.Tree
		err  error
	)
	switch s.Type {
	case SourceTypeFile:
		tree, err = loader.LoadFile(s.Path)
		if info, statErr := os.Stat(s.Path); statErr == nil {
			s.ModTime = info.ModTime()
			s.Size = info.Size()
		}

	case SourceTypeStdin:
		if r == nil {
			r = os.Stdin
		}
		tree, err = loader.Load(r, loader.Options{Source: s.Name()})

	default:
		err = fmt.Errorf("unknown source type: %s", s.Type)
	}

	if err != nil {
		s.Valid = false
		s.ValidationError = err.Error()
		return nil, err
	}
	s.Valid = true
	s.ValidationError = ""
	s.NodeCount = tree.Len()
	return tree, nil
}
