package loader_test

import (
	"errors"
	"testing"

	"github.com/davidRoussov/json-to-terminal/pkg/loader"
)

// =============================================================================
// Fuzz Tests for Document Parser Robustness
// =============================================================================
//
// Run with: go test -fuzz=FuzzParse -fuzztime=10m ./pkg/loader/...

// FuzzParse checks that Parse never panics and that every failure is a
// *DeserializationError with no tree attached.
func FuzzParse(f *testing.F) {
	seeds := []string{
		`{"root":{"id":"r"}}`,
		`{"title":"t","root":{"id":"r","values":[{"name":"n","value":"v","is_primary_content":true}],"children":[{"id":"a"}]}}`,
		`{"nodes":[{"id":"r"},{"id":"a","parent_id":"r"}]}`,
		`{"nodes":[{"id":"a","parent_id":"a"}]}`,
		`{"root":{"id":"r","children":[null]}}`,
		`{"root":{"id":"r","depth":-1}}`,
		`{"root":{"id":"r","children":[{"id":"r"}]}}`,
		`{"root": {"id": `,
		"\xEF\xBB\xBF{}",
		"null",
		"[]",
		"",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		tree, err := loader.Parse(data, "fuzz")
		if err == nil {
			if tree == nil {
				t.Fatal("nil tree without error")
			}
			return
		}
		if tree != nil {
			t.Fatal("tree returned with error")
		}
		var de *loader.DeserializationError
		if !errors.As(err, &de) {
			t.Fatalf("err = %T, want *DeserializationError", err)
		}
	})
}
