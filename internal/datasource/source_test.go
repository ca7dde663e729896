package datasource

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validDoc = `{"title":"t","root":{"id":"r","values":[{"name":"n","value":"v"}]}}`

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func TestResolve_FileWins(t *testing.T) {
	path := writeDoc(t, validDoc)
	src, err := Resolve(ResolveOptions{Path: path, IsTerminal: func(int) bool { return false }})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src.Type != SourceTypeFile || src.Path != path || src.Size != int64(len(validDoc)) {
		t.Errorf("source = %+v", src)
	}
	if !src.Watchable() || src.Name() != path {
		t.Errorf("file source should be watchable and named by path: %+v", src)
	}
}

func TestResolve_MissingFile(t *testing.T) {
	_, err := Resolve(ResolveOptions{Path: filepath.Join(t.TempDir(), "missing.json")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestResolve_Directory(t *testing.T) {
	_, err := Resolve(ResolveOptions{Path: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("err = %v, want directory error", err)
	}
}

func TestResolve_Stdin(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
		wantErr  error
	}{
		{"redirected", false, nil},
		{"terminal", true, ErrNoInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Resolve(ResolveOptions{
				Stdin:      os.Stdin,
				IsTerminal: func(int) bool { return tt.terminal },
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (src.Type != SourceTypeStdin || src.Watchable()) {
				t.Errorf("source = %+v", src)
			}
		})
	}
}

func TestLoadFromSource(t *testing.T) {
	stdin := DataSource{Type: SourceTypeStdin}
	tree, err := LoadFromSource(&stdin, strings.NewReader(validDoc))
	if err != nil {
		t.Fatalf("stdin load: %v", err)
	}
	if tree.Title() != "t" {
		t.Errorf("Title = %q", tree.Title())
	}
	if !stdin.Valid || stdin.NodeCount != 1 {
		t.Errorf("stdin source after load = %+v", stdin)
	}

	file := DataSource{Type: SourceTypeFile, Path: writeDoc(t, validDoc)}
	if _, err := LoadFromSource(&file, nil); err != nil {
		t.Errorf("file load: %v", err)
	}

	unknown := DataSource{Type: "ftp"}
	if _, err := LoadFromSource(&unknown, nil); err == nil {
		t.Error("unknown source type accepted")
	}
}

func TestLoadFromSource_RecordsOutcome(t *testing.T) {
	path := writeDoc(t, validDoc)
	src := DataSource{Type: SourceTypeFile, Path: path}
	if !strings.Contains(src.String(), "not loaded") {
		t.Errorf("String() before load = %q", src.String())
	}

	if _, err := LoadFromSource(&src, nil); err != nil {
		t.Fatal(err)
	}
	if !src.Valid || src.NodeCount != 1 || src.Size != int64(len(validDoc)) || src.ModTime.IsZero() {
		t.Errorf("good load recorded %+v", src)
	}
	if got := src.String(); !strings.Contains(got, "nodes=1") || !strings.HasSuffix(got, "valid)") {
		t.Errorf("String() = %q", got)
	}

	if err := os.WriteFile(path, []byte(`{"root":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromSource(&src, nil); err == nil {
		t.Fatal("broken document loaded")
	}
	if src.Valid || src.ValidationError == "" {
		t.Errorf("failed load recorded %+v", src)
	}
	if !strings.Contains(src.String(), "invalid: ") {
		t.Errorf("String() = %q", src.String())
	}
}
