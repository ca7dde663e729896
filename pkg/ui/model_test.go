package ui_test

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davidRoussov/json-to-terminal/internal/datasource"
	"github.com/davidRoussov/json-to-terminal/pkg/config"
	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/loader"
	"github.com/davidRoussov/json-to-terminal/pkg/navigator"
	"github.com/davidRoussov/json-to-terminal/pkg/testutil"
	"github.com/davidRoussov/json-to-terminal/pkg/ui"
)

// frontPage is a small listing:
//
//	root "Front page"
//	  s1 "Story one" (url, points)
//	  s2 "Story two" (comments)
//	    c1 "First!"
func frontPage() *content.Node {
	return testutil.Node("root", testutil.Vals(testutil.Val("title", "Front page", testutil.Title)),
		testutil.Node("s1", testutil.Vals(
			testutil.Val("title", "Story one", testutil.Title, testutil.Main),
			testutil.Val("url", "https://one.example", testutil.URL),
			testutil.Val("points", "12 points"),
		)),
		testutil.Node("s2", testutil.Vals(
			testutil.Val("title", "Story two", testutil.Title, testutil.Main),
			testutil.Val("comments", "3 comments"),
		),
			testutil.Leaf("c1", "First!"),
		),
	)
}

type clip struct {
	text string
	err  error
}

func (c *clip) write(s string) error {
	if c.err != nil {
		return c.err
	}
	c.text = s
	return nil
}

func newModel(t *testing.T, tree *content.Tree, opts ui.Options) ui.Model {
	t.Helper()
	if opts.Config.Render.WrapWidth == 0 {
		opts.Config = config.DefaultConfig()
	}
	if opts.Source.Type == "" {
		opts.Source = datasource.DataSource{Type: datasource.SourceTypeStdin}
	}
	opts.Renderer = lipgloss.NewRenderer(io.Discard)
	m, err := ui.NewModel(tree, opts)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func frontPageModel(t *testing.T) ui.Model {
	t.Helper()
	tree := testutil.MustTree(t, "", frontPage())
	return newModel(t, tree, ui.Options{Navigator: navigator.Options{StartDepth: 1}})
}

// sendKey sends a rune key message through Update.
func sendKey(t *testing.T, m ui.Model, key string) ui.Model {
	t.Helper()
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return newM.(ui.Model)
}

// sendSpecialKey sends a special key (arrow, etc.) through Update.
func sendSpecialKey(t *testing.T, m ui.Model, keyType tea.KeyType) ui.Model {
	t.Helper()
	newM, _ := m.Update(tea.KeyMsg{Type: keyType})
	return newM.(ui.Model)
}

func selectedID(m ui.Model) string {
	n, ok := m.Navigator().Selected()
	if !ok {
		return ""
	}
	return n.ID
}

func TestModel_InitialView(t *testing.T) {
	m := frontPageModel(t)
	view := m.View()

	for _, want := range []string{"Front page", "Story one", "Story two", "First!", "depth 1/2 · all"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if selectedID(m) != "" {
		t.Errorf("expected no initial selection, got %q", selectedID(m))
	}
	if m.Title() != "Front page" {
		t.Errorf("Title = %q", m.Title())
	}
}

func TestModel_TitleFallsBackToSource(t *testing.T) {
	tree := testutil.MustTree(t, "", testutil.ChainScenario())
	m := newModel(t, tree, ui.Options{
		Source: datasource.DataSource{Type: datasource.SourceTypeFile, Path: "page.json"},
	})
	if m.Title() != "page.json" {
		t.Errorf("Title = %q, want source name", m.Title())
	}

	tree = testutil.MustTree(t, "Document", testutil.ChainScenario())
	if m := newModel(t, tree, ui.Options{}); m.Title() != "Document" {
		t.Errorf("Title = %q, want document title", m.Title())
	}
}

func TestModel_SelectionKeys(t *testing.T) {
	m := frontPageModel(t)

	m = sendKey(t, m, "j")
	if selectedID(m) != "s1" {
		t.Fatalf("after j: selected %q, want s1", selectedID(m))
	}
	m = sendSpecialKey(t, m, tea.KeyDown)
	if selectedID(m) != "s2" {
		t.Fatalf("after down: selected %q, want s2", selectedID(m))
	}
	m = sendKey(t, m, "j")
	if selectedID(m) != "s1" {
		t.Fatalf("next should wrap to s1, got %q", selectedID(m))
	}
	m = sendKey(t, m, "G")
	if selectedID(m) != "s2" {
		t.Fatalf("after G: selected %q, want s2", selectedID(m))
	}
	m = sendKey(t, m, "g")
	if selectedID(m) != "s1" {
		t.Fatalf("after g: selected %q, want s1", selectedID(m))
	}
	m = sendSpecialKey(t, m, tea.KeyUp)
	if selectedID(m) != "s2" {
		t.Fatalf("previous should wrap to s2, got %q", selectedID(m))
	}
}

func TestModel_DeepenAndRise(t *testing.T) {
	m := frontPageModel(t)
	m = sendKey(t, m, "G")
	m = sendKey(t, m, "+")

	nav := m.Navigator()
	if nav.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", nav.Depth())
	}
	if selectedID(m) != "c1" {
		t.Errorf("single child should be selected, got %q", selectedID(m))
	}
	view := m.View()
	if !strings.Contains(view, "Story two") || !strings.Contains(view, "depth 2/2") {
		t.Errorf("header should show breadcrumb and depth:\n%s", view)
	}
	if strings.Contains(view, "Story one") {
		t.Errorf("sibling subtree leaked into deeper view:\n%s", view)
	}

	m = sendSpecialKey(t, m, tea.KeyLeft)
	if nav.Depth() != 1 {
		t.Fatalf("depth after rise = %d, want 1", nav.Depth())
	}
	if msg, _ := m.StatusMessage(); msg != "" {
		t.Errorf("status should be clear after a change, got %q", msg)
	}
}

func TestModel_RefusalsReportStatus(t *testing.T) {
	m := frontPageModel(t)

	m = sendKey(t, m, "l")
	if msg, isErr := m.StatusMessage(); msg != "Select an item first" || isErr {
		t.Errorf("deepen without selection: status %q (error=%v)", msg, isErr)
	}

	m = sendKey(t, m, "j")
	m = sendKey(t, m, "+")
	if msg, _ := m.StatusMessage(); msg != "Nothing to show below this item" {
		t.Errorf("deepen into leaf: status %q", msg)
	}

	m = sendKey(t, m, "G")
	m = sendKey(t, m, "+")
	m = sendKey(t, m, "+")
	if msg, _ := m.StatusMessage(); msg != "Already at the deepest level" {
		t.Errorf("deepen at max depth: status %q", msg)
	}

	for m.Navigator().Depth() > 0 {
		m = sendKey(t, m, "-")
	}
	m = sendKey(t, m, "-")
	if msg, _ := m.StatusMessage(); msg != "Already at the top" {
		t.Errorf("rise at top: status %q", msg)
	}
}

func TestModel_ToggleFilterMode(t *testing.T) {
	m := frontPageModel(t)
	m = sendKey(t, m, "p")

	view := m.View()
	if !m.Navigator().PrimaryOnly() || !strings.Contains(view, "· primary") {
		t.Fatalf("expected primary-only mode:\n%s", view)
	}
	if strings.Contains(view, "12 points") {
		t.Errorf("non-primary value shown in primary-only mode:\n%s", view)
	}
	if !strings.Contains(view, "Story one") {
		t.Errorf("primary value missing:\n%s", view)
	}

	m = sendKey(t, m, "p")
	if m.Navigator().PrimaryOnly() || !strings.Contains(m.View(), "12 points") {
		t.Error("second toggle should restore all values")
	}
}

func TestModel_QuitAndChoose(t *testing.T) {
	m := frontPageModel(t)
	newM, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = newM.(ui.Model)
	if cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if res := m.Result(); res.Chosen || !m.Navigator().Done() {
		t.Errorf("quit result = %+v", res)
	}

	m = frontPageModel(t)
	m = sendKey(t, m, "j")
	m = sendSpecialKey(t, m, tea.KeyTab)
	newM, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newM.(ui.Model)
	if cmd == nil {
		t.Fatal("enter should return tea.Quit")
	}
	res := m.Result()
	if !res.Chosen || res.NodeID != "s1" || res.Value != "Story one" || res.URL != "https://one.example" {
		t.Errorf("choose result = %+v", res)
	}
	if res.Source != "stdin" || res.Title != "Front page" {
		t.Errorf("result source/title = %q/%q", res.Source, res.Title)
	}
}

func TestModel_ValueFocus(t *testing.T) {
	m := frontPageModel(t)
	m = sendKey(t, m, "j")

	m = sendSpecialKey(t, m, tea.KeyTab)
	if i, ok := m.Navigator().FocusedValue(); !ok || i != 0 {
		t.Fatalf("tab should focus the title, got %d %v", i, ok)
	}
	m = sendSpecialKey(t, m, tea.KeyShiftTab)
	m = sendSpecialKey(t, m, tea.KeyShiftTab)
	if i, ok := m.Navigator().FocusedValue(); !ok || i != 2 {
		t.Fatalf("shift+tab twice should land on points (index 2), got %d %v", i, ok)
	}

	m = sendKey(t, m, "j")
	if _, ok := m.Navigator().FocusedValue(); ok {
		t.Error("moving the cursor should clear value focus")
	}
}

func TestModel_Copy(t *testing.T) {
	tree := testutil.MustTree(t, "", frontPage())
	c := &clip{}
	m := newModel(t, tree, ui.Options{
		Navigator: navigator.Options{StartDepth: 1},
		Clipboard: c.write,
	})

	m = sendKey(t, m, "y")
	if msg, _ := m.StatusMessage(); msg != "Nothing to copy" || c.text != "" {
		t.Errorf("copy without selection: status %q, clipboard %q", msg, c.text)
	}

	m = sendKey(t, m, "j")
	m = sendKey(t, m, "y")
	if c.text != "https://one.example" {
		t.Errorf("clipboard = %q, want node URL", c.text)
	}
	if msg, _ := m.StatusMessage(); msg != "Copied URL to clipboard" {
		t.Errorf("status = %q", msg)
	}

	m = sendSpecialKey(t, m, tea.KeyShiftTab)
	m = sendSpecialKey(t, m, tea.KeyShiftTab)
	m = sendKey(t, m, "y")
	if c.text != "12 points" {
		t.Errorf("clipboard = %q, want focused value", c.text)
	}

	m = sendKey(t, m, "G")
	m = sendKey(t, m, "y")
	if c.text != "Story two" {
		t.Errorf("clipboard = %q, want label", c.text)
	}

	c.err = errors.New("no clipboard utility")
	m = sendKey(t, m, "y")
	if msg, isErr := m.StatusMessage(); !isErr || !strings.Contains(msg, "no clipboard utility") {
		t.Errorf("clipboard failure status = %q (error=%v)", msg, isErr)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := frontPageModel(t)
	m = sendKey(t, m, "?")
	if !m.ShowingHelp() {
		t.Fatal("? should open help")
	}
	view := m.View()
	if !strings.Contains(view, "Navigate") {
		t.Errorf("help overlay not shown:\n%s", view)
	}

	m = sendKey(t, m, "j")
	if selectedID(m) != "" {
		t.Error("keys should not reach the navigator while help is open")
	}

	m = sendSpecialKey(t, m, tea.KeyEsc)
	if m.ShowingHelp() {
		t.Error("esc should close help")
	}

	m = sendKey(t, m, "?")
	m = sendKey(t, m, "?")
	if m.ShowingHelp() {
		t.Error("? should toggle help closed")
	}
}

func TestModel_KeyOverrides(t *testing.T) {
	tree := testutil.MustTree(t, "", frontPage())
	cfg := config.DefaultConfig()
	cfg.Keys = map[string][]string{"deepen": {"x"}, "copy": {"c"}}
	c := &clip{}
	m := newModel(t, tree, ui.Options{
		Config:    cfg,
		Navigator: navigator.Options{StartDepth: 1},
		Clipboard: c.write,
	})

	m = sendKey(t, m, "G")
	m = sendKey(t, m, "+")
	if m.Navigator().Depth() != 1 {
		t.Fatal("+ should no longer deepen once deepen is rebound")
	}
	m = sendKey(t, m, "c")
	if c.text != "Story two" {
		t.Errorf("rebound copy key did not copy, clipboard %q", c.text)
	}
	m = sendKey(t, m, "x")
	if m.Navigator().Depth() != 2 {
		t.Errorf("x should deepen, depth = %d", m.Navigator().Depth())
	}
}

func TestNewModel_RejectsUnknownAction(t *testing.T) {
	tree := testutil.MustTree(t, "", frontPage())
	cfg := config.DefaultConfig()
	cfg.Keys = map[string][]string{"fly": {"f"}}
	if _, err := ui.NewModel(tree, ui.Options{Config: cfg}); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestModel_SelectionStaysVisible(t *testing.T) {
	children := make([]*content.Node, 30)
	for i := range children {
		children[i] = testutil.Leaf(fmt.Sprintf("n%02d", i), fmt.Sprintf("item %02d", i))
	}
	tree := testutil.MustTree(t, "", testutil.Node("root", nil, children...))
	m := newModel(t, tree, ui.Options{Navigator: navigator.Options{StartDepth: 1}})

	newM, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 8})
	m = newM.(ui.Model)

	m = sendKey(t, m, "G")
	view := m.View()
	if !strings.Contains(view, "item 29") {
		t.Errorf("last item should be scrolled into view:\n%s", view)
	}
	if strings.Contains(view, "item 00") {
		t.Errorf("first item should be scrolled out:\n%s", view)
	}
	if got := strings.Count(view, "\n") + 1; got > 8 {
		t.Errorf("view has %d rows, window is 8", got)
	}

	m = sendKey(t, m, "j")
	if view := m.View(); !strings.Contains(view, "item 00") {
		t.Errorf("wrapping to the first item should scroll back:\n%s", view)
	}
}

func TestModel_EmptyView(t *testing.T) {
	root := testutil.Node("root", nil, testutil.Leaf("a", "plain"), testutil.Leaf("b", "also plain"))
	tree := testutil.MustTree(t, "", root)
	m := newModel(t, tree, ui.Options{Navigator: navigator.Options{StartDepth: 1, PrimaryOnly: true}})

	if m.Navigator().View().Len() != 0 {
		t.Fatalf("expected an empty view")
	}
	if !strings.Contains(m.View(), "Nothing to show at depth 1") {
		t.Errorf("empty view placeholder missing:\n%s", m.View())
	}
	m = sendKey(t, m, "j")
	m = sendKey(t, m, "+")
	if m.Navigator().Depth() != 1 {
		t.Error("navigation in an empty view should be a no-op")
	}
}

func writeDoc(t *testing.T, path string, root *content.Node) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := loader.Write(f, testutil.MustTree(t, "", root)); err != nil {
		t.Fatal(err)
	}
}

func TestModel_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	writeDoc(t, path, frontPage())

	src := datasource.DataSource{Type: datasource.SourceTypeFile, Path: path}
	tree, err := datasource.LoadFromSource(&src, nil)
	if err != nil {
		t.Fatalf("LoadFromSource: %v", err)
	}
	m := newModel(t, tree, ui.Options{Source: src, Navigator: navigator.Options{StartDepth: 1}})
	m = sendKey(t, m, "p")

	updated := frontPage()
	updated.Children = append(updated.Children, testutil.Node("s3",
		testutil.Vals(testutil.Val("title", "Story three", testutil.Title, testutil.Main))))
	writeDoc(t, path, updated)

	newM, cmd := m.Update(ui.FileChangedMsg{})
	m = newM.(ui.Model)
	if cmd != nil {
		t.Error("no watcher, so no follow-up watch command expected")
	}
	if msg, isErr := m.StatusMessage(); isErr || msg != "Reloaded 5 nodes" {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
	if !strings.Contains(m.View(), "Story three") {
		t.Errorf("reloaded document not shown:\n%s", m.View())
	}
	if !m.Navigator().PrimaryOnly() {
		t.Error("filter mode should survive a reload")
	}
	if got := m.Source(); !got.Valid || got.NodeCount != 5 {
		t.Errorf("source after reload = %+v", got)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	newM, _ = m.Update(ui.FileChangedMsg{})
	m = newM.(ui.Model)
	if msg, isErr := m.StatusMessage(); !isErr || !strings.Contains(msg, "Reload failed") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
	if !strings.Contains(m.View(), "Story three") {
		t.Error("a failed reload should keep the current tree")
	}
	if got := m.Source(); got.Valid || got.ValidationError == "" {
		t.Errorf("source after failed reload = %+v", got)
	}
}

func TestModel_ReloadIgnoresStdin(t *testing.T) {
	m := frontPageModel(t)
	newM, _ := m.Update(ui.FileChangedMsg{})
	m = newM.(ui.Model)
	if msg, _ := m.StatusMessage(); msg != "" {
		t.Errorf("stdin sources cannot reload, status %q", msg)
	}
}

func TestModel_WatchError(t *testing.T) {
	m := frontPageModel(t)
	newM, _ := m.Update(ui.WatchErrorMsg{Err: errors.New("watched file was removed")})
	m = newM.(ui.Model)
	msg, isErr := m.StatusMessage()
	if !isErr || !strings.Contains(msg, "removed") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
	if !strings.Contains(m.View(), "removed") {
		t.Error("footer should show the watch error")
	}
}

func TestWatchFileCmd_Nil(t *testing.T) {
	if ui.WatchFileCmd(nil) != nil {
		t.Error("expected nil command without a watcher")
	}
	if frontPageModel(t).Init() != nil {
		t.Error("Init without a watcher should return nil")
	}
}
