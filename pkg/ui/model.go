// Package ui is the terminal front end: it decodes key presses into
// navigator events, paints the current view and keeps the selection on
// screen.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davidRoussov/json-to-terminal/internal/datasource"
	"github.com/davidRoussov/json-to-terminal/pkg/config"
	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/debug"
	"github.com/davidRoussov/json-to-terminal/pkg/metrics"
	"github.com/davidRoussov/json-to-terminal/pkg/navigator"
	"github.com/davidRoussov/json-to-terminal/pkg/render"
	"github.com/davidRoussov/json-to-terminal/pkg/session"
	"github.com/davidRoussov/json-to-terminal/pkg/watcher"
)

// Default dimensions until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// FileChangedMsg is sent when the watched document changes on disk.
type FileChangedMsg struct{}

// WatchErrorMsg carries an error reported by the file watcher.
type WatchErrorMsg struct {
	Err error
}

// WatchFileCmd returns a command that waits for the next change or error
// from w. It returns nil when w is nil.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return FileChangedMsg{}
		case err := <-w.Errors():
			return WatchErrorMsg{Err: err}
		}
	}
}

// Options configures a Model.
type Options struct {
	Source    datasource.DataSource
	Config    config.Config
	Navigator navigator.Options

	// Watcher, when set, drives live reload. The caller starts and stops it.
	Watcher *watcher.Watcher

	// Renderer defaults to lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer

	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// Model is the bubbletea model for one navigation session.
type Model struct {
	tree     *content.Tree
	nav      *navigator.Navigator
	navOpts  navigator.Options
	source   datasource.DataSource
	lines    *render.Renderer
	theme    Theme
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	watcher  *watcher.Watcher
	copyText func(string) error

	width  int
	height int

	showHelp     bool
	helpViewport viewport.Model

	statusMsg     string
	statusIsError bool
}

// NewModel builds a model over tree. It fails only when opts.Config binds
// keys to unknown actions.
func NewModel(tree *content.Tree, opts Options) (Model, error) {
	keys, err := defaultKeyMap().withOverrides(opts.Config.Keys)
	if err != nil {
		return Model{}, err
	}

	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	rc := opts.Config.Render
	m := Model{
		tree:    tree,
		nav:     navigator.New(tree, opts.Navigator),
		navOpts: opts.Navigator,
		source:  opts.Source,
		lines: render.New(render.Options{
			WrapWidth:      rc.WrapWidth,
			MaxLines:       rc.MaxLines,
			Indent:         rc.Indent,
			SeparateGroups: rc.SeparateGroups,
		}),
		theme:    NewTheme(r, opts.Config.Palette),
		keys:     keys,
		help:     help.New(),
		watcher:  opts.Watcher,
		copyText: copyText,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.viewport = viewport.New(defaultWidth, m.bodyHeight())
	m.helpViewport = viewport.New(defaultWidth, m.bodyHeight())
	m.help.Width = defaultWidth
	m.refresh()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return WatchFileCmd(m.watcher)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = m.bodyHeight()
		m.helpViewport.Width = msg.Width
		m.helpViewport.Height = m.bodyHeight()
		m.help.Width = msg.Width
		if m.showHelp {
			m.helpViewport.SetContent(renderHelp(m.keys, m.width))
		}
		m.refresh()
		return m, nil

	case FileChangedMsg:
		m.reload()
		return m, WatchFileCmd(m.watcher)

	case WatchErrorMsg:
		m.setStatus(fmt.Sprintf("Watch error: %v", msg.Err), true)
		return m, WatchFileCmd(m.watcher)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), msg.String() == "esc":
			m.showHelp = false
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			m.nav.Apply(navigator.EventQuit)
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.helpViewport, cmd = m.helpViewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpViewport.SetContent(renderHelp(m.keys, m.width))
		m.helpViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
		return m, nil
	}

	ev := m.keys.event(msg)
	if ev == navigator.EventNone {
		return m, nil
	}
	changed := m.nav.Apply(ev)
	debug.Log("ui: %s changed=%v depth=%d", ev, changed, m.nav.Depth())
	if m.nav.Done() {
		return m, tea.Quit
	}

	switch {
	case changed:
		m.statusMsg = ""
		m.statusIsError = false
	case ev == navigator.EventDeepen:
		m.setStatus(m.deepenRefusal(), false)
	case ev == navigator.EventRise:
		m.setStatus("Already at the top", false)
	}
	m.refresh()
	return m, nil
}

func (m Model) deepenRefusal() string {
	if _, ok := m.nav.Selected(); !ok {
		return "Select an item first"
	}
	if m.nav.Depth() >= m.nav.MaxDepth() {
		return "Already at the deepest level"
	}
	return "Nothing to show below this item"
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

// copyTarget picks the focused value, else the selected node's URL, else its
// label.
func (m Model) copyTarget() (text, what string) {
	node, ok := m.nav.Selected()
	if !ok {
		return "", ""
	}
	if i, ok := m.nav.FocusedValue(); ok {
		return node.Values[i].Value, "value"
	}
	if u := node.URL(); u != "" {
		return u, "URL"
	}
	return node.Label(), "label"
}

func (m *Model) copySelection() {
	text, what := m.copyTarget()
	if text == "" {
		m.setStatus("Nothing to copy", false)
		return
	}
	if err := m.copyText(text); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s to clipboard", what), false)
}

// reload re-reads the source. A document that fails to load leaves the
// current tree in place.
func (m *Model) reload() {
	if !m.source.Watchable() {
		return
	}
	tree, err := datasource.LoadFromSource(&m.source, nil)
	debug.Log("ui: reload %s", m.source)
	if err != nil {
		m.setStatus(fmt.Sprintf("Reload failed: %v", err), true)
		return
	}
	opts := m.navOpts
	opts.PrimaryOnly = m.nav.PrimaryOnly()
	m.tree = tree
	m.nav = navigator.New(tree, opts)
	m.setStatus(fmt.Sprintf("Reloaded %d nodes", tree.Len()), false)
	m.refresh()
}

func (m Model) bodyHeight() int {
	return max(m.height-2, 1)
}

// lineRenderer returns the content renderer for the current width and
// filter mode. Very narrow terminals still wrap at render.MinWrapWidth.
func (m Model) lineRenderer() *render.Renderer {
	width := max(min(m.lines.Options().WrapWidth, m.width-gutterWidth), render.MinWrapWidth)
	return m.lines.WithPrimaryOnly(m.nav.PrimaryOnly()).WithWrapWidth(width)
}

// refresh repaints the body and scrolls the selection into view.
func (m *Model) refresh() {
	defer metrics.Timer(metrics.UIRender)()

	view := m.nav.View()
	if view.Len() == 0 {
		m.viewport.SetContent(m.theme.Empty.Render(
			fmt.Sprintf("  Nothing to show at depth %d", m.nav.Depth())))
		m.viewport.GotoTop()
		return
	}

	cursor, ok := view.Selected()
	if !ok {
		cursor = -1
	}
	focus, ok := m.nav.FocusedValue()
	if !ok {
		focus = -1
	}
	b := paintBody(m.theme, m.lineRenderer(), view.Items(), cursor, focus)
	m.viewport.SetContent(strings.Join(b.rows, "\n"))
	if b.selStart < 0 {
		m.viewport.GotoTop()
		return
	}
	m.ensureVisible(b.selStart, b.selEnd)
}

// ensureVisible scrolls the minimum needed to show rows start..end. An item
// taller than the viewport is shown from its first row.
func (m *Model) ensureVisible(start, end int) {
	h := m.viewport.Height
	off := m.viewport.YOffset
	switch {
	case start < off || end-start+1 > h:
		off = start
	case end >= off+h:
		off = end - h + 1
	}
	m.viewport.SetYOffset(off)
}

func (m Model) View() string {
	var body string
	if m.showHelp {
		body = m.helpViewport.View()
	} else {
		body = m.viewport.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

// Title is the document title, else the root's title value, else the
// source name.
func (m Model) Title() string {
	if t := m.tree.Title(); t != "" {
		return t
	}
	if t := m.tree.Root().Title(); t != "" {
		return t
	}
	return m.source.Name()
}

func (m Model) header() string {
	mode := "all"
	if m.nav.PrimaryOnly() {
		mode = "primary"
	}
	info := m.theme.HeaderInfo.Render(
		fmt.Sprintf(" depth %d/%d · %s ", m.nav.Depth(), m.nav.MaxDepth(), mode))
	title := m.theme.Header.Render(truncate(m.Title(), max(m.width/3, 8)))

	labels := make([]string, 0, len(m.nav.Ancestors()))
	for _, n := range m.nav.Breadcrumb() {
		labels = append(labels, n.Label())
	}
	room := m.width - lipgloss.Width(title) - lipgloss.Width(info) - 1
	crumb := " " + m.theme.Breadcrumb.Render(truncateLeft(strings.Join(labels, " › "), max(room, 0)))
	if len(labels) == 0 || room <= 0 {
		crumb = ""
	}

	left := title + crumb
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(info), 0)
	return left + strings.Repeat(" ", gap) + info
}

func (m Model) footer() string {
	if m.statusMsg != "" {
		style := m.theme.Status
		if m.statusIsError {
			style = m.theme.StatusError
		}
		return style.Render(padRight(truncate(m.statusMsg, m.width), m.width))
	}
	return m.help.View(m.keys)
}

// Navigator exposes the underlying navigator.
func (m Model) Navigator() *navigator.Navigator {
	return m.nav
}

// StatusMessage returns the status line text and whether it is an error.
func (m Model) StatusMessage() (string, bool) {
	return m.statusMsg, m.statusIsError
}

// Source returns the document source with the outcome of the last load.
func (m Model) Source() datasource.DataSource {
	return m.source
}

// ShowingHelp reports whether the help overlay is open.
func (m Model) ShowingHelp() bool {
	return m.showHelp
}

// Result returns the session outcome, tagged with the source name.
func (m Model) Result() session.Result {
	res := m.nav.Result()
	res.Source = m.source.Name()
	if res.Title == "" {
		res.Title = m.Title()
	}
	return res
}
