package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
)

const helpIntro = `# tooey

Navigate a content tree one depth at a time. The list shows every node at
the current depth under the parent you came from; going deeper shows the
children of the selected node.

`

const helpOutro = `
Primary-only mode hides values that are not primary content and drops
nodes left with nothing to show. A view holding a single node opens it
automatically.

Press **?** or **esc** to close this help.`

// helpMarkdown lists the current bindings as a Markdown table.
func helpMarkdown(k keyMap) string {
	var sb strings.Builder
	sb.WriteString(helpIntro)
	sb.WriteString("| Keys | Action |\n|---|---|\n")
	for _, group := range k.FullHelp() {
		for _, b := range group {
			writeHelpRow(&sb, b)
		}
	}
	sb.WriteString(helpOutro)
	return sb.String()
}

func writeHelpRow(sb *strings.Builder, b key.Binding) {
	keys := make([]string, 0, len(b.Keys()))
	for _, k := range b.Keys() {
		keys = append(keys, "`"+k+"`")
	}
	fmt.Fprintf(sb, "| %s | %s |\n", strings.Join(keys, " "), b.Help().Desc)
}

// renderHelp renders the help overlay for the given width. The raw Markdown
// is returned if glamour cannot render it.
func renderHelp(k keyMap, width int) string {
	md := helpMarkdown(k)
	wrap := 60
	if width > 0 && width-4 < wrap {
		wrap = max(width-4, 20)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
