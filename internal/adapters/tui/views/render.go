package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"pictag/internal/adapters/tui/styles"
)

// RenderHelpLine renders key bindings as "key desc" pairs separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		help := b.Help()
		parts = append(parts, styles.HelpKey.Render(help.Key)+" "+styles.HelpDesc.Render(help.Desc))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a status line in the success or error style
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	default:
		return styles.Success.Render(message)
	}
}

// RenderMuted renders secondary text
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// TagLabel is what a tree row or a find result shows for one node
type TagLabel struct {
	Name        string
	EnglishName string
	Type        string
	Aliases     []string // synonyms, or the text a search matched
}

// RenderTagLabel renders "name (English) [type] = aliases". The name takes
// style, the type its own color and the aliases are dimmed.
func RenderTagLabel(l TagLabel, style lipgloss.Style) string {
	text := l.Name
	if l.EnglishName != "" {
		text += " (" + l.EnglishName + ")"
	}
	out := style.Render(text)
	if l.Type != "" {
		out += " " + lipgloss.NewStyle().Foreground(styles.TypeColor(l.Type)).Render("["+l.Type+"]")
	}
	if len(l.Aliases) > 0 {
		out += styles.NodeAlias.Render(" = " + strings.Join(l.Aliases, ", "))
	}
	return out
}

// RenderQuery renders an include/exclude query as "+a +b -c" and, once it
// has run, the number of matching pictures
func RenderQuery(include, exclude []string, matched int, searched bool) string {
	if len(include) == 0 && len(exclude) == 0 {
		return RenderMuted("No query. Press i to include the selected tag, x to exclude it.")
	}

	parts := make([]string, 0, len(include)+len(exclude))
	for _, t := range include {
		parts = append(parts, styles.Included.Render("+"+t))
	}
	for _, t := range exclude {
		parts = append(parts, styles.Excluded.Render("-"+t))
	}
	line := strings.Join(parts, " ")

	switch {
	case len(include) == 0:
		line += "  " + RenderMuted("include a tag to search")
	case searched:
		line += "  " + styles.Success.Render(fmt.Sprintf("→ %d pictures", matched))
	}
	return line
}

// ViewBuilder assembles a full-screen view
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds the view title
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds an empty line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds a line of secondary text
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.Line(RenderMuted(text))
}

// Message adds the status line, if any
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n\n")
	return v
}

// Help adds a help line for bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// Raw adds text as is
func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	v.b.WriteString(text)
	return v
}

// String returns the view wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
