package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Tag type colors
	TypeIP        = lipgloss.Color("#6366F1") // Indigo
	TypeCharacter = lipgloss.Color("#EC4899") // Pink
	TypeArtist    = lipgloss.Color("#F97316") // Orange
	TypeR18       = lipgloss.Color("#EF4444") // Red

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	NodeCategory = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA")) // Blue

	NodeTag = lipgloss.NewStyle()

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	NodeAlias = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Query markers
	Included = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Excluded = lipgloss.NewStyle().
			Foreground(Error).
			Strikethrough(true)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// typePalette maps lowercased type labels to their color
var typePalette = map[string]lipgloss.Color{
	"ip":        TypeIP,
	"work":      TypeIP,
	"series":    TypeIP,
	"character": TypeCharacter,
	"artist":    TypeArtist,
	"r-18":      TypeR18,
	"r18":       TypeR18,
}

// TypeColor returns the color for a tag's free-form type label
func TypeColor(tagType string) lipgloss.Color {
	if c, ok := typePalette[strings.ToLower(strings.TrimSpace(tagType))]; ok {
		return c
	}
	return Primary
}
