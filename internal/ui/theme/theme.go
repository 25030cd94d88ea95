package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader      lipgloss.Color
	TableRowEven     lipgloss.Color
	TableRowOdd      lipgloss.Color
	TableRowSelected lipgloss.Color
	SortIndicator    lipgloss.Color

	// Filter colors
	FilterActive   lipgloss.Color
	FilterInactive lipgloss.Color
	Checkbox       lipgloss.Color

	// Pager colors
	PagerButton         lipgloss.Color
	PagerButtonDisabled lipgloss.Color

	// Value colors in the row detail
	ValueKey     lipgloss.Color
	ValueString  lipgloss.Color
	ValueNumber  lipgloss.Color
	ValueBoolean lipgloss.Color
	ValueNull    lipgloss.Color
}

// Names lists the built-in themes
func Names() []string {
	return []string{"default", "catppuccin-mocha"}
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha", "catppuccin":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
