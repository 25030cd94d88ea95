package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),
		Muted:      lipgloss.Color("245"),

		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("25"),
		Cursor:        lipgloss.Color("248"),

		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		TableHeader:      lipgloss.Color("105"),
		TableRowEven:     lipgloss.Color("235"),
		TableRowOdd:      lipgloss.Color("236"),
		TableRowSelected: lipgloss.Color("25"),
		SortIndicator:    lipgloss.Color("220"),

		FilterActive:   lipgloss.Color("42"),
		FilterInactive: lipgloss.Color("244"),
		Checkbox:       lipgloss.Color("75"),

		PagerButton:         lipgloss.Color("75"),
		PagerButtonDisabled: lipgloss.Color("240"),

		ValueKey:     lipgloss.Color("117"),
		ValueString:  lipgloss.Color("180"),
		ValueNumber:  lipgloss.Color("150"),
		ValueBoolean: lipgloss.Color("75"),
		ValueNull:    lipgloss.Color("244"),
	}
}
