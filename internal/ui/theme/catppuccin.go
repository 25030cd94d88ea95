package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Muted:      lipgloss.Color("#6c7086"), // Overlay0

		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater

		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		TableHeader:      lipgloss.Color("#89b4fa"), // Blue
		TableRowEven:     lipgloss.Color("#1e1e2e"), // Base
		TableRowOdd:      lipgloss.Color("#181825"), // Mantle
		TableRowSelected: lipgloss.Color("#45475a"), // Surface1
		SortIndicator:    lipgloss.Color("#f9e2af"), // Yellow

		FilterActive:   lipgloss.Color("#a6e3a1"), // Green
		FilterInactive: lipgloss.Color("#6c7086"), // Overlay0
		Checkbox:       lipgloss.Color("#cba6f7"), // Mauve

		PagerButton:         lipgloss.Color("#89b4fa"), // Blue
		PagerButtonDisabled: lipgloss.Color("#45475a"), // Surface1

		ValueKey:     lipgloss.Color("#89b4fa"), // Blue
		ValueString:  lipgloss.Color("#a6e3a1"), // Green
		ValueNumber:  lipgloss.Color("#fab387"), // Peach
		ValueBoolean: lipgloss.Color("#f9e2af"), // Yellow
		ValueNull:    lipgloss.Color("#6c7086"), // Overlay0
	}
}
