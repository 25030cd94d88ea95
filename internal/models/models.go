package models

// AppState holds the application state
type AppState struct {
	Width    int
	Height   int
	Focus    FocusArea
	ViewMode ViewMode
	// Loading is set while rows are fetched from a source
	Loading bool
}

// FocusArea identifies which control receives key input
type FocusArea int

const (
	FocusTable FocusArea = iota
	FocusSearch
	FocusFilter
)

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
	FilterMode
	ErrorMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:    80,
		Height:   24,
		Focus:    FocusTable,
		ViewMode: NormalMode,
	}
}
