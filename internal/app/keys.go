package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/ui/help"
)

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	Sort         key.Binding
	MultiSort    key.Binding
	Filter       key.Binding
	ClearFilter  key.Binding
	ClearFilters key.Binding
	Search       key.Binding

	NextPage     key.Binding
	PrevPage     key.Binding
	FirstPage    key.Binding
	LastPage     key.Binding
	PageSizeNext key.Binding
	PageSizePrev key.Binding

	Detail     key.Binding
	DetailUp   key.Binding
	DetailDown key.Binding
	CopyRow    key.Binding
	CopyField  key.Binding
	ExportCSV  key.Binding
	ExportJSON key.Binding
	ExportPage key.Binding

	Help key.Binding
	Back key.Binding
	Quit key.Binding
}

func newKeyMap(strs *i18n.Strings) keyMap {
	bind := func(desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], strs.T(desc)))
	}

	return keyMap{
		Up:    bind("key.up", "up", "k"),
		Down:  bind("key.down", "down", "j"),
		Left:  bind("key.left", "left", "h"),
		Right: bind("key.right", "right", "l"),

		Sort:         bind("key.sort", "s"),
		MultiSort:    bind("key.multi_sort", "S"),
		Filter:       bind("key.filter", "f"),
		ClearFilter:  bind("key.clear_filter", "x"),
		ClearFilters: bind("key.clear_filters", "X"),
		Search:       bind("key.search", "/"),

		NextPage:     bind("key.next_page", "n", "pgdown"),
		PrevPage:     bind("key.prev_page", "p", "pgup"),
		FirstPage:    bind("key.first_page", "g", "home"),
		LastPage:     bind("key.last_page", "G", "end"),
		PageSizeNext: bind("key.page_size", "]"),
		PageSizePrev: bind("key.page_size", "["),

		Detail:     bind("key.detail", "enter", "d"),
		DetailUp:   bind("key.detail_field", "K"),
		DetailDown: bind("key.detail_field", "J"),
		CopyRow:    bind("key.copy_row", "y"),
		CopyField:  bind("key.copy_field", "c"),
		ExportCSV:  bind("key.export_csv", "e"),
		ExportJSON: bind("key.export_json", "E"),
		ExportPage: bind("key.export_page", "ctrl+e"),

		Help: bind("key.help", "?"),
		Back: key.NewBinding(key.WithKeys("esc")),
		Quit: bind("key.quit", "q", "ctrl+c"),
	}
}

// sections groups the bindings for the help overlay
func (k keyMap) sections(strs *i18n.Strings) []help.Section {
	return []help.Section{
		{
			Title:    strs.T("help.section.navigation"),
			Bindings: []key.Binding{k.Up, k.Down, k.Left, k.Right, k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.PageSizeNext},
		},
		{
			Title:    strs.T("help.section.table"),
			Bindings: []key.Binding{k.Sort, k.MultiSort, k.Filter, k.ClearFilter, k.ClearFilters, k.Search},
		},
		{
			Title:    strs.T("help.section.data"),
			Bindings: []key.Binding{k.Detail, k.DetailDown, k.CopyRow, k.CopyField, k.ExportCSV, k.ExportJSON, k.ExportPage},
		},
		{
			Title:    strs.T("help.section.general"),
			Bindings: []key.Binding{k.Help, k.Quit},
		},
	}
}
