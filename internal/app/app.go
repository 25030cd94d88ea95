package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"github.com/rebeliceyang/cotable/internal/config"
	"github.com/rebeliceyang/cotable/internal/export"
	"github.com/rebeliceyang/cotable/internal/filter"
	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/pipeline"
	"github.com/rebeliceyang/cotable/internal/search"
	"github.com/rebeliceyang/cotable/internal/source"
	"github.com/rebeliceyang/cotable/internal/table"
	"github.com/rebeliceyang/cotable/internal/ui/components"
	"github.com/rebeliceyang/cotable/internal/ui/help"
	"github.com/rebeliceyang/cotable/internal/ui/theme"
)

const zoneClearFilters = "cotable-clear-filters"

// Props describes the grid to show
type Props struct {
	Columns []models.Column
	Rows    []models.Row

	ShowFilters      bool
	ShowPagination   bool
	ShowGlobalSearch bool
	// ClassName is rendered as the title of the table frame
	ClassName string
	// FilterStyle is config.FilterStyleInline or config.FilterStylePopover
	FilterStyle string
}

// DefaultProps returns props with every control shown and inline filters
func DefaultProps() Props {
	return Props{
		ShowFilters:      true,
		ShowPagination:   true,
		ShowGlobalSearch: true,
		FilterStyle:      config.FilterStyleInline,
	}
}

// PropsFromConfig builds props from the ui section of a config
func PropsFromConfig(cfg *config.Config) Props {
	return Props{
		Columns:          cfg.ColumnDescriptors(),
		ShowFilters:      cfg.UI.ShowFilters,
		ShowPagination:   cfg.UI.ShowPagination,
		ShowGlobalSearch: cfg.UI.ShowGlobalSearch,
		ClassName:        cfg.UI.ClassName,
		FilterStyle:      cfg.UI.FilterStyle,
	}
}

// Options carries the collaborators of an App
type Options struct {
	Config  *config.Config
	Strings *i18n.Strings
	Logger  *zap.Logger
	// Source is loaded by Init when set; its rows replace Props.Rows
	Source string
}

// App is the main application model
type App struct {
	state  models.AppState
	props  Props
	config *config.Config
	theme  theme.Theme
	strs   *i18n.Strings
	logger *zap.Logger
	keys   keyMap

	table        *table.Table
	tableView    *components.TableView
	pager        *components.Pager
	searchInput  *components.SearchInput
	filterEditor *components.FilterEditor
	rowDetail    *components.RowDetail
	panel        components.Panel

	// Error overlay, nil when hidden
	errorOverlay *components.ErrorOverlay

	source string
	status string
	now    func() time.Time
}

// ErrorMsg is sent when an edge operation fails
type ErrorMsg struct {
	Title   string
	Message string
}

// rowsLoadedMsg carries the result of the source load started by Init
type rowsLoadedMsg struct {
	dataset *source.Dataset
	err     error
}

// exportDoneMsg reports a finished export
type exportDoneMsg struct {
	rows int
	path string
	err  error
}

// New creates a new App instance
func New(props Props, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	strs := opts.Strings
	if strs == nil {
		strs = i18n.MustLoad(cfg.Data.Locale)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if props.FilterStyle == "" {
		props.FilterStyle = config.FilterStyleInline
	}

	th := theme.GetTheme(cfg.UI.Theme)

	pipe := pipeline.New(pipeline.WithLogger(logger), pipeline.WithLocale(cfg.Data.Locale))
	tbl, err := table.New(props.Columns, props.Rows, table.Options{
		PageSize:        cfg.Data.PageSize,
		PageSizeOptions: cfg.Data.PageSizeOptions,
		Pipeline:        pipe,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	tableView := components.NewTableView(th, strs)
	tableView.ShowFilterRow = props.ShowFilters && props.FilterStyle == config.FilterStyleInline
	if cfg.UI.MaxColumnWidth > 0 {
		tableView.MaxColumnWidth = cfg.UI.MaxColumnWidth
	}

	filterEditor := components.NewFilterEditor(th, strs)
	filterEditor.Popover = props.FilterStyle == config.FilterStylePopover

	a := &App{
		state:        models.NewAppState(),
		props:        props,
		config:       cfg,
		theme:        th,
		strs:         strs,
		logger:       logger,
		keys:         newKeyMap(strs),
		table:        tbl,
		tableView:    tableView,
		pager:        components.NewPager(th, strs),
		searchInput:  components.NewSearchInput(th, strs, time.Duration(cfg.Search.DebounceMs)*time.Millisecond),
		filterEditor: filterEditor,
		rowDetail:    components.NewRowDetail(th, strs),
		panel: components.Panel{
			Title:              props.ClassName,
			BorderColor:        th.Border,
			FocusedBorderColor: th.BorderFocused,
			Focused:            true,
		},
		source: opts.Source,
		now:    time.Now,
	}

	a.subscribe()
	a.refresh()
	a.updateDimensions()

	return a, nil
}

// subscribe logs every table change notification
func (a *App) subscribe() {
	for _, ev := range []table.EventType{
		table.FilterChanged, table.SearchChanged, table.SortChanged, table.PageChanged, table.RowsChanged,
	} {
		a.table.Subscribe(ev, func(_ context.Context, e table.Event) error {
			a.logger.Debug("table event",
				zap.String("type", string(e.Type)),
				zap.String("column", e.ColumnID),
				zap.Int("filters", len(e.State.Filters)),
				zap.Int("page", e.State.Pagination.PageIndex),
			)
			return nil
		})
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.source == "" {
		return nil
	}
	a.state.Loading = true
	return a.loadSource(a.source)
}

// loadSource fetches rows in the background with the configured timeout
func (a *App) loadSource(uri string) tea.Cmd {
	timeout := time.Duration(a.config.Performance.LoadTimeoutMs) * time.Millisecond
	maxRows := a.config.Performance.MaxRows
	logger := a.logger
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ds, err := source.Load(ctx, uri, source.Options{MaxRows: maxRows, Logger: logger})
		return rowsLoadedMsg{dataset: ds, err: err}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updateDimensions()
		return a, nil

	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case rowsLoadedMsg:
		a.state.Loading = false
		if msg.err != nil {
			a.logger.Error("failed to load source", zap.String("source", source.Redact(a.source)), zap.Error(msg.err))
			a.ShowError(a.strs.T("error.source"), msg.err.Error())
			return a, nil
		}
		a.SetRows(msg.dataset)
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.logger.Error("export failed", zap.String("path", msg.path), zap.Error(msg.err))
			a.ShowError(a.strs.T("error.export"), msg.err.Error())
			return a, nil
		}
		a.logger.Info("rows exported", zap.String("path", msg.path), zap.Int("rows", msg.rows))
		a.status = a.strs.F("export.done", msg.rows, msg.path)
		return a, nil

	case search.DebounceMsg:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd

	case components.GlobalSearchMsg:
		a.table.SetGlobalSearch(msg.Query)
		a.tableView.SelectFirst()
		a.refresh()
		return a, nil

	case components.CloseSearchMsg:
		a.state.Focus = models.FocusTable
		return a, nil

	case components.ApplyFilterMsg:
		a.table.SetFilter(msg.Criterion)
		a.tableView.SelectFirst()
		a.refresh()
		return a, nil

	case components.ClearFilterMsg:
		a.table.ClearFilter(msg.ColumnID)
		a.refresh()
		return a, nil

	case components.CloseFilterEditorMsg:
		a.closeFilterEditor()
		return a, nil

	case tea.MouseMsg:
		if !a.config.UI.MouseEnabled {
			return a, nil
		}
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Cursor blink and other input internals
	if a.state.Focus == models.FocusSearch {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.errorOverlay != nil {
		switch msg.String() {
		case "esc", "enter":
			a.DismissError()
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	if a.state.ViewMode == models.HelpMode {
		switch {
		case key.Matches(msg, a.keys.Help), key.Matches(msg, a.keys.Back), msg.String() == "q":
			a.state.ViewMode = models.NormalMode
		case msg.String() == "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	switch a.state.Focus {
	case models.FocusSearch:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	case models.FocusFilter:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.filterEditor, cmd = a.filterEditor.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.state.ViewMode = models.HelpMode
	case key.Matches(msg, a.keys.Back):
		if a.rowDetail.Visible {
			a.rowDetail.Toggle()
			a.updateDimensions()
		}

	case key.Matches(msg, a.keys.Up):
		a.tableView.MoveSelection(-1)
		a.syncDetail()
	case key.Matches(msg, a.keys.Down):
		a.tableView.MoveSelection(1)
		a.syncDetail()
	case key.Matches(msg, a.keys.Left):
		a.tableView.MoveColumn(-1)
	case key.Matches(msg, a.keys.Right):
		a.tableView.MoveColumn(1)

	case key.Matches(msg, a.keys.Sort), key.Matches(msg, a.keys.MultiSort):
		if col, ok := a.tableView.CurrentColumn(); ok && col.Sortable() {
			a.table.ToggleSort(col.Key(), key.Matches(msg, a.keys.MultiSort))
			a.refresh()
		}
	case key.Matches(msg, a.keys.Filter):
		return a, a.openFilterEditor(a.tableView.SelectedColumn)
	case key.Matches(msg, a.keys.ClearFilter):
		if col, ok := a.tableView.CurrentColumn(); ok {
			if _, active := a.table.Filter(col.Key()); active {
				a.table.ClearFilter(col.Key())
				a.refresh()
			}
		}
	case key.Matches(msg, a.keys.ClearFilters):
		a.clearFilters()
	case key.Matches(msg, a.keys.Search):
		if a.props.ShowGlobalSearch {
			a.state.Focus = models.FocusSearch
			return a, a.searchInput.Focus()
		}

	case key.Matches(msg, a.keys.NextPage):
		a.changePage(a.table.NextPage)
	case key.Matches(msg, a.keys.PrevPage):
		a.changePage(a.table.PrevPage)
	case key.Matches(msg, a.keys.FirstPage):
		a.changePage(a.table.FirstPage)
	case key.Matches(msg, a.keys.LastPage):
		a.changePage(a.table.LastPage)
	case key.Matches(msg, a.keys.PageSizeNext):
		a.changePage(func() { a.table.CyclePageSize(true) })
	case key.Matches(msg, a.keys.PageSizePrev):
		a.changePage(func() { a.table.CyclePageSize(false) })

	case key.Matches(msg, a.keys.Detail):
		a.rowDetail.Toggle()
		a.syncDetail()
		a.updateDimensions()
	case key.Matches(msg, a.keys.DetailUp):
		a.rowDetail.MoveCursor(-1)
	case key.Matches(msg, a.keys.DetailDown):
		a.rowDetail.MoveCursor(1)
	case key.Matches(msg, a.keys.CopyRow):
		a.copyToClipboard(a.rowDetail.CopyRow)
	case key.Matches(msg, a.keys.CopyField):
		a.copyToClipboard(a.rowDetail.CopyField)

	case key.Matches(msg, a.keys.ExportCSV):
		return a, a.exportRows(export.FormatCSV, false)
	case key.Matches(msg, a.keys.ExportJSON):
		return a, a.exportRows(export.FormatJSON, false)
	case key.Matches(msg, a.keys.ExportPage):
		return a, a.exportRows(export.FormatCSV, true)
	}

	return a, nil
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.errorOverlay != nil || a.state.ViewMode == models.HelpMode {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.state.Focus == models.FocusTable {
			a.tableView.MoveSelection(-1)
			a.syncDetail()
		}
		return a, nil
	case tea.MouseButtonWheelDown:
		if a.state.Focus == models.FocusTable {
			a.tableView.MoveSelection(1)
			a.syncDetail()
		}
		return a, nil
	}

	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return a, nil
	}

	if a.state.Focus == models.FocusFilter {
		if handled, cmd := a.filterEditor.HandleMouseClick(msg); handled {
			return a, cmd
		}
		// A click outside a popover closes it
		if a.filterEditor.Popover {
			a.closeFilterEditor()
			return a, nil
		}
	}

	if a.props.ShowPagination {
		switch a.pager.HandleMouseClick(msg) {
		case components.PagerFirst:
			a.changePage(a.table.FirstPage)
			return a, nil
		case components.PagerPrev:
			a.changePage(a.table.PrevPage)
			return a, nil
		case components.PagerNext:
			a.changePage(a.table.NextPage)
			return a, nil
		case components.PagerLast:
			a.changePage(a.table.LastPage)
			return a, nil
		case components.PagerSizeNext:
			a.changePage(func() { a.table.CyclePageSize(true) })
			return a, nil
		}
	}

	if zone.Get(zoneClearFilters).InBounds(msg) {
		a.clearFilters()
		return a, nil
	}

	kind, index := a.tableView.HandleMouseClick(msg)
	switch kind {
	case components.ClickHeader:
		if col := a.tableView.Columns[index]; col.Sortable() {
			a.table.ToggleSort(col.Key(), msg.Shift)
			a.refresh()
		}
	case components.ClickFilter:
		return a, a.openFilterEditor(index)
	case components.ClickRow:
		a.state.Focus = models.FocusTable
		a.searchInput.Blur()
		a.syncDetail()
	}
	return a, nil
}

// openFilterEditor opens the editor for the column at index
func (a *App) openFilterEditor(index int) tea.Cmd {
	if !a.props.ShowFilters || index < 0 || index >= len(a.tableView.Columns) {
		return nil
	}
	col := a.tableView.Columns[index]
	if !col.Filterable() {
		return nil
	}
	a.tableView.SelectedColumn = index

	current, _ := a.table.Filter(col.Key())
	a.state.Focus = models.FocusFilter
	a.state.ViewMode = models.FilterMode
	a.searchInput.Blur()
	a.updateDimensions()
	return a.filterEditor.Open(col, a.table.Rows(), current)
}

func (a *App) closeFilterEditor() {
	a.state.Focus = models.FocusTable
	a.state.ViewMode = models.NormalMode
	a.updateDimensions()
}

func (a *App) clearFilters() {
	if len(a.table.State().Filters) == 0 {
		return
	}
	a.table.ClearFilters()
	a.refresh()
}

// changePage runs a page mutation and resets the row cursor
func (a *App) changePage(mutate func()) {
	before := a.table.State().Pagination
	mutate()
	if a.table.State().Pagination != before {
		a.tableView.SelectFirst()
		a.refresh()
	}
}

func (a *App) copyToClipboard(copyFn func() error) {
	a.syncDetail()
	if err := copyFn(); err != nil {
		a.ShowError(a.strs.T("error.clipboard"), err.Error())
		return
	}
	a.status = a.strs.T("detail.copied")
}

// exportRows writes either the whole filtered and sorted set or the
// current page
func (a *App) exportRows(format export.Format, pageOnly bool) tea.Cmd {
	res := a.table.View()
	rows := res.Sorted
	if pageOnly {
		rows = res.Rows
	}
	columns := a.table.Columns()
	path := export.FileName(a.config.Data.ExportDir, format, a.now())

	return func() tea.Msg {
		err := export.Write(format, rows, columns, path)
		return exportDoneMsg{rows: len(rows), path: path, err: err}
	}
}

// SetRows replaces the dataset. Columns are inferred when none were given.
func (a *App) SetRows(ds *source.Dataset) {
	if len(a.props.Columns) == 0 {
		a.props.Columns = source.InferColumns(ds)
		a.table.SetColumns(a.props.Columns)
	}
	a.table.SetRows(ds.Rows)
	a.tableView.SelectFirst()
	a.refresh()
}

// refresh copies the current computation into the view components
func (a *App) refresh() {
	res := a.table.View()
	a.tableView.SetData(a.table.Columns(), res.Rows, a.table.State())
	a.pager.SetResult(res, a.table.PageSizeOptions())
	a.syncDetail()
}

// syncDetail points the detail pane at the selected row
func (a *App) syncDetail() {
	if kr, ok := a.tableView.SelectedKeyedRow(); ok {
		a.rowDetail.SetRow(kr, a.table.Columns())
	}
}

// updateDimensions sizes the components from the window size
func (a *App) updateDimensions() {
	w := a.state.Width
	a.panel.Width = w - 2
	a.tableView.Width = w - 4
	a.pager.Width = w
	a.searchInput.Width = w
	a.rowDetail.Width = w

	a.filterEditor.Width = 48
	if a.filterEditor.Width > w-2 {
		a.filterEditor.Width = w - 2
	}
	a.filterEditor.Height = 16

	a.rowDetail.MaxHeight = a.state.Height / 3
	if a.rowDetail.MaxHeight < 6 {
		a.rowDetail.MaxHeight = 6
	}
}

// View implements tea.Model
func (a *App) View() string {
	return zone.Scan(a.render())
}

func (a *App) render() string {
	if a.errorOverlay != nil {
		return a.errorOverlay.View(a.state.Width, a.state.Height)
	}

	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme,
			a.strs.T("help.title"), a.strs.T("help.close"), a.keys.sections(a.strs))
	}

	if a.state.Focus == models.FocusFilter && a.filterEditor.Popover {
		return lipgloss.Place(a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.filterEditor.View())
	}

	return a.renderNormalView()
}

func (a *App) renderNormalView() string {
	var top, bottom []string

	if a.props.ShowGlobalSearch {
		top = append(top, a.searchInput.View())
	}

	if a.state.Focus == models.FocusFilter {
		bottom = append(bottom, a.filterEditor.View())
	}
	if a.rowDetail.Visible {
		bottom = append(bottom, a.rowDetail.View())
	}
	if a.props.ShowPagination {
		bottom = append(bottom, a.pager.View())
	}
	bottom = append(bottom, a.renderStatusBar())

	chrome := 2 // panel border
	for _, part := range top {
		chrome += lipgloss.Height(part)
	}
	for _, part := range bottom {
		chrome += lipgloss.Height(part)
	}
	panelHeight := a.state.Height - chrome
	if panelHeight < 3 {
		panelHeight = 3
	}
	a.panel.Height = panelHeight
	a.tableView.Height = panelHeight
	if a.panel.Title != "" {
		a.tableView.Height--
	}

	if a.state.Loading {
		a.panel.Content = lipgloss.NewStyle().Foreground(a.theme.Muted).Render(a.strs.T("table.loading"))
	} else {
		a.panel.Content = a.tableView.View()
	}
	a.panel.Focused = a.state.Focus == models.FocusTable

	parts := make([]string, 0, len(top)+len(bottom)+1)
	parts = append(parts, top...)
	parts = append(parts, a.panel.View())
	parts = append(parts, bottom...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderStatusBar shows the row count, active filters and the last status message
func (a *App) renderStatusBar() string {
	res := a.table.View()

	left := []string{a.strs.F("status.rows", res.Total)}
	active := 0
	for _, f := range a.table.State().Filters {
		if filter.IsActive(f) {
			active++
		}
	}
	if active > 0 {
		left = append(left, a.strs.F("filter.active_count", active))
		clearAll := lipgloss.NewStyle().Foreground(a.theme.FilterActive).Underline(true).
			Render(a.strs.T("filter.clear_all"))
		left = append(left, zone.Mark(zoneClearFilters, clearAll))
	}

	content := strings.Join(left, " · ")
	if a.status != "" {
		content += "  " + lipgloss.NewStyle().Foreground(a.theme.Success).Render(a.status)
	}

	return lipgloss.NewStyle().
		Width(a.state.Width).
		Foreground(a.theme.Muted).
		Padding(0, 1).
		Render(content)
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.errorOverlay = components.NewErrorOverlay(a.theme, a.strs, title, message)
	a.state.ViewMode = models.ErrorMode
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.errorOverlay = nil
	a.state.ViewMode = models.NormalMode
	if a.state.Focus == models.FocusFilter {
		a.state.ViewMode = models.FilterMode
	}
}
