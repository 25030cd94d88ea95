package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/cotable/internal/config"
	"github.com/rebeliceyang/cotable/internal/i18n"
	"github.com/rebeliceyang/cotable/internal/models"
	"github.com/rebeliceyang/cotable/internal/source"
	"github.com/rebeliceyang/cotable/internal/ui/components"
)

func init() {
	zone.NewGlobal()
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.GetDefaults()
	cfg.Data.PageSize = 5
	cfg.UI.MouseEnabled = true
	if mutate != nil {
		mutate(cfg)
	}

	props := DefaultProps()
	props.Columns = source.DemoColumns()
	props.Rows = source.Demo().Rows

	a, err := New(props, Options{Config: cfg, Strings: i18n.MustLoad("tr")})
	require.NoError(t, err)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

func send(a *App, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = a.Update(msg)
	}
	return cmd
}

func visibleNames(a *App) []any {
	var out []any
	for _, kr := range a.table.View().Rows {
		out = append(out, kr.Row["firstName"])
	}
	return out
}

func TestViewRendersHeadersAndPager(t *testing.T) {
	a := newTestApp(t, nil)
	out := a.View()

	for _, want := range []string{"Ad", "Soyad", "Yaş", "Şehir", "Ahmet", "Sayfa 1 / 2", "1-5 / 10 kayıt"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Melisa", "second page is not rendered")
}

func TestSortKeyCyclesDirection(t *testing.T) {
	a := newTestApp(t, nil)

	// age column
	send(a, runes("l"), runes("l"), runes("s"))
	require.Len(t, a.table.State().Sort, 1)
	assert.Equal(t, models.SortCriterion{ColumnID: "age", Desc: false}, a.table.State().Sort[0])
	assert.Equal(t, "Ali", visibleNames(a)[0])

	send(a, runes("s"))
	assert.True(t, a.table.State().Sort[0].Desc)

	send(a, runes("s"))
	assert.Empty(t, a.table.State().Sort)
}

func TestMultiSortKeyAppends(t *testing.T) {
	a := newTestApp(t, nil)

	send(a, runes("l"), runes("s"), runes("l"), runes("S"))
	assert.Equal(t, []models.SortCriterion{{ColumnID: "lastName"}, {ColumnID: "age"}}, a.table.State().Sort)
}

func TestGlobalSearchResetsPage(t *testing.T) {
	a := newTestApp(t, nil)

	send(a, runes("n"))
	assert.Equal(t, 1, a.table.State().Pagination.PageIndex)

	send(a, components.GlobalSearchMsg{Query: "istanbul"})
	assert.Equal(t, 0, a.table.State().Pagination.PageIndex)
	assert.Equal(t, []any{"Ahmet", "Melisa"}, visibleNames(a))
}

func TestApplyAndClearFilter(t *testing.T) {
	a := newTestApp(t, nil)

	send(a, components.ApplyFilterMsg{Criterion: models.FilterCriterion{
		ColumnID: "age",
		Kind:     models.FilterNumberRange,
		Range:    models.NumberRange{Min: models.Float(30)},
	}})
	res := a.table.View()
	assert.Equal(t, 4, res.Filtered)
	assert.Contains(t, a.View(), "1 filtre etkin")

	send(a, runes("X"))
	assert.Equal(t, 10, a.table.View().Filtered)
	assert.NotContains(t, a.View(), "filtre etkin")
}

func TestFilterKeyOpensAndClosesEditor(t *testing.T) {
	a := newTestApp(t, nil)

	send(a, runes("f"))
	assert.Equal(t, models.FocusFilter, a.state.Focus)
	assert.Equal(t, models.FilterMode, a.state.ViewMode)
	assert.Equal(t, "firstName", a.filterEditor.Column.Key())
	assert.Contains(t, a.View(), "Filtre: Ad")

	cmd := send(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	send(a, cmd())
	assert.Equal(t, models.FocusTable, a.state.Focus)
	assert.Equal(t, models.NormalMode, a.state.ViewMode)
}

func TestPopoverFilterStyle(t *testing.T) {
	cfg := config.GetDefaults()
	props := DefaultProps()
	props.Columns = source.DemoColumns()
	props.Rows = source.Demo().Rows
	props.FilterStyle = config.FilterStylePopover

	a, err := New(props, Options{Config: cfg})
	require.NoError(t, err)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.False(t, a.tableView.ShowFilterRow)
	send(a, runes("f"))
	out := a.View()
	assert.Contains(t, out, "Filtre: Ad")
	assert.NotContains(t, out, "Soyad", "the popover replaces the table view")
}

func TestPagingKeys(t *testing.T) {
	a := newTestApp(t, nil)

	send(a, runes("G"))
	assert.Equal(t, 1, a.table.State().Pagination.PageIndex)
	send(a, runes("n"))
	assert.Equal(t, 1, a.table.State().Pagination.PageIndex, "last page is a bound")
	send(a, runes("g"))
	assert.Equal(t, 0, a.table.State().Pagination.PageIndex)

	send(a, runes("]"))
	assert.Equal(t, 10, a.table.State().Pagination.PageSize)
	assert.Equal(t, 1, a.table.View().PageCount)
}

func TestRowsLoadedInfersColumns(t *testing.T) {
	cfg := config.GetDefaults()
	a, err := New(DefaultProps(), Options{Config: cfg, Source: "people.json"})
	require.NoError(t, err)

	require.NotNil(t, a.Init())
	assert.True(t, a.state.Loading)

	send(a, rowsLoadedMsg{dataset: &source.Dataset{
		Fields: []string{"name", "age"},
		Rows:   []models.Row{{"name": "Ayşe", "age": 28}, {"name": "Ece", "age": 31}},
	}})

	assert.False(t, a.state.Loading)
	require.Len(t, a.table.Columns(), 2)
	assert.Equal(t, models.FilterNumberRange, a.table.Columns()[1].Filter)
	assert.Equal(t, 2, a.table.View().Total)
	assert.Contains(t, a.View(), "Ayşe")
}

func TestLoadErrorShowsOverlay(t *testing.T) {
	a := newTestApp(t, nil)

	send(a, rowsLoadedMsg{err: errors.New("connection refused")})
	require.NotNil(t, a.errorOverlay)
	assert.Equal(t, models.ErrorMode, a.state.ViewMode)
	out := a.View()
	assert.Contains(t, out, "Kaynak yüklenemedi")
	assert.Contains(t, out, "connection refused")

	// Other keys are swallowed while the overlay is shown
	send(a, runes("s"))
	assert.Empty(t, a.table.State().Sort)

	send(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, a.errorOverlay)
	assert.Equal(t, models.NormalMode, a.state.ViewMode)
}

func TestInitLoadsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nAli,22\nEce,28\n"), 0644))

	a, err := New(DefaultProps(), Options{Source: path})
	require.NoError(t, err)

	cmd := a.Init()
	require.NotNil(t, cmd)
	send(a, cmd())
	assert.Equal(t, 2, a.table.View().Total)
	assert.Equal(t, "name", a.table.Columns()[0].Key())
}

func TestHelpToggle(t *testing.T) {
	a := newTestApp(t, nil)

	send(a, runes("?"))
	assert.Equal(t, models.HelpMode, a.state.ViewMode)
	out := a.View()
	assert.Contains(t, out, "Klavye Kısayolları")
	assert.Contains(t, out, "sütuna göre sırala")

	send(a, runes("?"))
	assert.Equal(t, models.NormalMode, a.state.ViewMode)
}

func TestExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, func(cfg *config.Config) { cfg.Data.ExportDir = dir })
	a.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	send(a, components.GlobalSearchMsg{Query: "kaya"})
	cmd := send(a, runes("e"))
	require.NotNil(t, cmd)
	send(a, cmd())

	path := filepath.Join(dir, "cotable-20240501-100000.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Mehmet")
	assert.Contains(t, string(data), "Mert")
	assert.NotContains(t, string(data), "Ahmet")
	assert.Contains(t, a.View(), "2 satır dışa aktarıldı")
}

func TestRowDetailToggle(t *testing.T) {
	a := newTestApp(t, nil)

	send(a, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, a.rowDetail.Visible)
	assert.Equal(t, "2", a.rowDetail.Row.Key)
	assert.Contains(t, a.View(), "Satır Ayrıntısı")

	send(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.rowDetail.Visible)
}

func TestSearchKeyFocusesInput(t *testing.T) {
	a := newTestApp(t, nil)

	send(a, runes("/"))
	assert.Equal(t, models.FocusSearch, a.state.Focus)
	assert.True(t, a.searchInput.Focused())

	// Typing goes to the input, not the key map
	send(a, runes("q"))
	assert.Equal(t, "q", a.searchInput.Value())

	cmd := send(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	send(a, cmd())
	assert.Equal(t, models.FocusTable, a.state.Focus)
}

func TestQuit(t *testing.T) {
	a := newTestApp(t, nil)
	cmd := send(a, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
