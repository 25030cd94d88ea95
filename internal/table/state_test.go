package table

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/cotable/internal/models"
)

func newTestTable(t *testing.T, n int) *Table {
	t.Helper()
	rows := make([]models.Row, n)
	for i := range rows {
		rows[i] = models.Row{"id": i + 1, "name": fmt.Sprintf("kişi %d", i+1), "age": 20 + i}
	}
	cols := []models.Column{
		{Accessor: "name", Header: "Ad", Filter: models.FilterSearch},
		{Accessor: "age", Header: "Yaş", Filter: models.FilterNumberRange},
		{Accessor: "id", Header: "No", DisableSort: true},
	}
	tbl, err := New(cols, rows, Options{PageSize: 10})
	require.NoError(t, err)
	return tbl
}

func TestNewDefaults(t *testing.T) {
	tbl := newTestTable(t, 25)
	st := tbl.State()

	assert.Empty(t, st.Filters)
	assert.Empty(t, st.Sort)
	assert.Empty(t, st.GlobalSearch)
	assert.Equal(t, models.Pagination{PageIndex: 0, PageSize: 10}, st.Pagination)
	assert.Equal(t, []int{10, 20, 30, 40, 50}, tbl.PageSizeOptions())

	res := tbl.View()
	assert.Equal(t, 3, res.PageCount)
	assert.Len(t, res.Rows, 10)
}

func TestResetOnFilterChange(t *testing.T) {
	changes := []struct {
		name   string
		mutate func(*Table)
	}{
		{"set filter", func(tb *Table) {
			tb.SetFilter(models.FilterCriterion{ColumnID: "age", Range: models.NumberRange{Min: models.Float(21)}})
		}},
		{"clear filter", func(tb *Table) { tb.ClearFilter("age") }},
		{"clear filters", func(tb *Table) { tb.ClearFilters() }},
		{"global search", func(tb *Table) { tb.SetGlobalSearch("kişi") }},
		{"page size", func(tb *Table) { tb.SetPageSize(5) }},
		{"rows", func(tb *Table) { tb.SetRows(tb.Rows()) }},
	}

	for _, tc := range changes {
		t.Run(tc.name, func(t *testing.T) {
			tbl := newTestTable(t, 25)
			tbl.LastPage()
			require.Equal(t, 2, tbl.State().Pagination.PageIndex)

			tc.mutate(tbl)
			assert.Equal(t, 0, tbl.State().Pagination.PageIndex)
		})
	}
}

func TestSetFilterUsesDeclaredKind(t *testing.T) {
	tbl := newTestTable(t, 25)
	tbl.SetFilter(models.FilterCriterion{ColumnID: "age", Range: models.NumberRange{Min: models.Float(40)}})

	f, ok := tbl.Filter("age")
	require.True(t, ok)
	assert.Equal(t, models.FilterNumberRange, f.Kind)
	assert.Equal(t, 5, tbl.View().Filtered)

	tbl.SetFilter(models.FilterCriterion{ColumnID: "age", Range: models.NumberRange{Min: models.Float(44)}})
	assert.Len(t, tbl.State().Filters, 1)
	assert.Equal(t, 1, tbl.View().Filtered)

	tbl.ClearFilter("age")
	assert.Equal(t, 25, tbl.View().Filtered)
}

func TestToggleSort(t *testing.T) {
	tbl := newTestTable(t, 5)

	tbl.ToggleSort("age", false)
	assert.Equal(t, []models.SortCriterion{{ColumnID: "age"}}, tbl.State().Sort)
	assert.Equal(t, 1, tbl.View().Rows[0].Row["id"])

	tbl.ToggleSort("age", false)
	assert.Equal(t, []models.SortCriterion{{ColumnID: "age", Desc: true}}, tbl.State().Sort)
	assert.Equal(t, 5, tbl.View().Rows[0].Row["id"])

	tbl.ToggleSort("age", false)
	assert.Empty(t, tbl.State().Sort)

	tbl.ToggleSort("id", false)
	assert.Empty(t, tbl.State().Sort, "unsortable column")
}

func TestToggleSortMulti(t *testing.T) {
	tbl := newTestTable(t, 5)

	tbl.ToggleSort("name", false)
	tbl.ToggleSort("age", true)
	assert.Equal(t, []models.SortCriterion{{ColumnID: "name"}, {ColumnID: "age"}}, tbl.State().Sort)

	tbl.ToggleSort("age", true)
	assert.Equal(t, []models.SortCriterion{{ColumnID: "name"}, {ColumnID: "age", Desc: true}}, tbl.State().Sort)

	tbl.ToggleSort("age", false)
	assert.Equal(t, []models.SortCriterion{{ColumnID: "age"}}, tbl.State().Sort)

	tbl.ToggleSort("name", true)
	tbl.ToggleSort("name", true)
	require.Len(t, tbl.State().Sort, 2)
	tbl.ToggleSort("name", false)
	assert.Equal(t, []models.SortCriterion{{ColumnID: "name"}}, tbl.State().Sort)

	tbl.ToggleSort("name", false)
	tbl.ToggleSort("name", false)
	assert.Empty(t, tbl.State().Sort)
}

func TestPageNavigation(t *testing.T) {
	tbl := newTestTable(t, 25)

	assert.False(t, tbl.CanPrevPage())
	tbl.PrevPage()
	assert.Equal(t, 0, tbl.State().Pagination.PageIndex)

	tbl.NextPage()
	assert.Equal(t, 1, tbl.State().Pagination.PageIndex)
	assert.Equal(t, 11, tbl.View().RangeStart)

	tbl.LastPage()
	assert.False(t, tbl.CanNextPage())
	tbl.NextPage()
	assert.Equal(t, 2, tbl.State().Pagination.PageIndex)

	tbl.SetPageIndex(99)
	assert.Equal(t, 2, tbl.State().Pagination.PageIndex)

	tbl.FirstPage()
	assert.Equal(t, 0, tbl.State().Pagination.PageIndex)
}

func TestCyclePageSize(t *testing.T) {
	tbl := newTestTable(t, 25)

	tbl.CyclePageSize(true)
	assert.Equal(t, 20, tbl.State().Pagination.PageSize)

	tbl.CyclePageSize(false)
	tbl.CyclePageSize(false)
	assert.Equal(t, 50, tbl.State().Pagination.PageSize)
}

func TestSetColumnsDropsStaleState(t *testing.T) {
	tbl := newTestTable(t, 5)
	tbl.SetFilter(models.FilterCriterion{ColumnID: "age", Range: models.NumberRange{Min: models.Float(1)}})
	tbl.ToggleSort("name", false)

	tbl.SetColumns([]models.Column{{Accessor: "name"}})

	assert.Empty(t, tbl.State().Filters)
	assert.Equal(t, []models.SortCriterion{{ColumnID: "name"}}, tbl.State().Sort)
}

func TestStateIsCopied(t *testing.T) {
	tbl := newTestTable(t, 5)
	tbl.SetFilter(models.FilterCriterion{ColumnID: "name", Kind: models.FilterMultiSelect, Selected: []string{"kişi 1"}})

	st := tbl.State()
	st.Filters[0].Selected[0] = "değişti"

	f, _ := tbl.Filter("name")
	assert.Equal(t, []string{"kişi 1"}, f.Selected)
}

func TestSubscribe(t *testing.T) {
	tbl := newTestTable(t, 25)

	var mu sync.Mutex
	var received []Event
	unsubscribe := tbl.Subscribe(FilterChanged, func(ctx context.Context, ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, ev)
		return nil
	})

	tbl.SetFilter(models.FilterCriterion{ColumnID: "age", Range: models.NumberRange{Max: models.Float(30)}})
	tbl.SetGlobalSearch("x")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	ev := received[0]
	mu.Unlock()
	assert.Equal(t, FilterChanged, ev.Type)
	assert.Equal(t, "age", ev.ColumnID)
	require.Len(t, ev.State.Filters, 1)

	unsubscribe()
	tbl.ClearFilters()
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, received, 1)
}
