package pipeline

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rebeliceyang/cotable/internal/models"
)

func values(rows []models.KeyedRow, field string) []any {
	out := make([]any, len(rows))
	for i, kr := range rows {
		out[i] = kr.Row[field]
	}
	return out
}

func numbered(n int) []models.Row {
	rows := make([]models.Row, n)
	for i := range rows {
		rows[i] = models.Row{"id": i + 1, "name": fmt.Sprintf("satır %02d", i+1), "age": 20 + i%15}
	}
	return rows
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 3, PageCount(21, 0))
}

func TestPaginate(t *testing.T) {
	rows := make([]models.KeyedRow, 25)
	for i := range rows {
		rows[i] = models.KeyedRow{Index: i}
	}

	assert.Len(t, Paginate(rows, models.Pagination{PageIndex: 0, PageSize: 10}), 10)
	assert.Len(t, Paginate(rows, models.Pagination{PageIndex: 2, PageSize: 10}), 5)
	assert.Empty(t, Paginate(rows, models.Pagination{PageIndex: 3, PageSize: 10}))
	assert.Empty(t, Paginate(rows, models.Pagination{PageIndex: -1, PageSize: 10}))
	assert.NotNil(t, Paginate(nil, models.Pagination{PageSize: 10}))
	assert.Empty(t, Paginate(rows, models.Pagination{PageIndex: math.MaxInt/10 + 1, PageSize: 10}))
	assert.Empty(t, Paginate(rows, models.Pagination{PageIndex: math.MaxInt, PageSize: math.MaxInt}))
}

func TestComputeOutOfRangePage(t *testing.T) {
	st := models.NewState(10)
	st.Pagination.PageIndex = math.MaxInt/10 + 1

	res := New().Compute(numbered(5), []models.Column{{Accessor: "name"}}, st)
	assert.Empty(t, res.Rows)
	assert.Zero(t, res.RangeStart)
	assert.Zero(t, res.RangeEnd)
	assert.Equal(t, 5, res.Filtered)
}

func TestPaginationCoverage(t *testing.T) {
	p := New()
	rows := numbered(47)
	cols := []models.Column{{Accessor: "name"}, {Accessor: "age"}}

	for _, size := range models.DefaultPageSizeOptions {
		t.Run(fmt.Sprintf("size %d", size), func(t *testing.T) {
			st := models.NewState(size)
			st.Sort = []models.SortCriterion{{ColumnID: "age", Desc: true}}
			st.Filters = []models.FilterCriterion{{
				ColumnID: "age",
				Kind:     models.FilterNumberRange,
				Range:    models.NumberRange{Min: models.Float(22)},
			}}

			first := p.Compute(rows, cols, st)
			var all []models.KeyedRow
			for page := 0; page < first.PageCount; page++ {
				st.Pagination.PageIndex = page
				res := p.Compute(rows, cols, st)
				all = append(all, res.Rows...)
			}

			require.Len(t, all, first.Filtered)
			assert.Equal(t, first.Sorted, all)

			seen := map[string]bool{}
			for _, kr := range all {
				assert.False(t, seen[kr.Key], "duplicate row %s", kr.Key)
				seen[kr.Key] = true
			}
		})
	}
}

func TestComputeEndToEnd(t *testing.T) {
	p := New(WithLogger(zap.NewNop()), WithLocale("tr"))

	t.Run("global search folds locale letters", func(t *testing.T) {
		rows := []models.Row{
			{"id": 1, "firstName": "Ahmet", "city": "İstanbul"},
			{"id": 2, "firstName": "Mehmet", "city": "Ankara"},
		}
		st := models.NewState(10)
		st.GlobalSearch = "istanbul"

		res := p.Compute(rows, []models.Column{{Accessor: "firstName"}, {Accessor: "city"}}, st)
		assert.Equal(t, []any{1}, values(res.Rows, "id"))
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, 1, res.Filtered)
	})

	t.Run("number range minimum", func(t *testing.T) {
		rows := []models.Row{{"age": 25}, {"age": 30}, {"age": 28}}
		st := models.NewState(10)
		st.Filters = []models.FilterCriterion{{
			ColumnID: "age",
			Kind:     models.FilterNumberRange,
			Range:    models.NumberRange{Min: models.Float(26)},
		}}

		res := p.Compute(rows, []models.Column{{Accessor: "age", Filter: models.FilterNumberRange}}, st)
		assert.Equal(t, []any{30, 28}, values(res.Rows, "age"))
	})

	t.Run("turkish collation", func(t *testing.T) {
		rows := []models.Row{{"city": "Demir"}, {"city": "Çelik"}}
		st := models.NewState(10)
		st.Sort = []models.SortCriterion{{ColumnID: "city"}}

		res := p.Compute(rows, []models.Column{{Accessor: "city"}}, st)
		assert.Equal(t, []any{"Çelik", "Demir"}, values(res.Rows, "city"))
	})
}

func TestComputeRange(t *testing.T) {
	p := New()
	rows := numbered(23)

	st := models.NewState(10)
	st.Pagination.PageIndex = 2
	res := p.Compute(rows, []models.Column{{Accessor: "name"}}, st)

	assert.Equal(t, 3, res.PageCount)
	assert.Equal(t, 21, res.RangeStart)
	assert.Equal(t, 23, res.RangeEnd)

	st.GlobalSearch = "bulunmayan"
	res = p.Compute(rows, []models.Column{{Accessor: "name"}}, st)
	assert.True(t, res.Empty())
	assert.Equal(t, 1, res.PageCount)
	assert.Zero(t, res.RangeStart)
	assert.Empty(t, res.Rows)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	rows := []models.Row{{"n": 3, "nested": map[string]any{"x": 1}}, {"n": 1}, {"n": 2}}
	snapshot := fmt.Sprint(rows)

	st := models.NewState(2)
	st.Sort = []models.SortCriterion{{ColumnID: "n"}}
	st.GlobalSearch = "1"
	_ = New().Compute(rows, []models.Column{{Accessor: "n"}}, st)

	assert.Equal(t, snapshot, fmt.Sprint(rows))
}

func TestComputeKeysAreStable(t *testing.T) {
	rows := []models.Row{{"name": "a"}, {"name": "b"}, {"id": 9, "name": "c"}}
	cols := []models.Column{{Accessor: "name"}}
	p := New()

	first := p.Compute(rows, cols, models.NewState(10))
	st := models.NewState(10)
	st.Sort = []models.SortCriterion{{ColumnID: "name", Desc: true}}
	second := p.Compute(rows, cols, st)

	keys := map[int]string{}
	for _, kr := range first.Rows {
		keys[kr.Index] = kr.Key
	}
	for _, kr := range second.Rows {
		assert.Equal(t, keys[kr.Index], kr.Key)
	}
	assert.Equal(t, "9", keys[2])
}
