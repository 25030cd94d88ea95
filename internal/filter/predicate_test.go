package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/cotable/internal/models"
)

func keyed(rows ...models.Row) []models.KeyedRow {
	out := make([]models.KeyedRow, len(rows))
	for i, r := range rows {
		out[i] = models.KeyedRow{Key: models.RowKey(r, i), Index: i, Row: r}
	}
	return out
}

func ids(rows []models.KeyedRow) []any {
	out := make([]any, len(rows))
	for i, kr := range rows {
		out[i] = kr.Row["id"]
	}
	return out
}

func people() []models.KeyedRow {
	return keyed(
		models.Row{"id": 1, "name": "Ahmet", "age": 25, "city": "İstanbul", "skills": "Go, SQL"},
		models.Row{"id": 2, "name": "Mehmet", "age": 30, "city": "Ankara", "skills": "React"},
		models.Row{"id": 3, "name": "Ayşe", "age": 28, "city": "İzmir", "skills": "go, Docker"},
		models.Row{"id": 4, "name": "Zeynep", "age": nil, "city": "", "skills": nil},
	)
}

var peopleColumns = []models.Column{
	{Accessor: "name", Header: "Ad", Filter: models.FilterSearch},
	{Accessor: "age", Header: "Yaş", Filter: models.FilterNumberRange},
	{Accessor: "city", Header: "Şehir"},
	{Accessor: "skills", Header: "Yetenekler", Filter: models.FilterMultiChoice},
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		name      string
		criterion models.FilterCriterion
		want      bool
	}{
		{"empty select", models.FilterCriterion{Kind: models.FilterMultiSelect}, false},
		{"select", models.FilterCriterion{Kind: models.FilterMultiSelect, Selected: []string{"a"}}, true},
		{"empty range", models.FilterCriterion{Kind: models.FilterNumberRange}, false},
		{"min only", models.FilterCriterion{Kind: models.FilterNumberRange, Range: models.NumberRange{Min: models.Float(1)}}, true},
		{"blank search", models.FilterCriterion{Kind: models.FilterSearch, Text: "  "}, false},
		{"search", models.FilterCriterion{Kind: models.FilterSearch, Text: "x"}, true},
		{"empty choice", models.FilterCriterion{Kind: models.FilterMultiChoice}, false},
		{"unknown kind", models.FilterCriterion{Kind: "regex", Text: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(tt.criterion))
		})
	}
}

func TestMatchesMissingValueFailsClosed(t *testing.T) {
	active := []models.FilterCriterion{
		{Kind: models.FilterMultiSelect, Selected: []string{"x"}},
		{Kind: models.FilterNumberRange, Range: models.NumberRange{Min: models.Float(0)}},
		{Kind: models.FilterSearch, Text: "x"},
		{Kind: models.FilterMultiChoice, Selected: []string{"x"}},
	}
	for _, c := range active {
		assert.False(t, Matches(c, nil, ""), "kind %s", c.Kind)
		assert.False(t, Matches(c, "", ""), "kind %s", c.Kind)
	}
}

func TestNumberRange(t *testing.T) {
	exact := models.FilterCriterion{
		Kind:  models.FilterNumberRange,
		Range: models.NumberRange{Min: models.Float(10), Max: models.Float(10)},
	}

	assert.True(t, Matches(exact, 10, "10"))
	assert.True(t, Matches(exact, 10.0, "10"))
	assert.True(t, Matches(exact, "10", "10"))
	assert.False(t, Matches(exact, 9.999, "9.999"))
	assert.False(t, Matches(exact, 11, "11"))
	assert.False(t, Matches(exact, "on", "on"))
}

func TestApplyNumberRangeMin(t *testing.T) {
	rows := keyed(
		models.Row{"id": 1, "age": 25},
		models.Row{"id": 2, "age": 30},
		models.Row{"id": 3, "age": 28},
	)
	cols := []models.Column{{Accessor: "age", Filter: models.FilterNumberRange}}
	criteria := []models.FilterCriterion{{
		ColumnID: "age",
		Kind:     models.FilterNumberRange,
		Range:    models.NumberRange{Min: models.Float(26)},
	}}

	got := Apply(rows, cols, criteria, nil)
	assert.Equal(t, []any{2, 3}, ids(got))
}

func TestApplyKinds(t *testing.T) {
	tests := []struct {
		name     string
		criteria []models.FilterCriterion
		want     []any
	}{
		{
			name:     "search folds locale letters",
			criteria: []models.FilterCriterion{{ColumnID: "name", Kind: models.FilterSearch, Text: "AYSE"}},
			want:     []any{3},
		},
		{
			name:     "multi select exact",
			criteria: []models.FilterCriterion{{ColumnID: "city", Kind: models.FilterMultiSelect, Selected: []string{"Ankara", "İzmir"}}},
			want:     []any{2, 3},
		},
		{
			name:     "multi select is not substring",
			criteria: []models.FilterCriterion{{ColumnID: "city", Kind: models.FilterMultiSelect, Selected: []string{"Ank"}}},
			want:     []any{},
		},
		{
			name:     "multi choice tokens",
			criteria: []models.FilterCriterion{{ColumnID: "skills", Kind: models.FilterMultiChoice, Selected: []string{"go"}}},
			want:     []any{1, 3},
		},
		{
			name: "and across columns",
			criteria: []models.FilterCriterion{
				{ColumnID: "skills", Kind: models.FilterMultiChoice, Selected: []string{"go"}},
				{ColumnID: "age", Kind: models.FilterNumberRange, Range: models.NumberRange{Max: models.Float(26)}},
			},
			want: []any{1},
		},
		{
			name:     "unknown column ignored",
			criteria: []models.FilterCriterion{{ColumnID: "salary", Kind: models.FilterSearch, Text: "x"}},
			want:     []any{1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(people(), peopleColumns, tt.criteria, nil)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyInactiveIsIdentity(t *testing.T) {
	rows := people()
	criteria := []models.FilterCriterion{
		{ColumnID: "name", Kind: models.FilterSearch, Text: ""},
		{ColumnID: "age", Kind: models.FilterNumberRange},
		{ColumnID: "city", Kind: models.FilterMultiSelect, Selected: []string{}},
	}

	assert.Equal(t, rows, Apply(rows, peopleColumns, criteria, nil))
}

func TestApplyMonotonic(t *testing.T) {
	base := []models.FilterCriterion{{ColumnID: "age", Kind: models.FilterNumberRange, Range: models.NumberRange{Min: models.Float(20)}}}
	extra := []models.FilterCriterion{
		{ColumnID: "name", Kind: models.FilterSearch, Text: "met"},
		{ColumnID: "city", Kind: models.FilterMultiSelect, Selected: []string{"Ankara"}},
		{ColumnID: "skills", Kind: models.FilterMultiChoice, Selected: []string{"docker"}},
	}

	wider := Apply(people(), peopleColumns, base, nil)
	for _, c := range extra {
		narrower := Apply(people(), peopleColumns, append(append([]models.FilterCriterion{}, base...), c), nil)
		assert.Subset(t, ids(wider), ids(narrower), "adding %s filter", c.ColumnID)
		assert.LessOrEqual(t, len(narrower), len(wider))
	}
}

func TestExtractorTextIsFiltered(t *testing.T) {
	cols := []models.Column{{
		Accessor: "active",
		Filter:   models.FilterMultiChoice,
		Text: func(r models.Row) string {
			if r["active"] == true {
				return "Aktif, Onaylı"
			}
			return "Pasif"
		},
	}}
	rows := keyed(
		models.Row{"id": 1, "active": true},
		models.Row{"id": 2, "active": false},
	)

	got := Apply(rows, cols, []models.FilterCriterion{{ColumnID: "active", Kind: models.FilterMultiChoice, Selected: []string{"onayli"}}}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Row["id"])
}

func TestParseBound(t *testing.T) {
	assert.Nil(t, ParseBound(""))
	assert.Nil(t, ParseBound("abc"))
	assert.Nil(t, ParseBound("12abc"))
	require.NotNil(t, ParseBound("26"))
	assert.Equal(t, 26.0, *ParseBound(" 26 "))
	assert.Equal(t, 2.5, *ParseBound("2,5"))
	assert.Equal(t, -3.0, *ParseBound("-3"))
	assert.Equal(t, "", FormatBound(nil))
	assert.Equal(t, "2.5", FormatBound(models.Float(2.5)))
}
