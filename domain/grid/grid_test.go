package grid_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerscope/domain/core"
	"ledgerscope/domain/grid"
)

func s(v string) *string { return &v }

func TestProjectEmptyGrid(t *testing.T) {
	_, err := grid.Project(grid.Grid{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEmptyGrid))
}

func TestProjectSynthesizesHeaderNames(t *testing.T) {
	g := grid.Grid{
		{s("name"), nil, s(""), s("total")},
	}
	proj, err := grid.Project(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "Column2", "Column3", "total"}, proj.Headers)
	assert.Equal(t, 0, proj.RowCount())
	assert.Equal(t, 4, proj.ColumnCount())
}

func TestProjectDensifiesRowsToHeaderWidth(t *testing.T) {
	g := grid.Grid{
		{s("a"), s("b"), s("c")},
		{s("1")},                               // short: padded with nil
		{s("2"), s("3"), s("4"), s("dropped")}, // long: truncated
	}
	proj, err := grid.Project(g)
	require.NoError(t, err)
	require.Equal(t, 2, proj.RowCount())

	colA := proj.Columns["a"]
	colB := proj.Columns["b"]
	colC := proj.Columns["c"]
	require.Len(t, colA, 2)
	require.Len(t, colB, 2)
	require.Len(t, colC, 2)

	assert.Equal(t, "1", *colA[0])
	assert.Nil(t, colB[0])
	assert.Nil(t, colC[0])
	assert.Equal(t, "4", *colC[1])

	// No column for values beyond the header width.
	assert.Len(t, proj.Columns, 3)
}

func TestProjectPreservesAbsentValues(t *testing.T) {
	g := grid.Grid{
		{s("x")},
		{nil},
		{s("")},
		{s("v")},
	}
	proj, err := grid.Project(g)
	require.NoError(t, err)

	col := proj.Columns["x"]
	require.Len(t, col, 3)
	assert.Nil(t, col[0], "absent stays absent, not empty string")
	require.NotNil(t, col[1])
	assert.Equal(t, "", *col[1])
	assert.Equal(t, "v", *col[2])
}

func TestProjectRoundTrip(t *testing.T) {
	g := grid.Grid{
		{s("id"), s("amount")},
		{s("a"), s("10")},
		{s("b"), nil},
		{s("c"), s("30")},
	}
	proj, err := grid.Project(g)
	require.NoError(t, err)

	amounts := proj.Columns["amount"]
	require.Len(t, amounts, 3)
	assert.Equal(t, "10", *amounts[0])
	assert.Nil(t, amounts[1])
	assert.Equal(t, "30", *amounts[2])
}

func TestProjectDuplicateHeadersCollapse(t *testing.T) {
	g := grid.Grid{
		{s("amt"), s("amt")},
		{s("1"), s("2")},
	}
	proj, err := grid.Project(g)
	require.NoError(t, err)

	// Both positions keep their header name; the map keeps the last column.
	assert.Equal(t, []string{"amt", "amt"}, proj.Headers)
	require.Len(t, proj.Columns, 1)
	assert.Equal(t, "2", *proj.Columns["amt"][0])
}

func TestMissingCounts(t *testing.T) {
	g := grid.Grid{
		{s("a"), s("b")},
		{s("1"), nil},
		{s(""), s("x")},
		{nil, s("y")},
	}
	proj, err := grid.Project(g)
	require.NoError(t, err)

	missing := proj.MissingCounts()
	assert.Equal(t, 2, missing["a"])
	assert.Equal(t, 1, missing["b"])
}
