package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"heapdb/internal/dbtype"
)

func TestBootstrapSeedsSelfDescription(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	defer c.Close()

	handles, err := c.TablesRelation().Select()
	require.NoError(t, err)
	require.Len(t, handles, 2)

	var names []string
	for _, h := range handles {
		row, err := c.TablesRelation().Project(h)
		require.NoError(t, err)
		names = append(names, row["table_name"].S)
	}
	require.ElementsMatch(t, []string{TablesName, ColumnsName}, names)
}

func TestGetColumnsReproducesBootstrapSchemas(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	defer c.Close()

	tablesCols, err := c.GetColumns(TablesName)
	require.NoError(t, err)
	require.Equal(t, []dbtype.Column{
		{Name: "table_name", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeText}},
	}, tablesCols)

	columnsCols, err := c.GetColumns(ColumnsName)
	require.NoError(t, err)
	require.Equal(t, []dbtype.Column{
		{Name: "table_name", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeText}},
		{Name: "column_name", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeText}},
		{Name: "data_type", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeText}},
	}, columnsCols)
}

func TestSelfDescriptionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	c1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	c2, err := Open(dir)
	require.NoError(t, err)
	defer c2.Close()

	handles, err := c2.TablesRelation().Select()
	require.NoError(t, err)
	require.Len(t, handles, 2)

	cols, err := c2.GetColumns(ColumnsName)
	require.NoError(t, err)
	require.Len(t, cols, 3)
}

func TestGetTableReconstructsUserTable(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	defer c.Close()

	userCols := []dbtype.Column{
		{Name: "a", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeInt}},
		{Name: "b", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeText}},
	}

	tbl := c.NewTable("widgets", userCols)
	require.NoError(t, tbl.Create())
	c.Cache("widgets", tbl)

	_, err = c.ColumnsRelation().Insert(dbtype.Row{
		"table_name": dbtype.NewText("widgets"), "column_name": dbtype.NewText("a"), "data_type": dbtype.NewText("INT"),
	})
	require.NoError(t, err)
	_, err = c.ColumnsRelation().Insert(dbtype.Row{
		"table_name": dbtype.NewText("widgets"), "column_name": dbtype.NewText("b"), "data_type": dbtype.NewText("TEXT"),
	})
	require.NoError(t, err)

	c.Forget("widgets")

	got, err := c.GetTable("widgets")
	require.NoError(t, err)
	require.Equal(t, userCols, got.Columns())
}
