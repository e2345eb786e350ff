// Package catalog implements the self-describing schema catalog: the
// two distinguished relations _tables and _columns, plus a name-keyed
// cache of opened user relations.
package catalog

import (
	"fmt"

	"heapdb/internal/dbtype"
	"heapdb/internal/relation"
)

// TablesName and ColumnsName are the catalog's own relation names.
// CREATE/DROP TABLE on either is refused by the executor.
const (
	TablesName  = "_tables"
	ColumnsName = "_columns"
)

func tablesColumns() []dbtype.Column {
	return []dbtype.Column{
		{Name: "table_name", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeText}},
	}
}

func columnsColumns() []dbtype.Column {
	return []dbtype.Column{
		{Name: "table_name", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeText}},
		{Name: "column_name", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeText}},
		{Name: "data_type", Attribute: dbtype.ColumnAttribute{DataType: dbtype.TypeText}},
	}
}

// Tables is the process-wide catalog: it owns _tables, _columns, and
// a cache of opened user relations.
type Tables struct {
	dir        string
	tablesRel  *relation.Table
	columnsRel *relation.Table
	cache      map[string]*relation.Table
}

func openOrCreate(tbl *relation.Table) (created bool, err error) {
	if err := tbl.Open(); err == nil {
		return false, nil
	}
	if err := tbl.Create(); err != nil {
		return false, err
	}
	return true, nil
}

// Open bootstraps (or reopens) the catalog rooted at dir.
func Open(dir string) (*Tables, error) {
	tablesRel := relation.New(dir, TablesName, tablesColumns())
	createdTables, err := openOrCreate(tablesRel)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", TablesName, err)
	}

	columnsRel := relation.New(dir, ColumnsName, columnsColumns())
	createdColumns, err := openOrCreate(columnsRel)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", ColumnsName, err)
	}

	c := &Tables{
		dir:        dir,
		tablesRel:  tablesRel,
		columnsRel: columnsRel,
		cache:      make(map[string]*relation.Table),
	}

	if createdTables {
		if _, err := tablesRel.Insert(dbtype.Row{"table_name": dbtype.NewText(TablesName)}); err != nil {
			return nil, fmt.Errorf("catalog: seed %s: %w", TablesName, err)
		}
		if _, err := tablesRel.Insert(dbtype.Row{"table_name": dbtype.NewText(ColumnsName)}); err != nil {
			return nil, fmt.Errorf("catalog: seed %s: %w", TablesName, err)
		}
	}

	if createdColumns {
		if err := c.seedColumnsOf(TablesName, tablesColumns()); err != nil {
			return nil, err
		}
		if err := c.seedColumnsOf(ColumnsName, columnsColumns()); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Tables) seedColumnsOf(table string, columns []dbtype.Column) error {
	for _, col := range columns {
		row := dbtype.Row{
			"table_name":  dbtype.NewText(table),
			"column_name": dbtype.NewText(col.Name),
			"data_type":   dbtype.NewText(col.Attribute.DataType.String()),
		}
		if _, err := c.columnsRel.Insert(row); err != nil {
			return fmt.Errorf("catalog: seed columns of %s: %w", table, err)
		}
	}
	return nil
}

// Close closes _tables, _columns, and every cached user relation.
func (c *Tables) Close() error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, tbl := range c.cache {
		record(tbl.Close())
	}
	record(c.tablesRel.Close())
	record(c.columnsRel.Close())
	return firstErr
}

// TablesRelation returns the _tables relation directly, for the
// executor's CREATE/DROP/SHOW TABLES bookkeeping.
func (c *Tables) TablesRelation() *relation.Table { return c.tablesRel }

// ColumnsRelation returns the _columns relation directly, for the
// executor's schema bookkeeping.
func (c *Tables) ColumnsRelation() *relation.Table { return c.columnsRel }

// Forget drops a table from the relation cache without touching its
// backing file. Used by the executor after a successful DROP TABLE.
func (c *Tables) Forget(name string) {
	delete(c.cache, name)
}

// GetColumns reconstructs the declared schema of name by projecting
// _columns, in the insertion order the rows were written.
func (c *Tables) GetColumns(name string) ([]dbtype.Column, error) {
	handles, err := c.columnsRel.SelectWhere(dbtype.Row{"table_name": dbtype.NewText(name)})
	if err != nil {
		return nil, fmt.Errorf("catalog: select columns of %s: %w", name, err)
	}

	columns := make([]dbtype.Column, 0, len(handles))
	for _, h := range handles {
		row, err := c.columnsRel.Project(h, "column_name", "data_type")
		if err != nil {
			return nil, fmt.Errorf("catalog: project columns of %s: %w", name, err)
		}

		dt, err := dbtype.ParseDataType(row["data_type"].S)
		if err != nil {
			return nil, fmt.Errorf("catalog: columns of %s: %w", name, err)
		}

		columns = append(columns, dbtype.Column{
			Name:      row["column_name"].S,
			Attribute: dbtype.ColumnAttribute{DataType: dt},
		})
	}
	return columns, nil
}

// GetTable returns the cached relation for name, or reconstructs it
// from _columns, opens, caches, and returns it.
func (c *Tables) GetTable(name string) (*relation.Table, error) {
	if name == TablesName {
		return c.tablesRel, nil
	}
	if name == ColumnsName {
		return c.columnsRel, nil
	}
	if tbl, ok := c.cache[name]; ok {
		return tbl, nil
	}

	columns, err := c.GetColumns(name)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("catalog: table %q not found", name)
	}

	tbl := relation.New(c.dir, name, columns)
	if err := tbl.Open(); err != nil {
		return nil, fmt.Errorf("catalog: open table %q: %w", name, err)
	}

	c.cache[name] = tbl
	return tbl, nil
}

// NewTable constructs (without opening) a relation.Table for name with
// the given columns, rooted in the catalog's directory. The executor
// uses this to create a brand-new user table.
func (c *Tables) NewTable(name string, columns []dbtype.Column) *relation.Table {
	return relation.New(c.dir, name, columns)
}

// Cache registers tbl as the opened relation for name, so subsequent
// GetTable calls reuse it instead of reopening.
func (c *Tables) Cache(name string, tbl *relation.Table) {
	c.cache[name] = tbl
}
