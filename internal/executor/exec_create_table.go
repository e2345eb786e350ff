package executor

import (
	"fmt"

	"heapdb/internal/catalog"
	"heapdb/internal/dbtype"
	"heapdb/internal/relation"
	"heapdb/internal/sql"
)

func execCreateTable(tables *catalog.Tables, stmt *sql.CreateTableStmt) QueryResult {
	tableName := stmt.TableName

	existing, err := tables.TablesRelation().SelectWhere(dbtype.Row{"table_name": dbtype.NewText(tableName)})
	if err != nil {
		return relationErrorResult(err)
	}
	if len(existing) > 0 {
		return relationErrorResult(fmt.Errorf("table %q already exists", tableName))
	}

	tablesRow := dbtype.Row{"table_name": dbtype.NewText(tableName)}
	tableHandle, err := tables.TablesRelation().Insert(tablesRow)
	if err != nil {
		return relationErrorResult(err)
	}

	var columnHandles []columnInsert
	for _, col := range stmt.Columns {
		row := dbtype.Row{
			"table_name":  dbtype.NewText(tableName),
			"column_name": dbtype.NewText(col.Name),
			"data_type":   dbtype.NewText(col.Attribute.DataType.String()),
		}
		h, err := tables.ColumnsRelation().Insert(row)
		if err != nil {
			unwindCreateTable(tables, tableHandle, columnHandles)
			return relationErrorResult(err)
		}
		columnHandles = append(columnHandles, columnInsert{handle: h})
	}

	tbl := tables.NewTable(tableName, stmt.Columns)
	if err := tbl.Create(); err != nil {
		unwindCreateTable(tables, tableHandle, columnHandles)
		return relationErrorResult(err)
	}
	tables.Cache(tableName, tbl)

	return QueryResult{Message: fmt.Sprintf("created table %s", tableName)}
}

type columnInsert struct {
	handle relation.Handle
}

func unwindCreateTable(tables *catalog.Tables, tableHandle relation.Handle, columns []columnInsert) {
	_ = tables.TablesRelation().Del(tableHandle)
	for _, c := range columns {
		_ = tables.ColumnsRelation().Del(c.handle)
	}
}
