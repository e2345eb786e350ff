package executor

import (
	"fmt"

	"heapdb/internal/catalog"
	"heapdb/internal/dbtype"
	"heapdb/internal/sql"
)

func execDropTable(tables *catalog.Tables, stmt *sql.DropTableStmt) QueryResult {
	tableName := stmt.TableName

	if tableName == catalog.TablesName || tableName == catalog.ColumnsName {
		return relationErrorResult(fmt.Errorf("cannot drop a schema table %q", tableName))
	}

	tbl, err := tables.GetTable(tableName)
	if err != nil {
		return relationErrorResult(err)
	}

	columnHandles, err := tables.ColumnsRelation().SelectWhere(dbtype.Row{"table_name": dbtype.NewText(tableName)})
	if err != nil {
		return relationErrorResult(err)
	}
	for _, h := range columnHandles {
		if err := tables.ColumnsRelation().Del(h); err != nil {
			return relationErrorResult(err)
		}
	}

	if err := tbl.Drop(); err != nil {
		return relationErrorResult(err)
	}
	tables.Forget(tableName)

	tableHandles, err := tables.TablesRelation().SelectWhere(dbtype.Row{"table_name": dbtype.NewText(tableName)})
	if err != nil {
		return relationErrorResult(err)
	}
	for _, h := range tableHandles {
		if err := tables.TablesRelation().Del(h); err != nil {
			return relationErrorResult(err)
		}
	}

	return QueryResult{Message: fmt.Sprintf("dropped table %s", tableName)}
}
