package executor

import (
	"fmt"

	"heapdb/internal/catalog"
	"heapdb/internal/dbtype"
	"heapdb/internal/sql"
)

func execShowColumns(tables *catalog.Tables, stmt *sql.ShowColumnsStmt) QueryResult {
	handles, err := tables.ColumnsRelation().SelectWhere(dbtype.Row{"table_name": dbtype.NewText(stmt.TableName)})
	if err != nil {
		return relationErrorResult(err)
	}

	var rows [][]dbtype.Value
	for _, h := range handles {
		row, err := tables.ColumnsRelation().Project(h, "table_name", "column_name", "data_type")
		if err != nil {
			return relationErrorResult(err)
		}
		rows = append(rows, []dbtype.Value{row["table_name"], row["column_name"], row["data_type"]})
	}

	return QueryResult{
		ColumnNames: []string{"table_name", "column_name", "data_type"},
		ColumnAttributes: []dbtype.ColumnAttribute{
			{DataType: dbtype.TypeText}, {DataType: dbtype.TypeText}, {DataType: dbtype.TypeText},
		},
		Rows:    rows,
		Message: fmt.Sprintf("successfully returned %d rows", len(rows)),
	}
}
