package executor

import (
	"fmt"

	"heapdb/internal/catalog"
	"heapdb/internal/dbtype"
)

func execShowTables(tables *catalog.Tables) QueryResult {
	handles, err := tables.TablesRelation().Select()
	if err != nil {
		return relationErrorResult(err)
	}

	var rows [][]dbtype.Value
	for _, h := range handles {
		row, err := tables.TablesRelation().Project(h)
		if err != nil {
			return relationErrorResult(err)
		}

		name := row["table_name"].S
		if name == catalog.TablesName || name == catalog.ColumnsName {
			continue
		}
		rows = append(rows, []dbtype.Value{row["table_name"]})
	}

	return QueryResult{
		ColumnNames:      []string{"table_name"},
		ColumnAttributes: []dbtype.ColumnAttribute{{DataType: dbtype.TypeText}},
		Rows:             rows,
		Message:          fmt.Sprintf("successfully returned %d rows", len(rows)),
	}
}
