package sql

import (
	"fmt"
	"strings"

	"heapdb/internal/dbtype"
)

// parseCreateTable consumes the remainder of a CREATE TABLE statement
// after the "CREATE TABLE" keywords have already been taken from c:
//
//	name ( col TYPE , col TYPE , ... )
func parseCreateTable(c *cursor) (Statement, error) {
	name, ok := c.take()
	if !ok {
		return nil, fmt.Errorf("CREATE TABLE: expected a table name")
	}

	if t, _ := c.take(); t != "(" {
		return nil, fmt.Errorf("CREATE TABLE: expected '(' after table name")
	}

	var columns []dbtype.Column
	closed := false
	for !closed {
		colName, ok := c.take()
		if !ok {
			return nil, fmt.Errorf("CREATE TABLE: unexpected end of statement")
		}
		if colName == ")" {
			break
		}

		typeTok, ok := c.take()
		if !ok {
			return nil, fmt.Errorf("CREATE TABLE: column %q is missing a type", colName)
		}

		dt, err := dbtype.ParseDataType(strings.ToUpper(typeTok))
		if err != nil {
			return nil, fmt.Errorf("CREATE TABLE: column %q: %w", colName, err)
		}
		columns = append(columns, dbtype.Column{
			Name:      colName,
			Attribute: dbtype.ColumnAttribute{DataType: dt},
		})

		sep, ok := c.take()
		if !ok {
			return nil, fmt.Errorf("CREATE TABLE: expected ',' or ')'")
		}
		switch sep {
		case ",":
		case ")":
			closed = true
		default:
			return nil, fmt.Errorf("CREATE TABLE: unexpected token %q", sep)
		}
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("CREATE TABLE: at least one column is required")
	}
	if !c.done() {
		return nil, fmt.Errorf("CREATE TABLE: unexpected trailing input")
	}

	return &CreateTableStmt{TableName: name, Columns: columns}, nil
}
