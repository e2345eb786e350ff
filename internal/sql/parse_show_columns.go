package sql

import "fmt"

// parseShowColumns consumes the remainder of a SHOW COLUMNS FROM
// statement after the "SHOW COLUMNS FROM" keywords have already been
// taken from c:
//
//	name
func parseShowColumns(c *cursor) (Statement, error) {
	name, ok := c.take()
	if !ok {
		return nil, fmt.Errorf("SHOW COLUMNS: expected a table name")
	}
	if !c.done() {
		return nil, fmt.Errorf("SHOW COLUMNS: unexpected trailing input")
	}
	return &ShowColumnsStmt{TableName: name}, nil
}
