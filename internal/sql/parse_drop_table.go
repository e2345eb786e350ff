package sql

import "fmt"

// parseDropTable consumes the remainder of a DROP TABLE statement
// after the "DROP TABLE" keywords have already been taken from c:
//
//	name
func parseDropTable(c *cursor) (Statement, error) {
	name, ok := c.take()
	if !ok {
		return nil, fmt.Errorf("DROP TABLE: expected a table name")
	}
	if !c.done() {
		return nil, fmt.Errorf("DROP TABLE: unexpected trailing input")
	}
	return &DropTableStmt{TableName: name}, nil
}
