package sql

import (
	"fmt"
	"strings"
)

// Parse tokenizes and parses a single SQL statement string into an
// AST Statement.
func Parse(query string) (Statement, error) {
	toks := tokenize(query)
	if len(toks) > 0 && toks[len(toks)-1].text == ";" {
		toks = toks[:len(toks)-1]
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty query")
	}

	c := &cursor{toks: toks}

	keyword, _ := c.take()
	switch strings.ToUpper(keyword) {
	case "CREATE":
		if !c.expectKeyword("TABLE") {
			return nil, fmt.Errorf("invalid SQL statement")
		}
		return parseCreateTable(c)
	case "DROP":
		if !c.expectKeyword("TABLE") {
			return nil, fmt.Errorf("invalid SQL statement")
		}
		return parseDropTable(c)
	case "SHOW":
		return parseShow(c)
	}

	return nil, fmt.Errorf("invalid SQL statement")
}

// expectKeyword consumes the next token if it case-insensitively
// matches word, reporting whether it did.
func (c *cursor) expectKeyword(word string) bool {
	t, ok := c.take()
	return ok && strings.EqualFold(t, word)
}

func parseShow(c *cursor) (Statement, error) {
	keyword, ok := c.take()
	if !ok {
		return nil, fmt.Errorf("invalid SQL statement")
	}

	switch strings.ToUpper(keyword) {
	case "TABLES":
		if !c.done() {
			return nil, fmt.Errorf("SHOW TABLES: unexpected trailing input")
		}
		return &ShowTablesStmt{}, nil
	case "COLUMNS":
		if !c.expectKeyword("FROM") {
			return nil, fmt.Errorf("SHOW COLUMNS: expected FROM")
		}
		return parseShowColumns(c)
	default:
		return nil, fmt.Errorf("invalid SQL statement")
	}
}
