// Package relation implements HeapTable, the row-level API on top of
// a heap file: row marshalling, insert/select/project/delete/update
// across the pages of one relation's file.
package relation

import (
	"errors"
	"fmt"

	"heapdb/internal/page"
)

// Handle uniquely identifies a row within one relation.
type Handle struct {
	BlockID  page.BlockID
	RecordID page.RecordID
}

func (h Handle) String() string {
	return fmt.Sprintf("(%d,%d)", h.BlockID, h.RecordID)
}

// Error is a schema, catalog, or row-level violation. The executor
// prefixes its message with "DbRelationError: " at the boundary.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func newError(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// IsRelationError reports whether err is (or wraps) a relation Error.
func IsRelationError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
