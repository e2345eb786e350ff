// Package dbtype defines the value and row types shared by the storage
// and catalog layers: a tagged INT/TEXT value union, the ordered row
// dictionary built from it, and the column metadata that describes a
// relation's schema.
package dbtype

import "fmt"

// DataType is the logical type of a column or value. Only two scalar
// types are supported: signed 32-bit integers and short ASCII text.
type DataType int

const (
	TypeInt DataType = iota
	TypeText
)

// String renders the data type the way it appears in _columns.data_type
// and in CREATE TABLE column definitions ("INT" / "TEXT").
func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeText:
		return "TEXT"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// ParseDataType maps a column-definition type token to a DataType.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "INT":
		return TypeInt, nil
	case "TEXT":
		return TypeText, nil
	default:
		return 0, fmt.Errorf("dbtype: unrecognized data type %q", s)
	}
}

// ColumnAttribute describes the type of a single column.
type ColumnAttribute struct {
	DataType DataType
}

// Column pairs a column name with its attribute, in declared order.
type Column struct {
	Name      string
	Attribute ColumnAttribute
}

// Value is a tagged union holding either a signed 32-bit integer or a
// short ASCII text value.
type Value struct {
	Type DataType
	I    int32
	S    string
}

// NewInt builds an INT value.
func NewInt(i int32) Value { return Value{Type: TypeInt, I: i} }

// NewText builds a TEXT value.
func NewText(s string) Value { return Value{Type: TypeText, S: s} }

// Equal reports whether two values have the same type and content.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case TypeInt:
		return v.I == other.I
	case TypeText:
		return v.S == other.S
	default:
		return false
	}
}

// String renders a value the way the executor prints it back to the user.
func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return fmt.Sprintf("%d", v.I)
	case TypeText:
		return fmt.Sprintf("%q", v.S)
	default:
		return "?"
	}
}

// Row is a mapping from column name to Value. Column order for
// marshalling purposes is never derived from the map itself — it is
// always driven by the owning relation's declared schema.
type Row map[string]Value

// Clone returns a shallow copy of the row (Values are small and
// immutable by convention, so a shallow copy is a deep copy in practice).
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
