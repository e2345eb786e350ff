package relation

import (
	"encoding/binary"
	"fmt"

	"heapdb/internal/dbtype"
)

// validate checks that row supplies a value for every declared column
// and returns a fresh row in declared order. Missing columns are a
// relation error: this engine has no null/default support.
func (t *Table) validate(row dbtype.Row) (dbtype.Row, error) {
	out := make(dbtype.Row, len(t.columns))
	for _, col := range t.columns {
		v, ok := row[col.Name]
		if !ok {
			return nil, newError("null/defaults not supported: missing column %q", col.Name)
		}
		if v.Type != col.Attribute.DataType {
			return nil, newError("column %q: expected %s, got %s", col.Name, col.Attribute.DataType, v.Type)
		}
		out[col.Name] = v
	}
	return out, nil
}

// marshal encodes row (which must already be validated) into its flat
// byte image, driven by declared column order.
func (t *Table) marshal(row dbtype.Row) ([]byte, error) {
	var buf []byte
	for _, col := range t.columns {
		v, ok := row[col.Name]
		if !ok {
			return nil, newError("null/defaults not supported: missing column %q", col.Name)
		}
		switch col.Attribute.DataType {
		case dbtype.TypeInt:
			var tmp [4]byte
			binary.LittleEndian.PutUint32(tmp[:], uint32(v.I))
			buf = append(buf, tmp[:]...)
		case dbtype.TypeText:
			var lenBuf [2]byte
			binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(v.S)))
			buf = append(buf, lenBuf[:]...)
			buf = append(buf, []byte(v.S)...)
		default:
			return nil, newError("column %q: unsupported type %s", col.Name, col.Attribute.DataType)
		}
	}
	return buf, nil
}

// unmarshal decodes a row from bytes, driven by declared column order.
// Bytes remaining after the last column are ignored.
func (t *Table) unmarshal(data []byte) (dbtype.Row, error) {
	row := make(dbtype.Row, len(t.columns))
	pos := 0
	for _, col := range t.columns {
		switch col.Attribute.DataType {
		case dbtype.TypeInt:
			if pos+4 > len(data) {
				return nil, newError("unmarshal %q: truncated INT", col.Name)
			}
			i := int32(binary.LittleEndian.Uint32(data[pos : pos+4]))
			row[col.Name] = dbtype.NewInt(i)
			pos += 4
		case dbtype.TypeText:
			if pos+2 > len(data) {
				return nil, newError("unmarshal %q: truncated TEXT length", col.Name)
			}
			l := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
			pos += 2
			if pos+l > len(data) {
				return nil, newError("unmarshal %q: truncated TEXT body", col.Name)
			}
			row[col.Name] = dbtype.NewText(string(data[pos : pos+l]))
			pos += l
		default:
			return nil, fmt.Errorf("unmarshal %q: unsupported type %s", col.Name, col.Attribute.DataType)
		}
	}
	return row, nil
}
