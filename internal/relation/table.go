package relation

import (
	"errors"

	"heapdb/internal/dbtype"
	"heapdb/internal/heapfile"
	"heapdb/internal/page"
)

// Table is a HeapTable: a named, schema-typed row store backed by one
// HeapFile. Column order is authoritative for marshalling.
type Table struct {
	name    string
	columns []dbtype.Column
	dir     string
	file    *heapfile.HeapFile
}

// New constructs a Table description without opening its heap file.
// Callers call Create/CreateIfNotExists/Open before using it.
func New(dir, name string, columns []dbtype.Column) *Table {
	return &Table{name: name, columns: columns, dir: dir}
}

// Name returns the relation's table name.
func (t *Table) Name() string { return t.name }

// Columns returns the declared schema in column order.
func (t *Table) Columns() []dbtype.Column { return t.columns }

// Create creates the backing heap file, failing if it already exists.
func (t *Table) Create() error {
	f, err := heapfile.Create(t.dir, t.name)
	if err != nil {
		return newError("create table %q: %v", t.name, err)
	}
	t.file = f
	return nil
}

// CreateIfNotExists opens the backing file, creating it if absent.
func (t *Table) CreateIfNotExists() error {
	f, err := heapfile.CreateIfNotExists(t.dir, t.name)
	if err != nil {
		return newError("create table %q: %v", t.name, err)
	}
	t.file = f
	return nil
}

// Open opens an already-existing backing file.
func (t *Table) Open() error {
	f, err := heapfile.Open(t.dir, t.name)
	if err != nil {
		return newError("open table %q: %v", t.name, err)
	}
	t.file = f
	return nil
}

// Close closes the backing heap file.
func (t *Table) Close() error {
	if t.file == nil {
		return nil
	}
	return t.file.Close()
}

// Drop closes and removes the backing heap file.
func (t *Table) Drop() error {
	if t.file == nil {
		return nil
	}
	if err := t.file.Drop(); err != nil {
		return newError("drop table %q: %v", t.name, err)
	}
	return nil
}

// Insert validates, marshals, and appends row, returning its Handle.
func (t *Table) Insert(row dbtype.Row) (Handle, error) {
	validated, err := t.validate(row)
	if err != nil {
		return Handle{}, err
	}

	data, err := t.marshal(validated)
	if err != nil {
		return Handle{}, err
	}

	return t.append(data)
}

// append adds data to the last page, falling back to a freshly
// allocated page on NoRoom.
func (t *Table) append(data []byte) (Handle, error) {
	lastID := t.file.LastBlockID()

	p, err := t.file.Get(lastID)
	if err != nil {
		return Handle{}, newError("table %q: read last block: %v", t.name, err)
	}

	rid, err := p.Add(data)
	if errors.Is(err, page.ErrNoRoom) {
		p, err = t.file.GetNew()
		if err != nil {
			return Handle{}, newError("table %q: allocate new block: %v", t.name, err)
		}
		rid, err = p.Add(data)
		if err != nil {
			return Handle{}, newError("table %q: record too large for an empty page: %v", t.name, err)
		}
	} else if err != nil {
		return Handle{}, newError("table %q: add record: %v", t.name, err)
	}

	if err := t.file.Put(p); err != nil {
		return Handle{}, newError("table %q: persist block %d: %v", t.name, p.BlockID(), err)
	}

	return Handle{BlockID: p.BlockID(), RecordID: rid}, nil
}

// Select enumerates handles for every live row in block/record order.
func (t *Table) Select() ([]Handle, error) {
	return t.selectWhere(nil)
}

// SelectWhere enumerates handles for rows matching an equality filter
// over column/value pairs. A nil or empty where matches every row.
func (t *Table) SelectWhere(where dbtype.Row) ([]Handle, error) {
	return t.selectWhere(where)
}

func (t *Table) selectWhere(where dbtype.Row) ([]Handle, error) {
	var handles []Handle
	for _, blockID := range t.file.BlockIDs() {
		p, err := t.file.Get(blockID)
		if err != nil {
			return nil, newError("table %q: read block %d: %v", t.name, blockID, err)
		}
		for _, rid := range p.IDs() {
			h := Handle{BlockID: blockID, RecordID: rid}
			if len(where) == 0 {
				handles = append(handles, h)
				continue
			}
			row, err := t.projectPage(p, rid, nil)
			if err != nil {
				return nil, err
			}
			if rowMatches(row, where) {
				handles = append(handles, h)
			}
		}
	}
	return handles, nil
}

func rowMatches(row, where dbtype.Row) bool {
	for col, want := range where {
		got, ok := row[col]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Project reads handle and unmarshals it into a row, restricted to
// cols if non-empty. Fails if handle points at a tombstone.
func (t *Table) Project(h Handle, cols ...string) (dbtype.Row, error) {
	p, err := t.file.Get(h.BlockID)
	if err != nil {
		return nil, newError("table %q: read block %d: %v", t.name, h.BlockID, err)
	}
	return t.projectPage(p, h.RecordID, cols)
}

func (t *Table) projectPage(p *page.Page, rid page.RecordID, cols []string) (dbtype.Row, error) {
	data, err := p.Get(rid)
	if err != nil {
		return nil, newError("table %q: get record %d: %v", t.name, rid, err)
	}
	if data == nil {
		return nil, newError("table %q: handle %s is a tombstone", t.name, Handle{p.BlockID(), rid})
	}

	row, err := t.unmarshal(data)
	if err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return row, nil
	}

	out := make(dbtype.Row, len(cols))
	for _, c := range cols {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out, nil
}

// Del removes the row at handle from its page.
func (t *Table) Del(h Handle) error {
	p, err := t.file.Get(h.BlockID)
	if err != nil {
		return newError("table %q: read block %d: %v", t.name, h.BlockID, err)
	}
	if err := p.Del(h.RecordID); err != nil {
		return newError("table %q: delete record %d: %v", t.name, h.RecordID, err)
	}
	if err := t.file.Put(p); err != nil {
		return newError("table %q: persist block %d: %v", t.name, h.BlockID, err)
	}
	return nil
}

// Update merges newValues into the row at handle, re-marshals, and
// writes it back in place. On NoRoom growth, the row is re-added the
// way Insert adds it (to the last page, or to a freshly allocated page
// if it does not fit there) and the original slot is tombstoned.
func (t *Table) Update(h Handle, newValues dbtype.Row) (Handle, error) {
	p, err := t.file.Get(h.BlockID)
	if err != nil {
		return Handle{}, newError("table %q: read block %d: %v", t.name, h.BlockID, err)
	}

	row, err := t.projectPage(p, h.RecordID, nil)
	if err != nil {
		return Handle{}, err
	}
	for k, v := range newValues {
		row[k] = v
	}

	validated, err := t.validate(row)
	if err != nil {
		return Handle{}, err
	}

	data, err := t.marshal(validated)
	if err != nil {
		return Handle{}, err
	}

	putErr := p.Put(h.RecordID, data)
	if putErr == nil {
		if err := t.file.Put(p); err != nil {
			return Handle{}, newError("table %q: persist block %d: %v", t.name, h.BlockID, err)
		}
		return h, nil
	}
	if !errors.Is(putErr, page.ErrNoRoom) {
		return Handle{}, newError("table %q: update record %d: %v", t.name, h.RecordID, putErr)
	}

	newHandle, err := t.append(data)
	if err != nil {
		return Handle{}, err
	}
	if err := p.Del(h.RecordID); err != nil {
		return Handle{}, newError("table %q: tombstone old slot %d: %v", t.name, h.RecordID, err)
	}
	if err := t.file.Put(p); err != nil {
		return Handle{}, newError("table %q: persist block %d: %v", t.name, h.BlockID, err)
	}

	return newHandle, nil
}
