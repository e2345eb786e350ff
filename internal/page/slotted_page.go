// Package page implements the slotted-page record container: one
// fixed-size buffer holding a header that grows upward from offset 0
// and variable-length record bytes that grow downward from the end of
// the page. Header entry 0 holds (N, E); see entry for the byte layout
// of each header entry.
package page

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Size is the fixed page size in bytes (P in the spec).
const Size = 4096

// ErrNoRoom is returned by Add/Put when a record (or a record's growth)
// does not fit in the remaining free space. It is the only recoverable
// page-level failure; callers may retry against a different page.
var ErrNoRoom = errors.New("page: not enough room")

// BlockID identifies a page within a HeapFile, 1-based.
type BlockID uint32

// RecordID identifies a record slot within one page, 1-based. Once
// assigned by Add, a RecordID is never reused for the life of the page:
// Del converts the slot to a tombstone rather than freeing the id.
type RecordID uint16

// Page is an in-memory view over one page-sized byte buffer. It does
// not own the buffer — callers are responsible for persisting Bytes()
// back to storage after any mutation.
type Page struct {
	buf     []byte
	blockID BlockID
	n       uint16 // number of header entries (excluding entry 0)
	e       uint16 // end-of-free-space offset
}

// New constructs a Page over buf (which must be exactly Size bytes).
// When isNew is true the page is initialized empty; otherwise the
// header (entry 0: record count and free-space end) is read back from
// the buffer's existing contents.
func New(buf []byte, blockID BlockID, isNew bool) (*Page, error) {
	if len(buf) != Size {
		return nil, fmt.Errorf("page: buffer must be %d bytes, got %d", Size, len(buf))
	}

	p := &Page{buf: buf, blockID: blockID}
	if isNew {
		p.n = 0
		p.e = Size - 1
		p.putEntry0()
	} else {
		p.n, p.e = p.entry(0)
	}
	return p, nil
}

// Bytes returns the page's underlying buffer, reflecting all mutations
// applied so far.
func (p *Page) Bytes() []byte { return p.buf }

// BlockID returns the id this page was constructed with.
func (p *Page) BlockID() BlockID { return p.blockID }

// entry reads header entry i: bytes [4i, 4i+4) as two little-endian
// uint16 (size, offset). Entry 0 stores (N, E).
func (p *Page) entry(i uint16) (size, offset uint16) {
	pos := 4 * int(i)
	size = binary.LittleEndian.Uint16(p.buf[pos : pos+2])
	offset = binary.LittleEndian.Uint16(p.buf[pos+2 : pos+4])
	return
}

func (p *Page) setEntry(i uint16, size, offset uint16) {
	pos := 4 * int(i)
	binary.LittleEndian.PutUint16(p.buf[pos:pos+2], size)
	binary.LittleEndian.PutUint16(p.buf[pos+2:pos+4], offset)
}

// putEntry0 rewrites the page-level header (N, E). Every mutating
// operation ends by calling this.
func (p *Page) putEntry0() {
	p.setEntry(0, p.n, p.e)
}

// hasRoom reports whether need more bytes fit in the page's current
// free space: free = E - (N+2)*4, reserving room for entry 0 and one
// prospective new header entry.
func (p *Page) hasRoom(need uint16) bool {
	free := int(p.e) - (int(p.n)+2)*4
	return int(need) <= free
}

func (p *Page) validRecordID(rid RecordID) error {
	if rid < 1 || uint16(rid) > p.n {
		return fmt.Errorf("page: record id %d out of range [1,%d]", rid, p.n)
	}
	return nil
}

// Add appends data as a new record and returns its RecordID. Fails with
// ErrNoRoom if the record plus one new header entry does not fit; the
// page is left unchanged on failure.
func (p *Page) Add(data []byte) (RecordID, error) {
	size := uint16(len(data))
	if !p.hasRoom(size + 4) {
		return 0, ErrNoRoom
	}

	p.n++
	p.e -= size
	loc := p.e + 1
	copy(p.buf[loc:int(loc)+len(data)], data)
	p.setEntry(p.n, size, loc)
	p.putEntry0()

	return RecordID(p.n), nil
}

// Get returns a copy of the live record bytes for rid, or nil if rid
// is a tombstone.
func (p *Page) Get(rid RecordID) ([]byte, error) {
	if err := p.validRecordID(rid); err != nil {
		return nil, err
	}

	size, loc := p.entry(uint16(rid))
	if size == 0 && loc == 0 {
		return nil, nil
	}

	out := make([]byte, size)
	copy(out, p.buf[loc:int(loc)+int(size)])
	return out, nil
}

// Put replaces the bytes of a live record, growing or shrinking the
// page's record layout as needed. Fails with ErrNoRoom (page
// unchanged) if growth does not fit in the remaining free space.
func (p *Page) Put(rid RecordID, data []byte) error {
	if err := p.validRecordID(rid); err != nil {
		return err
	}

	size, loc := p.entry(uint16(rid))
	if size == 0 && loc == 0 {
		return fmt.Errorf("page: record id %d is a tombstone", rid)
	}

	newSize := uint16(len(data))
	if newSize > size {
		delta := newSize - size
		if !p.hasRoom(delta) {
			return ErrNoRoom
		}
		p.slide(loc, loc-delta)
		newLoc := loc - delta
		copy(p.buf[newLoc:int(newLoc)+int(newSize)], data)
	} else {
		copy(p.buf[loc:int(loc)+int(newSize)], data)
		p.slide(loc+newSize, loc+size)
	}

	_, loc = p.entry(uint16(rid))
	p.setEntry(uint16(rid), newSize, loc)
	p.putEntry0()

	return nil
}

// Del marks rid as a tombstone and reclaims its space. The RecordID is
// never reused.
func (p *Page) Del(rid RecordID) error {
	if err := p.validRecordID(rid); err != nil {
		return err
	}

	size, loc := p.entry(uint16(rid))
	if size == 0 && loc == 0 {
		return nil // already a tombstone
	}

	p.setEntry(uint16(rid), 0, 0)
	p.slide(loc, loc+size)
	p.putEntry0()

	return nil
}

// IDs returns the live (non-tombstone) RecordIDs in ascending order.
func (p *Page) IDs() []RecordID {
	var ids []RecordID
	for i := uint16(1); i <= p.n; i++ {
		size, _ := p.entry(i)
		if size > 0 {
			ids = append(ids, RecordID(i))
		}
	}
	return ids
}

// slide moves the live byte range [E+1, start) by shift = end - start,
// then adjusts the offset of every live header entry whose offset is
// ≤ start by the same shift, and updates E accordingly. Records at
// exactly offset start are the ones adjacent to the mutation point and
// are correctly included by the "≤ start" rule.
func (p *Page) slide(start, end uint16) {
	shift := int(end) - int(start)
	if shift == 0 {
		return
	}

	regionStart := int(p.e) + 1
	length := int(start) - regionStart
	if length > 0 {
		newStart := regionStart + shift
		copy(p.buf[newStart:newStart+length], p.buf[regionStart:regionStart+length])
	}

	for i := uint16(1); i <= p.n; i++ {
		size, offset := p.entry(i)
		if size == 0 && offset == 0 {
			continue // tombstone, never adjusted
		}
		if offset <= start {
			p.setEntry(i, size, uint16(int(offset)+shift))
		}
	}

	p.e = uint16(int(p.e) + shift)
	p.putEntry0()
}
