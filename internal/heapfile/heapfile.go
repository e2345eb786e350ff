// Package heapfile persists an ordered sequence of fixed-size pages
// under one record-store file per relation, tracking the highest
// allocated block id (the "last block id").
package heapfile

import (
	"fmt"
	"path/filepath"

	"heapdb/internal/page"
	"heapdb/internal/recordstore"
)

// HeapFile is the page-level file for one relation, named
// "<name>.db" inside the environment directory.
type HeapFile struct {
	name  string
	store *recordstore.Store
	last  page.BlockID
}

func filePath(dir, name string) string {
	return filepath.Join(dir, name+".db")
}

// Create creates a new, empty-but-for-block-1 heap file. It fails if
// the backing file already exists. A freshly created file always has
// at least one page (block 1), so callers never see an empty file.
func Create(dir, name string) (*HeapFile, error) {
	store, err := recordstore.Create(filePath(dir, name), page.Size)
	if err != nil {
		return nil, fmt.Errorf("heapfile: create %s: %w", name, err)
	}

	hf := &HeapFile{name: name, store: store}

	if _, err := hf.GetNew(); err != nil {
		return nil, fmt.Errorf("heapfile: allocate block 1 for %s: %w", name, err)
	}

	return hf, nil
}

// CreateIfNotExists opens the heap file for name, creating it (with
// its first block) if it does not already exist.
func CreateIfNotExists(dir, name string) (*HeapFile, error) {
	hf, err := Open(dir, name)
	if err == nil {
		return hf, nil
	}
	return Create(dir, name)
}

// Open opens an existing heap file and recovers its last block id from
// the backing store's record count.
func Open(dir, name string) (*HeapFile, error) {
	store, err := recordstore.Open(filePath(dir, name), page.Size)
	if err != nil {
		return nil, fmt.Errorf("heapfile: open %s: %w", name, err)
	}

	count, err := store.Count()
	if err != nil {
		return nil, fmt.Errorf("heapfile: count blocks for %s: %w", name, err)
	}

	return &HeapFile{name: name, store: store, last: page.BlockID(count)}, nil
}

// Close closes the backing store.
func (hf *HeapFile) Close() error {
	if err := hf.store.Close(); err != nil {
		return fmt.Errorf("heapfile: close %s: %w", hf.name, err)
	}
	return nil
}

// Drop closes and removes the backing file.
func (hf *HeapFile) Drop() error {
	if err := hf.store.Drop(); err != nil {
		return fmt.Errorf("heapfile: drop %s: %w", hf.name, err)
	}
	return nil
}

// Name returns the relation name this heap file stores.
func (hf *HeapFile) Name() string { return hf.name }

// GetNew allocates a new, empty page, persists it, and returns a
// SlottedPage view with IsNew semantics over it.
func (hf *HeapFile) GetNew() (*page.Page, error) {
	buf := make([]byte, page.Size)
	recNum, err := hf.store.Append(buf)
	if err != nil {
		return nil, fmt.Errorf("heapfile: allocate new block in %s: %w", hf.name, err)
	}

	blockID := page.BlockID(recNum)
	p, err := page.New(buf, blockID, true)
	if err != nil {
		return nil, fmt.Errorf("heapfile: initialize new block %d in %s: %w", blockID, hf.name, err)
	}

	if err := hf.store.Put(recNum, p.Bytes()); err != nil {
		return nil, fmt.Errorf("heapfile: persist new block %d in %s: %w", blockID, hf.name, err)
	}

	if blockID > hf.last {
		hf.last = blockID
	}

	return p, nil
}

// Get reads the page at blockID and reconstructs it as an existing
// (not new) SlottedPage.
func (hf *HeapFile) Get(blockID page.BlockID) (*page.Page, error) {
	buf, err := hf.store.Get(int(blockID))
	if err != nil {
		return nil, fmt.Errorf("heapfile: read block %d in %s: %w", blockID, hf.name, err)
	}

	p, err := page.New(buf, blockID, false)
	if err != nil {
		return nil, fmt.Errorf("heapfile: reconstruct block %d in %s: %w", blockID, hf.name, err)
	}
	return p, nil
}

// Put writes a page's current byte image back to its block.
func (hf *HeapFile) Put(p *page.Page) error {
	if err := hf.store.Put(int(p.BlockID()), p.Bytes()); err != nil {
		return fmt.Errorf("heapfile: write block %d in %s: %w", p.BlockID(), hf.name, err)
	}
	return nil
}

// BlockIDs returns every allocated block id, 1..last, in order.
func (hf *HeapFile) BlockIDs() []page.BlockID {
	ids := make([]page.BlockID, 0, hf.last)
	for i := page.BlockID(1); i <= hf.last; i++ {
		ids = append(ids, i)
	}
	return ids
}

// LastBlockID returns the highest allocated block id.
func (hf *HeapFile) LastBlockID() page.BlockID {
	return hf.last
}
