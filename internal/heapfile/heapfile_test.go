package heapfile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"heapdb/internal/page"
)

func TestCreateAllocatesBlockOne(t *testing.T) {
	dir := t.TempDir()

	hf, err := Create(dir, "widgets")
	require.NoError(t, err)
	defer hf.Close()

	require.EqualValues(t, 1, hf.LastBlockID())
	require.Equal(t, []page.BlockID{1}, hf.BlockIDs())

	p, err := hf.Get(1)
	require.NoError(t, err)
	require.Empty(t, p.IDs())
}

func TestCreateFailsIfExists(t *testing.T) {
	dir := t.TempDir()

	hf, err := Create(dir, "widgets")
	require.NoError(t, err)
	require.NoError(t, hf.Close())

	_, err = Create(dir, "widgets")
	require.Error(t, err)
}

func TestGetNewAndPutRoundTrip(t *testing.T) {
	dir := t.TempDir()

	hf, err := Create(dir, "widgets")
	require.NoError(t, err)
	defer hf.Close()

	p2, err := hf.GetNew()
	require.NoError(t, err)
	require.EqualValues(t, 2, p2.BlockID())
	require.EqualValues(t, 2, hf.LastBlockID())

	rid, err := p2.Add([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, hf.Put(p2))

	reread, err := hf.Get(2)
	require.NoError(t, err)
	got, err := reread.Get(rid)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)
}

func TestOpenRecoversBlocksAfterClose(t *testing.T) {
	dir := t.TempDir()

	hf, err := Create(dir, "widgets")
	require.NoError(t, err)
	p2, err := hf.GetNew()
	require.NoError(t, err)
	_, err = p2.Add([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, hf.Put(p2))
	require.NoError(t, hf.Close())

	reopened, err := Open(dir, "widgets")
	require.NoError(t, err)
	defer reopened.Close()

	require.EqualValues(t, 2, reopened.LastBlockID())
	require.Equal(t, []page.BlockID{1, 2}, reopened.BlockIDs())

	p, err := reopened.Get(2)
	require.NoError(t, err)
	require.Equal(t, []page.RecordID{1}, p.IDs())
}

func TestDropRemovesFile(t *testing.T) {
	dir := t.TempDir()

	hf, err := Create(dir, "widgets")
	require.NoError(t, err)
	require.NoError(t, hf.Drop())

	_, err = Open(dir, "widgets")
	require.Error(t, err)
}

func TestCreateIfNotExistsReopens(t *testing.T) {
	dir := t.TempDir()

	hf, err := Create(dir, "widgets")
	require.NoError(t, err)
	_, err = hf.GetNew()
	require.NoError(t, err)
	require.NoError(t, hf.Close())

	hf2, err := CreateIfNotExists(dir, "widgets")
	require.NoError(t, err)
	defer hf2.Close()

	require.EqualValues(t, 2, hf2.LastBlockID())
}
