package page

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func newPage(t *testing.T) *Page {
	t.Helper()
	buf := make([]byte, Size)
	p, err := New(buf, 1, true)
	require.NoError(t, err)
	return p
}

// TestBasics covers scenario S1: add two records, read them back.
func TestBasics(t *testing.T) {
	p := newPage(t)

	rid1, err := p.Add([]byte("hello\x00"))
	require.NoError(t, err)
	require.EqualValues(t, 1, rid1)

	rid2, err := p.Add([]byte("goodbye\x00"))
	require.NoError(t, err)
	require.EqualValues(t, 2, rid2)

	got1, err := p.Get(rid1)
	require.NoError(t, err)
	require.Equal(t, []byte("hello\x00"), got1)

	got2, err := p.Get(rid2)
	require.NoError(t, err)
	require.Equal(t, []byte("goodbye\x00"), got2)
}

// TestExpandThenContract covers scenario S2.
func TestExpandThenContract(t *testing.T) {
	p := newPage(t)
	rid1, _ := p.Add([]byte("hello\x00"))
	rid2, _ := p.Add([]byte("goodbye\x00"))

	require.NoError(t, p.Put(rid1, []byte("something much bigger\x00")))

	got2, err := p.Get(rid2)
	require.NoError(t, err)
	require.Equal(t, []byte("goodbye\x00"), got2)

	got1, err := p.Get(rid1)
	require.NoError(t, err)
	require.Equal(t, []byte("something much bigger\x00"), got1)

	require.NoError(t, p.Put(rid1, []byte("hello\x00")))

	got1, err = p.Get(rid1)
	require.NoError(t, err)
	require.Equal(t, []byte("hello\x00"), got1)

	got2, err = p.Get(rid2)
	require.NoError(t, err)
	require.Equal(t, []byte("goodbye\x00"), got2)
}

// TestDelete covers scenario S3.
func TestDelete(t *testing.T) {
	p := newPage(t)
	rid1, _ := p.Add([]byte("hello\x00"))
	rid2, _ := p.Add([]byte("goodbye\x00"))
	_ = p.Put(rid1, []byte("something much bigger\x00"))
	_ = p.Put(rid1, []byte("hello\x00"))

	require.Equal(t, []RecordID{rid1, rid2}, p.IDs())

	require.NoError(t, p.Del(rid1))
	require.Equal(t, []RecordID{rid2}, p.IDs())

	got1, err := p.Get(rid1)
	require.NoError(t, err)
	require.Nil(t, got1)
}

// TestNoRoom covers scenario S4: no-room safety, the page byte image
// must be unchanged after a failed Add.
func TestNoRoom(t *testing.T) {
	p := newPage(t)
	rid1, _ := p.Add([]byte("hello\x00"))
	rid2, _ := p.Add([]byte("goodbye\x00"))
	_ = p.Put(rid1, []byte("something much bigger\x00"))
	_ = p.Put(rid1, []byte("hello\x00"))
	require.NoError(t, p.Del(rid1))

	before := append([]byte(nil), p.Bytes()...)

	_, err := p.Add(make([]byte, Size-10))
	require.ErrorIs(t, err, ErrNoRoom)

	require.Equal(t, before, p.Bytes())
	require.Equal(t, []RecordID{rid2}, p.IDs())

	got2, err := p.Get(rid2)
	require.NoError(t, err)
	require.Equal(t, []byte("goodbye\x00"), got2)
}

// TestPutNoRoomLeavesPageUnchanged exercises the no-room path for Put,
// not just Add.
func TestPutNoRoomLeavesPageUnchanged(t *testing.T) {
	p := newPage(t)
	rid1, _ := p.Add([]byte("x"))

	before := append([]byte(nil), p.Bytes()...)

	err := p.Put(rid1, make([]byte, Size))
	require.True(t, errors.Is(err, ErrNoRoom))
	require.Equal(t, before, p.Bytes())
}

// TestIdentityStability exercises §8 property 1: RecordIDs are never
// reused, even across a randomized-ish add/put/del sequence.
func TestIdentityStability(t *testing.T) {
	p := newPage(t)

	var ids []RecordID
	for i := 0; i < 20; i++ {
		rid, err := p.Add([]byte{byte(i)})
		require.NoError(t, err)
		ids = append(ids, rid)
	}

	require.NoError(t, p.Del(ids[3]))
	require.NoError(t, p.Del(ids[7]))

	// Adding more records must keep allocating strictly increasing ids.
	newRid, err := p.Add([]byte{0xFF})
	require.NoError(t, err)
	require.Greater(t, int(newRid), int(ids[len(ids)-1]))

	for i, rid := range ids {
		if i == 3 || i == 7 {
			continue
		}
		got, err := p.Get(rid)
		require.NoError(t, err)
		require.Equal(t, []byte{byte(i)}, got)
	}
}

// TestRoundTripAfterReopen exercises §8 property 2 via the is_new=false
// reconstruction path: a page's header count and free-space end must
// be recoverable purely from its byte image.
func TestRoundTripAfterReopen(t *testing.T) {
	p := newPage(t)
	rid1, _ := p.Add([]byte("abc"))
	rid2, _ := p.Add([]byte("defgh"))
	_ = p.Del(rid1)

	reopened, err := New(p.Bytes(), p.BlockID(), false)
	require.NoError(t, err)

	require.Equal(t, []RecordID{rid2}, reopened.IDs())
	got, err := reopened.Get(rid2)
	require.NoError(t, err)
	require.Equal(t, []byte("defgh"), got)

	gotTombstone, err := reopened.Get(rid1)
	require.NoError(t, err)
	require.Nil(t, gotTombstone)
}

// TestCompactionKeepsRangesDisjoint exercises §8 property 3 loosely: a
// sequence of adds/puts/deletes must leave live byte ranges disjoint
// and within [E+1, P).
func TestCompactionKeepsRangesDisjoint(t *testing.T) {
	p := newPage(t)

	type span struct{ start, end int }
	payloads := [][]byte{
		[]byte("aaaa"), []byte("bb"), []byte("ccccccc"), []byte("d"),
	}

	var ids []RecordID
	for _, pl := range payloads {
		rid, err := p.Add(pl)
		require.NoError(t, err)
		ids = append(ids, rid)
	}

	require.NoError(t, p.Put(ids[1], []byte("bbbbbbbbbbbb")))
	require.NoError(t, p.Del(ids[2]))
	require.NoError(t, p.Put(ids[0], []byte("a")))

	var spans []span
	for _, rid := range p.IDs() {
		size, loc := p.entry(uint16(rid))
		spans = append(spans, span{int(loc), int(loc) + int(size)})
	}

	for i := range spans {
		require.GreaterOrEqual(t, spans[i].start, int(p.e)+1)
		require.LessOrEqual(t, spans[i].end, Size)
		for j := range spans {
			if i == j {
				continue
			}
			overlap := spans[i].start < spans[j].end && spans[j].start < spans[i].end
			require.False(t, overlap, "spans %v and %v overlap", spans[i], spans[j])
		}
	}
}
