package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTable(power uint) *ObjectTable {
	return NewObjectTable(power, rand.New(rand.NewSource(1)))
}

func TestObjectTable_InsertLookupRemove(t *testing.T) {
	tbl := newTestTable(4)

	h, err := tbl.Insert(42, 100, 7)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	got, ok := tbl.Lookup(42)
	require.True(t, ok)
	require.Equal(t, h, got)

	obj := tbl.Get(h)
	require.Equal(t, uint64(42), obj.ObjID)
	require.Equal(t, int64(100), obj.Size)
	require.Equal(t, int64(7), obj.InsertionTime)

	tbl.Remove(h)
	require.Equal(t, 0, tbl.Len())
	_, ok = tbl.Lookup(42)
	require.False(t, ok)
}

func TestObjectTable_DuplicateInsertFails(t *testing.T) {
	tbl := newTestTable(4)

	_, err := tbl.Insert(1, 10, 0)
	require.NoError(t, err)

	// A second insert of the same id is a caller bug, signaled distinctly.
	_, err = tbl.Insert(1, 10, 1)
	require.ErrorIs(t, err, ErrDuplicateObject)
	require.Equal(t, 1, tbl.Len())
}

func TestObjectTable_ResizeKeepsEveryEntry(t *testing.T) {
	// GIVEN a tiny table (2^3 buckets, resize above 32 residents)
	tbl := newTestTable(3)

	// WHEN inserting far more identifiers than the pre-resize capacity
	const k = 10_000
	for id := uint64(0); id < k; id++ {
		_, err := tbl.Insert(id, 1, 0)
		require.NoError(t, err)
	}

	// THEN every identifier is still independently lookupable
	require.Equal(t, k, tbl.Len())
	for id := uint64(0); id < k; id++ {
		h, ok := tbl.Lookup(id)
		if !ok {
			t.Fatalf("id %d lost across resize", id)
		}
		if tbl.Get(h).ObjID != id {
			t.Fatalf("handle for id %d points at id %d", id, tbl.Get(h).ObjID)
		}
	}
}

func TestObjectTable_SlotReuseAfterRemove(t *testing.T) {
	tbl := newTestTable(4)

	h1, err := tbl.Insert(1, 10, 0)
	require.NoError(t, err)
	tbl.Remove(h1)

	// The freed arena slot is reused before the arena grows.
	h2, err := tbl.Insert(2, 20, 0)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestObjectTable_SampleRandom(t *testing.T) {
	tbl := newTestTable(4)

	_, ok := tbl.SampleRandom()
	require.False(t, ok, "empty table must not name a candidate")

	for id := uint64(0); id < 50; id++ {
		_, err := tbl.Insert(id, 1, 0)
		require.NoError(t, err)
	}
	seen := map[uint64]bool{}
	for i := 0; i < 500; i++ {
		h, ok := tbl.SampleRandom()
		require.True(t, ok)
		obj := tbl.Get(h)
		require.Less(t, obj.ObjID, uint64(50), "sampled handle must be resident")
		seen[obj.ObjID] = true
	}
	// Not a uniformity claim, just that sampling moves around.
	require.Greater(t, len(seen), 10)
}

func TestObjectTable_Snapshot(t *testing.T) {
	tbl := newTestTable(4)
	for id := uint64(0); id < 5; id++ {
		_, err := tbl.Insert(id, 1, 0)
		require.NoError(t, err)
	}
	snap := tbl.Snapshot()
	require.Len(t, snap, 5)

	ids := map[uint64]bool{}
	for _, h := range snap {
		ids[tbl.Get(h).ObjID] = true
	}
	require.Len(t, ids, 5)
}
