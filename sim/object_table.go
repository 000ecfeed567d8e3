// Chained hash table mapping object identifiers to resident cache objects.
// Objects live in an arena of records addressed by stable integer handles;
// bucket chains and the free list are handle links inside the arena, so no
// auxiliary structure ever holds a pointer into it.

package sim

import (
	"encoding/binary"
	"errors"
	"math/rand"

	"github.com/zeebo/xxh3"
)

// Handle is a stable index into an ObjectTable's arena. Handles stay valid
// until the object they name is removed; policies hold handles, never objects.
type Handle int32

// InvalidHandle is the zero candidate / empty bucket marker.
const InvalidHandle Handle = -1

// resizeChainThreshold is the mean chain length that triggers a doubling
// resize: grow when resident count exceeds bucketCount * threshold.
const resizeChainThreshold = 4

// ErrDuplicateObject is returned by Insert for an identifier that is already
// resident. This is a caller bug, distinct from a miss: update or remove first.
var ErrDuplicateObject = errors.New("object id already resident")

// CacheObject is the per-object metadata record. Exclusively owned by its
// ObjectTable; callers reach it only through a Handle.
type CacheObject struct {
	ObjID          uint64
	Size           int64
	InsertionTime  int64
	LastAccessTime int64

	// Policy-private fields. The owning engine's eviction policy may use
	// these freely; the table only zeroes them on insert.
	PolicyPrev Handle
	PolicyNext Handle
	Frequency  int64

	next Handle // bucket chain link, doubles as free-list link
}

// ObjectTable is a separate-chaining hash table with 2^power buckets.
// Exactly one caller (the owning CacheEngine) mutates it; there is no
// internal locking.
type ObjectTable struct {
	buckets []Handle
	mask    uint64
	arena   []CacheObject
	free    Handle // head of free-slot list, chained via next
	n       int    // resident objects
	rng     *rand.Rand
}

// NewObjectTable creates a table with 2^power buckets. rng drives
// SampleRandom; pass a seeded source for deterministic replay.
func NewObjectTable(power uint, rng *rand.Rand) *ObjectTable {
	if power == 0 {
		power = 4
	}
	size := 1 << power
	t := &ObjectTable{
		buckets: make([]Handle, size),
		mask:    uint64(size - 1),
		free:    InvalidHandle,
		rng:     rng,
	}
	for i := range t.buckets {
		t.buckets[i] = InvalidHandle
	}
	return t
}

// hashID hashes an object identifier to a bucket index.
func (t *ObjectTable) hashID(id uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], id)
	return xxh3.Hash(b[:]) & t.mask
}

// Len returns the number of resident objects.
func (t *ObjectTable) Len() int {
	return t.n
}

// Get returns the object record for a handle. The pointer is valid until the
// next Insert (the arena may grow); callers must not retain it across calls.
func (t *ObjectTable) Get(h Handle) *CacheObject {
	return &t.arena[h]
}

// Lookup finds the handle for an identifier, or (InvalidHandle, false).
func (t *ObjectTable) Lookup(id uint64) (Handle, bool) {
	for h := t.buckets[t.hashID(id)]; h != InvalidHandle; h = t.arena[h].next {
		if t.arena[h].ObjID == id {
			return h, true
		}
	}
	return InvalidHandle, false
}

// Insert admits a new identifier and returns its handle. Fails with
// ErrDuplicateObject if id is already resident. Amortized O(1); may trigger
// a doubling resize.
func (t *ObjectTable) Insert(id uint64, size int64, now int64) (Handle, error) {
	if _, ok := t.Lookup(id); ok {
		return InvalidHandle, ErrDuplicateObject
	}
	h := t.allocSlot()
	obj := &t.arena[h]
	*obj = CacheObject{
		ObjID:          id,
		Size:           size,
		InsertionTime:  now,
		LastAccessTime: now,
		PolicyPrev:     InvalidHandle,
		PolicyNext:     InvalidHandle,
	}
	idx := t.hashID(id)
	obj.next = t.buckets[idx]
	t.buckets[idx] = h
	t.n++
	if t.n > len(t.buckets)*resizeChainThreshold {
		t.grow()
	}
	return h, nil
}

// Remove unlinks a handle from its bucket chain and returns the arena slot to
// the free list. O(chain length). The handle must be live.
func (t *ObjectTable) Remove(h Handle) {
	id := t.arena[h].ObjID
	idx := t.hashID(id)
	if t.buckets[idx] == h {
		t.buckets[idx] = t.arena[h].next
	} else {
		prev := t.buckets[idx]
		for t.arena[prev].next != h {
			prev = t.arena[prev].next
		}
		t.arena[prev].next = t.arena[h].next
	}
	t.arena[h] = CacheObject{next: t.free}
	t.free = h
	t.n--
}

// SampleRandom returns a uniformly-ish random resident handle: a random
// non-empty bucket, then a random chain position. Not perfectly uniform
// (longer chains are undersampled per element) but O(1) amortized, which is
// what sampling-based approximate policies need.
func (t *ObjectTable) SampleRandom() (Handle, bool) {
	if t.n == 0 {
		return InvalidHandle, false
	}
	var head Handle
	for {
		head = t.buckets[t.rng.Intn(len(t.buckets))]
		if head != InvalidHandle {
			break
		}
	}
	length := 0
	for h := head; h != InvalidHandle; h = t.arena[h].next {
		length++
	}
	k := t.rng.Intn(length)
	h := head
	for ; k > 0; k-- {
		h = t.arena[h].next
	}
	return h, true
}

// Snapshot returns the handles of all resident objects, in bucket order.
// Diagnostics and testing only.
func (t *ObjectTable) Snapshot() []Handle {
	out := make([]Handle, 0, t.n)
	for _, head := range t.buckets {
		for h := head; h != InvalidHandle; h = t.arena[h].next {
			out = append(out, h)
		}
	}
	return out
}

// allocSlot pops a free arena slot or extends the arena.
func (t *ObjectTable) allocSlot() Handle {
	if t.free != InvalidHandle {
		h := t.free
		t.free = t.arena[h].next
		return h
	}
	t.arena = append(t.arena, CacheObject{})
	return Handle(len(t.arena) - 1)
}

// grow doubles the bucket count and relinks every resident handle. Handles
// are arena indices, so no external reference is invalidated by a resize.
func (t *ObjectTable) grow() {
	old := t.buckets
	t.buckets = make([]Handle, len(old)*2)
	t.mask = uint64(len(t.buckets) - 1)
	for i := range t.buckets {
		t.buckets[i] = InvalidHandle
	}
	for _, head := range old {
		h := head
		for h != InvalidHandle {
			next := t.arena[h].next
			idx := t.hashID(t.arena[h].ObjID)
			t.arena[h].next = t.buckets[idx]
			t.buckets[idx] = h
			h = next
		}
	}
}
