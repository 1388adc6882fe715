// Package hashtable implements a from-scratch open-addressing hash table.
//
// Collision policy: linear probing with tombstone deletion. The table
// resizes by capacity doubling once the load factor (live entries plus
// tombstones over capacity) exceeds 0.75, which keeps probe chains short
// and Put/Get amortized O(1) expected.
//
// Hashing is FNV-1a. The hash function is supplied at construction so the
// table supports arbitrary comparable keys, primitive and composite alike;
// ready-made hashers for the common key shapes are provided below.
package hashtable

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619

	initialCapacity = 16
	maxLoadFactor   = 0.75
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotDeleted
)

type slot[K comparable, V any] struct {
	state slotState
	key   K
	value V
}

// Table is an open-addressing hash table from K to V.
// Not safe for concurrent mutation; read-only access after the last Put
// needs no synchronization.
type Table[K comparable, V any] struct {
	hash  func(K) uint32
	slots []slot[K, V]
	live  int // occupied slots
	used  int // occupied + tombstoned slots, drives resize
}

// New creates an empty table using the given hash function.
func New[K comparable, V any](hash func(K) uint32) *Table[K, V] {
	return &Table[K, V]{
		hash:  hash,
		slots: make([]slot[K, V], initialCapacity),
	}
}

// NewWithCapacity creates an empty table pre-sized for n entries.
func NewWithCapacity[K comparable, V any](hash func(K) uint32, n int) *Table[K, V] {
	capacity := initialCapacity
	for float64(n) > float64(capacity)*maxLoadFactor {
		capacity *= 2
	}
	return &Table[K, V]{
		hash:  hash,
		slots: make([]slot[K, V], capacity),
	}
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int {
	return t.live
}

// findSlot probes for key. Returns the slot index holding the key and
// found=true, or the first insertable slot (tombstone preferred) and
// found=false. The table is never full: resize keeps at least one empty
// slot, so the probe always terminates.
func (t *Table[K, V]) findSlot(key K) (int, bool) {
	mask := uint32(len(t.slots) - 1)
	i := t.hash(key) & mask
	firstDeleted := -1

	for {
		s := &t.slots[i]
		switch s.state {
		case slotEmpty:
			if firstDeleted >= 0 {
				return firstDeleted, false
			}
			return int(i), false
		case slotDeleted:
			if firstDeleted < 0 {
				firstDeleted = int(i)
			}
		case slotOccupied:
			if s.key == key {
				return int(i), true
			}
		}
		i = (i + 1) & mask
	}
}

// Put inserts or updates a key-value pair.
func (t *Table[K, V]) Put(key K, value V) {
	if float64(t.used+1) > float64(len(t.slots))*maxLoadFactor {
		t.resize()
	}

	i, found := t.findSlot(key)
	s := &t.slots[i]
	if !found {
		t.live++
		if s.state == slotEmpty {
			t.used++
		}
		s.state = slotOccupied
		s.key = key
	}
	s.value = value
}

// Get returns the value for key. The second return value reports whether
// the key was present; a miss is not an error.
func (t *Table[K, V]) Get(key K) (V, bool) {
	i, found := t.findSlot(key)
	if !found {
		var zero V
		return zero, false
	}
	return t.slots[i].value, true
}

// Contains reports whether key is present.
func (t *Table[K, V]) Contains(key K) bool {
	_, found := t.findSlot(key)
	return found
}

// Delete removes key, leaving a tombstone so probe chains stay intact.
// It reports whether the key was present.
func (t *Table[K, V]) Delete(key K) bool {
	i, found := t.findSlot(key)
	if !found {
		return false
	}
	s := &t.slots[i]
	s.state = slotDeleted
	var zeroK K
	var zeroV V
	s.key = zeroK
	s.value = zeroV
	t.live--
	return true
}

// Range calls fn for every live entry until fn returns false.
// Iteration order is unspecified.
func (t *Table[K, V]) Range(fn func(key K, value V) bool) {
	for i := range t.slots {
		if t.slots[i].state == slotOccupied {
			if !fn(t.slots[i].key, t.slots[i].value) {
				return
			}
		}
	}
}

// resize doubles capacity and rehashes live entries, dropping tombstones.
func (t *Table[K, V]) resize() {
	old := t.slots
	t.slots = make([]slot[K, V], len(old)*2)
	t.live = 0
	t.used = 0
	for i := range old {
		if old[i].state == slotOccupied {
			t.Put(old[i].key, old[i].value)
		}
	}
}

// HashBytes is FNV-1a over a byte slice.
func HashBytes(b []byte) uint32 {
	h := uint32(fnvOffset32)
	for _, c := range b {
		h ^= uint32(c)
		h *= fnvPrime32
	}
	return h
}

// HashString is FNV-1a over the bytes of a string.
func HashString(s string) uint32 {
	h := uint32(fnvOffset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// HashUint32 is FNV-1a over the little-endian bytes of v.
func HashUint32(v uint32) uint32 {
	h := uint32(fnvOffset32)
	for i := 0; i < 4; i++ {
		h ^= v & 0xff
		h *= fnvPrime32
		v >>= 8
	}
	return h
}

// HashInt64 is FNV-1a over the little-endian bytes of v.
func HashInt64(v int64) uint32 {
	h := uint32(fnvOffset32)
	u := uint64(v)
	for i := 0; i < 8; i++ {
		h ^= uint32(u & 0xff)
		h *= fnvPrime32
		u >>= 8
	}
	return h
}
