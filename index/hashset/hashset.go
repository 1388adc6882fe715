// Package hashset implements the hash-table-backed inverted index:
// attribute key -> unordered set of property ids. Both the key map and the
// id sets themselves sit on the custom open-addressing hash table, so
// membership tests during intersection are O(1) expected.
package hashset

import (
	"slices"

	"github.com/propgo/propgo/hashtable"
	"github.com/propgo/propgo/index"
	"github.com/propgo/propgo/property"
)

// IDSet is a duplicate-free, unordered set of property ids backed by the
// custom hash table.
type IDSet struct {
	t *hashtable.Table[uint32, struct{}]
}

// NewIDSet creates an empty id set.
func NewIDSet() *IDSet {
	return &IDSet{t: hashtable.New[uint32, struct{}](hashtable.HashUint32)}
}

// Add inserts id into the set.
func (s *IDSet) Add(id uint32) {
	s.t.Put(id, struct{}{})
}

// Contains reports membership.
func (s *IDSet) Contains(id uint32) bool {
	return s.t.Contains(id)
}

// Len returns the set size.
func (s *IDSet) Len() int {
	return s.t.Len()
}

// Range calls fn for each member until fn returns false. Order is
// unspecified.
func (s *IDSet) Range(fn func(id uint32) bool) {
	s.t.Range(func(id uint32, _ struct{}) bool {
		return fn(id)
	})
}

// IDs returns the members in unspecified order.
func (s *IDSet) IDs() []uint32 {
	ids := make([]uint32, 0, s.Len())
	s.Range(func(id uint32) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

// Index is the hash-set inverted index. Built once over the full dataset
// and immutable afterwards; queries are read-only and safe to run
// concurrently.
type Index struct {
	buckets  index.Buckets
	corpus   *index.Corpus
	postings *hashtable.Table[index.Key, *IDSet]
}

// Build indexes every property under every attribute in a single pass.
func Build(props []property.Property, b index.Buckets, c *index.Corpus) *Index {
	ix := &Index{
		buckets:  b,
		corpus:   c,
		postings: hashtable.NewWithCapacity[index.Key, *IDSet](index.KeyHash, 16*len(index.Attributes)),
	}
	for _, p := range props {
		for _, a := range index.Attributes {
			key := b.KeyOf(a, p)
			set, ok := ix.postings.Get(key)
			if !ok {
				set = NewIDSet()
				ix.postings.Put(key, set)
			}
			set.Add(p.ID)
		}
	}
	return ix
}

// Keys returns the number of distinct attribute keys in the index.
func (ix *Index) Keys() int {
	return ix.postings.Len()
}

// Query evaluates a conjunction of predicates and returns the matching
// property ids sorted ascending. An empty predicate set is the identity:
// all ids.
//
// Per-predicate sets are intersected pairwise in ascending size order,
// starting from the smallest, so each step touches as few members as
// possible. A predicate whose keys hold no ids short-circuits to an empty
// result without touching the remaining sets.
func (ix *Index) Query(preds []index.Predicate) []uint32 {
	if len(preds) == 0 {
		return allIDs(ix.corpus.Len())
	}

	sets := make([]*IDSet, 0, len(preds))
	for _, p := range preds {
		set := ix.gather(p)
		if set == nil || set.Len() == 0 {
			return nil
		}
		sets = append(sets, set)
	}

	slices.SortStableFunc(sets, func(a, b *IDSet) int {
		return a.Len() - b.Len()
	})

	cur := sets[0]
	for _, other := range sets[1:] {
		next := NewIDSet()
		cur.Range(func(id uint32) bool {
			if other.Contains(id) {
				next.Add(id)
			}
			return true
		})
		if next.Len() == 0 {
			return nil
		}
		cur = next
	}

	ids := cur.IDs()
	slices.Sort(ids)

	for _, p := range preds {
		if ix.buckets.NeedsExactFilter(p) {
			ids = ix.corpus.FilterExact(ids, p)
		}
	}
	return ids
}

// gather resolves one predicate to a single id set: a direct lookup for a
// single key, or the union of every bucket key in range. Returns nil when
// nothing can match.
func (ix *Index) gather(p index.Predicate) *IDSet {
	lo, hi, ok := ix.buckets.Span(p, ix.corpus)
	if !ok {
		return nil
	}

	if lo == hi {
		set, ok := ix.postings.Get(index.Key{Attr: p.Attr, Val: lo})
		if !ok {
			return nil
		}
		return set
	}

	union := NewIDSet()
	for v := lo; v <= hi; v++ {
		set, ok := ix.postings.Get(index.Key{Attr: p.Attr, Val: v})
		if !ok {
			continue
		}
		set.Range(func(id uint32) bool {
			union.Add(id)
			return true
		})
	}
	return union
}

func allIDs(n int) []uint32 {
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = uint32(i)
	}
	return ids
}
