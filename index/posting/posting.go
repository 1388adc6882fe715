// Package posting implements the sorted posting-list inverted index:
// attribute key -> strictly ascending, duplicate-free list of property
// ids. Range predicates become k-way merges of bucket lists; conjunctions
// become linear two-pointer merge-intersections.
package posting

import (
	"slices"

	"github.com/propgo/propgo/index"
	"github.com/propgo/propgo/property"
)

// Index is the posting-list inverted index. Built once over the full
// dataset and immutable afterwards; queries are read-only and safe to run
// concurrently.
type Index struct {
	buckets  index.Buckets
	corpus   *index.Corpus
	postings map[index.Key][]uint32
}

// Build collects (key, id) pairs in a single pass and finalizes every
// list to the ascending duplicate-free invariant. Ids arrive in insertion
// order, which is already ascending, but finalize sorts defensively so the
// invariant never depends on the pass order.
func Build(props []property.Property, b index.Buckets, c *index.Corpus) *Index {
	ix := &Index{
		buckets:  b,
		corpus:   c,
		postings: make(map[index.Key][]uint32, 16*len(index.Attributes)),
	}
	for _, p := range props {
		for _, a := range index.Attributes {
			key := b.KeyOf(a, p)
			ix.postings[key] = append(ix.postings[key], p.ID)
		}
	}
	for key, list := range ix.postings {
		slices.Sort(list)
		ix.postings[key] = slices.Compact(list)
	}
	return ix
}

// Keys returns the number of distinct attribute keys in the index.
func (ix *Index) Keys() int {
	return len(ix.postings)
}

// List returns the posting list for a key, or nil. The returned slice is
// shared with the index and must be treated as read-only.
func (ix *Index) List(k index.Key) []uint32 {
	return ix.postings[k]
}

// Query evaluates a conjunction of predicates and returns the matching
// property ids. The result is ascending by construction: every input list
// is sorted and every merge step preserves order, so no post-sort is
// needed. An empty predicate set is the identity: all ids.
//
// Per-predicate lists are intersected in ascending length order, shortest
// first, so the two-pointer walk exhausts early. A predicate whose keys
// hold no ids short-circuits to an empty result without further merging.
func (ix *Index) Query(preds []index.Predicate) []uint32 {
	if len(preds) == 0 {
		return allIDs(ix.corpus.Len())
	}

	lists := make([][]uint32, 0, len(preds))
	for _, p := range preds {
		list, shared := ix.gather(p)
		if len(list) == 0 {
			return nil
		}
		lists = append(lists, list)
		if shared && len(preds) == 1 {
			// Sole predicate: the result would alias index state, and
			// the exact filter below edits in place.
			lists[0] = slices.Clone(list)
		}
	}

	slices.SortStableFunc(lists, func(a, b []uint32) int {
		return len(a) - len(b)
	})

	ids := lists[0]
	for _, other := range lists[1:] {
		ids = intersectTwo(ids, other)
		if len(ids) == 0 {
			return nil
		}
	}

	for _, p := range preds {
		if ix.buckets.NeedsExactFilter(p) {
			ids = ix.corpus.FilterExact(ids, p)
		}
	}
	return ids
}

// gather resolves one predicate to a single ascending list: a direct
// lookup for a single key, or the k-way union of every bucket list in
// range. shared=true means the list aliases index state.
func (ix *Index) gather(p index.Predicate) (list []uint32, shared bool) {
	lo, hi, ok := ix.buckets.Span(p, ix.corpus)
	if !ok {
		return nil, false
	}

	if lo == hi {
		return ix.postings[index.Key{Attr: p.Attr, Val: lo}], true
	}

	lists := make([][]uint32, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		if l := ix.postings[index.Key{Attr: p.Attr, Val: v}]; len(l) > 0 {
			lists = append(lists, l)
		}
	}
	switch len(lists) {
	case 0:
		return nil, false
	case 1:
		return lists[0], true
	case 2:
		return unionTwo(lists[0], lists[1]), false
	default:
		return unionK(lists), false
	}
}

// intersectTwo computes the intersection of two ascending lists with a
// linear two-pointer walk: advance the pointer holding the smaller id,
// emit on equality, stop when either list is exhausted.
func intersectTwo(a, b []uint32) []uint32 {
	out := make([]uint32, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// unionTwo merges two ascending duplicate-free lists into one.
func unionTwo(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func allIDs(n int) []uint32 {
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = uint32(i)
	}
	return ids
}
