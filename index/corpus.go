package index

import (
	"github.com/propgo/propgo/property"
)

// Corpus holds the per-attribute value profile of a dataset: the observed
// normalized bounds of every attribute, and exact value columns for the
// bucketed attributes. Both indexes share one Corpus; it is built once
// alongside them and never mutated, so concurrent reads are safe.
//
// The bounds clamp range-predicate expansion (no point probing bucket keys
// no property holds) and the columns resolve bucket-boundary overshoot:
// a price bucket selected by a range query can contain prices outside the
// requested bounds, which both index paths filter out against the column
// inside their own timed query routine.
type Corpus struct {
	n int

	minSeen map[Attribute]int64
	maxSeen map[Attribute]int64

	// exact normalized value per id, only for bucketed attributes
	columns map[Attribute][]int64
}

// NewCorpus profiles the given records.
func NewCorpus(props []property.Property) *Corpus {
	c := &Corpus{
		n:       len(props),
		minSeen: make(map[Attribute]int64, len(Attributes)),
		maxSeen: make(map[Attribute]int64, len(Attributes)),
		columns: make(map[Attribute][]int64, 2),
	}
	for _, a := range Attributes {
		if a.Bucketed() {
			c.columns[a] = make([]int64, len(props))
		}
	}
	for i, p := range props {
		for _, a := range Attributes {
			v := Norm(a, p)
			if col, ok := c.columns[a]; ok {
				col[i] = v
			}
			if min, ok := c.minSeen[a]; !ok || v < min {
				c.minSeen[a] = v
			}
			if max, ok := c.maxSeen[a]; !ok || v > max {
				c.maxSeen[a] = v
			}
		}
	}
	return c
}

// Len returns the number of profiled properties.
func (c *Corpus) Len() int {
	return c.n
}

// Bounds returns the observed normalized min and max for attribute a.
// ok=false if the corpus is empty.
func (c *Corpus) Bounds(a Attribute) (min, max int64, ok bool) {
	if c.n == 0 {
		return 0, 0, false
	}
	return c.minSeen[a], c.maxSeen[a], true
}

// FilterExact keeps the ids whose exact normalized value for p.Attr lies
// within [p.Min, p.Max]. The filter is applied in place and preserves
// order. Attributes without an exact column cannot overshoot their keys,
// so ids is returned unchanged for them.
func (c *Corpus) FilterExact(ids []uint32, p Predicate) []uint32 {
	col, ok := c.columns[p.Attr]
	if !ok {
		return ids
	}
	out := ids[:0]
	for _, id := range ids {
		v := col[id]
		if v >= p.Min && v <= p.Max {
			out = append(out, id)
		}
	}
	return out
}
