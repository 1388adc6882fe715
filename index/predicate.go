package index

import "math"

// Predicate is one conjunct of a query: an attribute together with an
// inclusive range of normalized values. Equality predicates have
// Min == Max. A predicate with Min > Max matches nothing; the planner
// produces such predicates for e.g. an equality on a value that has no
// integral normalized representation.
type Predicate struct {
	Attr Attribute
	Min  int64
	Max  int64
}

// Eq returns an equality predicate on a normalized value.
func Eq(a Attribute, v int64) Predicate {
	return Predicate{Attr: a, Min: v, Max: v}
}

// Flag returns the predicate requiring boolean attribute a to be set.
func Flag(a Attribute) Predicate {
	return Eq(a, 1)
}

// NormRange converts caller-facing inclusive bounds for attribute a into
// a predicate over normalized units, rounding inward so exactly the
// integral normalized values inside [min, max] are covered. Infinite
// bounds saturate; Span later clamps them to the observed value range.
// The result can have Min > Max (an empty predicate), e.g. for an
// equality on a value with no integral normalized representation.
func NormRange(a Attribute, min, max float64) Predicate {
	scale := 1.0
	if a == AttrBathrooms {
		scale = 2 // half-bath units
	}
	return Predicate{
		Attr: a,
		Min:  clampInt64(math.Ceil(min * scale)),
		Max:  clampInt64(math.Floor(max * scale)),
	}
}

func clampInt64(f float64) int64 {
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

// Span returns the inclusive range of bucketed key values the predicate
// touches, clamped to the values observed in the corpus. ok=false means no
// indexed value can match, so the caller may short-circuit to an empty
// result without touching the index.
func (b Buckets) Span(p Predicate, c *Corpus) (lo, hi int64, ok bool) {
	seenMin, seenMax, seen := c.Bounds(p.Attr)
	if !seen {
		return 0, 0, false
	}
	nmin, nmax := p.Min, p.Max
	if nmin < seenMin {
		nmin = seenMin
	}
	if nmax > seenMax {
		nmax = seenMax
	}
	if nmin > nmax {
		return 0, 0, false
	}
	w := b.Width(p.Attr)
	return nmin / w, nmax / w, true
}

// NeedsExactFilter reports whether results selected through the bucket
// span of p can overshoot the predicate bounds and therefore require a
// final exact-value filter. Only bucketed attributes with bounds that do
// not align to bucket boundaries can overshoot.
func (b Buckets) NeedsExactFilter(p Predicate) bool {
	w := b.Width(p.Attr)
	if w == 1 {
		return false
	}
	return p.Min%w != 0 || p.Max%w != w-1
}
