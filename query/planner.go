package query

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/propgo/propgo/index"
	"github.com/propgo/propgo/index/hashset"
	"github.com/propgo/propgo/index/posting"
	"github.com/propgo/propgo/property"
)

// Result is the outcome of one query evaluated through both index paths.
// IDs is ascending and identical between the paths; the elapsed times
// cover each index's own query routine exclusively, without predicate
// compilation, result comparison, or record hydration.
type Result struct {
	IDs                []uint32
	Properties         []property.Property
	HashSetElapsed     time.Duration
	PostingListElapsed time.Duration
}

// ErrResultMismatch reports diverging results from the two index paths
// for the same predicates. It carries the ids exclusive to each side.
type ErrResultMismatch struct {
	OnlyHashSet     []uint32
	OnlyPostingList []uint32
}

func (e *ErrResultMismatch) Error() string {
	return fmt.Sprintf("index paths disagree: %d ids only in hash-set result, %d only in posting-list result",
		len(e.OnlyHashSet), len(e.OnlyPostingList))
}

// Planner validates filters, dispatches them to both indexes, and
// reconciles the results. It holds only immutable state and is safe for
// concurrent use.
type Planner struct {
	store *property.Store
	hash  *hashset.Index
	post  *posting.Index
}

// NewPlanner creates a planner over a store and its two indexes. Both
// indexes must have been built from that store with identical bucketing.
func NewPlanner(store *property.Store, hash *hashset.Index, post *posting.Index) *Planner {
	return &Planner{store: store, hash: hash, post: post}
}

// Compile validates a filter and lowers it to normalized predicates.
// Unknown attributes and malformed ranges are rejected here, before
// either index is touched. The empty filter compiles to no predicates,
// the identity query.
func (pl *Planner) Compile(f Filter) ([]index.Predicate, error) {
	preds := make([]index.Predicate, 0, len(f.Conditions)+len(f.Flags))

	// Stable attribute order keeps compiled plans reproducible.
	for _, attr := range index.Attributes {
		cond, ok := f.Conditions[attr]
		if !ok {
			continue
		}
		min, max := cond.bounds()
		if math.IsNaN(min) || math.IsNaN(max) {
			return nil, &index.ErrInvalidRange{Attribute: attr, Min: min, Max: max}
		}
		if min > max {
			return nil, &index.ErrInvalidRange{Attribute: attr, Min: min, Max: max}
		}
		preds = append(preds, index.NormRange(attr, min, max))
	}
	for attr := range f.Conditions {
		if !index.Known(attr) {
			return nil, &index.ErrUnknownAttribute{Attribute: attr}
		}
	}

	for _, attr := range f.Flags {
		if !index.Known(attr) || !attr.IsFlag() {
			return nil, &index.ErrUnknownAttribute{Attribute: attr}
		}
		preds = append(preds, index.Flag(attr))
	}

	return preds, nil
}

// Evaluate runs the filter through both index paths, times each
// exclusively around its query routine, and verifies result equality.
// On divergence it returns ErrResultMismatch instead of picking a side.
func (pl *Planner) Evaluate(f Filter) (*Result, error) {
	preds, err := pl.Compile(f)
	if err != nil {
		return nil, err
	}
	return pl.evaluate(preds)
}

func (pl *Planner) evaluate(preds []index.Predicate) (*Result, error) {
	start := time.Now()
	hashIDs := pl.hash.Query(preds)
	hashElapsed := time.Since(start)

	start = time.Now()
	postIDs := pl.post.Query(preds)
	postElapsed := time.Since(start)

	if !slices.Equal(hashIDs, postIDs) {
		return nil, diff(hashIDs, postIDs)
	}

	props := make([]property.Property, 0, len(postIDs))
	for _, id := range postIDs {
		if p, ok := pl.store.Get(id); ok {
			props = append(props, p)
		}
	}

	return &Result{
		IDs:                postIDs,
		Properties:         props,
		HashSetElapsed:     hashElapsed,
		PostingListElapsed: postElapsed,
	}, nil
}

// diff computes the per-side exclusive ids of a mismatch. A bitmap
// and-not on each side keeps this cheap even for large result sets.
func diff(hashIDs, postIDs []uint32) *ErrResultMismatch {
	hb := roaring.BitmapOf(hashIDs...)
	pb := roaring.BitmapOf(postIDs...)
	return &ErrResultMismatch{
		OnlyHashSet:     roaring.AndNot(hb, pb).ToArray(),
		OnlyPostingList: roaring.AndNot(pb, hb).ToArray(),
	}
}
