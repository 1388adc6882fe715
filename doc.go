// Package propgo provides an embedded dual-index search engine for
// real-estate property records.
//
// Propgo indexes a fixed, fully loaded dataset through two independently
// built inverted-index structures and answers every conjunctive filter
// query through both of them, so that the two approaches can be compared
// empirically on identical inputs:
//
//   - a hash-set index: attribute value -> unordered id set, backed by a
//     from-scratch open-addressing hash table
//   - a posting-list index: attribute value -> sorted id list, queried
//     with linear merge-intersections
//
// Both paths must agree on every query; a disagreement is surfaced as an
// ErrResultMismatch rather than silently resolved.
//
// # Quick Start
//
//	store := property.NewStore(props)
//	eng, _ := propgo.New(store)
//
//	res, err := eng.Query(ctx, query.Filter{
//	    Conditions: map[index.Attribute]query.Condition{
//	        index.AttrBedrooms: query.Equals(3),
//	        index.AttrPrice:    query.Between(200_000, 400_000),
//	    },
//	    Flags: []index.Attribute{index.AttrGarage},
//	})
//	fmt.Println(res.IDs, res.HashSetElapsed, res.PostingListElapsed)
//
// Indexes are built once at construction and immutable afterwards, so any
// number of queries may run concurrently without locking.
package propgo
