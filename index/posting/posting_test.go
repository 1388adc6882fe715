package posting

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propgo/propgo/index"
	"github.com/propgo/propgo/property"
	"github.com/propgo/propgo/testutil"
)

func buildFixture(t *testing.T, props []property.Property) *Index {
	t.Helper()
	store := property.NewStore(props)
	return Build(store.All(), index.DefaultBuckets(), index.NewCorpus(store.All()))
}

func TestBuildInvariant(t *testing.T) {
	rng := testutil.NewRNG(7)
	store := rng.Store(500)
	corpus := index.NewCorpus(store.All())
	ix := Build(store.All(), index.DefaultBuckets(), corpus)

	// Every posting list must be strictly ascending and duplicate-free.
	checked := 0
	for _, a := range index.Attributes {
		min, max, ok := corpus.Bounds(a)
		require.True(t, ok)
		w := index.DefaultBuckets().Width(a)
		for v := min / w; v <= max/w; v++ {
			list := ix.List(index.Key{Attr: a, Val: v})
			for i := 1; i < len(list); i++ {
				require.Less(t, list[i-1], list[i], "list for %s=%d not strictly ascending", a, v)
			}
			checked += len(list)
		}
	}
	assert.Positive(t, checked)
}

func TestQuery(t *testing.T) {
	ix := buildFixture(t, []property.Property{
		{Bedrooms: 2, Price: 150_000, HasGarage: true},
		{Bedrooms: 3, Price: 250_000, HasGarage: true},
		{Bedrooms: 3, Price: 320_000},
		{Bedrooms: 4, Price: 450_000, HasGarage: true},
		{Bedrooms: 2, Price: 550_000},
	})

	t.Run("Equality", func(t *testing.T) {
		got := ix.Query([]index.Predicate{index.Eq(index.AttrBedrooms, 3)})
		assert.Equal(t, []uint32{1, 2}, got)
	})

	t.Run("EmptyPredicatesIsIdentity", func(t *testing.T) {
		got := ix.Query(nil)
		assert.Equal(t, []uint32{0, 1, 2, 3, 4}, got)
	})

	t.Run("AbsentValue", func(t *testing.T) {
		got := ix.Query([]index.Predicate{index.Eq(index.AttrBedrooms, 7)})
		assert.Empty(t, got)
	})

	t.Run("Conjunction", func(t *testing.T) {
		got := ix.Query([]index.Predicate{
			index.Eq(index.AttrBedrooms, 3),
			index.Flag(index.AttrGarage),
		})
		assert.Equal(t, []uint32{1}, got)
	})

	t.Run("ConjunctionNoOverlap", func(t *testing.T) {
		got := ix.Query([]index.Predicate{
			index.Eq(index.AttrBedrooms, 4),
			index.Eq(index.AttrPrice, 150_000),
		})
		assert.Empty(t, got)
	})

	t.Run("RangeWithExactFilter", func(t *testing.T) {
		got := ix.Query([]index.Predicate{
			{Attr: index.AttrPrice, Min: 200_000, Max: 300_000},
		})
		assert.Equal(t, []uint32{1}, got)
	})

	t.Run("SoleSharedListIsNotMutated", func(t *testing.T) {
		// A single predicate resolving to one stored list followed by an
		// in-place exact filter must not edit index state.
		before := slices.Clone(ix.List(index.Key{Attr: index.AttrPrice, Val: 6}))
		require.NotEmpty(t, before)

		ix.Query([]index.Predicate{
			{Attr: index.AttrPrice, Min: 300_000, Max: 310_000},
		})

		assert.Equal(t, before, ix.List(index.Key{Attr: index.AttrPrice, Val: 6}))
	})
}

func TestQueryEmptyIndex(t *testing.T) {
	ix := buildFixture(t, nil)

	assert.Empty(t, ix.Query(nil))
	assert.Empty(t, ix.Query([]index.Predicate{index.Eq(index.AttrBedrooms, 3)}))
}

func TestQueryMatchesBruteForce(t *testing.T) {
	rng := testutil.NewRNG(42)
	store := rng.Store(2000)
	ix := Build(store.All(), index.DefaultBuckets(), index.NewCorpus(store.All()))

	preds := []index.Predicate{
		index.Eq(index.AttrBedrooms, 3),
		{Attr: index.AttrPrice, Min: 200_000, Max: 600_000},
		index.Flag(index.AttrGarage),
	}
	want := testutil.ExactMatch(store.All(), func(p property.Property) bool {
		return p.Bedrooms == 3 && p.Price >= 200_000 && p.Price <= 600_000 && p.HasGarage
	})

	got := ix.Query(preds)
	assert.Equal(t, want, got)
}

func TestIntersectTwo(t *testing.T) {
	tests := []struct {
		name string
		a, b []uint32
		want []uint32
	}{
		{"Overlap", []uint32{1, 3, 5, 7}, []uint32{3, 4, 5, 8}, []uint32{3, 5}},
		{"Disjoint", []uint32{1, 2}, []uint32{3, 4}, []uint32{}},
		{"Subset", []uint32{2, 4}, []uint32{1, 2, 3, 4, 5}, []uint32{2, 4}},
		{"EmptyLeft", nil, []uint32{1}, []uint32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, intersectTwo(tt.a, tt.b))
		})
	}
}

func TestUnionTwo(t *testing.T) {
	got := unionTwo([]uint32{1, 3, 5}, []uint32{2, 3, 6})
	assert.Equal(t, []uint32{1, 2, 3, 5, 6}, got)

	got = unionTwo([]uint32{1, 2}, nil)
	assert.Equal(t, []uint32{1, 2}, got)
}

func TestUnionK(t *testing.T) {
	t.Run("ThreeLists", func(t *testing.T) {
		got := unionK([][]uint32{
			{1, 4, 9},
			{2, 4, 8},
			{3, 4, 9, 10},
		})
		assert.Equal(t, []uint32{1, 2, 3, 4, 8, 9, 10}, got)
	})

	t.Run("MatchesPairwise", func(t *testing.T) {
		lists := [][]uint32{
			{0, 5, 10, 15},
			{1, 5, 11},
			{2, 5, 10},
			{3, 15},
		}
		want := lists[0]
		for _, l := range lists[1:] {
			want = unionTwo(want, l)
		}
		assert.Equal(t, want, unionK(lists))
	})
}

func BenchmarkQuery(b *testing.B) {
	rng := testutil.NewRNG(1)
	store := rng.Store(50_000)
	ix := Build(store.All(), index.DefaultBuckets(), index.NewCorpus(store.All()))
	preds := []index.Predicate{
		index.Eq(index.AttrBedrooms, 3),
		{Attr: index.AttrPrice, Min: 200_000, Max: 600_000},
		index.Flag(index.AttrGarage),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Query(preds)
	}
}
