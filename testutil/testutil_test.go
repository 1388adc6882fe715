package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propgo/propgo/property"
)

func TestRNGDeterminism(t *testing.T) {
	a := NewRNG(42).Properties(50)
	b := NewRNG(42).Properties(50)
	assert.Equal(t, a, b)

	rng := NewRNG(42)
	first := rng.Properties(50)
	rng.Reset()
	assert.Equal(t, first, rng.Properties(50))
}

func TestPropertiesAreRealistic(t *testing.T) {
	props := NewRNG(1).Properties(200)
	require.Len(t, props, 200)

	for _, p := range props {
		assert.GreaterOrEqual(t, p.Bedrooms, 1)
		assert.LessOrEqual(t, p.Bedrooms, 6)
		assert.GreaterOrEqual(t, p.Price, int64(50_000))
		assert.GreaterOrEqual(t, p.YearBuilt, 1900)
	}
}

func TestExactMatch(t *testing.T) {
	store := property.NewStore([]property.Property{
		{Bedrooms: 2}, {Bedrooms: 3}, {Bedrooms: 3},
	})

	got := ExactMatch(store.All(), func(p property.Property) bool {
		return p.Bedrooms == 3
	})
	assert.Equal(t, []uint32{1, 2}, got)

	assert.Nil(t, ExactMatch(store.All(), func(property.Property) bool { return false }))
}
