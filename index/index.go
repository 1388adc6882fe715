// Package index defines the attribute model shared by the two index
// implementations: attribute names, value normalization, range bucketing,
// and the predicate shape both indexes evaluate.
//
// Attribute values are normalized to int64 units so that every indexable
// key is integral: bedroom counts as-is, bathrooms in half-bath units
// (2.5 baths -> 5), prices in currency units, years as-is, feature flags
// as 0/1. Wide-range attributes (price, year built) are additionally
// bucketed so a range predicate reduces to a small union of discrete keys.
package index

import (
	"strconv"

	"github.com/propgo/propgo/hashtable"
	"github.com/propgo/propgo/property"
)

// Attribute names an indexed projection of a property.
type Attribute string

const (
	AttrBedrooms  Attribute = "bedrooms"
	AttrBathrooms Attribute = "bathrooms"
	AttrPrice     Attribute = "price"
	AttrYearBuilt Attribute = "year_built"
	AttrBasement  Attribute = "has_basement"
	AttrFireplace Attribute = "has_fireplace"
	AttrAttic     Attribute = "has_attic"
	AttrGarage    Attribute = "has_garage"
)

// Attributes lists every indexed attribute in a stable order.
var Attributes = []Attribute{
	AttrBedrooms,
	AttrBathrooms,
	AttrPrice,
	AttrYearBuilt,
	AttrBasement,
	AttrFireplace,
	AttrAttic,
	AttrGarage,
}

// Known reports whether a is an indexed attribute.
func Known(a Attribute) bool {
	switch a {
	case AttrBedrooms, AttrBathrooms, AttrPrice, AttrYearBuilt,
		AttrBasement, AttrFireplace, AttrAttic, AttrGarage:
		return true
	}
	return false
}

// IsFlag reports whether a is a boolean feature flag.
func (a Attribute) IsFlag() bool {
	switch a {
	case AttrBasement, AttrFireplace, AttrAttic, AttrGarage:
		return true
	}
	return false
}

// Bucketed reports whether a is discretized through bucketing rather than
// indexed by its exact normalized value.
func (a Attribute) Bucketed() bool {
	return a == AttrPrice || a == AttrYearBuilt
}

// Norm returns the normalized value of attribute a for property p.
func Norm(a Attribute, p property.Property) int64 {
	switch a {
	case AttrBedrooms:
		return int64(p.Bedrooms)
	case AttrBathrooms:
		return int64(p.Bathrooms*2 + 0.5) // round to half-bath units
	case AttrPrice:
		return p.Price
	case AttrYearBuilt:
		return int64(p.YearBuilt)
	case AttrBasement:
		return boolNorm(p.HasBasement)
	case AttrFireplace:
		return boolNorm(p.HasFireplace)
	case AttrAttic:
		return boolNorm(p.HasAttic)
	case AttrGarage:
		return boolNorm(p.HasGarage)
	}
	return 0
}

func boolNorm(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Buckets holds the bucket widths used to discretize range attributes.
// Both indexes of one engine must share the same Buckets value; bucketing
// is therefore fixed at build time.
type Buckets struct {
	// PriceWidth is the price bucket width in currency units.
	PriceWidth int64
	// YearWidth is the year-built bucket width in years.
	YearWidth int64
}

// DefaultBuckets returns $50k price buckets and decade year buckets.
func DefaultBuckets() Buckets {
	return Buckets{
		PriceWidth: 50_000,
		YearWidth:  10,
	}
}

// Width returns the bucket width for a in normalized units. Discrete
// attributes have width 1: every normalized value is its own key.
func (b Buckets) Width(a Attribute) int64 {
	switch a {
	case AttrPrice:
		return b.PriceWidth
	case AttrYearBuilt:
		return b.YearWidth
	}
	return 1
}

// Key identifies one posting container: an attribute together with a
// bucketed normalized value. Normalized values are non-negative, so plain
// integer division buckets correctly.
type Key struct {
	Attr Attribute
	Val  int64
}

// KeyOf returns the index key for property p under attribute a.
func (b Buckets) KeyOf(a Attribute, p property.Property) Key {
	return Key{Attr: a, Val: Norm(a, p) / b.Width(a)}
}

// String returns the canonical encoding, e.g. "bedrooms=3".
func (k Key) String() string {
	return string(k.Attr) + "=" + strconv.FormatInt(k.Val, 10)
}

// KeyHash is FNV-1a over the canonical key encoding, for use as the
// hashtable hash function.
func KeyHash(k Key) uint32 {
	var buf [40]byte
	b := append(buf[:0], k.Attr...)
	b = append(b, '=')
	b = strconv.AppendInt(b, k.Val, 10)
	return hashtable.HashBytes(b)
}
