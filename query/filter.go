// Package query plans and evaluates conjunctive filters against both
// index structures, timing each path independently and verifying that the
// two result sets are identical.
package query

import (
	"math"

	"github.com/propgo/propgo/index"
)

// Condition constrains one attribute: either an exact value or an
// inclusive {Min, Max} range. Nil bounds are unbounded on that side.
type Condition struct {
	Equals *float64
	Min    *float64
	Max    *float64
}

// Equals matches the exact value v.
func Equals(v float64) Condition {
	return Condition{Equals: &v}
}

// Between matches values in [min, max], both ends inclusive.
func Between(min, max float64) Condition {
	return Condition{Min: &min, Max: &max}
}

// AtLeast matches values >= v.
func AtLeast(v float64) Condition {
	return Condition{Min: &v}
}

// AtMost matches values <= v.
func AtMost(v float64) Condition {
	return Condition{Max: &v}
}

// Filter is one structured query: attribute conditions combined with
// required boolean feature flags, all conjunctive. The zero Filter
// matches every property.
type Filter struct {
	Conditions map[index.Attribute]Condition
	Flags      []index.Attribute
}

// bounds resolves the condition to inclusive float bounds.
func (c Condition) bounds() (min, max float64) {
	if c.Equals != nil {
		return *c.Equals, *c.Equals
	}
	min, max = math.Inf(-1), math.Inf(1)
	if c.Min != nil {
		min = *c.Min
	}
	if c.Max != nil {
		max = *c.Max
	}
	return min, max
}
