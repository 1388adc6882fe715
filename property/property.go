// Package property defines the immutable property record and the ordered
// store both indexes are built from.
package property

// Property is a single real-estate record. Records are immutable once
// loaded; the ID is the record's position in the store and is assigned at
// load time, never by the caller.
type Property struct {
	ID        uint32  `json:"id"`
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms float64 `json:"bathrooms"` // half-bath granularity (2.5, 3.0, ...)
	Price     int64   `json:"price"`
	YearBuilt int     `json:"year_built"`

	// Latitude/Longitude are carried for downstream map rendering only;
	// they are never indexed.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	HasBasement  bool `json:"has_basement"`
	HasFireplace bool `json:"has_fireplace"`
	HasAttic     bool `json:"has_attic"`
	HasGarage    bool `json:"has_garage"`
}

// Store is an ordered, immutable collection of properties. The id of a
// property equals its insertion position, so the full id range is [0, Len).
type Store struct {
	props []Property
}

// NewStore creates a store from the given records. The input is copied and
// every record's ID is overwritten with its position, so callers cannot
// influence id assignment.
func NewStore(props []Property) *Store {
	cp := make([]Property, len(props))
	copy(cp, props)
	for i := range cp {
		cp[i].ID = uint32(i)
	}
	return &Store{props: cp}
}

// Len returns the number of properties.
func (s *Store) Len() int {
	return len(s.props)
}

// Get returns the property with the given id.
func (s *Store) Get(id uint32) (Property, bool) {
	if int(id) >= len(s.props) {
		return Property{}, false
	}
	return s.props[id], true
}

// All returns the backing record slice in id order. The slice is shared;
// callers must treat it as read-only.
func (s *Store) All() []Property {
	return s.props
}
