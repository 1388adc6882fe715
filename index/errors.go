package index

import "fmt"

// ErrUnknownAttribute indicates a predicate over an attribute that is not
// indexed.
type ErrUnknownAttribute struct {
	Attribute Attribute
}

func (e *ErrUnknownAttribute) Error() string {
	return fmt.Sprintf("unknown attribute: %q", string(e.Attribute))
}

// ErrInvalidRange indicates a range whose lower bound exceeds its upper
// bound, or a bound that is not a finite number.
type ErrInvalidRange struct {
	Attribute Attribute
	Min       float64
	Max       float64
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range for %q: [%v, %v]", string(e.Attribute), e.Min, e.Max)
}
