package propgo

import (
	"errors"
	"fmt"

	"github.com/propgo/propgo/index"
	"github.com/propgo/propgo/query"
)

var (
	// ErrEmptyDataset indicates a build over zero properties. It is not
	// fatal: both indexes come up empty and every query returns an empty
	// result. Callers that care (e.g. a service refusing to start on a
	// missing dataset) can test for it with errors.Is.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrNilStore is returned when New is called without a property store.
	ErrNilStore = errors.New("property store must not be nil")
)

// ErrUnknownAttribute indicates a filter referencing an attribute that is
// not indexed.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnknownAttribute struct {
	Attribute index.Attribute
	cause     error
}

func (e *ErrUnknownAttribute) Error() string {
	return fmt.Sprintf("unknown attribute: %q", string(e.Attribute))
}

func (e *ErrUnknownAttribute) Unwrap() error { return e.cause }

// ErrInvalidRange indicates a range predicate whose lower bound exceeds its
// upper bound, or whose bounds are not representable for the attribute.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidRange struct {
	Attribute index.Attribute
	Min       float64
	Max       float64
	cause     error
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range for %q: [%v, %v]", string(e.Attribute), e.Min, e.Max)
}

func (e *ErrInvalidRange) Unwrap() error { return e.cause }

// ErrResultMismatch reports that the two index paths returned different id
// sets for the same filter. This is an internal invariant violation (a
// build or intersection bug), never a caller error. OnlyHashSet and
// OnlyPostingList carry the ids exclusive to each path.
type ErrResultMismatch struct {
	OnlyHashSet     []uint32
	OnlyPostingList []uint32
	cause           error
}

func (e *ErrResultMismatch) Error() string {
	return fmt.Sprintf("index paths disagree: %d ids only in hash-set result, %d only in posting-list result",
		len(e.OnlyHashSet), len(e.OnlyPostingList))
}

func (e *ErrResultMismatch) Unwrap() error { return e.cause }

// translateError normalizes errors from subpackages into the package-level
// error types so callers only depend on propgo errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ua *index.ErrUnknownAttribute
	if errors.As(err, &ua) {
		return &ErrUnknownAttribute{Attribute: ua.Attribute, cause: err}
	}
	var ir *index.ErrInvalidRange
	if errors.As(err, &ir) {
		return &ErrInvalidRange{Attribute: ir.Attribute, Min: ir.Min, Max: ir.Max, cause: err}
	}
	var rm *query.ErrResultMismatch
	if errors.As(err, &rm) {
		return &ErrResultMismatch{OnlyHashSet: rm.OnlyHashSet, OnlyPostingList: rm.OnlyPostingList, cause: err}
	}

	return err
}
