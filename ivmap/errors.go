package ivmap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when begin is not strictly less than end.
	ErrInvalidRange = errors.New("ivmap: begin must be less than end")

	// ErrRedundantBoundaryValue is returned when the first transition would carry
	// the baseline value.
	ErrRedundantBoundaryValue = errors.New("ivmap: first transition must differ from the baseline")

	// ErrDuplicateAdjacentValue is returned when the transition preceding begin
	// already carries the value.
	ErrDuplicateAdjacentValue = errors.New("ivmap: consecutive transitions must differ")
)

// LoadError reports the pair a batch load stopped at.
type LoadError struct {
	Index int // position of the pair in the batch
	Key   any
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("ivmap: load pair #%d (key %v): %v", e.Index, e.Key, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
