package query

import (
	"errors"
	"fmt"
)

// ErrInvalidDate is returned when a date parameter is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date parameter")

// Op names the step of the read path that failed.
type Op string

const (
	OpCacheGet Op = "cache_get"
	OpFind     Op = "find"
	OpEncode   Op = "encode"
	OpCacheSet Op = "cache_set"
	OpDecode   Op = "decode"
)

// Error is a cache or store failure while answering a query. No partial
// result accompanies it.
type Error struct {
	Dataset string
	Op      Op
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("query %s: %s: %v", e.Dataset, e.Op, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
