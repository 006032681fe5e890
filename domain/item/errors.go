package item

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("item not found")
	ErrInvalidData  = errors.New("invalid item data")
	ErrIdsExhausted = errors.New("item ids exhausted")
)

func NewNotFoundError(id int32) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// ValidationError lists every field that failed a schema rule.
type ValidationError struct {
	Label  string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Label, strings.Join(e.Fields, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidData
}
