package field

import (
	"errors"
	"fmt"
)

// ErrUnsupportedField is the sentinel for errors.Is checks.
var ErrUnsupportedField = errors.New("unsupported field")

// UnsupportedFieldError reports a selector with no mapping in the target.
type UnsupportedFieldError struct {
	Field  string // selector as written by the caller
	Target string // "sql", "sparql" or "tree"
}

func (e *UnsupportedFieldError) Error() string {
	return fmt.Sprintf("unsupported field %q for %s target", e.Field, e.Target)
}

func (e *UnsupportedFieldError) Is(target error) bool {
	return target == ErrUnsupportedField
}
