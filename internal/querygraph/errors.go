package querygraph

import (
	"errors"
	"fmt"
)

// ErrUnknownPrefix is the sentinel for errors.Is checks.
var ErrUnknownPrefix = errors.New("unknown namespace prefix")

// UnknownPrefixError reports a property whose namespace prefix is not
// declared on the query.
type UnknownPrefixError struct {
	Property string
}

func (e *UnknownPrefixError) Error() string {
	return fmt.Sprintf("cannot add condition on %q: unknown namespace prefix", e.Property)
}

func (e *UnknownPrefixError) Is(target error) bool {
	return target == ErrUnknownPrefix
}
