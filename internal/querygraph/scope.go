package querygraph

import "fmt"

// Scope hands out generated variable names for one compilation.
//
// Counters only ever increase, so names are unique across every query
// built from the same Scope. A Scope is not safe for concurrent use; create
// one per compilation.
type Scope struct {
	resources    int
	placeholders int
}

// NewScope returns a Scope with both counters at zero.
func NewScope() *Scope {
	return &Scope{}
}

// Resource returns the next resource variable for kind, e.g. "?author0".
func (s *Scope) Resource(kind string) string {
	name := fmt.Sprintf("?%s%d", kind, s.resources)
	s.resources++
	return name
}

// Placeholder returns the next filter placeholder, e.g. "?cond_value0".
func (s *Scope) Placeholder() string {
	name := fmt.Sprintf("?cond_value%d", s.placeholders)
	s.placeholders++
	return name
}
