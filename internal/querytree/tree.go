// Package querytree compiles filter trees into predicate trees evaluated
// directly against in-memory books.
//
// All comparisons are case-insensitive: values are folded to NFC lower
// case at compile time and book fields at evaluation time. A comparison on
// a multi-valued field (authors, tags, languages, identifiers, format)
// holds when any element matches; its negation holds when no element does.
package querytree

import (
	"strings"
)

// Predicate is a compiled condition over a book.
//
// This is a sealed interface - only All, Any, Not, Equal, NotEqual, In and
// Like implement it.
type Predicate interface {
	treePredicate() // Marker method - seals interface to this package
	String() string
}

// All holds when every child holds. An empty All is true.
type All struct {
	Children []Predicate
}

// Any holds when at least one child holds. An empty Any is false.
type Any struct {
	Children []Predicate
}

// Not inverts its child.
type Not struct {
	Child Predicate
}

// Equal holds when the field has an element equal to Value.
type Equal struct {
	Field string
	Value string
}

// NotEqual holds when no element of the field equals Value.
type NotEqual struct {
	Field string
	Value string
}

// In holds when the field has an element equal to one of Values.
type In struct {
	Field  string
	Values []string
}

// Like holds when the field has an element containing Pattern.
type Like struct {
	Field   string
	Pattern string
}

func (All) treePredicate()      {}
func (Any) treePredicate()      {}
func (Not) treePredicate()      {}
func (Equal) treePredicate()    {}
func (NotEqual) treePredicate() {}
func (In) treePredicate()       {}
func (Like) treePredicate()     {}

func (p All) String() string { return joinPredicates("all", p.Children) }
func (p Any) String() string { return joinPredicates("any", p.Children) }
func (p Not) String() string { return "not(" + p.Child.String() + ")" }

func (p Equal) String() string    { return "lower(" + p.Field + ") = " + quote(p.Value) }
func (p NotEqual) String() string { return "lower(" + p.Field + ") != " + quote(p.Value) }
func (p Like) String() string     { return "lower(" + p.Field + ") like " + quote("%"+p.Pattern+"%") }

func (p In) String() string {
	quoted := make([]string, len(p.Values))
	for i, v := range p.Values {
		quoted[i] = quote(v)
	}
	return "lower(" + p.Field + ") in (" + strings.Join(quoted, ", ") + ")"
}

func joinPredicates(name string, children []Predicate) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
